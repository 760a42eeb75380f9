package grpc

import (
	"google.golang.org/grpc"
	"liyu1981.xyz/thp-sensor-service/pkg/grpc/sensorpb"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor"
)

type SensorServer struct {
	Sensor           *sensor.Sensor
	RateLimiterStore *sensor.RateLimiterStore
	sensorpb.UnimplementedSensorServiceServer
}

func (s *SensorServer) CheckLimiter(key string) bool {
	return s.RateLimiterStore.Allow(key)
}

// RateLimitedMethods are the methods guarded by the rate limit interceptor.
var RateLimitedMethods = []string{
	sensorpb.SensorService_PostReading_FullMethodName,
	sensorpb.SensorService_ListReadings_FullMethodName,
	sensorpb.SensorService_GetReading_FullMethodName,
	sensorpb.SensorService_DeleteReading_FullMethodName,
}

// NewServer builds a grpc.Server with the sensor service registered behind
// the rate limit and panic recovery interceptors.
func NewServer(s *SensorServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		s.CreateRecoveryInterceptor(),
		s.CreateRateLimitInterceptor(RateLimitedMethods),
	))
	server := grpc.NewServer(opts...)
	sensorpb.RegisterSensorServiceServer(server, s)
	return server
}
