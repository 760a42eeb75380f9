// Package sensorpb defines the thp.sensor.v1.SensorService gRPC service.
//
// Requests and responses are google.protobuf.Struct values so clients in any
// language can talk to the service without a compiled schema.
package sensorpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "thp.sensor.v1.SensorService"

const (
	SensorService_PostReading_FullMethodName   = "/thp.sensor.v1.SensorService/PostReading"
	SensorService_ListReadings_FullMethodName  = "/thp.sensor.v1.SensorService/ListReadings"
	SensorService_GetReading_FullMethodName    = "/thp.sensor.v1.SensorService/GetReading"
	SensorService_DeleteReading_FullMethodName = "/thp.sensor.v1.SensorService/DeleteReading"
	SensorService_PostLimiter_FullMethodName   = "/thp.sensor.v1.SensorService/PostLimiter"
)

type SensorServiceClient interface {
	PostReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListReadings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PostLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type sensorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSensorServiceClient(cc grpc.ClientConnInterface) SensorServiceClient {
	return &sensorServiceClient{cc}
}

func (c *sensorServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sensorServiceClient) PostReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SensorService_PostReading_FullMethodName, in, opts...)
}

func (c *sensorServiceClient) ListReadings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SensorService_ListReadings_FullMethodName, in, opts...)
}

func (c *sensorServiceClient) GetReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SensorService_GetReading_FullMethodName, in, opts...)
}

func (c *sensorServiceClient) DeleteReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SensorService_DeleteReading_FullMethodName, in, opts...)
}

func (c *sensorServiceClient) PostLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SensorService_PostLimiter_FullMethodName, in, opts...)
}

// SensorServiceServer is the server API for SensorService.
// Implementations must embed UnimplementedSensorServiceServer.
type SensorServiceServer interface {
	PostReading(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListReadings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReading(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteReading(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PostLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedSensorServiceServer()
}

type UnimplementedSensorServiceServer struct{}

func (UnimplementedSensorServiceServer) PostReading(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PostReading not implemented")
}
func (UnimplementedSensorServiceServer) ListReadings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListReadings not implemented")
}
func (UnimplementedSensorServiceServer) GetReading(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetReading not implemented")
}
func (UnimplementedSensorServiceServer) DeleteReading(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteReading not implemented")
}
func (UnimplementedSensorServiceServer) PostLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PostLimiter not implemented")
}
func (UnimplementedSensorServiceServer) mustEmbedUnimplementedSensorServiceServer() {}

func RegisterSensorServiceServer(s grpc.ServiceRegistrar, srv SensorServiceServer) {
	s.RegisterService(&SensorService_ServiceDesc, srv)
}

type unaryMethod func(SensorServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SensorServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SensorServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SensorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SensorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PostReading",
			Handler:    unaryHandler(SensorService_PostReading_FullMethodName, SensorServiceServer.PostReading),
		},
		{
			MethodName: "ListReadings",
			Handler:    unaryHandler(SensorService_ListReadings_FullMethodName, SensorServiceServer.ListReadings),
		},
		{
			MethodName: "GetReading",
			Handler:    unaryHandler(SensorService_GetReading_FullMethodName, SensorServiceServer.GetReading),
		},
		{
			MethodName: "DeleteReading",
			Handler:    unaryHandler(SensorService_DeleteReading_FullMethodName, SensorServiceServer.DeleteReading),
		},
		{
			MethodName: "PostLimiter",
			Handler:    unaryHandler(SensorService_PostLimiter_FullMethodName, SensorServiceServer.PostLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sensor_service.go",
}
