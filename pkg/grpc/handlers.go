package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/metrics"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor"
)

const maxPageLimit = 100

type readingRequest struct {
	Location           string
	TemperatureCelsius float64
	HumidityPercent    float64
	PressureHpa        float64
}

var readingRequestSchema = z.Struct(z.Shape{
	"location":           z.String().Trim().Min(1).Required(),
	"temperatureCelsius": z.Float64().Required(),
	"humidityPercent":    z.Float64().Required(),
	"pressureHpa":        z.Float64().Required(),
})

type paginationRequest struct {
	Page  int
	Limit int
}

var paginationRequestSchema = z.Struct(z.Shape{
	"page":  z.Int().Default(1).GT(0),
	"limit": z.Int().Default(10).GT(0).LTE(maxPageLimit),
})

type idRequest struct {
	Id string
}

var idRequestSchema = z.Struct(z.Shape{
	"id": z.String().Trim().Min(1).Required(),
})

type limiterRequest struct {
	Key   string
	Rate  float64
	Burst int
}

var limiterRequestSchema = z.Struct(z.Shape{
	"key":   z.String().Min(1).Required(),
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func readingToMap(r *models.Reading) map[string]any {
	return map[string]any{
		"id":                 r.ID,
		"timestamp":          r.Timestamp.UTC().Format(time.RFC3339Nano),
		"location":           r.Location,
		"temperatureCelsius": r.TemperatureCelsius,
		"humidityPercent":    r.HumidityPercent,
		"pressureHpa":        r.PressureHpa,
	}
}

func respond(success bool, message string, payload map[string]any) (*structpb.Struct, error) {
	fields := map[string]any{
		"success": success,
		"message": message,
	}
	for k, v := range payload {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

func fail(message string) (*structpb.Struct, error) {
	return respond(false, message, nil)
}

func validationError(issues any) (*structpb.Struct, error) {
	return fail(fmt.Sprintf("validation error: %v", issues))
}

func readingError(err error) (*structpb.Struct, error) {
	if errors.Is(err, sensor.ErrReadingNotFound) {
		return fail("Reading not found.")
	}
	return fail(err.Error())
}

func (s *SensorServer) PostReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var r readingRequest
	if issues := readingRequestSchema.Parse(req.AsMap(), &r); issues != nil {
		return validationError(issues)
	}

	reading, err := s.Sensor.Reading.CreateReading(metrics.SourceGRPC, &models.Reading{
		Location:           r.Location,
		TemperatureCelsius: r.TemperatureCelsius,
		HumidityPercent:    r.HumidityPercent,
		PressureHpa:        r.PressureHpa,
	})
	if err != nil {
		return fail(err.Error())
	}

	return respond(true, "OK", map[string]any{"reading": readingToMap(reading)})
}

func (s *SensorServer) ListReadings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var p paginationRequest
	if issues := paginationRequestSchema.Parse(req.AsMap(), &p); issues != nil {
		return validationError(issues)
	}

	readings, err := s.Sensor.Reading.ListReadings(p.Page, p.Limit)
	if err != nil {
		return fail(err.Error())
	}

	return respond(true, "OK", map[string]any{
		"readings": common.Mapper(readings, func(r models.Reading) any {
			return readingToMap(&r)
		}),
	})
}

func (s *SensorServer) GetReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var r idRequest
	if issues := idRequestSchema.Parse(req.AsMap(), &r); issues != nil {
		return validationError(issues)
	}

	reading, err := s.Sensor.Reading.GetReading(r.Id)
	if err != nil {
		return readingError(err)
	}

	return respond(true, "OK", map[string]any{"reading": readingToMap(reading)})
}

func (s *SensorServer) DeleteReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var r idRequest
	if issues := idRequestSchema.Parse(req.AsMap(), &r); issues != nil {
		return validationError(issues)
	}

	if err := s.Sensor.Reading.DeleteReading(r.Id); err != nil {
		return readingError(err)
	}

	return respond(true, "OK", nil)
}

func (s *SensorServer) PostLimiter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var l limiterRequest
	if issues := limiterRequestSchema.Parse(req.AsMap(), &l); issues != nil {
		return validationError(issues)
	}

	if s.RateLimiterStore == nil {
		return fail("RateLimiterStore is not used. No effect.")
	}

	s.RateLimiterStore.SetLimiter(l.Key, rate.Limit(l.Rate), l.Burst)
	return respond(true, "OK", nil)
}
