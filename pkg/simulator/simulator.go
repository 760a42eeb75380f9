// Package simulator produces synthetic readings on a cron schedule so the
// notification path can be exercised without hardware.
package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/metrics"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor"
)

const locationCount = 3

type Simulator struct {
	reading sensor.IReading

	mu   sync.Mutex
	rand *rand.Rand
	cron *cron.Cron
}

type Option func(*Simulator)

// WithRand fixes the random source, mostly for tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rand = r
	}
}

func New(reading sensor.IReading, opts ...Option) *Simulator {
	s := &Simulator{
		reading: reading,
		rand:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameSimulator,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySimulatorRun))
}

// Generate returns an unsaved reading: Location1..Location3, 20 to 35 °C,
// whole percent humidity 0 to 99 and whole hPa pressure 970 to 1019.
func (s *Simulator) Generate() *models.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &models.Reading{
		Timestamp:          time.Now(),
		Location:           fmt.Sprintf("Location%d", s.rand.IntN(locationCount)+1),
		TemperatureCelsius: s.rand.Float64()*15 + 20,
		HumidityPercent:    float64(s.rand.IntN(100)),
		PressureHpa:        float64(s.rand.IntN(50) + 970),
	}
}

// Tick generates one reading and stores it, which also runs the threshold
// check. Failures are logged and the next tick proceeds as usual.
func (s *Simulator) Tick() {
	reading, err := s.reading.CreateReading(metrics.SourceSimulator, s.Generate())
	if err != nil {
		logger().Error("Error inserting simulated reading", zap.Error(err))
		return
	}
	logger().Info("Simulated reading inserted", zap.String("reading_id", reading.ID))
}

// Start schedules Tick with a standard five field cron expression (or a
// descriptor such as @every 1m). An empty schedule leaves the simulator off.
func (s *Simulator) Start(schedule string) error {
	if schedule == "" {
		logger().Info("Simulator disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("simulator already started")
	}

	cronLogger := cron.PrintfLogger(zap.NewStdLog(common.GetLoggerWith(common.LoggerNameSimulator)))
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(schedule, s.Tick); err != nil {
		return fmt.Errorf("invalid simulator schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	logger().Info("Simulator started", zap.String("schedule", schedule))
	return nil
}

func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Stop halts scheduling and waits for a running tick to finish or ctx to end.
func (s *Simulator) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}
