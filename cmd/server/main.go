package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/config"
	"liyu1981.xyz/thp-sensor-service/pkg/db"
	thpGrpc "liyu1981.xyz/thp-sensor-service/pkg/grpc"
	thpHttp "liyu1981.xyz/thp-sensor-service/pkg/http"
	"liyu1981.xyz/thp-sensor-service/pkg/notify"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor"
	"liyu1981.xyz/thp-sensor-service/pkg/simulator"
	"liyu1981.xyz/thp-sensor-service/pkg/threshold"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && common.IsDevelopment() {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		log.Fatal(err)
	}

	limits, err := threshold.Load(os.LookupEnv)
	if err != nil {
		log.Fatal(err)
	}

	channelCfg, err := notify.LoadChannelConfig(os.LookupEnv)
	if err != nil {
		log.Fatal(err)
	}

	channel, err := notify.NewChannel(channelCfg)
	if err != nil {
		log.Fatal(err)
	}
	if twilioChannel, ok := channel.(*notify.TwilioChannel); ok {
		if err := twilioChannel.Verify(3, time.Second); err != nil {
			log.Fatalf("Twilio credentials rejected: %v", err)
		}
	}

	loc, err := notify.LoadLocation(cfg.NotifyTimezone)
	if err != nil {
		log.Fatal(err)
	}

	var dbInstance *db.DB
	switch cfg.DBType {
	case config.DBTypeFile:
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case config.DBTypeMemory:
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	case config.DBTypeMysql:
		dbInstance = db.GetInstance(db.UseMysqlDialector(cfg.DBDSN))
	}

	logger := common.GetLogger()
	defer common.SyncLogger()

	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Channel:   channel,
		Recipient: channelCfg.Recipient,
		Sender:    channelCfg.Sender,
	})
	notifier := notify.NewNotifier(limits, notify.NewEvaluator(loc), dispatcher)

	sensorCore := sensor.Sensor{
		Db: *dbInstance,
	}
	sensorCore.WithServices(sensor.ServiceOpts{
		Reading:  sensorCore.GetIReading(),
		Notifier: notifier,
	})

	logger.Info("Thresholds loaded",
		zap.Float64("temperature_celsius", limits.TemperatureCelsius),
		zap.Float64("humidity_percent", limits.HumidityPercent),
		zap.Float64("pressure_hpa", limits.PressureHpa),
		zap.String("channel", channelCfg.Kind),
		zap.String("timezone", loc.String()),
	)

	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst))

	var grpcServer *grpc.Server
	if cfg.GRPCHostPort != "" {
		grpcServer = thpGrpc.NewServer(&thpGrpc.SensorServer{
			Sensor:           &sensorCore,
			RateLimiterStore: sensor.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst),
		})
		logger.Info("gRPC server created with:", defaultLimiter)

		listener, err := net.Listen("tcp", cfg.GRPCHostPort)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}

		go func() {
			logger.Info("start gRPC server on " + cfg.GRPCHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	sim := simulator.New(sensorCore.Reading)
	if err := sim.Start(cfg.SimulatorSchedule); err != nil {
		log.Fatal(err)
	}

	rs := &thpHttp.RestfulServer{
		Server:           gin.Default(),
		Sensor:           &sensorCore,
		RateLimiterStore: sensor.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst),
	}
	rs.Setup()
	logger.Info("http server created with:", defaultLimiter)

	httpServer := &http.Server{
		Addr:    cfg.HTTPHostPort,
		Handler: rs.Server,
	}
	go func() {
		logger.Info("Starting HTTP server on: " + cfg.HTTPHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sim.Stop(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	// in-flight notifications still get their single attempt
	dispatcher.Wait()
	stats := dispatcher.Stats()
	logger.Info("Notifications drained",
		zap.Uint64("dispatched", stats.Dispatched),
		zap.Uint64("sent", stats.Sent),
		zap.Uint64("failed", stats.Failed),
	)
}
