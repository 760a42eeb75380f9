package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor"
)

type RestfulServer struct {
	Server           *gin.Engine
	Sensor           *sensor.Sensor
	RateLimiterStore *sensor.RateLimiterStore
}

func (rs *RestfulServer) CheckLimiter(key string) bool {
	return rs.RateLimiterStore.Allow(key)
}

func (rs *RestfulServer) SetLimiter(key string, keyRate float64, keyBurst int) bool {
	if rs.RateLimiterStore == nil {
		return false
	}
	rs.RateLimiterStore.SetLimiter(key, rate.Limit(keyRate), keyBurst)
	return true
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		common.GetLoggerWith(common.LoggerNameRestfulServer).Info("Handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (rs *RestfulServer) Setup() {
	rs.Server.Use(RequestLogger())

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := rs.Server.Group("/api")
	{
		readings := api.Group("/sensor")
		readings.POST("", rs.PostReading)
		readings.GET("", rs.ListReadings)
		readings.GET("/:id", rs.GetReading)
		readings.PUT("/:id", rs.UpdateReading)
		readings.DELETE("/:id", rs.DeleteReading)

		api.POST("/limiter/:key", rs.PostLimiter)
	}

	rs.Server.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
	})
}
