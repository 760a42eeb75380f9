package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/thp-sensor-service/pkg/metrics"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

const maxPageLimit = 100

type ReadingRequest struct {
	Location           string  `json:"location"`
	TemperatureCelsius float64 `json:"temperatureCelsius"`
	HumidityPercent    float64 `json:"humidityPercent"`
	PressureHpa        float64 `json:"pressureHpa"`
}

var readingRequestSchema = z.Struct(z.Shape{
	"location": z.String().Trim().
		Min(1, z.Message("Location must not be empty.")).
		Required(z.Message("Location is required.")),
	"temperatureCelsius": z.Float64().Required(z.Message("Temperature celsius is required.")),
	"humidityPercent":    z.Float64().Required(z.Message("Humidity percent is required.")),
	"pressureHpa":        z.Float64().Required(z.Message("Pressure HPA is required.")),
})

func (r ReadingRequest) toModel() *models.Reading {
	return &models.Reading{
		Location:           r.Location,
		TemperatureCelsius: r.TemperatureCelsius,
		HumidityPercent:    r.HumidityPercent,
		PressureHpa:        r.PressureHpa,
	}
}

type PaginationRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

var paginationRequestSchema = z.Struct(z.Shape{
	"page": z.Int().Default(1).
		GT(0, z.Message("Page must be a valid number.")),
	"limit": z.Int().Default(10).
		GT(0, z.Message("Limit must be a valid number.")).
		LTE(maxPageLimit, z.Message("Limit must not exceed 100.")),
})

// PostReading answers 201 once the reading is stored. Threshold checks and
// notifications happen after that and never change the response.
func (rs *RestfulServer) PostReading(c *gin.Context) {
	var req ReadingRequest
	if err := readingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckLimiter(req.Location) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	reading, err := rs.Sensor.Reading.CreateReading(metrics.SourceHTTP, req.toModel())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

func (rs *RestfulServer) ListReadings(c *gin.Context) {
	if !rs.CheckLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req PaginationRequest
	if err := paginationRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	readings, err := rs.Sensor.Reading.ListReadings(req.Page, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if readings == nil {
		readings = []models.Reading{}
	}

	c.JSON(http.StatusOK, readings)
}

func (rs *RestfulServer) GetReading(c *gin.Context) {
	if !rs.CheckLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	reading, err := rs.Sensor.Reading.GetReading(c.Param("id"))
	if err != nil {
		respondReadingError(c, err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

func (rs *RestfulServer) UpdateReading(c *gin.Context) {
	var req ReadingRequest
	if err := readingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckLimiter(req.Location) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	reading, err := rs.Sensor.Reading.UpdateReading(c.Param("id"), req.toModel())
	if err != nil {
		respondReadingError(c, err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

func (rs *RestfulServer) DeleteReading(c *gin.Context) {
	if !rs.CheckLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	if err := rs.Sensor.Reading.DeleteReading(c.Param("id")); err != nil {
		respondReadingError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondReadingError(c *gin.Context, err error) {
	if errors.Is(err, sensor.ErrReadingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Reading not found."})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	key := c.Param("key")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.SetLimiter(key, req.Rate, req.Burst) {
		c.JSON(http.StatusOK, gin.H{"message": "RateLimiterStore is not used. No effect."})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
