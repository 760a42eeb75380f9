package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reading is one persisted sensor measurement. Once stored it is treated as
// read-only by the notification code.
type Reading struct {
	ID                 string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Timestamp          time.Time `gorm:"index" json:"timestamp"`
	Location           string    `gorm:"type:varchar(255);not null" json:"location"`
	TemperatureCelsius float64   `json:"temperatureCelsius"`
	HumidityPercent    float64   `json:"humidityPercent"`
	PressureHpa        float64   `json:"pressureHpa"`
}

func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return nil
}

type Metric string

const (
	MetricTemperature Metric = "temperature"
	MetricHumidity    Metric = "humidity"
	MetricPressure    Metric = "pressure"
)

// BreachMessage lives only until it is handed to the messaging channel.
type BreachMessage struct {
	ReadingID string
	Breaches  []Metric
	Body      string
}

// DeliveryReceipt is what a messaging channel hands back for an accepted send.
type DeliveryReceipt struct {
	ConfirmationToken string
}
