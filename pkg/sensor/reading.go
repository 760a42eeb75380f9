package sensor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/metrics"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
)

func readingLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameReadingCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReading),
	)
}

func (s *Sensor) createReading(source string, input *models.Reading) (*models.Reading, error) {
	logger := readingLogger()

	reading := models.Reading{
		Timestamp:          input.Timestamp,
		Location:           input.Location,
		TemperatureCelsius: input.TemperatureCelsius,
		HumidityPercent:    input.HumidityPercent,
		PressureHpa:        input.PressureHpa,
	}

	if err := s.Db.Conn.Create(&reading).Error; err != nil {
		return nil, fmt.Errorf("insert reading: %w", err)
	}

	metrics.ReadingsIngestedTotal.WithLabelValues(source).Inc()
	logger.Info("Stored reading", zap.String("source", source), zap.Reflect("reading", reading))

	if s.Notifier == nil {
		// the reading is stored either way, only the notification is skipped
		logger.Warn("Notifier not available, skipping threshold check", zap.String("reading_id", reading.ID))
		return &reading, nil
	}

	stored := reading
	s.Notifier.CheckAndNotify(&stored)
	return &reading, nil
}

func (s *Sensor) listReadings(page, limit int) ([]models.Reading, error) {
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("page and limit must be positive, got page=%d limit=%d", page, limit)
	}

	var readings []models.Reading
	err := s.Db.Conn.
		Order("timestamp desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

func (s *Sensor) getReading(id string) (*models.Reading, error) {
	var reading models.Reading
	err := s.Db.Conn.First(&reading, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// updateReading rewrites the measured fields. Thresholds are not evaluated
// again, notifications belong to ingestion only.
func (s *Sensor) updateReading(id string, input *models.Reading) (*models.Reading, error) {
	reading, err := s.getReading(id)
	if err != nil {
		return nil, err
	}

	reading.Location = input.Location
	reading.TemperatureCelsius = input.TemperatureCelsius
	reading.HumidityPercent = input.HumidityPercent
	reading.PressureHpa = input.PressureHpa
	if !input.Timestamp.IsZero() {
		reading.Timestamp = input.Timestamp
	}

	if err := s.Db.Conn.Save(reading).Error; err != nil {
		return nil, fmt.Errorf("update reading %s: %w", id, err)
	}

	readingLogger().Info("Updated reading", zap.Reflect("reading", reading))
	return reading, nil
}

func (s *Sensor) deleteReading(id string) error {
	result := s.Db.Conn.Delete(&models.Reading{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete reading %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReadingNotFound
	}

	readingLogger().Info("Deleted reading", zap.String("reading_id", id))
	return nil
}

type IReadingImpl struct {
	sensor *Sensor
}

func (ir *IReadingImpl) CreateReading(source string, input *models.Reading) (*models.Reading, error) {
	return ir.sensor.createReading(source, input)
}

func (ir *IReadingImpl) ListReadings(page, limit int) ([]models.Reading, error) {
	return ir.sensor.listReadings(page, limit)
}

func (ir *IReadingImpl) GetReading(id string) (*models.Reading, error) {
	return ir.sensor.getReading(id)
}

func (ir *IReadingImpl) UpdateReading(id string, input *models.Reading) (*models.Reading, error) {
	return ir.sensor.updateReading(id, input)
}

func (ir *IReadingImpl) DeleteReading(id string) error {
	return ir.sensor.deleteReading(id)
}

func (s *Sensor) GetIReading() IReading {
	return &IReadingImpl{sensor: s}
}
