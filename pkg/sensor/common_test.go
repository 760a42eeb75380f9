package sensor

import (
	"testing"

	"go.uber.org/mock/gomock"

	"liyu1981.xyz/thp-sensor-service/pkg/db"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/sensor/mocks"
)

// GetMockSensorWithMemorySqliteDialector returns a Sensor over an emptied
// shared memory database, with the notifier always mocked.
func GetMockSensorWithMemorySqliteDialector(t *testing.T, useMockIReading bool) (
	*gomock.Controller,
	*Sensor,
	*mocks.MockIReading,
	*mocks.MockINotifier,
) {
	ctrl := gomock.NewController(t)

	mockIReading := mocks.NewMockIReading(ctrl)
	mockINotifier := mocks.NewMockINotifier(ctrl)

	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())
	if err := dbInstance.Conn.Where("1 = 1").Delete(&models.Reading{}).Error; err != nil {
		t.Fatalf("failed to clear readings: %v", err)
	}

	sensorInstance := &Sensor{Db: *dbInstance}

	readingService := sensorInstance.GetIReading()
	if useMockIReading {
		readingService = mockIReading
	}

	sensorInstance.WithServices(ServiceOpts{
		Reading:  readingService,
		Notifier: mockINotifier,
	})

	return ctrl, sensorInstance, mockIReading, mockINotifier
}
