package sensor

import (
	"errors"

	"liyu1981.xyz/thp-sensor-service/pkg/db"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
)

//go:generate mockgen -source=sensor.go -destination=mocks/mock_sensor.go -package=mocks

var ErrReadingNotFound = errors.New("reading not found")

type IReading interface {
	CreateReading(source string, input *models.Reading) (*models.Reading, error)
	ListReadings(page, limit int) ([]models.Reading, error)
	GetReading(id string) (*models.Reading, error)
	UpdateReading(id string, input *models.Reading) (*models.Reading, error)
	DeleteReading(id string) error
}

// INotifier is called with every freshly stored reading and must return
// without waiting on any outbound delivery.
type INotifier interface {
	CheckAndNotify(reading *models.Reading)
}

type Sensor struct {
	Db       db.DB
	Reading  IReading
	Notifier INotifier
}

type ServiceOpts struct {
	Reading  IReading
	Notifier INotifier
}

func (s *Sensor) WithServices(opts ServiceOpts) *Sensor {
	if opts.Reading != nil {
		s.Reading = opts.Reading
	}
	if opts.Notifier != nil {
		s.Notifier = opts.Notifier
	}
	return s
}
