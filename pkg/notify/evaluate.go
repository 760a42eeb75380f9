package notify

import (
	"strings"
	"time"

	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/threshold"
)

type metricRule struct {
	metric models.Metric
	label  string
	unit   string
	value  func(*models.Reading) float64
	limit  func(threshold.Config) float64
}

// rules is ordered; breach lines come out in this order.
var rules = []metricRule{
	{
		metric: models.MetricTemperature,
		label:  "Temperature",
		unit:   "°C",
		value:  func(r *models.Reading) float64 { return r.TemperatureCelsius },
		limit:  func(c threshold.Config) float64 { return c.TemperatureCelsius },
	},
	{
		metric: models.MetricHumidity,
		label:  "Humidity",
		unit:   "%",
		value:  func(r *models.Reading) float64 { return r.HumidityPercent },
		limit:  func(c threshold.Config) float64 { return c.HumidityPercent },
	},
	{
		metric: models.MetricPressure,
		label:  "Pressure",
		unit:   "hPa",
		value:  func(r *models.Reading) float64 { return r.PressureHpa },
		limit:  func(c threshold.Config) float64 { return c.PressureHpa },
	},
}

// Evaluator decides whether a reading warrants a notification. It holds no
// mutable state and may be shared by any number of goroutines.
type Evaluator struct {
	loc *time.Location
}

func NewEvaluator(loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{loc: loc}
}

// Evaluate returns false when no value is strictly above its limit.
func (e *Evaluator) Evaluate(reading *models.Reading, limits threshold.Config) (models.BreachMessage, bool) {
	var lines []string
	var breaches []models.Metric

	for _, rule := range rules {
		limit := rule.limit(limits)
		if rule.value(reading) > limit {
			breaches = append(breaches, rule.metric)
			lines = append(lines, rule.label+" above "+formatNumber(limit)+rule.unit+".")
		}
	}

	if len(breaches) == 0 {
		return models.BreachMessage{}, false
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString("Time: " + FormatTimestamp(reading.Timestamp, e.loc) + "\n")
	b.WriteString("Location: " + reading.Location + "\n")
	b.WriteString("Temp: " + formatNumber(reading.TemperatureCelsius) + "°C\n")
	b.WriteString("Humidity: " + formatNumber(reading.HumidityPercent) + "%\n")
	b.WriteString("Pressure: " + formatNumber(reading.PressureHpa) + "hPa")

	return models.BreachMessage{
		ReadingID: reading.ID,
		Breaches:  breaches,
		Body:      b.String(),
	}, true
}
