// Package threshold loads the per-metric upper limits that drive
// notifications. A Config is built once at startup and never changes.
package threshold

import (
	"errors"
	"fmt"
	"math"
	"strings"

	z "github.com/Oudwins/zog"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
)

// Config holds the upper limits. A reading breaches a limit only when it is
// strictly greater than it.
type Config struct {
	TemperatureCelsius float64 `json:"temperatureCelsius"`
	HumidityPercent    float64 `json:"humidityPercent"`
	PressureHpa        float64 `json:"pressureHpa"`
}

var ErrInvalidThresholds = errors.New("invalid threshold configuration")

var configSchema = z.Struct(z.Shape{
	"TemperatureCelsius": z.Float64().Required(z.Message("Temperature must be a number.")),
	"HumidityPercent":    z.Float64().Required(z.Message("Humidity Percent must be a number.")),
	"PressureHpa":        z.Float64().Required(z.Message("Pressure hPa must be a number.")),
})

var envKeys = map[string]string{
	"TemperatureCelsius": common.EnvKeyTempThreshold,
	"HumidityPercent":    common.EnvKeyHumidityThreshold,
	"PressureHpa":        common.EnvKeyPressureThreshold,
}

// Load reads TEMP_THRESHOLD, HUMIDITY_THRESHOLD and PRESSURE_THRESHOLD. Every
// limit must be present and numeric.
func Load(lookup common.LookupFunc) (Config, error) {
	raw := map[string]any{}
	for field, key := range envKeys {
		if v, ok := lookup(key); ok && v != "" {
			// offered under both spellings zog may resolve the shape key to
			raw[field] = v
			raw[strings.ToLower(field[:1])+field[1:]] = v
		}
	}

	var cfg Config
	if issues := configSchema.Parse(raw, &cfg); issues != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidThresholds, issues)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects NaN and infinities, which parse as floats but can never be
// compared meaningfully.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		common.EnvKeyTempThreshold:     c.TemperatureCelsius,
		common.EnvKeyHumidityThreshold: c.HumidityPercent,
		common.EnvKeyPressureThreshold: c.PressureHpa,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidThresholds, name)
		}
	}
	return nil
}
