// Package config reads the service settings that are not thresholds or
// channel credentials: storage, listeners, limiter defaults, simulator
// schedule and the notification time zone.
package config

import (
	"errors"
	"fmt"
	"strings"

	z "github.com/Oudwins/zog"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/notify"
)

const (
	DBTypeFile   = "file"
	DBTypeMemory = "memory"
	DBTypeMysql  = "mysql"

	DefaultHTTPHostPort      = ":1080"
	DefaultSimulatorSchedule = "* * * * *"
)

var ErrInvalidConfig = errors.New("invalid service configuration")

type Config struct {
	DBType       string
	DBDSN        string
	HTTPHostPort string
	// GRPCHostPort is empty when the gRPC server is disabled.
	GRPCHostPort string
	DefaultRate  float64
	DefaultBurst int
	// SimulatorSchedule is a cron expression, empty disables the simulator.
	SimulatorSchedule string
	NotifyTimezone    string
}

var limiterSchema = z.Struct(z.Shape{
	"defaultRate":  z.Float64().GTE(0, z.Message("THP_DEFAULT_RATE must be a non negative number.")).Required(z.Message("THP_DEFAULT_RATE is required.")),
	"defaultBurst": z.Int().GTE(0, z.Message("THP_DEFAULT_BURST must be a non negative integer.")).Required(z.Message("THP_DEFAULT_BURST is required.")),
})

type limiterSettings struct {
	DefaultRate  float64
	DefaultBurst int
}

func get(lookup common.LookupFunc, key string) string {
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

// Load builds a Config from the environment. The simulator schedule falls
// back to every minute only when the key is absent, so setting it empty turns
// the simulator off.
func Load(lookup common.LookupFunc) (Config, error) {
	cfg := Config{
		DBType:         get(lookup, common.EnvKeyTHPDBType),
		DBDSN:          get(lookup, common.EnvKeyTHPDbDSN),
		HTTPHostPort:   get(lookup, common.EnvKeyTHPHttpHostPort),
		GRPCHostPort:   get(lookup, common.EnvKeyTHPGrpcHostPort),
		NotifyTimezone: get(lookup, common.EnvKeyNotifyTimezone),
	}

	switch cfg.DBType {
	case DBTypeFile, DBTypeMemory:
	case DBTypeMysql:
		if cfg.DBDSN == "" {
			return Config{}, fmt.Errorf("%w: %s is required when %s is %s",
				ErrInvalidConfig, common.EnvKeyTHPDbDSN, common.EnvKeyTHPDBType, DBTypeMysql)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, common.EnvKeyTHPDBType, cfg.DBType)
	}

	if cfg.HTTPHostPort == "" {
		cfg.HTTPHostPort = DefaultHTTPHostPort
	}

	var limiter limiterSettings
	raw := map[string]any{}
	if v := get(lookup, common.EnvKeyTHPDefaultRate); v != "" {
		raw["defaultRate"] = v
	}
	if v := get(lookup, common.EnvKeyTHPDefaultBurst); v != "" {
		raw["defaultBurst"] = v
	}
	if issues := limiterSchema.Parse(raw, &limiter); issues != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, issues)
	}
	cfg.DefaultRate = limiter.DefaultRate
	cfg.DefaultBurst = limiter.DefaultBurst

	if schedule, ok := lookup(common.EnvKeyTHPSimulatorSchedule); ok {
		cfg.SimulatorSchedule = strings.TrimSpace(schedule)
	} else {
		cfg.SimulatorSchedule = DefaultSimulatorSchedule
	}

	if cfg.NotifyTimezone == "" {
		cfg.NotifyTimezone = notify.DefaultTimezone
	}
	if _, err := notify.LoadLocation(cfg.NotifyTimezone); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}
