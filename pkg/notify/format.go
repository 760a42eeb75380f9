package notify

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata" // time zone lookups must not depend on the host image
)

const (
	// TimestampLayout renders e.g. 2024/03/09 07:05:00PM.
	TimestampLayout = "2006/01/02 03:04:05PM"

	DefaultTimezone = "Asia/Manila"
)

func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// FormatTimestamp converts ts into loc and renders it with a zero padded
// 12-hour clock and no space before AM/PM.
func FormatTimestamp(ts time.Time, loc *time.Location) string {
	return ts.In(loc).Format(TimestampLayout)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
