package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
)

// IsOpen reports whether a store accepts orders at the given instant.
//
// With the schedule disabled the manual live flag decides. With the schedule
// enabled but incomplete (no days or missing window bounds) the store is
// closed until the owner finishes configuring it. Otherwise the store is open
// when the local weekday is scheduled and the local clock sits inside
// [start, end).
func IsOpen(s *models.StoreSettings, now time.Time, defaultTZ string) bool {
	if s == nil {
		return false
	}
	if !s.ScheduleEnabled {
		return s.IsLive
	}

	if len(s.ScheduleDays) == 0 || s.ScheduleStartTime == nil || s.ScheduleEndTime == nil {
		return false
	}

	startMin, err := parseClock(*s.ScheduleStartTime)
	if err != nil {
		return false
	}
	endMin, err := parseClock(*s.ScheduleEndTime)
	if err != nil {
		return false
	}

	local := now.In(scheduleLocation(s.ScheduleTimezone, defaultTZ))

	weekday := int64(local.Weekday())
	dayScheduled := false
	for _, d := range s.ScheduleDays {
		if d == weekday {
			dayScheduled = true
			break
		}
	}
	if !dayScheduled {
		return false
	}

	nowMin := local.Hour()*60 + local.Minute()
	return startMin <= nowMin && nowMin < endMin
}

func scheduleLocation(tz, fallback string) *time.Location {
	for _, name := range []string{tz, fallback} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// parseClock converts an "HH:MM" string to minutes since midnight.
func parseClock(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}
