package settings

import (
	"testing"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

// istInstant builds a UTC instant that corresponds to the given local wall
// clock in Asia/Kolkata.
func istInstant(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return time.Date(year, month, day, hour, min, 0, 0, loc).UTC()
}

func TestIsOpen_ScheduleDisabledUsesLiveFlag(t *testing.T) {
	now := time.Now()

	assert.True(t, IsOpen(&models.StoreSettings{IsLive: true}, now, "Asia/Kolkata"))
	assert.False(t, IsOpen(&models.StoreSettings{IsLive: false}, now, "Asia/Kolkata"))
}

func TestIsOpen_IncompleteScheduleIsClosed(t *testing.T) {
	now := time.Now()

	cases := []*models.StoreSettings{
		{ScheduleEnabled: true, IsLive: true},
		{ScheduleEnabled: true, IsLive: true, ScheduleDays: pq.Int64Array{1}},
		{ScheduleEnabled: true, IsLive: true, ScheduleDays: pq.Int64Array{1}, ScheduleStartTime: strPtr("09:00")},
		{ScheduleEnabled: true, IsLive: true, ScheduleDays: pq.Int64Array{1}, ScheduleStartTime: strPtr("garbled"), ScheduleEndTime: strPtr("18:00")},
	}
	for i, s := range cases {
		assert.False(t, IsOpen(s, now, "Asia/Kolkata"), "case %d", i)
	}
}

func TestIsOpen_WindowBoundaries(t *testing.T) {
	// 2026-08-24 is a Monday (weekday 1).
	s := &models.StoreSettings{
		ScheduleEnabled:   true,
		ScheduleDays:      pq.Int64Array{1},
		ScheduleStartTime: strPtr("09:00"),
		ScheduleEndTime:   strPtr("18:00"),
	}

	assert.False(t, IsOpen(s, istInstant(t, 2026, time.August, 24, 8, 59), ""), "before opening")
	assert.True(t, IsOpen(s, istInstant(t, 2026, time.August, 24, 9, 0), ""), "start is inclusive")
	assert.True(t, IsOpen(s, istInstant(t, 2026, time.August, 24, 17, 59), ""), "last minute inside window")
	assert.False(t, IsOpen(s, istInstant(t, 2026, time.August, 24, 18, 0), ""), "end is exclusive")
}

func TestIsOpen_WeekdayCheck(t *testing.T) {
	s := &models.StoreSettings{
		ScheduleEnabled:   true,
		ScheduleDays:      pq.Int64Array{1, 3, 5},
		ScheduleStartTime: strPtr("00:00"),
		ScheduleEndTime:   strPtr("23:59"),
	}

	// Sunday (0) is not scheduled, Monday (1) is.
	assert.False(t, IsOpen(s, istInstant(t, 2026, time.August, 23, 12, 0), ""))
	assert.True(t, IsOpen(s, istInstant(t, 2026, time.August, 24, 12, 0), ""))
}

func TestIsOpen_TimezoneShiftsWeekday(t *testing.T) {
	// Open Mondays only. 2026-08-24 01:00 IST is still Sunday in UTC, so the
	// configured timezone must decide.
	s := &models.StoreSettings{
		ScheduleEnabled:   true,
		ScheduleDays:      pq.Int64Array{1},
		ScheduleStartTime: strPtr("00:00"),
		ScheduleEndTime:   strPtr("23:59"),
		ScheduleTimezone:  "Asia/Kolkata",
	}

	instant := istInstant(t, 2026, time.August, 24, 1, 0)
	assert.Equal(t, time.Sunday, instant.UTC().Weekday())
	assert.True(t, IsOpen(s, instant, "UTC"))
}

func TestIsOpen_FallbackTimezone(t *testing.T) {
	s := &models.StoreSettings{
		ScheduleEnabled:   true,
		ScheduleDays:      pq.Int64Array{1},
		ScheduleStartTime: strPtr("00:00"),
		ScheduleEndTime:   strPtr("23:59"),
		ScheduleTimezone:  "Not/AZone",
	}

	// Falls back to the default timezone when the configured one is invalid.
	assert.True(t, IsOpen(s, istInstant(t, 2026, time.August, 24, 12, 0), "Asia/Kolkata"))
}

func TestParseClock(t *testing.T) {
	for _, bad := range []string{"", "9", "25:00", "09:60", "ab:cd", "09-30"} {
		if _, err := parseClock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}

	got, err := parseClock("09:30")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	if got != 9*60+30 {
		t.Fatalf("expected 570 minutes, got %d", got)
	}
}
