package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	e := NewEvaluator(time.UTC)

	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "daily range", schedule: "09:00-17:00", wantErr: false},
		{name: "daily range wrapping midnight", schedule: "22:00-06:00", wantErr: false},
		{name: "single digit hour", schedule: "9:00-17:30", wantErr: false},
		{name: "cron every weekday morning", schedule: "0 9 * * 1-5", wantErr: false},
		{name: "cron every hour", schedule: "0 * * * *", wantErr: false},
		{name: "garbage", schedule: "not-a-schedule", wantErr: true},
		{name: "bad minute", schedule: "09:60-17:00", wantErr: true},
		{name: "bad hour", schedule: "24:00-17:00", wantErr: true},
		{name: "six field cron", schedule: "0 0 9 * * 1", wantErr: true},
		{name: "empty", schedule: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Parse(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsWithinDailyRange(t *testing.T) {
	e := NewEvaluator(time.UTC)
	day := func(hh, mm int) time.Time {
		return time.Date(2024, 3, 14, hh, mm, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		schedule string
		now      time.Time
		want     bool
	}{
		{name: "inside business hours", schedule: "09:00-17:00", now: day(10, 0), want: true},
		{name: "before window opens", schedule: "09:00-17:00", now: day(8, 59), want: false},
		{name: "start is inclusive", schedule: "09:00-17:00", now: day(9, 0), want: true},
		{name: "end is exclusive", schedule: "09:00-17:00", now: day(17, 0), want: false},
		{name: "evening outside", schedule: "09:00-17:00", now: day(20, 0), want: false},
		{name: "overnight late evening", schedule: "22:00-06:00", now: day(23, 30), want: true},
		{name: "overnight early morning", schedule: "22:00-06:00", now: day(2, 0), want: true},
		{name: "overnight midday outside", schedule: "22:00-06:00", now: day(12, 0), want: false},
		{name: "zero length never inside", schedule: "09:00-09:00", now: day(9, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.IsWithin(tt.schedule, 0, tt.now))
		})
	}
}

func TestIsWithinDailyRangeTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	e := NewEvaluator(tokyo)

	// 01:00 UTC is 10:00 JST
	now := time.Date(2024, 3, 14, 1, 0, 0, 0, time.UTC)
	assert.True(t, e.IsWithin("09:00-17:00", 0, now))

	// 10:00 UTC is 19:00 JST
	now = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)
	assert.False(t, e.IsWithin("09:00-17:00", 0, now))
}

func TestIsWithinCron(t *testing.T) {
	e := NewEvaluator(time.UTC)
	day := func(hh, mm int) time.Time {
		return time.Date(2024, 3, 14, hh, mm, 0, 0, time.UTC) // a Thursday
	}

	tests := []struct {
		name     string
		schedule string
		duration time.Duration
		now      time.Time
		want     bool
	}{
		{name: "inside open window", schedule: "0 9 * * *", duration: 2 * time.Hour, now: day(10, 0), want: true},
		{name: "at activation", schedule: "0 9 * * *", duration: 2 * time.Hour, now: day(9, 0), want: true},
		{name: "after window closed", schedule: "0 9 * * *", duration: 2 * time.Hour, now: day(11, 30), want: false},
		{name: "before activation", schedule: "0 9 * * *", duration: 2 * time.Hour, now: day(8, 59), want: false},
		{name: "zero duration never inside", schedule: "0 9 * * *", duration: 0, now: day(9, 0), want: false},
		{name: "weekday filter matches thursday", schedule: "0 9 * * 4", duration: time.Hour, now: day(9, 30), want: true},
		{name: "weekday filter excludes thursday", schedule: "0 9 * * 1", duration: time.Hour, now: day(9, 30), want: false},
		{name: "malformed evaluates false", schedule: "bogus", duration: time.Hour, now: day(9, 30), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.IsWithin(tt.schedule, tt.duration, tt.now))
		})
	}
}
