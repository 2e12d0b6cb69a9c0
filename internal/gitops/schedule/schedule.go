// Package schedule evaluates sync-window schedules. Two dialects are
// supported: fixed daily ranges ("HH:MM-HH:MM") recurring every calendar day,
// and standard 5-field cron expressions paired with a duration.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

var dailyRangeRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)-([01]?\d|2[0-3]):([0-5]\d)$`)

// Evaluator answers "is time T inside window W" for a reference timezone.
// Evaluation is total and side-effect-free; malformed schedules are caught by
// Parse at configuration time and simply evaluate to false here.
type Evaluator struct {
	loc *time.Location
}

// NewEvaluator returns an evaluator using loc as the reference timezone.
// A nil loc defaults to UTC.
func NewEvaluator(loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{loc: loc}
}

// Location returns the evaluator's reference timezone
func (e *Evaluator) Location() *time.Location {
	return e.loc
}

// Parse validates a schedule string against both dialects. It is called at
// configuration time so that IsWithin never has to report errors.
func (e *Evaluator) Parse(schedule string) error {
	if dailyRangeRe.MatchString(schedule) {
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("schedule %q is neither a daily range (HH:MM-HH:MM) nor a cron expression: %w", schedule, err)
	}
	return nil
}

// IsDailyRange reports whether the schedule uses the daily-range dialect
func IsDailyRange(schedule string) bool {
	return dailyRangeRe.MatchString(schedule)
}

// IsWithin reports whether now falls inside the window described by schedule.
// For the daily-range dialect duration is ignored; a range whose end is before
// its start wraps past midnight. For the cron dialect the window opens at each
// match and stays open for duration; a zero duration window is never entered.
func (e *Evaluator) IsWithin(schedule string, duration time.Duration, now time.Time) bool {
	if m := dailyRangeRe.FindStringSubmatch(schedule); m != nil {
		return e.withinDailyRange(m, now)
	}
	return e.withinCron(schedule, duration, now)
}

func (e *Evaluator) withinDailyRange(m []string, now time.Time) bool {
	startH, _ := strconv.Atoi(m[1])
	startM, _ := strconv.Atoi(m[2])
	endH, _ := strconv.Atoi(m[3])
	endM, _ := strconv.Atoi(m[4])

	start := startH*60 + startM
	end := endH*60 + endM

	local := now.In(e.loc)
	minute := local.Hour()*60 + local.Minute()

	switch {
	case start == end:
		// zero-length range, never inside
		return false
	case start < end:
		return minute >= start && minute < end
	default:
		// wraps midnight, spans two days
		return minute >= start || minute < end
	}
}

func (e *Evaluator) withinCron(schedule string, duration time.Duration, now time.Time) bool {
	if duration <= 0 {
		return false
	}
	spec, err := cron.ParseStandard(schedule)
	if err != nil {
		return false
	}
	// The window containing now, if any, opened after now-duration. Next is
	// exclusive of its argument, so an activation exactly at now-duration has
	// already closed.
	next := spec.Next(now.In(e.loc).Add(-duration))
	return !next.After(now.In(e.loc))
}
