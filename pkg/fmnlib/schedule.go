package fmnlib

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// Kind is the tag of a Schedule variant.
type Kind string

const (
	KindAfter Kind = "after"
	KindPer   Kind = "per"
	KindAt    Kind = "at"
	KindCron  Kind = "cron"
)

// Schedule is the recurrence rule of a task. The set of implementations is
// closed: After, Per, At and Cron.
type Schedule interface {
	Kind() Kind
	String() string
	schedule()
}

// After fires once, Duration after the task was created.
type After struct {
	Duration time.Duration
}

// Per fires every Interval, the first time Interval after creation.
type Per struct {
	Interval time.Duration
}

// At fires at the next occurrence of TimeOfDay. With RepeatDaily it keeps
// firing at that wall-clock time every day.
type At struct {
	TimeOfDay   TimeOfDay
	RepeatDaily bool
}

// Cron fires on every tick of a 5-field cron expression.
type Cron struct {
	Expr string
}

func (After) Kind() Kind { return KindAfter }
func (Per) Kind() Kind   { return KindPer }
func (At) Kind() Kind    { return KindAt }
func (Cron) Kind() Kind  { return KindCron }

func (After) schedule() {}
func (Per) schedule()   {}
func (At) schedule()    {}
func (Cron) schedule()  {}

func (a After) String() string { return "after " + FormatDuration(a.Duration) }
func (p Per) String() string   { return "every " + FormatDuration(p.Interval) }
func (c Cron) String() string  { return "cron " + c.Expr }

func (a At) String() string {
	s := "at " + a.TimeOfDay.String()
	if a.RepeatDaily {
		s += " (daily)"
	}
	return s
}

// Validate reports whether s is well formed.
func Validate(s Schedule) error {
	switch v := s.(type) {
	case nil:
		return validationErr("missing schedule")
	case After:
		if v.Duration <= 0 {
			return validationErr("duration must be positive, got %s", v.Duration)
		}
	case Per:
		if v.Interval <= 0 {
			return validationErr("interval must be positive, got %s", v.Interval)
		}
	case At:
		return v.TimeOfDay.validate()
	case Cron:
		return validateCron(v.Expr)
	default:
		return validationErr("unknown schedule %T", s)
	}
	return nil
}

// validateCron enforces exactly 5 fields; gronx also accepts a 6-field
// form with seconds.
func validateCron(expr string) error {
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return validationErr("invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	return nil
}

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return validationErr("time of day out of range: %02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return nil
}

// precision is the unit the user wrote the time in.
func (t TimeOfDay) precision() time.Duration {
	if t.Second != 0 {
		return time.Second
	}
	return time.Minute
}

// on returns t on the calendar day of day, in day's location.
func (t TimeOfDay) on(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, day.Location())
}

// nextDay returns t on the calendar day after at. Calendar arithmetic keeps
// the wall-clock time across DST changes.
func (t TimeOfDay) nextDay(at time.Time) time.Time {
	y, m, d := at.Date()
	return time.Date(y, m, d+1, t.Hour, t.Minute, t.Second, 0, at.Location())
}

// onOrAfter returns the first instant at or after ref whose time of day is
// t. The comparison happens at t's precision: 19:30 asked at 19:30:20 is
// still today and yields ref itself.
func (t TimeOfDay) onOrAfter(ref time.Time) time.Time {
	today := t.on(ref)
	if !today.Before(ref) {
		return today
	}
	if !today.Before(ref.Truncate(t.precision())) {
		return ref
	}
	return t.nextDay(today)
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func timeOfDayFromSeconds(n int) TimeOfDay {
	return TimeOfDay{Hour: n / 3600, Minute: n % 3600 / 60, Second: n % 60}
}

// ScheduleSpec is the textual form of a Schedule as typed by a user and
// carried on the wire. Value holds the duration, the time of day or the
// cron expression depending on Kind.
type ScheduleSpec struct {
	Kind   Kind   `json:"kind"`
	Value  string `json:"value"`
	PerDay bool   `json:"per_day,omitempty"`
}

// Schedule parses and validates the spec.
func (s ScheduleSpec) Schedule() (Schedule, error) {
	if s.PerDay && s.Kind != KindAt {
		return nil, validationErr("per-day only applies to %q schedules", KindAt)
	}
	var sch Schedule
	switch s.Kind {
	case KindAfter:
		d, err := ParseDuration(s.Value)
		if err != nil {
			return nil, err
		}
		sch = After{Duration: d}
	case KindPer:
		d, err := ParseDuration(s.Value)
		if err != nil {
			return nil, err
		}
		sch = Per{Interval: d}
	case KindAt:
		tod, err := ParseTimeOfDay(s.Value)
		if err != nil {
			return nil, err
		}
		sch = At{TimeOfDay: tod, RepeatDaily: s.PerDay}
	case KindCron:
		sch = Cron{Expr: strings.TrimSpace(s.Value)}
	default:
		return nil, validationErr("unknown schedule kind %q", s.Kind)
	}
	if err := Validate(sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// SpecOf returns the spec that parses back to s.
func SpecOf(s Schedule) ScheduleSpec {
	switch v := s.(type) {
	case After:
		return ScheduleSpec{Kind: KindAfter, Value: v.Duration.String()}
	case Per:
		return ScheduleSpec{Kind: KindPer, Value: v.Interval.String()}
	case At:
		return ScheduleSpec{Kind: KindAt, Value: v.TimeOfDay.String(), PerDay: v.RepeatDaily}
	case Cron:
		return ScheduleSpec{Kind: KindCron, Value: v.Expr}
	}
	return ScheduleSpec{}
}
