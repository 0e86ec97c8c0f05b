package fmnlib

import (
	"time"

	"github.com/adhocore/gronx"
)

// NextFire computes when s fires next. created is the task's creation
// time, ref the instant of evaluation and last the previous firing, zero if
// the task never fired. ok is false once s is exhausted.
func NextFire(s Schedule, created, ref, last time.Time) (next time.Time, ok bool) {
	fired := !last.IsZero()
	switch v := s.(type) {
	case After:
		if fired {
			return time.Time{}, false
		}
		return created.Add(v.Duration), true
	case Per:
		if fired {
			return last.Add(v.Interval), true
		}
		return created.Add(v.Interval), true
	case At:
		if fired && !v.RepeatDaily {
			return time.Time{}, false
		}
		next = v.TimeOfDay.onOrAfter(ref)
		for fired && !next.After(last) {
			next = v.TimeOfDay.nextDay(next)
		}
		return next, true
	case Cron:
		from := ref
		if last.After(from) {
			from = last
		}
		tick, err := gronx.NextTickAfter(v.Expr, from, false)
		if err != nil {
			return time.Time{}, false
		}
		return tick, true
	}
	return time.Time{}, false
}
