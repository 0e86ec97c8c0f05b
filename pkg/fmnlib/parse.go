package fmnlib

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationRe = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

var durationUnits = []struct {
	d      time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
}

// ParseDuration parses durations such as "1d2h30m" or "45s": any subset of
// the d, h, m and s units in that order. Anything else is handed to
// time.ParseDuration, so "1.5h" and "1h30m0s" work too. The result must be
// positive.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, validationErr("empty duration")
	}
	var d time.Duration
	if m := durationRe.FindStringSubmatch(s); m != nil {
		for i, u := range durationUnits {
			if m[i+1] == "" {
				continue
			}
			n, err := strconv.ParseInt(m[i+1], 10, 64)
			if err != nil || n > int64(math.MaxInt64/u.d) {
				return 0, validationErr("duration %q is too large", s)
			}
			add := time.Duration(n) * u.d
			if d > math.MaxInt64-add {
				return 0, validationErr("duration %q is too large", s)
			}
			d += add
		}
	} else {
		var err error
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, validationErr("invalid duration %q, expected e.g. 1d2h30m or 45s", s)
		}
	}
	if d <= 0 {
		return 0, validationErr("duration %q must be positive", s)
	}
	return d, nil
}

// FormatDuration renders d in the compact form ParseDuration reads, e.g.
// "1d2h30m". Durations with a sub-second part fall back to d.String().
func FormatDuration(d time.Duration) string {
	if d <= 0 || d%time.Second != 0 {
		return d.String()
	}
	var b strings.Builder
	for _, u := range durationUnits {
		if q := d / u.d; q > 0 {
			fmt.Fprintf(&b, "%d%s", q, u.suffix)
			d -= q * u.d
		}
	}
	return b.String()
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" on a 24-hour clock.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, validationErr("invalid time %q, expected HH:MM", s)
	}
	var v [3]int
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return TimeOfDay{}, validationErr("invalid time %q, expected HH:MM", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return TimeOfDay{}, validationErr("invalid time %q, expected HH:MM", s)
		}
		v[i] = n
	}
	t := TimeOfDay{Hour: v[0], Minute: v[1], Second: v[2]}
	if err := t.validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}
