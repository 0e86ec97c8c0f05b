package fmnlib

import (
	"testing"
	"time"
)

func at(h, m, s int) time.Time {
	return time.Date(2026, time.March, 1, h, m, s, 0, time.UTC)
}

func TestNextFire_After(t *testing.T) {
	created := at(10, 0, 0)
	s := After{Duration: 5 * time.Minute}

	next, ok := NextFire(s, created, created, time.Time{})
	if !ok || !next.Equal(created.Add(5*time.Minute)) {
		t.Fatalf("expected %v, got %v (ok=%v)", created.Add(5*time.Minute), next, ok)
	}
	// the reference time does not matter before the first firing
	next, ok = NextFire(s, created, created.Add(time.Hour), time.Time{})
	if !ok || !next.Equal(created.Add(5*time.Minute)) {
		t.Fatalf("expected fire time anchored at creation, got %v", next)
	}
	if _, ok := NextFire(s, created, next, next); ok {
		t.Fatal("expected After to be exhausted after firing")
	}
}

func TestNextFire_PerProgression(t *testing.T) {
	created := at(10, 0, 0)
	task := &Task{Schedule: Per{Interval: time.Hour}, CreatedAt: created}
	next, ok := NextFire(task.Schedule, created, created, time.Time{})
	if !ok {
		t.Fatal("expected Per to fire")
	}
	task.NextFireAt = next

	var fires []time.Time
	for i := 0; i < 5; i++ {
		fireAt := task.NextFireAt
		fires = append(fires, fireAt)
		if !task.Fire(fireAt) {
			t.Fatal("Per must never be exhausted")
		}
	}
	for i, f := range fires {
		want := created.Add(time.Duration(i+1) * time.Hour)
		if !f.Equal(want) {
			t.Errorf("fire %d at %v, want %v", i, f, want)
		}
	}
}

func TestNextFire_AtSameDay(t *testing.T) {
	ref := at(19, 0, 0)
	s := At{TimeOfDay: TimeOfDay{Hour: 19, Minute: 30}}

	next, ok := NextFire(s, ref, ref, time.Time{})
	if !ok || !next.Equal(at(19, 30, 0)) {
		t.Fatalf("expected 19:30 same day, got %v", next)
	}
	if _, ok := NextFire(s, ref, next, next); ok {
		t.Fatal("expected one-shot At to be exhausted after firing")
	}
}

func TestNextFire_AtPassedRollsToTomorrow(t *testing.T) {
	ref := at(20, 0, 0)
	s := At{TimeOfDay: TimeOfDay{Hour: 19, Minute: 30}}

	next, _ := NextFire(s, ref, ref, time.Time{})
	want := at(19, 30, 0).AddDate(0, 0, 1)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestNextFire_AtEqualCountsAsToday(t *testing.T) {
	s := At{TimeOfDay: TimeOfDay{Hour: 19, Minute: 30}}

	ref := at(19, 30, 0)
	next, _ := NextFire(s, ref, ref, time.Time{})
	if !next.Equal(ref) {
		t.Fatalf("expected %v, got %v", ref, next)
	}

	// same minute, later second: still today, fires right away
	ref = at(19, 30, 20)
	next, _ = NextFire(s, ref, ref, time.Time{})
	if !next.Equal(ref) {
		t.Fatalf("expected %v, got %v", ref, next)
	}

	// seconds given explicitly are compared at second precision
	s = At{TimeOfDay: TimeOfDay{Hour: 19, Minute: 30, Second: 10}}
	next, _ = NextFire(s, ref, ref, time.Time{})
	if want := at(19, 30, 10).AddDate(0, 0, 1); !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestNextFire_AtDaily(t *testing.T) {
	created := at(7, 0, 0)
	task := &Task{
		Schedule:  At{TimeOfDay: TimeOfDay{Hour: 8}, RepeatDaily: true},
		CreatedAt: created,
	}
	task.NextFireAt, _ = NextFire(task.Schedule, created, created, time.Time{})

	for i := 0; i < 3; i++ {
		want := at(8, 0, 0).AddDate(0, 0, i)
		if !task.NextFireAt.Equal(want) {
			t.Fatalf("fire %d: expected %v, got %v", i, want, task.NextFireAt)
		}
		// the scheduler may wake a little late
		if !task.Fire(task.NextFireAt.Add(150 * time.Millisecond)) {
			t.Fatal("daily At must never be exhausted")
		}
	}
}

func TestNextFire_AtDailyKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	s := At{TimeOfDay: TimeOfDay{Hour: 9}, RepeatDaily: true}
	// DST starts on 2026-03-08 in New York.
	fired := time.Date(2026, time.March, 7, 9, 0, 0, 0, loc)
	next, _ := NextFire(s, fired, fired, fired)
	want := time.Date(2026, time.March, 8, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
	if d := next.Sub(fired); d != 23*time.Hour {
		t.Fatalf("expected a 23h gap across the DST change, got %v", d)
	}
}

func TestNextFire_Cron(t *testing.T) {
	s := Cron{Expr: "*/15 * * * *"}
	ref := at(10, 7, 0)

	next, ok := NextFire(s, ref, ref, time.Time{})
	if !ok || !next.Equal(at(10, 15, 0)) {
		t.Fatalf("expected 10:15, got %v (ok=%v)", next, ok)
	}
	next, ok = NextFire(s, ref, next, next)
	if !ok || !next.Equal(at(10, 30, 0)) {
		t.Fatalf("expected 10:30, got %v (ok=%v)", next, ok)
	}
}

func TestNextFire_Nil(t *testing.T) {
	if _, ok := NextFire(nil, at(0, 0, 0), at(0, 0, 0), time.Time{}); ok {
		t.Fatal("expected nil schedule to be exhausted")
	}
}
