package fmnlib

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	now := at(10, 0, 0)
	task, err := NewTask("drink water", After{Duration: 5 * time.Minute}, &TaskOpts{SoundPath: "/s.ogg"}, now)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected an id")
	}
	if !task.CreatedAt.Equal(now) || !task.NextFireAt.Equal(now.Add(5*time.Minute)) {
		t.Fatalf("unexpected times: created=%v next=%v", task.CreatedAt, task.NextFireAt)
	}
	if task.SoundPath != "/s.ogg" || task.ImagePath != "" {
		t.Fatalf("unexpected paths: %+v", task)
	}
	if !task.LastFireAt.IsZero() {
		t.Fatal("new task must not have fired")
	}

	other, _ := NewTask("drink water", After{Duration: 5 * time.Minute}, nil, now)
	if other.ID == task.ID {
		t.Fatal("expected distinct ids")
	}
}

func TestNewTask_Invalid(t *testing.T) {
	now := at(10, 0, 0)
	cases := []struct {
		msg string
		s   Schedule
	}{
		{"", After{Duration: time.Minute}},
		{"   ", After{Duration: time.Minute}},
		{"x", After{}},
		{"x", Per{Interval: -time.Second}},
		{"x", At{TimeOfDay: TimeOfDay{Hour: 30}}},
		{"x", nil},
	}
	for _, c := range cases {
		if _, err := NewTask(c.msg, c.s, nil, now); !errors.Is(err, ErrValidation) {
			t.Errorf("NewTask(%q, %#v): expected ErrValidation, got %v", c.msg, c.s, err)
		}
	}
}

func TestTaskFire_Exhausts(t *testing.T) {
	now := at(19, 0, 0)
	task, err := NewTask("call mom", At{TimeOfDay: TimeOfDay{Hour: 19, Minute: 30}}, nil, now)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Due(now) {
		t.Fatal("task must not be due before 19:30")
	}
	if !task.Due(at(19, 30, 0)) {
		t.Fatal("task must be due at 19:30")
	}
	if task.Fire(at(19, 30, 0)) {
		t.Fatal("one-shot task must be exhausted after firing")
	}
	if !task.LastFireAt.Equal(at(19, 30, 0)) {
		t.Fatalf("unexpected last fire: %v", task.LastFireAt)
	}
}

func TestTaskJSONRoundTrip(t *testing.T) {
	now := at(9, 0, 0)
	task, err := NewTask("standup", At{TimeOfDay: TimeOfDay{Hour: 9, Minute: 30}, RepeatDaily: true}, &TaskOpts{ImagePath: "/i.png"}, now)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	task.Fire(task.NextFireAt)

	b, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Task
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	assertSameTask(t, task, &out)
}

func TestTaskJSON_RejectsBadSchedule(t *testing.T) {
	var out Task
	err := json.Unmarshal([]byte(`{"id":"x","message":"m","schedule":{"kind":"after","value":"0s"}}`), &out)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSortTasks(t *testing.T) {
	base := at(8, 0, 0)
	ts := []*Task{
		{ID: "c", CreatedAt: base.Add(time.Minute)},
		{ID: "b", CreatedAt: base},
		{ID: "a", CreatedAt: base},
	}
	SortTasks(ts)
	if ts[0].ID != "a" || ts[1].ID != "b" || ts[2].ID != "c" {
		t.Fatalf("unexpected order: %s %s %s", ts[0].ID, ts[1].ID, ts[2].ID)
	}
}

func assertSameTask(t *testing.T, want, got *Task) {
	t.Helper()
	if got.ID != want.ID || got.Message != want.Message || got.SoundPath != want.SoundPath || got.ImagePath != want.ImagePath {
		t.Fatalf("fields differ:\nwant %+v\ngot  %+v", want, got)
	}
	if got.Schedule != want.Schedule {
		t.Fatalf("schedule differs: want %#v, got %#v", want.Schedule, got.Schedule)
	}
	if !got.NextFireAt.Equal(want.NextFireAt) || !got.CreatedAt.Equal(want.CreatedAt) || !got.LastFireAt.Equal(want.LastFireAt) {
		t.Fatalf("timestamps differ:\nwant %v %v %v\ngot  %v %v %v",
			want.NextFireAt, want.CreatedAt, want.LastFireAt, got.NextFireAt, got.CreatedAt, got.LastFireAt)
	}
}
