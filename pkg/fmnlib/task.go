package fmnlib

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a pending reminder. Only NextFireAt and LastFireAt change after
// creation.
type Task struct {
	ID         string
	Message    string
	Schedule   Schedule
	SoundPath  string
	ImagePath  string
	NextFireAt time.Time
	CreatedAt  time.Time
	// LastFireAt is zero until the first firing.
	LastFireAt time.Time
}

// TaskOpts carries the optional attachments of a new task.
type TaskOpts struct {
	SoundPath string
	ImagePath string
}

// NewTask validates s, assigns a fresh id and computes the first fire time
// relative to now.
func NewTask(message string, s Schedule, opts *TaskOpts, now time.Time) (*Task, error) {
	if strings.TrimSpace(message) == "" {
		return nil, validationErr("empty message")
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &TaskOpts{}
	}
	now = now.Round(0)
	next, ok := NextFire(s, now, now, time.Time{})
	if !ok {
		return nil, validationErr("schedule %q never fires", s.String())
	}
	return &Task{
		ID:         uuid.NewString(),
		Message:    message,
		Schedule:   s,
		SoundPath:  opts.SoundPath,
		ImagePath:  opts.ImagePath,
		NextFireAt: next,
		CreatedAt:  now,
	}, nil
}

// Fire records a firing at now and moves NextFireAt to the following
// occurrence. It returns false when the schedule is exhausted; the task
// should then be dropped.
func (t *Task) Fire(now time.Time) bool {
	now = now.Round(0)
	t.LastFireAt = now
	next, ok := NextFire(t.Schedule, t.CreatedAt, now, now)
	if ok {
		t.NextFireAt = next
	}
	return ok
}

// Due reports whether the task should fire at now.
func (t *Task) Due(now time.Time) bool {
	return !t.NextFireAt.After(now)
}

// Clone returns a copy that shares nothing mutable with t.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// SortTasks orders tasks by creation time, then id.
func SortTasks(ts []*Task) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.Before(ts[j].CreatedAt)
		}
		return ts[i].ID < ts[j].ID
	})
}

type taskJSON struct {
	ID         string       `json:"id"`
	Message    string       `json:"message"`
	Schedule   ScheduleSpec `json:"schedule"`
	SoundPath  string       `json:"sound_path,omitempty"`
	ImagePath  string       `json:"image_path,omitempty"`
	NextFireAt time.Time    `json:"next_fire_at"`
	CreatedAt  time.Time    `json:"created_at"`
	LastFireAt *time.Time   `json:"last_fire_at,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	j := taskJSON{
		ID:         t.ID,
		Message:    t.Message,
		Schedule:   SpecOf(t.Schedule),
		SoundPath:  t.SoundPath,
		ImagePath:  t.ImagePath,
		NextFireAt: t.NextFireAt,
		CreatedAt:  t.CreatedAt,
	}
	if !t.LastFireAt.IsZero() {
		last := t.LastFireAt
		j.LastFireAt = &last
	}
	return json.Marshal(j)
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var j taskJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	s, err := j.Schedule.Schedule()
	if err != nil {
		return err
	}
	*t = Task{
		ID:         j.ID,
		Message:    j.Message,
		Schedule:   s,
		SoundPath:  j.SoundPath,
		ImagePath:  j.ImagePath,
		NextFireAt: j.NextFireAt,
		CreatedAt:  j.CreatedAt,
	}
	if j.LastFireAt != nil {
		t.LastFireAt = *j.LastFireAt
	}
	return nil
}

// taskRecord is the flat, persisted form of a Task used by both stores.
type taskRecord struct {
	ID          string
	Message     string
	Kind        Kind
	Duration    time.Duration
	TimeOfDay   int
	RepeatDaily bool
	Expr        string
	SoundPath   string
	ImagePath   string
	NextFireAt  time.Time
	CreatedAt   time.Time
	LastFireAt  time.Time
}

func recordOf(t *Task) taskRecord {
	r := taskRecord{
		ID:         t.ID,
		Message:    t.Message,
		Kind:       t.Schedule.Kind(),
		SoundPath:  t.SoundPath,
		ImagePath:  t.ImagePath,
		NextFireAt: t.NextFireAt,
		CreatedAt:  t.CreatedAt,
		LastFireAt: t.LastFireAt,
	}
	switch v := t.Schedule.(type) {
	case After:
		r.Duration = v.Duration
	case Per:
		r.Duration = v.Interval
	case At:
		r.TimeOfDay = v.TimeOfDay.seconds()
		r.RepeatDaily = v.RepeatDaily
	case Cron:
		r.Expr = v.Expr
	}
	return r
}

func (r taskRecord) task() (*Task, error) {
	var s Schedule
	switch r.Kind {
	case KindAfter:
		s = After{Duration: r.Duration}
	case KindPer:
		s = Per{Interval: r.Duration}
	case KindAt:
		s = At{TimeOfDay: timeOfDayFromSeconds(r.TimeOfDay), RepeatDaily: r.RepeatDaily}
	case KindCron:
		s = Cron{Expr: r.Expr}
	default:
		return nil, validationErr("unknown schedule kind %q", r.Kind)
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return &Task{
		ID:         r.ID,
		Message:    r.Message,
		Schedule:   s,
		SoundPath:  r.SoundPath,
		ImagePath:  r.ImagePath,
		NextFireAt: r.NextFireAt,
		CreatedAt:  r.CreatedAt,
		LastFireAt: r.LastFireAt,
	}, nil
}
