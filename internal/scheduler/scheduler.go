package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/forgetmenot/fmn/pkg/logger"
	"github.com/jonboulle/clockwork"
)

const (
	maxSleepCap            = 60 * time.Second
	defaultDispatchTimeout = 30 * time.Second
)

// Dispatcher delivers the notification of a due task.
type Dispatcher interface {
	Dispatch(ctx context.Context, t *fmnlib.Task) error
}

// Options tunes a Scheduler. The zero value uses the real clock.
type Options struct {
	Clock clockwork.Clock
	// DispatchTimeout bounds a single Dispatch call.
	DispatchTimeout time.Duration
}

// Scheduler owns the wake-up index of a task store. All store mutations
// that affect scheduling go through it so the index and the store change
// under the same lock.
type Scheduler struct {
	store   fmnlib.Store
	disp    Dispatcher
	log     logger.Logger
	clock   clockwork.Clock
	timeout time.Duration

	mu    sync.Mutex
	index taskHeap

	wake chan struct{}
	wg   sync.WaitGroup
}

// New indexes every task currently in store. Call Run to start firing.
func New(store fmnlib.Store, disp Dispatcher, l logger.Logger, opts *Options) *Scheduler {
	if opts == nil {
		opts = &Options{}
	}
	s := &Scheduler{
		store:   store,
		disp:    disp,
		log:     l,
		clock:   opts.Clock,
		timeout: opts.DispatchTimeout,
		wake:    make(chan struct{}, 1),
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.timeout <= 0 {
		s.timeout = defaultDispatchTimeout
	}
	for _, t := range store.List() {
		heapPush(&s.index, entry{id: t.ID, at: t.NextFireAt})
	}
	return s
}

// Now returns the scheduler's notion of the current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Add stores t and wakes the loop so an earlier fire time is not missed.
func (s *Scheduler) Add(t *fmnlib.Task) error {
	s.mu.Lock()
	err := s.store.Add(t)
	if err == nil {
		heapPush(&s.index, entry{id: t.ID, at: t.NextFireAt})
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.signal()
	return nil
}

// Remove deletes the task with the given id. It only prevents future
// firings; a dispatch already in flight is not cancelled.
func (s *Scheduler) Remove(id string) error {
	s.mu.Lock()
	ok, err := s.store.Remove(id)
	if ok {
		heapRemove(&s.index, id)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", fmnlib.ErrNotFound, id)
	}
	s.signal()
	return nil
}

// Tasks returns the pending tasks ordered by creation time.
func (s *Scheduler) Tasks() []*fmnlib.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// NextWake returns the earliest pending fire time.
func (s *Scheduler) NextWake() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.index) == 0 {
		return time.Time{}, false
	}
	return s.index[0].at, true
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run fires due tasks until ctx is cancelled, then waits for in-flight
// dispatches to return.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.wg.Wait()
	for {
		now := s.clock.Now()
		if batch := s.fireDue(now); len(batch) > 0 {
			s.dispatch(ctx, batch)
		}
		d := s.sleepFor(now)
		if d <= 0 {
			continue
		}
		s.log.Debug("scheduler: sleeping %s", d)
		timer := s.clock.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.wake:
		case <-timer.Chan():
		}
		timer.Stop()
	}
}

// sleepFor returns how long to wait from now until the earliest pending
// task, capped at maxSleepCap.
func (s *Scheduler) sleepFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.index) == 0 {
		return maxSleepCap
	}
	d := s.index[0].at.Sub(now)
	if d > maxSleepCap {
		d = maxSleepCap
	}
	return d
}

// fireDue pops every task due at now, in fire time then id order, and
// commits its post-fire state: recurring tasks are rescheduled, exhausted
// ones deleted. A task whose commit fails is not fired; it stays in the
// store unchanged and is retried after maxSleepCap. It returns the fired
// tasks for dispatch.
func (s *Scheduler) fireDue(now time.Time) []*fmnlib.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var batch []*fmnlib.Task
	for len(s.index) > 0 && !s.index[0].at.After(now) {
		e := heapPop(&s.index)
		t, ok := s.store.Get(e.id)
		if !ok {
			continue
		}
		if err := s.commitFire(t, now); err != nil {
			s.log.Error("scheduler: %s not fired, retrying in %s: %v", t.ID, maxSleepCap, err)
			heapPush(&s.index, entry{id: e.id, at: now.Add(maxSleepCap)})
			continue
		}
		batch = append(batch, t)
	}
	return batch
}

// commitFire records a firing of t at now in the store and the index.
// On error neither has changed.
func (s *Scheduler) commitFire(t *fmnlib.Task, now time.Time) error {
	if !t.Fire(now) {
		if _, err := s.store.Remove(t.ID); err != nil {
			return fmt.Errorf("drop exhausted task: %w", err)
		}
		s.log.Debug("scheduler: %s fired and exhausted", t.ID)
		return nil
	}
	if err := s.store.Update(t); err != nil {
		return fmt.Errorf("persist next fire: %w", err)
	}
	heapPush(&s.index, entry{id: t.ID, at: t.NextFireAt})
	s.log.Debug("scheduler: %s fired, next at %s", t.ID, t.NextFireAt.Format(time.RFC3339))
	return nil
}

// dispatch delivers batch in order on its own goroutine.
func (s *Scheduler) dispatch(ctx context.Context, batch []*fmnlib.Task) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatchBatch(ctx, batch)
	}()
}

func (s *Scheduler) dispatchBatch(ctx context.Context, batch []*fmnlib.Task) {
	for _, t := range batch {
		s.dispatchOne(ctx, t)
	}
}

// dispatchOne never lets a failing collaborator escape: errors and panics
// are logged.
func (s *Scheduler) dispatchOne(ctx context.Context, t *fmnlib.Task) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduler: dispatch of %s panicked: %v", t.ID, r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.disp.Dispatch(ctx, t); err != nil {
		s.log.Warning("scheduler: reminder %s not delivered: %v", t.ID, err)
		return
	}
	s.log.Info("reminder %s delivered: %s", t.ID, t.Message)
}
