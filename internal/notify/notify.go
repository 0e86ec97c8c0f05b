// Package notify delivers fired reminders to the desktop: a notification
// bubble carrying the message and optional image, plus an optional sound.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/forgetmenot/fmn/pkg/logger"
	"github.com/hashicorp/go-multierror"
)

// DefaultTimeout bounds a whole Dispatch call.
const DefaultTimeout = 30 * time.Second

// Notifier shows a desktop notification. icon may be empty.
type Notifier interface {
	Notify(ctx context.Context, summary, body, icon string) error
}

// Player plays an audio file to completion or until ctx is done.
type Player interface {
	Play(ctx context.Context, path string) error
}

// DispatchError reports the collaborators that failed for one task.
type DispatchError struct {
	TaskID string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.TaskID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Options overrides the collaborators and timeout of a Desktop.
type Options struct {
	Timeout  time.Duration
	Notifier Notifier
	Player   Player
}

// Desktop is the default dispatcher of the daemon.
type Desktop struct {
	notifier Notifier
	player   Player
	log      logger.Logger
	timeout  time.Duration
}

// NewDesktop returns a dispatcher using the notifier and sound player of
// the running OS unless opts supplies others.
func NewDesktop(l logger.Logger, opts *Options) *Desktop {
	if opts == nil {
		opts = &Options{}
	}
	d := &Desktop{
		notifier: opts.Notifier,
		player:   opts.Player,
		log:      l,
		timeout:  opts.Timeout,
	}
	if d.notifier == nil {
		d.notifier = newSystemNotifier()
	}
	if d.player == nil {
		d.player = newSystemPlayer()
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	return d
}

// Dispatch shows the notification and plays the sound of t concurrently.
// A missing sound or image is skipped. Every collaborator failure is
// collected into a *DispatchError.
func (d *Desktop) Dispatch(ctx context.Context, t *fmnlib.Task) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result error
	)
	collect := func(err error) {
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
	}

	if t.SoundPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.player.Play(ctx, t.SoundPath); err != nil {
				collect(fmt.Errorf("play %s: %w", t.SoundPath, err))
			}
		}()
	}
	if err := d.notifier.Notify(ctx, common.NotificationSummary, t.Message, t.ImagePath); err != nil {
		collect(fmt.Errorf("notify: %w", err))
	}
	wg.Wait()

	if result != nil {
		return &DispatchError{TaskID: t.ID, Err: result}
	}
	d.log.Debug("notify: delivered %s", t.ID)
	return nil
}
