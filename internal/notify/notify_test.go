package notify

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/forgetmenot/fmn/pkg/logger"
	"github.com/hashicorp/go-multierror"
)

type fakeNotifier struct {
	mu      sync.Mutex
	summary string
	body    string
	icon    string
	calls   int
	err     error
}

func (f *fakeNotifier) Notify(_ context.Context, summary, body, icon string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summary, f.body, f.icon = summary, body, icon
	f.calls++
	return f.err
}

type fakePlayer struct {
	mu    sync.Mutex
	paths []string
	err   error
	block bool
}

func (f *fakePlayer) Play(ctx context.Context, path string) error {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func testTask(sound, image string) *fmnlib.Task {
	return &fmnlib.Task{ID: "t1", Message: "stand up", SoundPath: sound, ImagePath: image}
}

func TestDispatchDeliversMessageAndAttachments(t *testing.T) {
	n, p := &fakeNotifier{}, &fakePlayer{}
	d := NewDesktop(logger.NewNopLogger(), &Options{Notifier: n, Player: p})

	if err := d.Dispatch(context.Background(), testTask("/tmp/ding.wav", "/tmp/cat.png")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if n.summary != common.NotificationSummary || n.body != "stand up" || n.icon != "/tmp/cat.png" {
		t.Fatalf("unexpected notification %q/%q/%q", n.summary, n.body, n.icon)
	}
	if len(p.paths) != 1 || p.paths[0] != "/tmp/ding.wav" {
		t.Fatalf("unexpected sounds %v", p.paths)
	}
}

func TestDispatchSkipsMissingSound(t *testing.T) {
	n, p := &fakeNotifier{}, &fakePlayer{}
	d := NewDesktop(logger.NewNopLogger(), &Options{Notifier: n, Player: p})

	if err := d.Dispatch(context.Background(), testTask("", "")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(p.paths) != 0 {
		t.Fatalf("player called without a sound: %v", p.paths)
	}
	if n.calls != 1 {
		t.Fatalf("expected one notification, got %d", n.calls)
	}
}

func TestDispatchCollectsFailures(t *testing.T) {
	n := &fakeNotifier{err: errors.New("no bus")}
	p := &fakePlayer{err: errors.New("no speakers")}
	d := NewDesktop(logger.NewNopLogger(), &Options{Notifier: n, Player: p})

	err := d.Dispatch(context.Background(), testTask("/tmp/ding.wav", ""))
	var de *DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DispatchError, got %T %v", err, err)
	}
	if de.TaskID != "t1" {
		t.Fatalf("TaskID = %q", de.TaskID)
	}
	var me *multierror.Error
	if !errors.As(err, &me) || len(me.Errors) != 2 {
		t.Fatalf("expected both failures aggregated, got %v", err)
	}
	if !strings.Contains(err.Error(), "no bus") || !strings.Contains(err.Error(), "no speakers") {
		t.Fatalf("error lost detail: %v", err)
	}
}

func TestDispatchTimesOutHungPlayer(t *testing.T) {
	n, p := &fakeNotifier{}, &fakePlayer{block: true}
	d := NewDesktop(logger.NewNopLogger(), &Options{Notifier: n, Player: p, Timeout: 50 * time.Millisecond})

	start := time.Now()
	err := d.Dispatch(context.Background(), testTask("/tmp/long.wav", ""))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("dispatch did not honour its timeout")
	}
}

// stubExec replaces the command runner with the test binary itself, which
// exits 0 for "-test.run=^$" and 2 for an unknown flag.
func stubExec(t *testing.T, fail bool) *[]string {
	t.Helper()
	var got []string
	origExec, origLook := execCommand, lookPath
	t.Cleanup(func() { execCommand, lookPath = origExec, origLook })
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		got = append([]string{name}, args...)
		if fail {
			return exec.CommandContext(ctx, os.Args[0], "-test.bogus")
		}
		return exec.CommandContext(ctx, os.Args[0], "-test.run=^$")
	}
	return &got
}

func TestCommandPlayerPicksFirstAvailable(t *testing.T) {
	got := stubExec(t, false)
	lookPath = func(file string) (string, error) {
		if file == "aplay" {
			return "/usr/bin/aplay", nil
		}
		return "", exec.ErrNotFound
	}
	p := &commandPlayer{candidates: [][]string{{"paplay"}, {"aplay", "-q"}}}

	if err := p.Play(context.Background(), "/tmp/ding.wav"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	want := []string{"aplay", "-q", "/tmp/ding.wav"}
	if strings.Join(*got, " ") != strings.Join(want, " ") {
		t.Fatalf("ran %v, want %v", *got, want)
	}
}

func TestCommandPlayerNoCandidates(t *testing.T) {
	stubExec(t, false)
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	p := &commandPlayer{candidates: [][]string{{"paplay"}}}

	if err := p.Play(context.Background(), "/tmp/ding.wav"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestCommandPlayerReportsFailure(t *testing.T) {
	stubExec(t, true)
	lookPath = func(file string) (string, error) { return "/bin/" + file, nil }
	p := &commandPlayer{candidates: [][]string{{"paplay"}}}

	err := p.Play(context.Background(), "/tmp/ding.wav")
	if err == nil || !strings.HasPrefix(err.Error(), "paplay:") {
		t.Fatalf("expected paplay failure, got %v", err)
	}
}

func TestNotifySendArgs(t *testing.T) {
	got := stubExec(t, false)
	lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }

	if err := (notifySend{}).Notify(context.Background(), "forget-me-not", "tea", "/tmp/cup.png"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	want := "notify-send --icon /tmp/cup.png forget-me-not tea"
	if strings.Join(*got, " ") != want {
		t.Fatalf("ran %q, want %q", strings.Join(*got, " "), want)
	}
}
