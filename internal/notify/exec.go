package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnsupported is returned when no collaborator exists for the running OS.
var ErrUnsupported = errors.New("not supported on this platform")

var (
	execCommand = exec.CommandContext
	lookPath    = exec.LookPath
)

// run executes name with args and folds its combined output into the error.
func run(ctx context.Context, name string, args ...string) error {
	out, err := execCommand(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// commandPlayer plays sounds with the first available command. Each
// candidate is a program followed by its leading arguments; the file path
// is appended.
type commandPlayer struct {
	candidates [][]string
}

func (p *commandPlayer) Play(ctx context.Context, path string) error {
	for _, c := range p.candidates {
		if _, err := lookPath(c[0]); err != nil {
			continue
		}
		args := append(append([]string{}, c[1:]...), path)
		return run(ctx, c[0], args...)
	}
	return fmt.Errorf("no audio player found: %w", ErrUnsupported)
}

// notifySend shells out to libnotify's notify-send.
type notifySend struct{}

func (notifySend) Notify(ctx context.Context, summary, body, icon string) error {
	if _, err := lookPath("notify-send"); err != nil {
		return fmt.Errorf("notify-send: %w", ErrUnsupported)
	}
	args := []string{}
	if icon != "" {
		args = append(args, "--icon", icon)
	}
	args = append(args, summary, body)
	return run(ctx, "notify-send", args...)
}
