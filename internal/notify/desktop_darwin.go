package notify

import (
	"context"
	"strconv"
)

// osascriptNotifier uses AppleScript. Images are not supported by
// `display notification` and are ignored.
type osascriptNotifier struct{}

func newSystemNotifier() Notifier {
	return osascriptNotifier{}
}

func (osascriptNotifier) Notify(ctx context.Context, summary, body, _ string) error {
	script := "display notification " + strconv.Quote(body) + " with title " + strconv.Quote(summary)
	return run(ctx, "osascript", "-e", script)
}

func newSystemPlayer() Player {
	return &commandPlayer{candidates: [][]string{{"afplay"}}}
}
