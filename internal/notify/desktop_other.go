//go:build !linux && !darwin && !windows

package notify

func newSystemNotifier() Notifier {
	return notifySend{}
}

func newSystemPlayer() Player {
	return &commandPlayer{candidates: [][]string{
		{"paplay"},
		{"aplay", "-q"},
	}}
}
