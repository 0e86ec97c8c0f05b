package notify

import (
	"context"
	"strings"
)

const balloonScript = `Add-Type -AssemblyName System.Windows.Forms
$n = New-Object System.Windows.Forms.NotifyIcon
$n.Icon = [System.Drawing.SystemIcons]::Information
$n.BalloonTipTitle = '%TITLE%'
$n.BalloonTipText = '%BODY%'
$n.Visible = $true
$n.ShowBalloonTip(10000)
Start-Sleep -Seconds 5
$n.Dispose()`

// balloonNotifier shows a tray balloon through PowerShell.
type balloonNotifier struct{}

func newSystemNotifier() Notifier {
	return balloonNotifier{}
}

func (balloonNotifier) Notify(ctx context.Context, summary, body, _ string) error {
	script := strings.NewReplacer("%TITLE%", psQuote(summary), "%BODY%", psQuote(body)).Replace(balloonScript)
	return run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
}

// psQuote escapes s for a single-quoted PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

type soundPlayer struct{}

func newSystemPlayer() Player {
	return soundPlayer{}
}

func (soundPlayer) Play(ctx context.Context, path string) error {
	script := "(New-Object Media.SoundPlayer '" + psQuote(path) + "').PlaySync()"
	return run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
}
