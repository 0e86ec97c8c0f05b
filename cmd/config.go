package cmd

const DESCRIPTION = `
fmn (forget-me-not) keeps your reminders in a small background daemon
and pops a desktop notification, optionally with a sound and an image,
when one is due.
`

const (
	AddDescription = `The add command schedules a new reminder. The schedule is one of:

  after <duration>        fire once, <duration> from now
  per <duration>          fire every <duration>
  at <HH:MM[:SS]>         fire at the next such time of day
                          (repeat daily with --per-day)
  cron "<expression>"     fire on a 5-field cron schedule

Durations look like 90s, 45m, 1h30m or 2d.

Examples:
        fmn add "stretch" per 1h
        fmn add "call mum" at 19:30 --per-day -s ~/ding.wav
        fmn add "standup" cron "0 9 * * 1-5"

`
	ShowDescription = `The show command lists every pending reminder with its id,
schedule and next fire time.

Example:
        fmn show

`
	RemoveDescription = `The rm command cancels a pending reminder by the id
shown by "fmn show".

Example:
        fmn rm 0b7c7c1e-5d1f-4a52-9d4e-7a3f5c1d2e10

`
	DaemonDescription = `The daemon command runs the reminder daemon in the
foreground. It listens on FMN_DAEMON_ADDR (default localhost:8082)
and stores reminders at FMN_TASKS_PATH.

Example:
        fmn daemon

`
)
