package cmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/forgetmenot/fmn/cmd/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
)

func run(args ...string) error {
	return Execute(append([]string{"fmn"}, args...), BuildArgs{Version: "1", BuildType: "dev"})
}

func TestExecuteVersion(t *testing.T) {
	out := captureOutput(func() {
		if err := run("version"); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	})
	assertContains(t, out, "fmn 1-dev")
}

func TestParseAddArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    addArgs
		wantErr bool
	}{
		{
			name: "plain",
			args: []string{"tea", "after", "10m"},
			want: addArgs{message: "tea", spec: fmnlib.ScheduleSpec{Kind: fmnlib.KindAfter, Value: "10m"}},
		},
		{
			name: "trailing flags",
			args: []string{"standup", "at", "9:30", "--per-day", "-s", "/a.wav", "--image", "/b.png"},
			want: addArgs{
				message:   "standup",
				spec:      fmnlib.ScheduleSpec{Kind: fmnlib.KindAt, Value: "9:30", PerDay: true},
				soundPath: "/a.wav",
				imagePath: "/b.png",
			},
		},
		{name: "too few", args: []string{"tea", "after"}, wantErr: true},
		{name: "too many", args: []string{"tea", "after", "10m", "extra"}, wantErr: true},
		{name: "flag without value", args: []string{"tea", "after", "10m", "-s"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetAddFlags(t)
			got, err := parseAddArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAddArgs: %v", err)
			}
			if *got != tt.want {
				t.Fatalf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestParseAddArgsUsesFlagDefaults(t *testing.T) {
	resetAddFlags(t)
	soundPath, perDay = "/bell.wav", true
	got, err := parseAddArgs([]string{"stretch", "at", "18:00"})
	if err != nil {
		t.Fatalf("parseAddArgs: %v", err)
	}
	if got.soundPath != "/bell.wav" || !got.spec.PerDay {
		t.Fatalf("flag values not carried: %+v", got)
	}
}

func TestRenderTasks(t *testing.T) {
	now := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	mk := func(msg, d string) *fmnlib.Task {
		t.Helper()
		dur, err := fmnlib.ParseDuration(d)
		if err != nil {
			t.Fatalf("ParseDuration: %v", err)
		}
		task, err := fmnlib.NewTask(msg, fmnlib.After{Duration: dur}, nil, now)
		if err != nil {
			t.Fatalf("NewTask: %v", err)
		}
		return task
	}
	long := strings.Repeat("x", maxDescWidth+10)
	out := renderTasks([]*fmnlib.Task{mk("later", "2h"), mk(long, "10m")}, now)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), out)
	}
	for _, col := range []string{"ID", "TYPE", "DESCRIPTION", "NEXT"} {
		assertContains(t, lines[0], col)
	}
	assertContains(t, lines[1], "10 minutes from now")
	assertContains(t, lines[1], "after 10m")
	assertContains(t, lines[1], strings.Repeat("x", maxDescWidth-3)+"...")
	if strings.Contains(lines[1], long) {
		t.Errorf("long description was not truncated:\n%s", lines[1])
	}
	assertContains(t, lines[2], "later")
	assertContains(t, lines[2], "2 hours from now")
}

func TestAddShowRemove(t *testing.T) {
	startDaemon(t)
	resetAddFlags(t)

	out := captureOutput(func() {
		if err := run("add", "tea", "after", "10m"); err != nil {
			t.Fatalf("add: %v", err)
		}
	})
	assertContains(t, out, "added reminder ")
	fields := strings.Fields(strings.TrimPrefix(out, "added reminder "))
	if len(fields) == 0 {
		t.Fatalf("no id in %q", out)
	}
	id := fields[0]

	out = captureOutput(func() {
		if err := run("show"); err != nil {
			t.Fatalf("show: %v", err)
		}
	})
	assertContains(t, out, id)
	assertContains(t, out, "tea")

	out = captureOutput(func() {
		if err := run("rm", id); err != nil {
			t.Fatalf("rm: %v", err)
		}
	})
	assertContains(t, out, "removed reminder "+id)

	var err error
	out = captureOutput(func() { err = run("rm", id) })
	if !errors.Is(err, common.ErrReported) {
		t.Fatalf("second rm: expected ErrReported, got %v", err)
	}
	assertContains(t, out, "task not found")

	out = captureOutput(func() {
		if err := run("show"); err != nil {
			t.Fatalf("show: %v", err)
		}
	})
	assertContains(t, out, "no reminders pending")
}

func TestUsageErrorsAreReported(t *testing.T) {
	isolate(t)
	tests := [][]string{
		{"add", "tea"},
		{"add", "tea", "after", "banana"},
		{"add", "tea", "per", "10m", "--per-day"},
		{"rm"},
		{"rm", "a", "b"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			resetAddFlags(t)
			var err error
			captureOutput(func() { err = run(args...) })
			if !errors.Is(err, common.ErrReported) {
				t.Fatalf("expected ErrReported, got %v", err)
			}
		})
	}
}
