package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/internal/config"
	fmndaemon "github.com/forgetmenot/fmn/internal/daemon"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/forgetmenot/fmn/pkg/logger"
)

// captureOutput returns what f wrote to stdout.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = old
	out := <-done
	r.Close()
	return out
}

func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// isolate points every configuration source at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	for _, k := range []string{
		common.TasksPathEnv, common.DaemonAddrEnv, common.SoundPathEnv,
		common.ImagePathEnv, common.NotifyTimeoutEnv, common.ConfigPathEnv,
		common.RPCAddrEnv, common.RPCSecretEnv, common.DebugEnv,
	} {
		t.Setenv(k, "")
	}
	return dir
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, *fmnlib.Task) error { return nil }

// startDaemon runs a daemon on a loopback port and points the CLI at it.
func startDaemon(t *testing.T) {
	t.Helper()
	dir := isolate(t)
	cfg := config.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.StorePath = filepath.Join(dir, "tasks.fmn")

	r := fmndaemon.New(cfg, &fmndaemon.Dependencies{
		Logger:     logger.NewNopLogger(),
		Dispatcher: nopDispatcher{},
	})
	errc := make(chan error, 1)
	go func() { errc <- r.Start(context.Background()) }()
	deadline := time.Now().Add(2 * time.Second)
	for r.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("daemon did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Cleanup(func() {
		_ = r.Shutdown()
		<-errc
	})
	t.Setenv(common.DaemonAddrEnv, r.Addr().String())
}

func resetAddFlags(t *testing.T) {
	t.Helper()
	oldSound, oldImage, oldPerDay := soundPath, imagePath, perDay
	soundPath, imagePath, perDay = "", "", false
	t.Cleanup(func() {
		soundPath, imagePath, perDay = oldSound, oldImage, oldPerDay
	})
}
