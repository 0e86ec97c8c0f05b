package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgetmenot/fmn/cmd/common"
	"github.com/forgetmenot/fmn/internal/config"
	fmnd "github.com/forgetmenot/fmn/internal/daemon"
	"github.com/forgetmenot/fmn/pkg/logger"
	"github.com/urfave/cli"
)

func daemon(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return common.Fail(ctx, "daemon", "load_config", err)
	}
	l := logger.NewDaemonLogger(cfg.Debug)
	defer l.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := fmnd.New(cfg, &fmnd.Dependencies{
		Logger:  l,
		Version: buildArgs.Version,
		Commit:  buildArgs.Commit,
	})
	if err := r.Start(sigCtx); err != nil {
		return common.Fail(ctx, "daemon", "start", err)
	}
	return nil
}
