// Command fmnd runs the forget-me-not daemon without the CLI front end.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgetmenot/fmn/internal/config"
	"github.com/forgetmenot/fmn/internal/daemon"
	"github.com/forgetmenot/fmn/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("fmnd:", err.Error())
		os.Exit(1)
	}
	l := logger.NewDaemonLogger(cfg.Debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = daemon.New(cfg, &daemon.Dependencies{Logger: l}).Start(ctx)
	stop()
	_ = l.Close()
	if err != nil {
		fmt.Println("fmnd:", err.Error())
		os.Exit(1)
	}
}
