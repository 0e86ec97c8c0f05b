package cmd

import (
	"github.com/forgetmenot/fmn/cmd/common"
	"github.com/forgetmenot/fmn/internal/config"
	"github.com/forgetmenot/fmn/pkg/fmncli"
	"github.com/urfave/cli"
)

// newClient loads the configuration and connects to the daemon. Failures
// are printed under cmd and reported as common.ErrReported.
func newClient(ctx *cli.Context, cmd string) (*fmncli.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, common.Fail(ctx, cmd, "load_config", err)
	}
	client, err := fmncli.NewClient(&fmncli.Options{
		Addr:    cfg.Addr,
		Timeout: cfg.ClientTimeout,
		Retries: cfg.ClientRetries,
	})
	if err != nil {
		return nil, nil, common.Fail(ctx, cmd, "new_client", err)
	}
	return client, cfg, nil
}
