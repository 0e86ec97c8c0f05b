package cmd

import (
	"fmt"
	"runtime"

	"github.com/forgetmenot/fmn/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var buildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	buildArgs = bArgs
	app := cli.App{
		Name:                  "fmn",
		HelpName:              "fmn",
		Usage:                 "forget-me-not, a tiny reminder daemon.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "fmn <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "add",
				Aliases:            []string{"a"},
				Usage:              "schedule a new reminder",
				UsageText:          `<message> after|per|at|cron <value> [--per-day] [-s sound] [-i image]`,
				Description:        AddDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             add,
				Flags:              addFlags,
			},
			{
				Name:               "show",
				Aliases:            []string{"ls"},
				Usage:              "list pending reminders",
				UsageText:          " ",
				Description:        ShowDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             show,
			},
			{
				Name:               "rm",
				Usage:              "cancel a pending reminder",
				UsageText:          "<id>",
				Description:        RemoveDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             remove,
			},
			{
				Name:               "daemon",
				Usage:              "run the reminder daemon",
				UsageText:          " ",
				Description:        DaemonDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             daemon,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of fmn",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
