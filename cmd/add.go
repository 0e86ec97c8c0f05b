package cmd

import (
	"fmt"
	"time"

	"github.com/forgetmenot/fmn/cmd/common"
	"github.com/forgetmenot/fmn/pkg/fmncli"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/urfave/cli"
)

var (
	soundPath string
	imagePath string
	perDay    bool

	addFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "sound, s",
			Usage:       "sound file played with the reminder (default: $FMN_SOUND_PATH)",
			Destination: &soundPath,
		},
		cli.StringFlag{
			Name:        "image, i",
			Usage:       "image shown in the notification (default: $FMN_IMAGE_PATH)",
			Destination: &imagePath,
		},
		cli.BoolFlag{
			Name:        "per-day",
			Usage:       "repeat an \"at\" reminder every day",
			Destination: &perDay,
		},
	}
)

// addArgs is the parsed form of `add <message> <kind> <value>`.
type addArgs struct {
	message   string
	spec      fmnlib.ScheduleSpec
	soundPath string
	imagePath string
}

// parseAddArgs accepts the flags anywhere on the line: the flag package
// stops at the first positional argument, so trailing ones are picked out
// here.
func parseAddArgs(args []string) (*addArgs, error) {
	a := &addArgs{soundPath: soundPath, imagePath: imagePath}
	a.spec.PerDay = perDay
	var pos []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--per-day", "-per-day":
			a.spec.PerDay = true
		case "-s", "--sound", "-i", "--image":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			if arg == "-s" || arg == "--sound" {
				a.soundPath = args[i]
			} else {
				a.imagePath = args[i]
			}
		default:
			pos = append(pos, arg)
		}
	}
	if len(pos) != 3 {
		return nil, fmt.Errorf("expected <message> after|per|at|cron <value>, got %d arguments", len(pos))
	}
	a.message = pos[0]
	a.spec.Kind = fmnlib.Kind(pos[1])
	a.spec.Value = pos[2]
	return a, nil
}

func add(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	a, err := parseAddArgs(ctx.Args())
	if err != nil {
		return common.UsageFail(ctx, err.Error())
	}
	if _, err := a.spec.Schedule(); err != nil {
		return common.Fail(ctx, "add", "parse_schedule", err)
	}
	client, cfg, err := newClient(ctx, "add")
	if err != nil {
		return err
	}
	defer client.Close()

	if a.soundPath == "" {
		a.soundPath = cfg.SoundPath
	}
	if a.imagePath == "" {
		a.imagePath = cfg.ImagePath
	}
	res, err := client.Add(a.message, a.spec, &fmncli.AddOpts{
		SoundPath: a.soundPath,
		ImagePath: a.imagePath,
	})
	if err != nil {
		return common.Fail(ctx, "add", "add_task", err)
	}
	t := res.Task
	fmt.Printf("added reminder %s (%s), next at %s\n",
		t.ID, t.Schedule, t.NextFireAt.Local().Format(time.DateTime))
	return nil
}
