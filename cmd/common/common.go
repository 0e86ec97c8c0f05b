// Package common provides shared helpers for the fmn CLI commands: help
// display, error reporting and column formatting.
package common

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"
)

// ErrReported is returned by an action whose failure was already printed.
// main exits non-zero on it without printing again.
var ErrReported = errors.New("command failed")

// VersionCmdStr is the text printed by the version command. Execute fills it
// in from the build arguments.
var VersionCmdStr string

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// Help shows the application help, or the help of the command named by the
// first argument.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Printf("%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	if err := showCommandHelp(ctx, arg); err != nil {
		return PrintErrWithHelp(ctx, err)
	}
	return nil
}

func GetVersion(ctx *cli.Context) error {
	fmt.Println(VersionCmdStr)
	return nil
}

// PrintRuntimeErr prints err tagged with the command and the step that
// failed. ctx may be nil.
func PrintRuntimeErr(ctx *cli.Context, cmd, action string, err error) {
	if err == nil {
		fmt.Println("err is nil", "[", cmd, "|", action, "]")
		return
	}
	name := os.Args[0]
	if ctx != nil {
		name = ctx.App.HelpName
	}
	fmt.Printf("%s: %s[%s]: %s\n", name, cmd, action, err.Error())
}

// Fail prints err like PrintRuntimeErr and returns ErrReported.
func Fail(ctx *cli.Context, cmd, action string, err error) error {
	PrintRuntimeErr(ctx, cmd, action, err)
	return ErrReported
}

// UsageFail prints msg followed by the current command's help and returns
// ErrReported.
func UsageFail(ctx *cli.Context, msg string) error {
	_ = PrintErrWithCmdHelp(ctx, errors.New(msg))
	return ErrReported
}

// PrintErrWithCmdHelp prints err followed by the current command's help.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		if err := showCommandHelp(ctx, ctx.Command.Name); err != nil {
			fmt.Println(err.Error())
		}
	})
}

// PrintErrWithHelp prints err followed by the application help and exits
// with status 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		showAppHelpAndExit(ctx, 1)
	})
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	estr := strings.ToLower(err.Error())
	if estr == "flag: help requested" {
		return Help(ctx)
	}
	if strings.Contains(estr, "-version") {
		return GetVersion(ctx)
	}
	fmt.Printf("%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError hook of the app and its commands.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
