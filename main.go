package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/forgetmenot/fmn/cmd"
	"github.com/forgetmenot/fmn/cmd/common"
)

var (
	version   string
	commit    string
	date      string
	buildType string = "unclassified"
)

var osExit = os.Exit

func main() {
	osExit(runMain(os.Args, func(args []string) error {
		return cmd.Execute(args, cmd.BuildArgs{
			Version:   version,
			Commit:    commit,
			Date:      date,
			BuildType: buildType,
		})
	}))
}

func runMain(args []string, execute func([]string) error) int {
	err := execute(args)
	if err == nil {
		return 0
	}
	if !errors.Is(err, common.ErrReported) {
		fmt.Printf("fmn: %s\n", err.Error())
	}
	return 1
}
