package cmd

import (
	"fmt"

	"github.com/forgetmenot/fmn/cmd/common"
	"github.com/urfave/cli"
)

func remove(ctx *cli.Context) error {
	id := ctx.Args().First()
	switch {
	case id == "help":
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	case id == "" || ctx.NArg() > 1:
		return common.UsageFail(ctx, "rm takes exactly one reminder id")
	}
	client, _, err := newClient(ctx, "rm")
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.Remove(id); err != nil {
		return common.Fail(ctx, "rm", "remove_task", err)
	}
	fmt.Printf("removed reminder %s\n", id)
	return nil
}
