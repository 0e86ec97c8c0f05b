package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/forgetmenot/fmn/cmd/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/urfave/cli"
)

const maxDescWidth = 40

var headerStyle = lipgloss.NewStyle().Bold(true)

func show(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, _, err := newClient(ctx, "show")
	if err != nil {
		return err
	}
	defer client.Close()

	l, err := client.List()
	if err != nil {
		return common.Fail(ctx, "show", "list_tasks", err)
	}
	if len(l.Tasks) == 0 {
		fmt.Println("no reminders pending")
		return nil
	}
	fmt.Print(renderTasks(l.Tasks, time.Now()))
	return nil
}

// renderTasks lays tasks out as a table ordered by next fire time.
func renderTasks(tasks []*fmnlib.Task, now time.Time) string {
	sorted := append([]*fmnlib.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].NextFireAt.Equal(sorted[j].NextFireAt) {
			return sorted[i].NextFireAt.Before(sorted[j].NextFireAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	rows := [][]string{{"ID", "TYPE", "DESCRIPTION", "NEXT"}}
	for _, t := range sorted {
		next := t.NextFireAt.Local().Format("2006-01-02 15:04") +
			" (" + humanize.RelTime(t.NextFireAt, now, "ago", "from now") + ")"
		rows = append(rows, []string{
			t.ID,
			t.Schedule.String(),
			common.Truncate(t.Message, maxDescWidth),
			next,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for n, r := range rows {
		var line strings.Builder
		for i, cell := range r {
			line.WriteString(cell)
			if i < len(r)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		if n == 0 {
			b.WriteString(headerStyle.Render(line.String()))
		} else {
			b.WriteString(line.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
