package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/openclaw/openclaw/internal/core/runlog"
	"github.com/openclaw/openclaw/internal/core/styles"
	"github.com/openclaw/openclaw/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags

	// list flags
	jsonOutput bool
	limit      int
	status     string
	search     string
	since      time.Duration
	scope      string

	// stats flags
	statsJSON bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Inspect recorded command runs",
		UsageText: "openclaw history <subcommand>",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List recorded runs, newest first",
				UsageText: "openclaw history list [--json] [--limit N] [--status S] [--search TERM] [--since DUR] [--scope KEY]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "maximum entries returned",
						Value:       runlog.DefaultQueryLimit,
						Destination: &cmd.limit,
					},
					&cli.StringFlag{
						Name:        "status",
						Usage:       "filter by status (completed, failed, killed)",
						Destination: &cmd.status,
					},
					&cli.StringFlag{
						Name:        "search",
						Usage:       "case-insensitive substring match on command, cwd, or output",
						Destination: &cmd.search,
					},
					&cli.DurationFlag{
						Name:        "since",
						Usage:       "only runs started within this duration (e.g. 2h, 30m)",
						Destination: &cmd.since,
					},
					&cli.StringFlag{
						Name:        "scope",
						Usage:       "filter by scope key",
						Destination: &cmd.scope,
					},
				},
				Action: cmd.list,
			},
			{
				Name:      "show",
				Usage:     "Show one run as JSON",
				UsageText: "openclaw history show <id>",
				Action:    cmd.show,
			},
			{
				Name:      "stats",
				Usage:     "Summarize run counts by status",
				UsageText: "openclaw history stats [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.statsJSON,
					},
				},
				Action: cmd.stats,
			},
			{
				Name:      "clear",
				Usage:     "Delete all recorded runs",
				UsageText: "openclaw history clear",
				Action:    cmd.clear,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) list(ctx context.Context, c *cli.Command) error {
	query := runlog.Query{
		Limit:  cmd.limit,
		Search: cmd.search,
		Scope:  cmd.scope,
	}

	if cmd.status != "" {
		status := runlog.Status(cmd.status)
		if !status.Valid() {
			return fmt.Errorf("invalid status %q: must be completed, failed, or killed", cmd.status)
		}
		query.Status = status
	}

	if cmd.since > 0 {
		query.Since = time.Now().Add(-cmd.since).UnixMilli()
	}

	entries := cmd.flags.History.Query(query)
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tEXIT\tDURATION\tSTARTED\tCOMMAND")

	for _, e := range entries {
		exit := "-"
		if e.ExitCode != nil {
			exit = fmt.Sprintf("%d", *e.ExitCode)
		} else if e.ExitSignal != "" {
			exit = string(e.ExitSignal)
		}

		started := time.UnixMilli(e.StartedAt).Format("2006-01-02 15:04:05")
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			styles.RenderStatus(e.Status),
			exit,
			(time.Duration(e.DurationMs) * time.Millisecond).String(),
			styles.RenderMuted(started),
			e.Command,
		)
	}

	return w.Flush()
}

func (cmd *HistoryCmd) show(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: openclaw history show <id>")
	}

	entry, err := cmd.flags.History.Get(id)
	if err != nil {
		return fmt.Errorf("run %q: %w", id, err)
	}

	return iojson.WriteWith(c.Root().Writer, os.Stderr, entry)
}

func (cmd *HistoryCmd) stats(ctx context.Context, c *cli.Command) error {
	stats := cmd.flags.History.Stats()
	out := c.Root().Writer

	if cmd.statsJSON {
		return iojson.WriteWith(out, os.Stderr, stats)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total runs\t%d\n", stats.TotalRuns)
	_, _ = fmt.Fprintf(w, "Completed\t%d\n", stats.Completed)
	_, _ = fmt.Fprintf(w, "Failed\t%d\n", stats.Failed)
	_, _ = fmt.Fprintf(w, "Killed\t%d\n", stats.Killed)
	return w.Flush()
}

func (cmd *HistoryCmd) clear(ctx context.Context, c *cli.Command) error {
	cmd.flags.History.Clear()
	fmt.Fprintln(c.Root().Writer, "Run history cleared")
	return nil
}
