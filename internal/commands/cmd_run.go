package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/openclaw/openclaw/internal/core/logging"
	"github.com/openclaw/openclaw/internal/core/runlog"
)

type RunCmd struct {
	flags *Flags

	// flags
	cwd   string
	scope string
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run a shell command and record it in run history",
		UsageText: "openclaw run [options] -- <command>",
		Description: `Executes the command via 'sh -c', streams nothing, and records the outcome
(status, exit code, duration, output tail) as one run-history entry.

The process exits with the command's exit code.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "cwd",
				Usage:       "working directory for the command",
				Destination: &cmd.cwd,
			},
			&cli.StringFlag{
				Name:        "scope",
				Usage:       "scope key to group this run under (e.g. a session id)",
				Destination: &cmd.scope,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	command := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("no command given. Usage: openclaw run -- <command>")
	}

	if cmd.scope != "" {
		ctx = logging.WithScopeKey(ctx, cmd.scope)
	}

	entry := cmd.flags.Runner.Run(ctx, command, cmd.cwd, cmd.scope)

	out := c.Root().Writer
	fmt.Fprint(out, entry.OutputTail)

	switch entry.Status {
	case runlog.StatusCompleted:
		return nil
	case runlog.StatusFailed:
		code := 1
		if entry.ExitCode != nil {
			code = *entry.ExitCode
		}
		return cli.Exit("", code)
	default:
		return cli.Exit(fmt.Sprintf("killed by signal %s", entry.ExitSignal), 1)
	}
}
