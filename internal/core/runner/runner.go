// Package runner executes shell commands and records one run-history entry
// per invocation.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openclaw/openclaw/internal/core/runlog"
	"github.com/openclaw/openclaw/pkg/randid"
)

// DefaultMaxTail is how many bytes of combined output are kept on the entry.
const DefaultMaxTail = 4096

// Store receives completed run entries.
type Store interface {
	Append(entry runlog.Entry)
}

// Runner executes shell commands and appends the outcome to a store.
type Runner struct {
	store   Store
	log     zerolog.Logger
	maxTail int
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxTail sets how many bytes of output tail are retained per entry.
func WithMaxTail(n int) Option {
	return func(r *Runner) { r.maxTail = n }
}

// New creates a Runner recording into store.
func New(store Store, log zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{store: store, log: log, maxTail: DefaultMaxTail}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes command via `sh -c` in dir (empty means inherit cwd), records
// the outcome, and returns the recorded entry. The command's failure is
// reflected in the entry's status and exit code, not in an error: the caller
// decides what a non-zero exit means.
func (r *Runner) Run(ctx context.Context, command, dir, scope string) runlog.Entry {
	started := time.Now()

	tail := newTailWriter(r.maxTail)
	c := exec.CommandContext(ctx, "sh", "-c", command)
	if dir != "" {
		c.Dir = dir
	}
	c.Stdout = tail
	c.Stderr = tail

	err := c.Run()
	ended := time.Now()

	entry := runlog.Entry{
		ID:               fmt.Sprintf("%d-%s", started.UnixMilli(), randid.Generate(6)),
		Command:          command,
		Cwd:              dir,
		Status:           runlog.StatusCompleted,
		DurationMs:       ended.Sub(started).Milliseconds(),
		OutputTail:       tail.Tail(),
		Truncated:        tail.Truncated(),
		TotalOutputChars: tail.Total(),
		StartedAt:        started.UnixMilli(),
		EndedAt:          ended.UnixMilli(),
		ScopeKey:         scope,
	}

	switch {
	case err == nil:
		code := 0
		entry.ExitCode = &code
	case ctx.Err() != nil:
		entry.Status = runlog.StatusKilled
		entry.ExitSignal = exitSignal(err)
	default:
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ExitCode() >= 0 {
			code := ee.ExitCode()
			entry.Status = runlog.StatusFailed
			entry.ExitCode = &code
		} else if errors.As(err, &ee) {
			// Exited on a signal without the context being canceled.
			entry.Status = runlog.StatusKilled
			entry.ExitSignal = exitSignal(err)
		} else {
			// Never started (e.g. bad working directory).
			entry.Status = runlog.StatusFailed
			entry.OutputTail = err.Error()
			entry.TotalOutputChars = len(entry.OutputTail)
			entry.Truncated = false
		}
	}

	r.log.Debug().
		Ctx(ctx).
		Str("id", entry.ID).
		Str("status", string(entry.Status)).
		Int64("duration_ms", entry.DurationMs).
		Msg("recorded run")

	r.store.Append(entry)
	return entry
}

// exitSignal extracts the signal name from a wait error, e.g.
// "signal: terminated" -> "terminated".
func exitSignal(err error) runlog.Signal {
	var ee *exec.ExitError
	if !errors.As(err, &ee) || ee.ProcessState == nil {
		return ""
	}
	s := ee.ProcessState.String()
	if rest, ok := strings.CutPrefix(s, "signal: "); ok {
		return runlog.Signal(rest)
	}
	return ""
}
