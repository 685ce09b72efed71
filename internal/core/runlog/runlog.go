// Package runlog defines run-history domain types and query options.
package runlog

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a run entry lookup misses.
var ErrNotFound = errors.New("run entry not found")

// Status is the terminal outcome of a recorded command.
type Status string

// Terminal outcomes for a recorded command.
const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusKilled    Status = "killed"
)

// Valid returns true for one of the three known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusKilled:
		return true
	}
	return false
}

// Signal is a process-terminating signal name or number. Persisted logs may
// carry either form, so decoding accepts both and normalizes to a string.
type Signal string

// UnmarshalJSON accepts a JSON string, number, or null.
func (s *Signal) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Signal(str)
		return nil
	}

	var num int64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = Signal(strconv.FormatInt(num, 10))
	return nil
}

// Entry represents one completed (or killed) invocation of an external
// command. Entries are immutable once appended.
//
// StartedAt/EndedAt are unix epoch milliseconds to match the persisted
// format; arrival order in the log is authoritative, not StartedAt.
type Entry struct {
	ID               string `json:"id"`
	Command          string `json:"command"`
	Cwd              string `json:"cwd,omitempty"`
	Status           Status `json:"status"`
	ExitCode         *int   `json:"exitCode"`
	ExitSignal       Signal `json:"exitSignal,omitempty"`
	DurationMs       int64  `json:"durationMs"`
	OutputTail       string `json:"outputTail"`
	Truncated        bool   `json:"truncated"`
	TotalOutputChars int    `json:"totalOutputChars"`
	StartedAt        int64  `json:"startedAt"`
	EndedAt          int64  `json:"endedAt"`
	ScopeKey         string `json:"scopeKey,omitempty"`
}

// MatchesSearch reports whether term is a case-insensitive substring of the
// entry's command, cwd, or output tail.
func (e *Entry) MatchesSearch(term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Command), needle) ||
		strings.Contains(strings.ToLower(e.Cwd), needle) ||
		strings.Contains(strings.ToLower(e.OutputTail), needle)
}

// DefaultQueryLimit caps query results when no explicit limit is given.
const DefaultQueryLimit = 20

// Query holds optional filters for listing run entries. Filters compose as
// logical AND; zero values mean "no filter".
type Query struct {
	// Limit is the maximum number of entries returned (default 20).
	Limit int
	// Status keeps only entries with this exact status.
	Status Status
	// Search keeps entries whose command, cwd, or output tail contains the
	// term (case-insensitive).
	Search string
	// Since keeps entries with StartedAt >= Since (epoch milliseconds).
	Since int64
	// Scope keeps entries whose scope key matches exactly.
	Scope string
}

// Stats summarizes run counts by status.
type Stats struct {
	TotalRuns int `json:"totalRuns"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Killed    int `json:"killed"`
}
