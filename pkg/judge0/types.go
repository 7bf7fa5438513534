package judge0

import (
	"errors"
	"strconv"
	"strings"
)

// Status identifiers reported by the execution engine. Anything above
// StatusProcessing is terminal; StatusAccepted is the only success value.
const (
	StatusQueued     = 1
	StatusProcessing = 2
	StatusAccepted   = 3
)

// ErrEmptyBatch indicates a batch submission with no entries. An empty batch
// is a caller bug, not a runtime condition to tolerate.
var ErrEmptyBatch = errors.New("batch must contain at least one submission")

// ErrRemoteUnavailable indicates a transport-level failure talking to the
// execution engine.
var ErrRemoteUnavailable = errors.New("execution engine unavailable")

// SubmissionRequest is one execution job: a piece of source code run against
// one stdin/expected-output pair. Constructed fresh for every judging call.
type SubmissionRequest struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

// Status is the engine's status object attached to each result.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// SubmissionResult is the engine's view of one finished (or in-flight)
// execution job. Time is reported as a decimal string of seconds.
type SubmissionResult struct {
	Token         string `json:"token"`
	StatusID      int    `json:"status_id"`
	Status        Status `json:"status"`
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Time          string `json:"time"`
	Memory        int    `json:"memory"`
}

// Terminal reports whether the result will not change on further polling.
func (r SubmissionResult) Terminal() bool {
	return r.statusID() > StatusProcessing
}

// Accepted reports whether the job produced the expected output.
func (r SubmissionResult) Accepted() bool {
	return r.statusID() == StatusAccepted
}

// TimeSeconds parses the engine's decimal runtime string; malformed or empty
// values count as zero.
func (r SubmissionResult) TimeSeconds() float64 {
	raw := strings.TrimSpace(r.Time)
	if raw == "" {
		return 0
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return seconds
}

// StatusDescription returns the engine's human-readable status, falling back
// to a generic label when the engine omitted one.
func (r SubmissionResult) StatusDescription() string {
	if r.Status.Description != "" {
		return r.Status.Description
	}
	return "Error"
}

func (r SubmissionResult) statusID() int {
	if r.StatusID != 0 {
		return r.StatusID
	}
	return r.Status.ID
}
