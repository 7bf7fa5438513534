package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaishnaviugal12/CrackCode/pkg/judge0"
)

func acceptedResult(time string, memory int) judge0.SubmissionResult {
	return judge0.SubmissionResult{
		StatusID: judge0.StatusAccepted,
		Status:   judge0.Status{ID: judge0.StatusAccepted, Description: "Accepted"},
		Time:     time,
		Memory:   memory,
	}
}

func failedResult(statusID int, description, stderr, compileOutput string, memory int) judge0.SubmissionResult {
	return judge0.SubmissionResult{
		StatusID:      statusID,
		Status:        judge0.Status{ID: statusID, Description: description},
		Stderr:        stderr,
		CompileOutput: compileOutput,
		Memory:        memory,
	}
}

func TestReduceValidationAllAccepted(t *testing.T) {
	results := []judge0.SubmissionResult{
		acceptedResult("0.1", 1024),
		acceptedResult("0.2", 2048),
	}

	index, ok := reduceValidation(results)
	require.True(t, ok)
	require.Equal(t, -1, index)
}

func TestReduceValidationReportsFirstFailure(t *testing.T) {
	results := []judge0.SubmissionResult{
		acceptedResult("0.1", 1024),
		failedResult(4, "Wrong Answer", "", "", 512),
		failedResult(6, "Compilation Error", "", "boom", 0),
	}

	index, ok := reduceValidation(results)
	require.False(t, ok)
	require.Equal(t, 1, index)
}

func TestReduceSubmissionAllAccepted(t *testing.T) {
	results := []judge0.SubmissionResult{
		acceptedResult("0.1", 1024),
		acceptedResult("0.2", 4096),
		acceptedResult("0.05", 2048),
	}

	verdict := reduceSubmission(results)
	require.Equal(t, "Accepted", verdict.Status)
	require.Equal(t, 3, verdict.Passed)
	require.InDelta(t, 0.35, verdict.Runtime, 1e-9)
	require.Equal(t, 4096, verdict.Memory)
	require.Empty(t, verdict.ErrorMessage)
}

func TestReduceSubmissionAggregatesOverPassedOnly(t *testing.T) {
	results := []judge0.SubmissionResult{
		acceptedResult("0.1", 1024),
		acceptedResult("0.2", 1200),
		failedResult(4, "Wrong Answer", "", "", 9999),
	}

	verdict := reduceSubmission(results)
	require.Equal(t, "Wrong Answer", verdict.Status)
	require.Equal(t, 2, verdict.Passed)
	require.InDelta(t, 0.3, verdict.Runtime, 1e-9)
	require.Equal(t, 1200, verdict.Memory)
	require.Equal(t, "Unknown Error", verdict.ErrorMessage)
}

func TestReduceSubmissionLastFailureWins(t *testing.T) {
	results := []judge0.SubmissionResult{
		failedResult(4, "Wrong Answer", "", "", 0),
		acceptedResult("0.1", 512),
		failedResult(5, "Time Limit Exceeded", "killed", "", 0),
	}

	verdict := reduceSubmission(results)
	require.Equal(t, "Time Limit Exceeded", verdict.Status)
	require.Equal(t, "killed", verdict.ErrorMessage)
	require.Equal(t, 1, verdict.Passed)
}

func TestReduceSubmissionErrorMessagePrefersStderr(t *testing.T) {
	verdict := reduceSubmission([]judge0.SubmissionResult{
		failedResult(11, "Runtime Error", "segfault", "also set", 0),
	})
	require.Equal(t, "segfault", verdict.ErrorMessage)

	verdict = reduceSubmission([]judge0.SubmissionResult{
		failedResult(6, "Compilation Error", "", "missing semicolon", 0),
	})
	require.Equal(t, "missing semicolon", verdict.ErrorMessage)
}
