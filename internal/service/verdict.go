package service

import (
	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/pkg/judge0"
)

// submissionVerdict is the reduced outcome of judging one submission against
// its test cases.
type submissionVerdict struct {
	Status       string
	Passed       int
	Runtime      float64
	Memory       int
	ErrorMessage string
}

// reduceValidation applies the gatekeeping policy used for reference
// solutions: every result must be accepted. It returns the index of the
// first non-accepted result and false as soon as one is found. Reference
// solutions are publication gates, so the first failure vetoes the batch.
func reduceValidation(results []judge0.SubmissionResult) (int, bool) {
	for i, result := range results {
		if !result.Accepted() {
			return i, false
		}
	}
	return -1, true
}

// reduceSubmission applies the grading policy used for user submissions.
// Runtime accumulates and memory peaks over passed cases only. When several
// cases fail, the last failing case decides the status and error message.
// The asymmetry with reduceValidation (first failure there, last failure
// here) is long-standing observable behaviour; keep both policies separate
// and do not flip this one to first-wins.
func reduceSubmission(results []judge0.SubmissionResult) submissionVerdict {
	verdict := submissionVerdict{Status: models.SubmissionStatusAccepted}

	for _, result := range results {
		if result.Accepted() {
			verdict.Passed++
			verdict.Runtime += result.TimeSeconds()
			if result.Memory > verdict.Memory {
				verdict.Memory = result.Memory
			}
			continue
		}

		verdict.Status = result.StatusDescription()
		verdict.ErrorMessage = firstNonEmpty(result.Stderr, result.CompileOutput, "Unknown Error")
	}

	return verdict
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
