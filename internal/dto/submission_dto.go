package dto

import (
	"time"

	"github.com/vaishnaviugal12/CrackCode/internal/models"
)

// CodeRequest carries the code and language for a run or submit call.
type CodeRequest struct {
	Language string `json:"language" validate:"required"`
	Code     string `json:"code" validate:"required,min=1"`
}

// TestCaseReport is the per-test diagnostic returned by the run endpoint.
type TestCaseReport struct {
	Passed        bool    `json:"passed"`
	Input         string  `json:"input"`
	Expected      string  `json:"expected"`
	Actual        string  `json:"actual"`
	Time          float64 `json:"time"`
	Memory        int     `json:"memory"`
	Status        string  `json:"status"`
	CompileOutput string  `json:"compile_output,omitempty"`
	Stderr        string  `json:"stderr,omitempty"`
}

// RunResponse is the structured report for a run against visible test cases.
type RunResponse struct {
	Status    string           `json:"status"`
	TestCases []TestCaseReport `json:"test_cases"`
}

// SubmitResponse is the reduced verdict for a judged submission.
type SubmitResponse struct {
	Status          string  `json:"status"`
	TotalTestCases  int     `json:"total_test_cases"`
	PassedTestCases int     `json:"passed_test_cases"`
	Runtime         float64 `json:"runtime"`
	Memory          int     `json:"memory"`
	ErrorMessage    string  `json:"error_message,omitempty"`
}

// SubmissionHistoryEntry is one attempt in a user's submission history.
type SubmissionHistoryEntry struct {
	ID              uint    `json:"id"`
	Language        string  `json:"language"`
	Status          string  `json:"status"`
	Runtime         float64 `json:"runtime"`
	Memory          int     `json:"memory"`
	TestCasesPassed int     `json:"test_cases_passed"`
	TestCasesTotal  int     `json:"test_cases_total"`
	Code            string  `json:"code"`
	CreatedAt       string  `json:"created_at"`
}

// NewSubmissionHistoryEntry builds a history DTO from a model.
func NewSubmissionHistoryEntry(submission models.Submission) SubmissionHistoryEntry {
	return SubmissionHistoryEntry{
		ID:              submission.ID,
		Language:        submission.Language,
		Status:          submission.Status,
		Runtime:         submission.Runtime,
		Memory:          submission.Memory,
		TestCasesPassed: submission.TestCasesPassed,
		TestCasesTotal:  submission.TestCasesTotal,
		Code:            submission.Code,
		CreatedAt:       submission.CreatedAt.UTC().Format(time.RFC3339),
	}
}
