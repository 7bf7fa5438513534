package models

import "time"

// Canonical submission states. A submission is created pending before the
// batch is dispatched and finalized exactly once afterwards; failed verdicts
// carry the execution engine's own status description (for example
// "Wrong Answer" or "Time Limit Exceeded") instead of SubmissionStatusWrong.
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusAccepted = "Accepted"
	SubmissionStatusWrong    = "Wrong"
	SubmissionStatusError    = "Error"
)

// Submission is one judged attempt of a user's code against a problem's
// hidden test cases.
type Submission struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index:idx_submissions_user_problem" json:"user_id"`
	ProblemID       uint      `gorm:"not null;index:idx_submissions_user_problem" json:"problem_id"`
	Language        string    `gorm:"size:32;not null" json:"language"`
	Code            string    `gorm:"type:text;not null" json:"code"`
	Status          string    `gorm:"size:64;not null;default:pending" json:"status"`
	Runtime         float64   `gorm:"default:0" json:"runtime"`
	Memory          int       `gorm:"default:0" json:"memory"`
	ErrorMessage    string    `gorm:"type:text" json:"error_message,omitempty"`
	TestCasesPassed int       `gorm:"default:0" json:"test_cases_passed"`
	TestCasesTotal  int       `gorm:"default:0" json:"test_cases_total"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsFinal reports whether the submission has left the pending state.
func (s Submission) IsFinal() bool {
	return s.Status != SubmissionStatusPending
}
