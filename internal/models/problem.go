package models

import (
	"time"

	"gorm.io/datatypes"
)

// Problem difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Problem is a coding problem with its test cases, starter code and
// per-language reference solutions. Test cases are immutable once attached to
// a problem revision; updates replace the whole set.
type Problem struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Title              string              `gorm:"size:255;not null" json:"title"`
	Description        string              `gorm:"type:text;not null" json:"description"`
	Difficulty         string              `gorm:"size:16" json:"difficulty"`
	Tags               datatypes.JSON      `json:"tags,omitempty"`
	CreatorID          uint                `gorm:"not null" json:"creator_id"`
	TestCases          []TestCase          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"test_cases,omitempty"`
	StarterCodes       []StarterCode       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"starter_codes,omitempty"`
	ReferenceSolutions []ReferenceSolution `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"reference_solutions,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TestCase is a single input/expected-output pair. Hidden cases are used only
// for grading and are never returned to end users; visible cases carry an
// explanation shown alongside the problem statement.
type TestCase struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ProblemID      uint   `gorm:"not null;index" json:"problem_id"`
	Input          string `gorm:"type:text;not null" json:"input"`
	ExpectedOutput string `gorm:"type:text;not null" json:"expected_output"`
	Explanation    string `gorm:"type:text" json:"explanation,omitempty"`
	Hidden         bool   `gorm:"not null;default:false" json:"hidden"`
}

// StarterCode is the initial editor scaffold for one language.
type StarterCode struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProblemID   uint   `gorm:"not null;index" json:"problem_id"`
	Language    string `gorm:"size:32;not null" json:"language"`
	InitialCode string `gorm:"type:text;not null" json:"initial_code"`
}

// ReferenceSolution is a complete solution in one language, used to gate
// problem publication: every reference solution must pass every visible test
// case before the problem is persisted.
type ReferenceSolution struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ProblemID    uint   `gorm:"not null;index" json:"problem_id"`
	Language     string `gorm:"size:32;not null" json:"language"`
	CompleteCode string `gorm:"type:text;not null" json:"complete_code"`
}

// VisibleTestCases returns the test cases shown to end users, in stored order.
func (p Problem) VisibleTestCases() []TestCase {
	return p.filterTestCases(false)
}

// HiddenTestCases returns the grading-only test cases, in stored order.
func (p Problem) HiddenTestCases() []TestCase {
	return p.filterTestCases(true)
}

func (p Problem) filterTestCases(hidden bool) []TestCase {
	cases := make([]TestCase, 0, len(p.TestCases))
	for _, tc := range p.TestCases {
		if tc.Hidden == hidden {
			cases = append(cases, tc)
		}
	}
	return cases
}
