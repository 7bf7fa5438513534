package dto

import (
	"encoding/json"

	"github.com/vaishnaviugal12/CrackCode/internal/models"
)

// TestCaseInput is one test case supplied when authoring a problem.
type TestCaseInput struct {
	Input          string `json:"input" validate:"required"`
	ExpectedOutput string `json:"expected_output" validate:"required"`
	Explanation    string `json:"explanation"`
}

// LanguageCodeInput pairs a language label with a block of code.
type LanguageCodeInput struct {
	Language string `json:"language" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

// ProblemRequest represents the payload for creating or updating a problem.
type ProblemRequest struct {
	Title              string              `json:"title" validate:"required"`
	Description        string              `json:"description" validate:"required"`
	Difficulty         string              `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Tags               []string            `json:"tags" validate:"omitempty,dive,oneof=array linkedlist stack queue graphs trees"`
	VisibleTestCases   []TestCaseInput     `json:"visible_test_cases" validate:"required,min=1,dive"`
	HiddenTestCases    []TestCaseInput     `json:"hidden_test_cases" validate:"required,min=1,dive"`
	StarterCodes       []LanguageCodeInput `json:"starter_codes" validate:"omitempty,dive"`
	ReferenceSolutions []LanguageCodeInput `json:"reference_solutions" validate:"required,min=1,dive"`
}

// ProblemSummary is the listing view of a problem.
type ProblemSummary struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags,omitempty"`
}

// ProblemResponse is the detailed, user-facing view of a problem. Hidden test
// cases and reference solutions are never included.
type ProblemResponse struct {
	ID               uint               `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Difficulty       string             `json:"difficulty"`
	Tags             []string           `json:"tags,omitempty"`
	VisibleTestCases []TestCaseResponse `json:"visible_test_cases"`
	StarterCodes     []StarterCodeView  `json:"starter_codes,omitempty"`
}

// TestCaseResponse is a visible test case shown alongside the statement.
type TestCaseResponse struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Explanation    string `json:"explanation,omitempty"`
}

// StarterCodeView is a per-language editor scaffold.
type StarterCodeView struct {
	Language    string `json:"language"`
	InitialCode string `json:"initial_code"`
}

// NewProblemSummary builds a listing DTO from a model.
func NewProblemSummary(problem models.Problem) ProblemSummary {
	return ProblemSummary{
		ID:         problem.ID,
		Title:      problem.Title,
		Difficulty: problem.Difficulty,
		Tags:       decodeTags(problem.Tags),
	}
}

// NewProblemResponse builds the detailed DTO from a model, exposing only the
// visible test cases.
func NewProblemResponse(problem models.Problem) ProblemResponse {
	visible := problem.VisibleTestCases()
	cases := make([]TestCaseResponse, 0, len(visible))
	for _, tc := range visible {
		cases = append(cases, TestCaseResponse{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Explanation:    tc.Explanation,
		})
	}

	starters := make([]StarterCodeView, 0, len(problem.StarterCodes))
	for _, starter := range problem.StarterCodes {
		starters = append(starters, StarterCodeView{
			Language:    starter.Language,
			InitialCode: starter.InitialCode,
		})
	}

	return ProblemResponse{
		ID:               problem.ID,
		Title:            problem.Title,
		Description:      problem.Description,
		Difficulty:       problem.Difficulty,
		Tags:             decodeTags(problem.Tags),
		VisibleTestCases: cases,
		StarterCodes:     starters,
	}
}

func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}
