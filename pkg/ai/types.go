package ai

import "context"

// TestCaseContext is one visible example shared with the assistant. Hidden
// test cases are never passed here.
type TestCaseContext struct {
	Input          string
	ExpectedOutput string
	Explanation    string
}

// DoubtInput carries the problem context and the user's question.
type DoubtInput struct {
	ProblemTitle       string
	ProblemDescription string
	TestCases          []TestCaseContext
	StarterCode        string
	Question           string
}

// Assistant answers questions scoped to a single coding problem.
type Assistant interface {
	Answer(ctx context.Context, input DoubtInput) (string, error)
}
