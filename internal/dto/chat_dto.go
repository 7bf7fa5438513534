package dto

// DoubtRequest carries a user's question about one problem.
type DoubtRequest struct {
	ProblemID uint   `json:"problem_id" validate:"required,gt=0"`
	Message   string `json:"message" validate:"required,min=1"`
}

// DoubtResponse is the assistant's answer.
type DoubtResponse struct {
	Response     string `json:"response"`
	ProblemTitle string `json:"problem_title"`
}
