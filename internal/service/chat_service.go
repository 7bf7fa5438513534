package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vaishnaviugal12/CrackCode/internal/dto"
	"github.com/vaishnaviugal12/CrackCode/internal/repository"
	"github.com/vaishnaviugal12/CrackCode/pkg/ai"
)

// ErrAssistantUnavailable is returned when no AI assistant is configured.
var ErrAssistantUnavailable = errors.New("ai assistant is not configured")

// ChatService answers problem-scoped doubts using an AI assistant.
type ChatService interface {
	SolveDoubt(ctx context.Context, payload dto.DoubtRequest) (dto.DoubtResponse, error)
}

type chatService struct {
	problems  repository.ProblemRepository
	assistant ai.Assistant
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewChatService constructs a chat service. The assistant may be nil when the
// deployment has no AI provider configured.
func NewChatService(problemRepo repository.ProblemRepository, assistant ai.Assistant, validate *validator.Validate, logger zerolog.Logger) ChatService {
	return &chatService{
		problems:  problemRepo,
		assistant: assistant,
		validator: validate,
		logger:    logger.With().Str("component", "chat_service").Logger(),
	}
}

// SolveDoubt loads the referenced problem and forwards the question with the
// problem statement, visible examples and starter code as context. Hidden test
// cases are deliberately excluded.
func (s *chatService) SolveDoubt(ctx context.Context, payload dto.DoubtRequest) (dto.DoubtResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DoubtResponse{}, err
	}

	if s.assistant == nil {
		return dto.DoubtResponse{}, ErrAssistantUnavailable
	}

	problem, err := s.problems.GetByID(ctx, payload.ProblemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DoubtResponse{}, ErrProblemNotFound
		}
		return dto.DoubtResponse{}, err
	}

	visible := problem.VisibleTestCases()
	cases := make([]ai.TestCaseContext, 0, len(visible))
	for _, tc := range visible {
		cases = append(cases, ai.TestCaseContext{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Explanation:    tc.Explanation,
		})
	}

	var starter string
	if len(problem.StarterCodes) > 0 {
		starter = problem.StarterCodes[0].InitialCode
	}

	answer, err := s.assistant.Answer(ctx, ai.DoubtInput{
		ProblemTitle:       problem.Title,
		ProblemDescription: problem.Description,
		TestCases:          cases,
		StarterCode:        starter,
		Question:           payload.Message,
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("problem_id", problem.ID).Msg("assistant request failed")
		return dto.DoubtResponse{}, err
	}

	return dto.DoubtResponse{Response: answer, ProblemTitle: problem.Title}, nil
}
