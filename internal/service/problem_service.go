package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vaishnaviugal12/CrackCode/internal/dto"
	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/internal/repository"
)

// ProblemService exposes problem authoring and browsing operations.
type ProblemService interface {
	Create(ctx context.Context, creatorID uint, payload dto.ProblemRequest) (dto.ProblemResponse, error)
	Update(ctx context.Context, id uint, payload dto.ProblemRequest) (dto.ProblemResponse, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (dto.ProblemResponse, error)
	List(ctx context.Context) ([]dto.ProblemSummary, error)
	SolvedBy(ctx context.Context, userID uint) ([]dto.ProblemSummary, error)
}

type problemService struct {
	problems  repository.ProblemRepository
	users     repository.UserRepository
	judge     JudgeService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProblemService constructs a problem service.
func NewProblemService(problemRepo repository.ProblemRepository, userRepo repository.UserRepository, judge JudgeService, validate *validator.Validate, logger zerolog.Logger) ProblemService {
	return &problemService{
		problems:  problemRepo,
		users:     userRepo,
		judge:     judge,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "problem_service").Logger(),
	}
}

// Create validates every reference solution against the visible test cases
// before any persistence: a problem is only written once every language's
// complete solution passes every visible case.
func (s *problemService) Create(ctx context.Context, creatorID uint, payload dto.ProblemRequest) (dto.ProblemResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProblemResponse{}, err
	}

	problem, err := s.buildProblem(creatorID, payload)
	if err != nil {
		return dto.ProblemResponse{}, err
	}

	if err := s.judge.ValidateReferenceSolutions(ctx, problem); err != nil {
		return dto.ProblemResponse{}, err
	}

	if err := s.problems.Create(ctx, &problem); err != nil {
		return dto.ProblemResponse{}, fmt.Errorf("create problem: %w", err)
	}

	s.logger.Info().Uint("problem_id", problem.ID).Str("title", problem.Title).Msg("problem created")
	return dto.NewProblemResponse(problem), nil
}

// Update re-validates the new reference solutions before replacing the
// problem revision; a failing language leaves the stored revision untouched.
func (s *problemService) Update(ctx context.Context, id uint, payload dto.ProblemRequest) (dto.ProblemResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProblemResponse{}, err
	}

	existing, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProblemResponse{}, ErrProblemNotFound
		}
		return dto.ProblemResponse{}, err
	}

	problem, err := s.buildProblem(existing.CreatorID, payload)
	if err != nil {
		return dto.ProblemResponse{}, err
	}
	problem.ID = existing.ID
	problem.CreatedAt = existing.CreatedAt

	if err := s.judge.ValidateReferenceSolutions(ctx, problem); err != nil {
		return dto.ProblemResponse{}, err
	}

	if err := s.problems.Update(ctx, &problem); err != nil {
		return dto.ProblemResponse{}, fmt.Errorf("update problem: %w", err)
	}

	return dto.NewProblemResponse(problem), nil
}

func (s *problemService) Delete(ctx context.Context, id uint) error {
	if _, err := s.problems.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProblemNotFound
		}
		return err
	}

	return s.problems.Delete(ctx, id)
}

func (s *problemService) Get(ctx context.Context, id uint) (dto.ProblemResponse, error) {
	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProblemResponse{}, ErrProblemNotFound
		}
		return dto.ProblemResponse{}, err
	}

	return dto.NewProblemResponse(problem), nil
}

func (s *problemService) List(ctx context.Context) ([]dto.ProblemSummary, error) {
	problems, err := s.problems.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ProblemSummary, 0, len(problems))
	for _, problem := range problems {
		summaries = append(summaries, dto.NewProblemSummary(problem))
	}
	return summaries, nil
}

func (s *problemService) SolvedBy(ctx context.Context, userID uint) ([]dto.ProblemSummary, error) {
	problems, err := s.users.SolvedProblems(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ProblemSummary, 0, len(problems))
	for _, problem := range problems {
		summaries = append(summaries, dto.NewProblemSummary(problem))
	}
	return summaries, nil
}

func (s *problemService) buildProblem(creatorID uint, payload dto.ProblemRequest) (models.Problem, error) {
	testCases := make([]models.TestCase, 0, len(payload.VisibleTestCases)+len(payload.HiddenTestCases))
	for _, tc := range payload.VisibleTestCases {
		testCases = append(testCases, models.TestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Explanation:    tc.Explanation,
			Hidden:         false,
		})
	}
	for _, tc := range payload.HiddenTestCases {
		testCases = append(testCases, models.TestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Hidden:         true,
		})
	}

	starters := make([]models.StarterCode, 0, len(payload.StarterCodes))
	for _, starter := range payload.StarterCodes {
		starters = append(starters, models.StarterCode{
			Language:    starter.Language,
			InitialCode: starter.Code,
		})
	}

	references := make([]models.ReferenceSolution, 0, len(payload.ReferenceSolutions))
	for _, reference := range payload.ReferenceSolutions {
		references = append(references, models.ReferenceSolution{
			Language:     reference.Language,
			CompleteCode: reference.Code,
		})
	}

	var tags datatypes.JSON
	if len(payload.Tags) > 0 {
		encoded, err := json.Marshal(payload.Tags)
		if err != nil {
			return models.Problem{}, fmt.Errorf("encode tags: %w", err)
		}
		tags = datatypes.JSON(encoded)
	}

	return models.Problem{
		Title:              payload.Title,
		Description:        s.sanitizer.Sanitize(payload.Description),
		Difficulty:         payload.Difficulty,
		Tags:               tags,
		CreatorID:          creatorID,
		TestCases:          testCases,
		StarterCodes:       starters,
		ReferenceSolutions: references,
	}, nil
}
