package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vaishnaviugal12/CrackCode/internal/dto"
	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/internal/observability"
	"github.com/vaishnaviugal12/CrackCode/internal/repository"
	"github.com/vaishnaviugal12/CrackCode/pkg/judge0"
)

// ErrUnknownLanguage indicates the requested language is not in the supported
// enumeration. Judging cannot proceed without a language id, so this is a
// hard validation failure raised before any remote call.
var ErrUnknownLanguage = errors.New("unknown language")

// ErrProblemNotFound indicates the problem cannot be located.
var ErrProblemNotFound = errors.New("problem not found")

// ErrNoTestCases indicates the problem carries no test cases for the
// requested judging mode; an empty batch is a caller bug, never submitted.
var ErrNoTestCases = errors.New("problem has no test cases")

// ErrTestCaseFailed indicates a reference solution failed a visible test
// case, vetoing problem publication.
var ErrTestCaseFailed = errors.New("test case failed")

// ErrJudgeTimeout indicates the judging deadline expired while waiting for
// the execution engine.
var ErrJudgeTimeout = errors.New("judging timed out")

// JudgeService orchestrates code judging: it composes the language resolver,
// batch submitter, result poller and verdict reducers for the problem
// authoring and user submission call sites.
type JudgeService interface {
	ValidateReferenceSolutions(ctx context.Context, problem models.Problem) error
	RunVisible(ctx context.Context, userID, problemID uint, payload dto.CodeRequest) (dto.RunResponse, error)
	JudgeSubmission(ctx context.Context, userID, problemID uint, payload dto.CodeRequest) (dto.SubmitResponse, error)
	History(ctx context.Context, userID, problemID uint) ([]dto.SubmissionHistoryEntry, error)
}

// JudgeConfig describes judging knobs.
type JudgeConfig struct {
	// Timeout bounds one submit-poll-reduce chain. Zero means no deadline,
	// matching the engine client's unbounded baseline.
	Timeout time.Duration
	// EventSubject is the NATS subject judged-submission events are
	// published to. Empty disables publishing.
	EventSubject string
}

type judgeService struct {
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	engine      judge0.ExecutionClient
	events      *nats.Conn
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	config      JudgeConfig
}

// NewJudgeService constructs the judging orchestrator. The NATS connection is
// optional; pass nil to disable event publishing.
func NewJudgeService(problemRepo repository.ProblemRepository, submissionRepo repository.SubmissionRepository, userRepo repository.UserRepository, engine judge0.ExecutionClient, events *nats.Conn, validate *validator.Validate, logger zerolog.Logger, cfg JudgeConfig) JudgeService {
	if cfg.EventSubject == "" {
		cfg.EventSubject = "crackcode.submissions.judged"
	}

	return &judgeService{
		problems:    problemRepo,
		submissions: submissionRepo,
		users:       userRepo,
		engine:      engine,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "judge_service").Logger(),
		tracer:      otel.Tracer("github.com/vaishnaviugal12/CrackCode/internal/service/judge"),
		config:      cfg,
	}
}

// ValidateReferenceSolutions runs every reference solution against the
// problem's visible test cases, one batch per language. The first failing
// language aborts the whole validation; remaining languages are never
// submitted, conserving execution quota.
func (s *judgeService) ValidateReferenceSolutions(ctx context.Context, problem models.Problem) error {
	visible := problem.VisibleTestCases()
	if len(visible) == 0 {
		return fmt.Errorf("%w: no visible test cases to validate against", ErrNoTestCases)
	}
	if len(problem.ReferenceSolutions) == 0 {
		return errors.New("problem has no reference solutions")
	}

	spanCtx, span := s.tracer.Start(ctx, "judge.validate_reference_solutions", trace.WithAttributes(
		attribute.Int("problem.languages", len(problem.ReferenceSolutions)),
		attribute.Int("problem.visible_cases", len(visible)),
	))
	defer span.End()

	for _, reference := range problem.ReferenceSolutions {
		languageID, ok := judge0.LanguageID(reference.Language)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, reference.Language)
		}

		results, err := s.executeBatch(spanCtx, reference.CompleteCode, languageID, visible)
		if err != nil {
			return fmt.Errorf("validate %s reference solution: %w", reference.Language, err)
		}

		if index, ok := reduceValidation(results); !ok {
			s.logger.Info().
				Str("language", reference.Language).
				Int("test_case", index+1).
				Msg("reference solution rejected")
			return fmt.Errorf("%w: language %s, test case %d", ErrTestCaseFailed, reference.Language, index+1)
		}
	}

	return nil
}

// RunVisible judges the code against the problem's visible test cases and
// returns a per-test report for fast feedback. Nothing is persisted.
func (s *judgeService) RunVisible(ctx context.Context, userID, problemID uint, payload dto.CodeRequest) (dto.RunResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RunResponse{}, err
	}

	languageID, ok := judge0.LanguageID(payload.Language)
	if !ok {
		return dto.RunResponse{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, payload.Language)
	}

	problem, err := s.getProblem(ctx, problemID)
	if err != nil {
		return dto.RunResponse{}, err
	}

	visible := problem.VisibleTestCases()
	if len(visible) == 0 {
		return dto.RunResponse{}, ErrNoTestCases
	}

	spanCtx, span := s.tracer.Start(ctx, "judge.run_visible", trace.WithAttributes(
		attribute.Int("problem.id", int(problemID)),
		attribute.Int("batch.size", len(visible)),
	))
	defer span.End()

	results, err := s.executeBatch(spanCtx, payload.Code, languageID, visible)
	if err != nil {
		return dto.RunResponse{}, err
	}

	reports := make([]dto.TestCaseReport, len(results))
	allPassed := true
	for i, result := range results {
		passed := result.Accepted()
		if !passed {
			allPassed = false
		}
		reports[i] = dto.TestCaseReport{
			Passed:        passed,
			Input:         visible[i].Input,
			Expected:      visible[i].ExpectedOutput,
			Actual:        result.Stdout,
			Time:          result.TimeSeconds(),
			Memory:        result.Memory,
			Status:        result.StatusDescription(),
			CompileOutput: result.CompileOutput,
			Stderr:        result.Stderr,
		}
	}

	status := "Accepted"
	if !allPassed {
		status = "Failed"
	}

	observability.JudgeVerdicts().WithLabelValues("run", status).Inc()

	return dto.RunResponse{Status: status, TestCases: reports}, nil
}

// JudgeSubmission judges the code against the problem's hidden test cases. A
// Submission record is created pending before dispatch and finalized exactly
// once afterwards; on an accepted verdict the problem joins the user's solved
// set. A remote failure mid-flight leaves the record pending for the stale
// sweep to reconcile.
func (s *judgeService) JudgeSubmission(ctx context.Context, userID, problemID uint, payload dto.CodeRequest) (dto.SubmitResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmitResponse{}, err
	}

	language := strings.ToLower(strings.TrimSpace(payload.Language))
	languageID, ok := judge0.LanguageID(language)
	if !ok {
		return dto.SubmitResponse{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, payload.Language)
	}

	problem, err := s.getProblem(ctx, problemID)
	if err != nil {
		return dto.SubmitResponse{}, err
	}

	hidden := problem.HiddenTestCases()
	if len(hidden) == 0 {
		return dto.SubmitResponse{}, ErrNoTestCases
	}

	spanCtx, span := s.tracer.Start(ctx, "judge.submission", trace.WithAttributes(
		attribute.Int("problem.id", int(problemID)),
		attribute.Int("batch.size", len(hidden)),
	))
	defer span.End()

	submission := models.Submission{
		UserID:          userID,
		ProblemID:       problemID,
		Language:        language,
		Code:            payload.Code,
		Status:          models.SubmissionStatusPending,
		TestCasesTotal:  len(hidden),
		TestCasesPassed: 0,
	}
	if err := s.submissions.Create(spanCtx, &submission); err != nil {
		return dto.SubmitResponse{}, fmt.Errorf("create submission: %w", err)
	}

	results, err := s.executeBatch(spanCtx, payload.Code, languageID, hidden)
	if err != nil {
		s.logger.Error().Err(err).
			Uint("submission_id", submission.ID).
			Msg("judging failed, submission left pending")
		return dto.SubmitResponse{}, err
	}

	verdict := reduceSubmission(results)

	submission.Status = verdict.Status
	submission.TestCasesPassed = verdict.Passed
	submission.Runtime = verdict.Runtime
	submission.Memory = verdict.Memory
	submission.ErrorMessage = verdict.ErrorMessage
	if err := s.submissions.Update(spanCtx, &submission); err != nil {
		return dto.SubmitResponse{}, fmt.Errorf("finalize submission: %w", err)
	}

	if verdict.Status == models.SubmissionStatusAccepted {
		if err := s.users.MarkProblemSolved(spanCtx, userID, problemID); err != nil {
			s.logger.Error().Err(err).
				Uint("user_id", userID).
				Uint("problem_id", problemID).
				Msg("failed to update solved set")
		}
	}

	observability.JudgeVerdicts().WithLabelValues("submit", verdict.Status).Inc()
	s.publishJudgedEvent(submission)

	return dto.SubmitResponse{
		Status:          verdict.Status,
		TotalTestCases:  len(hidden),
		PassedTestCases: verdict.Passed,
		Runtime:         verdict.Runtime,
		Memory:          verdict.Memory,
		ErrorMessage:    verdict.ErrorMessage,
	}, nil
}

// History lists the user's previous submissions for one problem, newest
// first.
func (s *judgeService) History(ctx context.Context, userID, problemID uint) ([]dto.SubmissionHistoryEntry, error) {
	submissions, err := s.submissions.ListByUserAndProblem(ctx, userID, problemID)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.SubmissionHistoryEntry, 0, len(submissions))
	for _, submission := range submissions {
		entries = append(entries, dto.NewSubmissionHistoryEntry(submission))
	}
	return entries, nil
}

// executeBatch is the single submit-poll chain: one batch-creation call for
// all test cases (one remote call per logical judging request, conserving
// quota), then a poll loop bounded by the configured deadline. Tokens and
// results correspond to test cases by index; no identifier in the result is
// used for re-association.
func (s *judgeService) executeBatch(ctx context.Context, sourceCode string, languageID int, cases []models.TestCase) ([]judge0.SubmissionResult, error) {
	requests := make([]judge0.SubmissionRequest, len(cases))
	for i, testCase := range cases {
		requests[i] = judge0.SubmissionRequest{
			SourceCode:     sourceCode,
			LanguageID:     languageID,
			Stdin:          testCase.Input,
			ExpectedOutput: testCase.ExpectedOutput,
		}
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	tokens, err := s.engine.SubmitBatch(ctx, requests)
	if err != nil {
		return nil, err
	}

	results, err := s.engine.AwaitResults(ctx, tokens)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrJudgeTimeout, err)
		}
		return nil, err
	}

	if len(results) != len(cases) {
		return nil, fmt.Errorf("engine returned %d results for %d test cases", len(results), len(cases))
	}

	return results, nil
}

func (s *judgeService) getProblem(ctx context.Context, id uint) (models.Problem, error) {
	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Problem{}, ErrProblemNotFound
		}
		return models.Problem{}, err
	}
	return problem, nil
}

type submissionJudgedEvent struct {
	SubmissionID    uint      `json:"submission_id"`
	UserID          uint      `json:"user_id"`
	ProblemID       uint      `json:"problem_id"`
	Status          string    `json:"status"`
	TestCasesPassed int       `json:"test_cases_passed"`
	TestCasesTotal  int       `json:"test_cases_total"`
	JudgedAt        time.Time `json:"judged_at"`
}

func (s *judgeService) publishJudgedEvent(submission models.Submission) {
	if s.events == nil || s.config.EventSubject == "" {
		return
	}

	payload, err := json.Marshal(submissionJudgedEvent{
		SubmissionID:    submission.ID,
		UserID:          submission.UserID,
		ProblemID:       submission.ProblemID,
		Status:          submission.Status,
		TestCasesPassed: submission.TestCasesPassed,
		TestCasesTotal:  submission.TestCasesTotal,
		JudgedAt:        time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode judged event")
		return
	}

	if err := s.events.Publish(s.config.EventSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish judged event")
	}
}
