package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vaishnaviugal12/CrackCode/internal/dto"
	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/pkg/judge0"
)

type stubEngine struct {
	submitCalls int
	awaitCalls  int
	results     []judge0.SubmissionResult
	submitErr   error
	awaitErr    error
	onSubmit    func(requests []judge0.SubmissionRequest)
}

func (e *stubEngine) SubmitBatch(ctx context.Context, requests []judge0.SubmissionRequest) ([]string, error) {
	e.submitCalls++
	if e.onSubmit != nil {
		e.onSubmit(requests)
	}
	if e.submitErr != nil {
		return nil, e.submitErr
	}

	tokens := make([]string, len(requests))
	for i := range requests {
		tokens[i] = fmt.Sprintf("tok-%d", i)
	}
	return tokens, nil
}

func (e *stubEngine) AwaitResults(ctx context.Context, tokens []string) ([]judge0.SubmissionResult, error) {
	e.awaitCalls++
	if e.awaitErr != nil {
		return nil, e.awaitErr
	}
	return e.results, nil
}

type stubProblemRepo struct {
	problems map[uint]models.Problem
}

func (r *stubProblemRepo) Create(ctx context.Context, problem *models.Problem) error { return nil }
func (r *stubProblemRepo) Update(ctx context.Context, problem *models.Problem) error { return nil }
func (r *stubProblemRepo) Delete(ctx context.Context, id uint) error                 { return nil }
func (r *stubProblemRepo) List(ctx context.Context) ([]models.Problem, error)        { return nil, nil }

func (r *stubProblemRepo) GetByID(ctx context.Context, id uint) (models.Problem, error) {
	problem, ok := r.problems[id]
	if !ok {
		return models.Problem{}, gorm.ErrRecordNotFound
	}
	return problem, nil
}

type stubSubmissionRepo struct {
	created []*models.Submission
	updated []models.Submission
}

func (r *stubSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = uint(len(r.created) + 1)
	submission.CreatedAt = time.Now()
	r.created = append(r.created, submission)
	return nil
}

func (r *stubSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	r.updated = append(r.updated, *submission)
	return nil
}

func (r *stubSubmissionRepo) ListByUserAndProblem(ctx context.Context, userID, problemID uint) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range r.created {
		if submission.UserID == userID && submission.ProblemID == problemID {
			out = append(out, *submission)
		}
	}
	return out, nil
}

func (r *stubSubmissionRepo) DeleteByUser(ctx context.Context, userID uint) error { return nil }

func (r *stubSubmissionRepo) MarkStaleAsError(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubUserRepo struct {
	solved map[string]int
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (r *stubUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	return models.User{}, gorm.ErrRecordNotFound
}
func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return models.User{}, gorm.ErrRecordNotFound
}
func (r *stubUserRepo) Delete(ctx context.Context, id uint) error { return nil }

func (r *stubUserRepo) MarkProblemSolved(ctx context.Context, userID, problemID uint) error {
	if r.solved == nil {
		r.solved = make(map[string]int)
	}
	r.solved[fmt.Sprintf("%d:%d", userID, problemID)]++
	return nil
}

func (r *stubUserRepo) SolvedProblems(ctx context.Context, userID uint) ([]models.Problem, error) {
	return nil, nil
}

func testProblem() models.Problem {
	return models.Problem{
		ID:    7,
		Title: "Two Sum",
		TestCases: []models.TestCase{
			{Input: "1 2", ExpectedOutput: "3", Hidden: false},
			{Input: "2 3", ExpectedOutput: "5", Hidden: false},
			{Input: "10 20", ExpectedOutput: "30", Hidden: true},
			{Input: "0 0", ExpectedOutput: "0", Hidden: true},
			{Input: "-1 1", ExpectedOutput: "0", Hidden: true},
		},
		ReferenceSolutions: []models.ReferenceSolution{
			{Language: "python", CompleteCode: "print(sum(map(int, input().split())))"},
		},
	}
}

type judgeFixture struct {
	service     JudgeService
	engine      *stubEngine
	problems    *stubProblemRepo
	submissions *stubSubmissionRepo
	users       *stubUserRepo
}

func newJudgeFixture(t *testing.T, engine *stubEngine) *judgeFixture {
	t.Helper()

	problems := &stubProblemRepo{problems: map[uint]models.Problem{7: testProblem()}}
	submissions := &stubSubmissionRepo{}
	users := &stubUserRepo{}

	svc := NewJudgeService(problems, submissions, users, engine, nil, validator.New(), zerolog.Nop(), JudgeConfig{})

	return &judgeFixture{
		service:     svc,
		engine:      engine,
		problems:    problems,
		submissions: submissions,
		users:       users,
	}
}

func TestJudgeSubmissionRejectsUnknownLanguageBeforeDispatch(t *testing.T) {
	fixture := newJudgeFixture(t, &stubEngine{})

	_, err := fixture.service.JudgeSubmission(context.Background(), 1, 7, dto.CodeRequest{
		Language: "brainfuck",
		Code:     "+++",
	})

	require.ErrorIs(t, err, ErrUnknownLanguage)
	require.Zero(t, fixture.engine.submitCalls)
	require.Empty(t, fixture.submissions.created)
}

func TestJudgeSubmissionCreatesPendingBeforeDispatch(t *testing.T) {
	var pendingAtDispatch bool
	engine := &stubEngine{
		results: []judge0.SubmissionResult{
			acceptedResult("0.1", 1024),
			acceptedResult("0.2", 1200),
			acceptedResult("0.1", 900),
		},
	}

	fixture := newJudgeFixture(t, engine)
	engine.onSubmit = func(requests []judge0.SubmissionRequest) {
		pendingAtDispatch = len(fixture.submissions.created) == 1 &&
			fixture.submissions.created[0].Status == models.SubmissionStatusPending
	}

	response, err := fixture.service.JudgeSubmission(context.Background(), 1, 7, dto.CodeRequest{
		Language: "Python",
		Code:     "print(sum(map(int, input().split())))",
	})
	require.NoError(t, err)

	require.True(t, pendingAtDispatch)
	require.Equal(t, models.SubmissionStatusAccepted, response.Status)
	require.Equal(t, 3, response.TotalTestCases)
	require.Equal(t, 3, response.PassedTestCases)
	require.InDelta(t, 0.4, response.Runtime, 1e-9)
	require.Equal(t, 1200, response.Memory)

	require.Len(t, fixture.submissions.updated, 1)
	final := fixture.submissions.updated[0]
	require.Equal(t, models.SubmissionStatusAccepted, final.Status)
	require.Equal(t, "python", final.Language)
	require.Equal(t, 1, fixture.users.solved["1:7"])
}

func TestJudgeSubmissionBatchesHiddenCasesInOrder(t *testing.T) {
	var dispatched []judge0.SubmissionRequest
	engine := &stubEngine{
		results: []judge0.SubmissionResult{
			acceptedResult("0.1", 100),
			acceptedResult("0.1", 100),
			acceptedResult("0.1", 100),
		},
	}

	fixture := newJudgeFixture(t, engine)
	engine.onSubmit = func(requests []judge0.SubmissionRequest) {
		dispatched = requests
	}

	_, err := fixture.service.JudgeSubmission(context.Background(), 1, 7, dto.CodeRequest{
		Language: "python",
		Code:     "code",
	})
	require.NoError(t, err)

	require.Equal(t, 1, fixture.engine.submitCalls)
	require.Len(t, dispatched, 3)
	require.Equal(t, "10 20", dispatched[0].Stdin)
	require.Equal(t, "0 0", dispatched[1].Stdin)
	require.Equal(t, "-1 1", dispatched[2].Stdin)
	for _, request := range dispatched {
		require.Equal(t, 71, request.LanguageID)
	}
}

func TestJudgeSubmissionFailedVerdictSkipsSolvedSet(t *testing.T) {
	engine := &stubEngine{
		results: []judge0.SubmissionResult{
			acceptedResult("0.1", 100),
			failedResult(4, "Wrong Answer", "", "", 0),
			acceptedResult("0.1", 100),
		},
	}

	fixture := newJudgeFixture(t, engine)
	response, err := fixture.service.JudgeSubmission(context.Background(), 1, 7, dto.CodeRequest{
		Language: "python",
		Code:     "code",
	})
	require.NoError(t, err)

	require.Equal(t, "Wrong Answer", response.Status)
	require.Equal(t, 2, response.PassedTestCases)
	require.Equal(t, "Unknown Error", response.ErrorMessage)
	require.Empty(t, fixture.users.solved)
}

func TestJudgeSubmissionLeavesPendingOnEngineFailure(t *testing.T) {
	engine := &stubEngine{submitErr: judge0.ErrRemoteUnavailable}

	fixture := newJudgeFixture(t, engine)
	_, err := fixture.service.JudgeSubmission(context.Background(), 1, 7, dto.CodeRequest{
		Language: "python",
		Code:     "code",
	})

	require.ErrorIs(t, err, judge0.ErrRemoteUnavailable)
	require.Len(t, fixture.submissions.created, 1)
	require.Equal(t, models.SubmissionStatusPending, fixture.submissions.created[0].Status)
	require.Empty(t, fixture.submissions.updated)
}

func TestValidateReferenceSolutionsAbortsOnFirstFailingLanguage(t *testing.T) {
	engine := &stubEngine{
		results: []judge0.SubmissionResult{
			acceptedResult("0.1", 100),
			failedResult(4, "Wrong Answer", "", "", 0),
		},
	}

	fixture := newJudgeFixture(t, engine)
	problem := testProblem()
	problem.ReferenceSolutions = []models.ReferenceSolution{
		{Language: "python", CompleteCode: "bad"},
		{Language: "cpp", CompleteCode: "never submitted"},
	}

	err := fixture.service.ValidateReferenceSolutions(context.Background(), problem)
	require.ErrorIs(t, err, ErrTestCaseFailed)
	require.Contains(t, err.Error(), "test case 2")
	require.Equal(t, 1, fixture.engine.submitCalls)
}

func TestValidateReferenceSolutionsRejectsUnknownLanguage(t *testing.T) {
	fixture := newJudgeFixture(t, &stubEngine{})
	problem := testProblem()
	problem.ReferenceSolutions = []models.ReferenceSolution{{Language: "cobol", CompleteCode: "x"}}

	err := fixture.service.ValidateReferenceSolutions(context.Background(), problem)
	require.ErrorIs(t, err, ErrUnknownLanguage)
	require.Zero(t, fixture.engine.submitCalls)
}

func TestValidateReferenceSolutionsAcceptsAllLanguages(t *testing.T) {
	engine := &stubEngine{
		results: []judge0.SubmissionResult{
			acceptedResult("0.1", 100),
			acceptedResult("0.1", 100),
		},
	}

	fixture := newJudgeFixture(t, engine)
	problem := testProblem()
	problem.ReferenceSolutions = []models.ReferenceSolution{
		{Language: "python", CompleteCode: "a"},
		{Language: "cpp", CompleteCode: "b"},
	}

	require.NoError(t, fixture.service.ValidateReferenceSolutions(context.Background(), problem))
	require.Equal(t, 2, fixture.engine.submitCalls)
}

func TestRunVisibleReportsPerTestCase(t *testing.T) {
	engine := &stubEngine{
		results: []judge0.SubmissionResult{
			acceptedResult("0.1", 100),
			failedResult(4, "Wrong Answer", "", "", 0),
		},
	}

	fixture := newJudgeFixture(t, engine)
	response, err := fixture.service.RunVisible(context.Background(), 1, 7, dto.CodeRequest{
		Language: "python",
		Code:     "code",
	})
	require.NoError(t, err)

	require.Equal(t, "Failed", response.Status)
	require.Len(t, response.TestCases, 2)
	require.True(t, response.TestCases[0].Passed)
	require.False(t, response.TestCases[1].Passed)
	require.Equal(t, "1 2", response.TestCases[0].Input)
	require.Equal(t, "Wrong Answer", response.TestCases[1].Status)

	require.Empty(t, fixture.submissions.created)
}

func TestRunVisibleUnknownProblem(t *testing.T) {
	fixture := newJudgeFixture(t, &stubEngine{})

	_, err := fixture.service.RunVisible(context.Background(), 1, 999, dto.CodeRequest{
		Language: "python",
		Code:     "code",
	})
	require.ErrorIs(t, err, ErrProblemNotFound)
	require.Zero(t, fixture.engine.submitCalls)
}

func TestHistoryReturnsUserSubmissions(t *testing.T) {
	engine := &stubEngine{
		results: []judge0.SubmissionResult{
			acceptedResult("0.1", 100),
			acceptedResult("0.1", 100),
			acceptedResult("0.1", 100),
		},
	}

	fixture := newJudgeFixture(t, engine)
	_, err := fixture.service.JudgeSubmission(context.Background(), 1, 7, dto.CodeRequest{
		Language: "python",
		Code:     "code",
	})
	require.NoError(t, err)

	entries, err := fixture.service.History(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "python", entries[0].Language)

	entries, err = fixture.service.History(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Empty(t, entries)
}
