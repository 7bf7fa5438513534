package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vaishnaviugal12/CrackCode/internal/dto"
	"github.com/vaishnaviugal12/CrackCode/internal/service"
	"github.com/vaishnaviugal12/CrackCode/internal/utils"
	"github.com/vaishnaviugal12/CrackCode/pkg/judge0"
)

// SubmissionHandler manages the run, submit and history endpoints.
type SubmissionHandler struct {
	service service.JudgeService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.JudgeService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/run/:id", h.run)
	router.Post("/submit/:id", h.submit)
	router.Get("/history/:id", h.history)
}

// run judges the code against the problem's visible test cases and returns a
// per-test report. Nothing is persisted.
func (h *SubmissionHandler) run(c *fiber.Ctx) error {
	problemID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CodeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.service.RunVisible(c.Context(), userIDFromContext(c), problemID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "run completed", report)
}

// submit judges the code against the problem's hidden test cases and records
// the attempt.
func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	problemID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CodeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	verdict, err := h.service.JudgeSubmission(c.Context(), userIDFromContext(c), problemID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission judged", verdict)
}

func (h *SubmissionHandler) history(c *fiber.Ctx) error {
	problemID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	entries, err := h.service.History(c.Context(), userIDFromContext(c), problemID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission history retrieved", entries)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrProblemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "problem not found")
	case errors.Is(err, service.ErrUnknownLanguage):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoTestCases):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrJudgeTimeout):
		return utils.SendError(c, fiber.StatusGatewayTimeout, "judging timed out")
	case errors.Is(err, judge0.ErrRemoteUnavailable):
		return utils.SendError(c, fiber.StatusBadGateway, "execution engine unavailable")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
