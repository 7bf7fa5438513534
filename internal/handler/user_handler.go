package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vaishnaviugal12/CrackCode/internal/dto"
	"github.com/vaishnaviugal12/CrackCode/internal/service"
	"github.com/vaishnaviugal12/CrackCode/internal/utils"
)

// UserHandler manages account and authentication endpoints.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler builds a user handler instance.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches the account routes. Register and login are public; the
// auth middleware guards the session routes and admin additionally gates
// admin registration. Middleware is attached per route because the public and
// protected routes share one path prefix.
func (h *UserHandler) Register(router fiber.Router, auth fiber.Handler, admin fiber.Handler) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/logout", auth, h.logout)
	router.Get("/check", auth, h.check)
	router.Delete("/profile", auth, h.deleteProfile)
	router.Post("/admin/register", auth, admin, h.registerAdmin)
}

func (h *UserHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", auth)
}

func (h *UserHandler) registerAdmin(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.RegisterAdmin(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "admin registered", auth)
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", auth)
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	token := tokenFromContext(c)
	if token == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing token")
	}

	if err := h.service.Logout(c.Context(), token); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "logged out", nil)
}

// check returns the authenticated user's profile, confirming the token is
// still accepted.
func (h *UserHandler) check(c *fiber.Ctx) error {
	profile, err := h.service.Profile(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "authenticated", profile)
}

func (h *UserHandler) deleteProfile(c *fiber.Ctx) error {
	if err := h.service.DeleteProfile(c.Context(), userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "account deleted", nil)
}

func (h *UserHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
