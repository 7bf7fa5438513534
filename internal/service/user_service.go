package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vaishnaviugal12/CrackCode/internal/dto"
	"github.com/vaishnaviugal12/CrackCode/internal/middleware"
	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when the email or password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// UserService exposes account lifecycle and authentication operations.
type UserService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	RegisterAdmin(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	DeleteProfile(ctx context.Context, userID uint) error
}

// UserConfig carries the token signing material for the user service.
type UserConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
}

type userService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	blocklist   *redis.Client
	validator   *validator.Validate
	logger      zerolog.Logger
	config      UserConfig
}

// NewUserService constructs a user service.
func NewUserService(userRepo repository.UserRepository, submissionRepo repository.SubmissionRepository, blocklist *redis.Client, validate *validator.Validate, logger zerolog.Logger, config UserConfig) UserService {
	if config.JWTExpiry <= 0 {
		config.JWTExpiry = 24 * time.Hour
	}

	return &userService{
		users:       userRepo,
		submissions: submissionRepo,
		blocklist:   blocklist,
		validator:   validate,
		logger:      logger.With().Str("component", "user_service").Logger(),
		config:      config,
	}
}

func (s *userService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	return s.register(ctx, payload, models.RoleUser)
}

// RegisterAdmin creates an account with the admin role. The route is itself
// admin-gated, so this never escalates an ordinary registration.
func (s *userService) RegisterAdmin(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	return s.register(ctx, payload, models.RoleAdmin)
}

func (s *userService) register(ctx context.Context, payload dto.RegisterRequest, role string) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		Age:          payload.Age,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrEmailTaken
		}
		return dto.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

func (s *userService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

// Logout revokes the presented token by blocklisting it in Redis until its
// natural expiry, after which the key evicts itself.
func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("missing token")
	}

	ttl := s.config.JWTExpiry
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err == nil {
		if exp, expErr := parsed.Claims.GetExpirationTime(); expErr == nil && exp != nil {
			if remaining := time.Until(exp.Time); remaining > 0 {
				ttl = remaining
			}
		}
	}

	key := middleware.BlocklistKeyPrefix + token
	if err := s.blocklist.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("blocklist token: %w", err)
	}
	return nil
}

func (s *userService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

// DeleteProfile removes the account together with its submission history and
// solved-problem records.
func (s *userService) DeleteProfile(ctx context.Context, userID uint) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.submissions.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete submissions: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Uint("user_id", userID).Msg("account deleted")
	return nil
}

func (s *userService) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.config.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
