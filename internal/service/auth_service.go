package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/config"
	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates the email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountSuspended indicates the account exists but has been suspended.
	ErrAccountSuspended = errors.New("account suspended")
	// ErrInvalidRefreshToken indicates the refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// AuthService registers accounts and issues JWT token pairs.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	tutors    repository.TutorRepository
	cfg       config.Config
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds the authentication service.
func NewAuthService(users repository.UserRepository, tutors repository.TutorRepository, cfg config.Config, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		tutors:    tutors,
		cfg:       cfg,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         payload.Role,
		Status:       models.UserStatusActive,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	if user.Role == models.RoleTutor {
		profile := models.TutorProfile{
			UserID:     user.ID,
			Bio:        strings.TrimSpace(payload.Bio),
			Subjects:   payload.Subjects,
			HourlyRate: payload.HourlyRate,
			IsApproved: false,
		}
		if err := s.tutors.Create(ctx, &profile); err != nil {
			return dto.AuthResponse{}, err
		}
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return s.tokenPair(user)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	if user.IsSuspended() {
		return dto.AuthResponse{}, ErrAccountSuspended
	}

	return s.tokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	token, err := jwt.Parse(payload.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.cfg.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return dto.AuthResponse{}, ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return dto.AuthResponse{}, ErrInvalidRefreshToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return dto.AuthResponse{}, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, uint(sub))
	if err != nil {
		return dto.AuthResponse{}, ErrInvalidRefreshToken
	}

	if user.IsSuspended() {
		return dto.AuthResponse{}, ErrAccountSuspended
	}

	return s.tokenPair(user)
}

func (s *authService) tokenPair(user models.User) (dto.AuthResponse, error) {
	now := s.now()
	accessExpiry := now.Add(s.cfg.AccessTokenTTL)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  accessExpiry.Unix(),
	})

	accessToken, err := access.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.RefreshTokenTTL).Unix(),
	})

	refreshToken, err := refresh.SignedString([]byte(s.cfg.JWTRefreshSecret))
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
		User:         dto.NewUserResponse(user),
	}, nil
}
