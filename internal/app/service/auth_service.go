package service

import (
	"codecourse/internal/common"
	"codecourse/internal/common/security"
	"codecourse/internal/domain/model"
	"codecourse/internal/domain/repository"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

type AuthService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "AuthService").Logger(),
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=student admin"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

var errBadCredentials = common.WithDetail(common.ErrUnauthorized, "Incorrect username or password")

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.WithDetail(common.ErrBadRequest, "Username already registered")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, common.WithDetail(common.ErrBadRequest, "Email already registered")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !model.IsValidRole(role) {
		return nil, common.WithDetail(common.ErrValidation, "Unknown role")
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("User signed up")
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	if username == "" || password == "" {
		return nil, errBadCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, errBadCredentials
	}

	token, err := security.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// CurrentUser resolves the account a verified token belongs to. A token whose
// user no longer exists is treated like a bad token.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithDetail(common.ErrUnauthorized, "Could not validate credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}
