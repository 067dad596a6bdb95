package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/common/security"
	"portfolio_backend/internal/domain/model"
	"portfolio_backend/internal/domain/repository"
	"portfolio_backend/internal/platform/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenService
	rdb      *redis.Client
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenService, rdb *redis.Client, logger *slog.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, rdb: rdb, logger: logger}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair holds freshly issued tokens. They reach the client as cookies
// only, never in a response body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return common.ErrBadRequest
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return common.ErrBadRequest
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		Handle:       slug.Make(req.Username),
		PasswordHash: hashedPassword,
		Role:         role,
		Provider:     "local",
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrDuplicateEmail on the unique constraint.
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Accounts from external providers have no local hash and cannot log in
	// with a password.
	if user.PasswordHash == "" || !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is left untouched.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", common.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidToken
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return accessToken, nil
}

// RequestPasswordReset never reports whether the email exists. Internal
// failures are logged and swallowed so the response stays indistinguishable.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.ErrorContext(ctx, "reset request: user lookup failed", slog.Any("error", err))
		}
		return
	}

	token, err := generateResetToken()
	if err != nil {
		s.logger.ErrorContext(ctx, "reset request: token generation failed", slog.Any("error", err))
		return
	}

	expiry := time.Now().Add(config.AppConfig.ResetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		s.logger.ErrorContext(ctx, "reset request: failed to store token", slog.Any("error", err))
		return
	}

	job := model.ResetMailJob{
		Email: user.Email,
		Link:  config.AppConfig.FrontendBaseURL + "/reset-password/" + token,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		s.logger.ErrorContext(ctx, "reset request: failed to marshal mail job", slog.Any("error", err))
		return
	}
	if err := s.rdb.LPush(ctx, config.AppConfig.MailQueueName, payload).Err(); err != nil {
		// Mail dispatch failure is invisible to the caller.
		s.logger.ErrorContext(ctx, "reset request: failed to enqueue mail job", slog.Any("error", err))
		return
	}

	s.logger.InfoContext(ctx, "reset mail job enqueued", slog.String("user_id", user.ID))
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return common.ErrBadRequest
	}

	user, err := s.userRepo.FindByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find reset token: %w", err)
	}

	hashedPassword, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Clears the token in the same statement, so a second attempt with the
	// same token fails.
	if err := s.userRepo.ReplacePassword(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to replace password: %w", err)
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// generateResetToken returns 32 random bytes hex-encoded, giving 256 bits
// of entropy per token.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
