// Package service implements the account business logic.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coderharsx1122/utube-backend/internal/auth"
	"github.com/coderharsx1122/utube-backend/internal/domain"
	"github.com/coderharsx1122/utube-backend/internal/hash"
	"github.com/coderharsx1122/utube-backend/internal/repository"
	"github.com/coderharsx1122/utube-backend/internal/upload"
	apperrors "github.com/coderharsx1122/utube-backend/pkg/errors"
)

// EventPublisher publishes account lifecycle events. Publishing is best
// effort: a failure is logged and never fails the request.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, user *domain.User) error
	PublishAccountLoggedIn(ctx context.Context, user *domain.User) error
}

// AccountService implements registration, login, logout, and token refresh.
type AccountService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	uploader upload.Uploader
	events   EventPublisher
	logger   *slog.Logger
}

// NewAccountService creates the account service.
func NewAccountService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	uploader upload.Uploader,
	events EventPublisher,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		uploader: uploader,
		events:   events,
		logger:   logger,
	}
}

// RegisterInput carries everything needed to create an account. AvatarPath
// and CoverPath point at already-spooled local files; the uploader removes
// them regardless of outcome.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	AvatarPath string
	CoverPath  string
}

// Register creates a new account. The username is stored lowercased. The
// store's unique constraints remain the authoritative uniqueness guard; the
// lookup before insert only gives a friendlier error on the common path.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Username == "" || in.Email == "" || in.FullName == "" || in.Password == "" {
		return nil, apperrors.InvalidInput("username, email, full name and password are required")
	}
	if in.AvatarPath == "" {
		return nil, apperrors.InvalidInput("avatar image is required")
	}

	existing, err := s.users.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("user", "username or email", in.Username)
	}

	avatarURL, err := s.uploader.Upload(ctx, in.AvatarPath)
	if err != nil {
		return nil, apperrors.Internal(apperrors.Wrap(err, "upload avatar"))
	}

	var coverURL string
	if in.CoverPath != "" {
		coverURL, err = s.uploader.Upload(ctx, in.CoverPath)
		if err != nil {
			return nil, apperrors.Internal(apperrors.Wrap(err, "upload cover image"))
		}
	}

	passwordHash, err := hash.Password(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.NewString(),
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		PasswordHash:  passwordHash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(apperrors.Wrap(err, "load created user"))
	}

	s.publish(ctx, "account.registered", func(ctx context.Context) error {
		return s.events.PublishAccountRegistered(ctx, created)
	})

	return created, nil
}

// LoginInput identifies an account by username or email plus its password.
// At least one identifier must be set.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Login verifies credentials and starts a session. The freshly issued refresh
// token replaces whatever token was stored before, so the most recent login
// owns the session.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*domain.User, *domain.TokenPair, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" && in.Email == "" {
		return nil, nil, apperrors.InvalidInput("username or email is required")
	}
	if in.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			identifier := in.Username
			if identifier == "" {
				identifier = in.Email
			}
			return nil, nil, apperrors.NotFound("user", identifier)
		}
		return nil, nil, apperrors.Internal(err)
	}

	if !hash.Verify(in.Password, user.PasswordHash) {
		return nil, nil, apperrors.Unauthorized("invalid user credentials")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, "account.logged_in", func(ctx context.Context) error {
		return s.events.PublishAccountLoggedIn(ctx, user)
	})

	return user, pair, nil
}

// Logout clears the stored refresh token, ending the user's session. Any
// refresh token issued earlier is rejected from this point on.
func (s *AccountService) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		return err
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new token pair. The presented
// token must match the stored one byte for byte; the rotation stores the new
// token, so each refresh token is usable at most once.
func (s *AccountService) Refresh(ctx context.Context, presented string) (*domain.TokenPair, error) {
	if presented == "" {
		return nil, apperrors.Unauthorized("refresh token is required")
	}

	claims, err := s.tokens.ValidateRefreshToken(presented)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		return nil, apperrors.Unauthorized("refresh token is expired or has been used")
	}

	return s.issueTokens(ctx, user)
}

// GetCurrentUser returns the account for an authenticated user ID.
func (s *AccountService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// issueTokens mints a fresh access/refresh pair and persists the refresh
// token on the user record.
func (s *AccountService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, err
	}
	user.RefreshToken = &refreshToken

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// publish runs a best-effort event publish. Failures are logged only.
func (s *AccountService) publish(ctx context.Context, name string, fn func(context.Context) error) {
	if s.events == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", name),
			slog.String("error", err.Error()),
		)
	}
}
