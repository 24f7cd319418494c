package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderharsx1122/utube-backend/internal/domain"
	"github.com/coderharsx1122/utube-backend/pkg/database"
	apperrors "github.com/coderharsx1122/utube-backend/pkg/errors"
)

func newTestRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewUserRepository(mock), mock
}

func sampleUser() *domain.User {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:            "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		Username:      "alice",
		Email:         "alice@example.com",
		FullName:      "Alice Example",
		PasswordHash:  "$2a$12$abcdefghijklmnopqrstuv",
		AvatarURL:     "https://media.example.com/avatar.png",
		CoverImageURL: "",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func userRows(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "full_name", "password_hash",
		"avatar_url", "cover_image_url", "refresh_token", "created_at", "updated_at",
	}).AddRow(
		u.ID, u.Username, u.Email, u.FullName, u.PasswordHash,
		u.AvatarURL, u.CoverImageURL, u.RefreshToken, u.CreatedAt, u.UpdatedAt,
	)
}

func TestCreateUser(t *testing.T) {
	repo, mock := newTestRepo(t)
	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Username, u.Email, u.FullName, u.PasswordHash,
			u.AvatarURL, u.CoverImageURL, u.RefreshToken, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicate(t *testing.T) {
	repo, mock := newTestRepo(t)
	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Username, u.Email, u.FullName, u.PasswordHash,
			u.AvatarURL, u.CoverImageURL, u.RefreshToken, u.CreatedAt, u.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := newTestRepo(t)
	u := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRows(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
	assert.Nil(t, got.RefreshToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsernameOrEmail(t *testing.T) {
	repo, mock := newTestRepo(t)
	u := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE").
		WithArgs(u.Username, "").
		WillReturnRows(userRows(u))

	got, err := repo.GetByUsernameOrEmail(context.Background(), u.Username, "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRefreshToken(t *testing.T) {
	repo, mock := newTestRepo(t)
	token := "new-refresh-token"

	mock.ExpectExec("UPDATE users SET refresh_token").
		WithArgs(&token, pgxmock.AnyArg(), "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateRefreshToken(context.Background(), "user-1", &token))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRefreshTokenClear(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token").
		WithArgs((*string)(nil), pgxmock.AnyArg(), "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateRefreshToken(context.Background(), "user-1", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRefreshTokenUserMissing(t *testing.T) {
	repo, mock := newTestRepo(t)
	token := "token"

	mock.ExpectExec("UPDATE users SET refresh_token").
		WithArgs(&token, pgxmock.AnyArg(), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateRefreshToken(context.Background(), "ghost", &token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
