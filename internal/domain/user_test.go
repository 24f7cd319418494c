package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONOmitsCredentials(t *testing.T) {
	token := "stored-refresh-token"
	u := &User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuv",
		AvatarURL:    "https://media.example.com/avatar.png",
		RefreshToken: &token,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "alice", got["username"])
	assert.NotContains(t, got, "password_hash")
	assert.NotContains(t, got, "refresh_token")
	assert.NotContains(t, string(data), "$2a$12$")
	assert.NotContains(t, string(data), token)
}

func TestUserJSONOmitsEmptyCoverImage(t *testing.T) {
	data, err := json.Marshal(&User{ID: "user-1", Username: "alice"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotContains(t, got, "cover_image_url")
}

func TestHasActiveSession(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasActiveSession())

	empty := ""
	u.RefreshToken = &empty
	assert.False(t, u.HasActiveSession())

	token := "live-token"
	u.RefreshToken = &token
	assert.True(t, u.HasActiveSession())
}
