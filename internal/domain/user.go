package domain

import (
	"time"
)

// User represents a registered account. PasswordHash and RefreshToken carry
// `json:"-"` so any marshalled User is already the sanitized view returned
// to clients.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	PasswordHash  string    `json:"-"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasActiveSession reports whether a refresh token is currently stored for
// the user. A nil token means no live session.
func (u *User) HasActiveSession() bool {
	return u.RefreshToken != nil && *u.RefreshToken != ""
}

// TokenPair holds an access and refresh token issued together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
