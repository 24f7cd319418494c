// Package http exposes the account service over HTTP.
package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/coderharsx1122/utube-backend/internal/domain"
	"github.com/coderharsx1122/utube-backend/internal/service"
	apperrors "github.com/coderharsx1122/utube-backend/pkg/errors"
	"github.com/coderharsx1122/utube-backend/pkg/middleware"
	"github.com/coderharsx1122/utube-backend/pkg/validator"
)

// maxUploadSize bounds the multipart registration body.
const maxUploadSize = 32 << 20

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// CookieConfig controls the auth cookie attributes.
type CookieConfig struct {
	Secure        bool
	AccessMaxAge  int
	RefreshMaxAge int
}

// AuthHandler serves the registration, session, and profile endpoints.
type AuthHandler struct {
	accounts *service.AccountService
	cookies  CookieConfig
}

// NewAuthHandler creates the auth HTTP handler.
func NewAuthHandler(accounts *service.AccountService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookies: cookies}
}

// Register handles POST /api/v1/auth/register. The body is multipart form
// data carrying the account fields plus an avatar file and an optional cover
// image file.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, r, apperrors.InvalidInput("request body must be multipart form data"))
		return
	}

	in := service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("fullName"),
		Password: r.FormValue("password"),
	}

	avatarPath, err := spoolFormFile(r, "avatar")
	if err != nil {
		writeError(w, r, apperrors.InvalidInput("avatar image is required"))
		return
	}
	in.AvatarPath = avatarPath

	coverPath, err := spoolFormFile(r, "coverImage")
	if err == nil {
		in.CoverPath = coverPath
	}

	// The uploader removes files it is handed. This covers paths that never
	// reach it, such as validation failures.
	defer removeIfPresent(in.AvatarPath)
	defer removeIfPresent(in.CoverPath)

	user, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// Login handles POST /api/v1/auth/login. Tokens are returned in the body and
// also set as cookies for browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		var valErr *validator.ValidationError
		if !errors.As(err, &valErr) {
			err = apperrors.InvalidInput("invalid request body")
		}
		writeError(w, r, err)
		return
	}

	user, pair, err := h.accounts.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout handles POST /api/v1/auth/logout. It requires an authenticated
// caller, clears the stored refresh token, and expires both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	if err := h.accounts.Logout(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/v1/auth/refresh. The token is taken from the
// refreshToken cookie when present, otherwise from the JSON body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var presented string
	if c, err := r.Cookie(refreshCookieName); err == nil {
		presented = c.Value
	} else if r.Body != nil {
		var req refreshRequest
		// A missing or malformed body falls through to the empty-token check.
		_ = decodeBody(r, &req)
		presented = req.RefreshToken
	}

	pair, err := h.accounts.Refresh(r.Context(), presented)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, pair)
}

// Me handles GET /api/v1/users/me for the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	user, err := h.accounts.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, pair *domain.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   h.cookies.AccessMaxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   h.cookies.RefreshMaxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// spoolFormFile copies the named multipart file to a temp file on disk and
// returns its path.
func spoolFormFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	return spoolFile(file, header)
}

func spoolFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("spool %s: %w", header.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), nil
}

func removeIfPresent(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
