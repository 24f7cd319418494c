package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/coderharsx1122/utube-backend/pkg/errors"
	"github.com/coderharsx1122/utube-backend/pkg/logger"
	"github.com/coderharsx1122/utube-backend/pkg/validator"
)

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps an application error to an HTTP response. Internal causes
// are logged but never leak into the body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_FAILED",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	resp := errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		resp.Code = appErr.Code
		resp.Message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	writeJSON(w, status, resp)
}
