package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/coderharsx1122/utube-backend/pkg/logger"
)

// Recovery converts a handler panic into a 500 response. The panic is logged
// through the request-scoped logger so the entry carries the correlation ID,
// and the response uses the same envelope the handlers emit. An
// http.ErrAbortHandler panic is re-raised; net/http uses it to abort the
// response deliberately.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				ctx := r.Context()
				log := logger.FromContext(ctx)
				if log == slog.Default() {
					log = l
				}
				log.ErrorContext(ctx, "panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				body := map[string]string{
					"code":    "INTERNAL_ERROR",
					"message": "an internal error occurred",
				}
				if id := logger.CorrelationIDFromContext(ctx); id != "" {
					body["correlation_id"] = id
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
