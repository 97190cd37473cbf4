package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

type errorBody struct {
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message, code string, details []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message, Code: code, Details: details})
}

// RecoverMiddleware turns a panic into a 500 response. The stack trace is included
// in the body only when showTrace is set.
func RecoverMiddleware(logger zerolog.Logger, showTrace bool) func(http.Handler) http.Handler {
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
				stack := string(debug.Stack())
				logger.Error().
					Str("panic", fmt.Sprint(rec)).
					Str("stack", stack).
					Str("path", r.URL.Path).
					Msg("Recovered from panic")

				var details []string
				if showTrace {
					details = []string{fmt.Sprint(rec), stack}
				}
				writeJSONError(w, http.StatusInternalServerError, "Internal server error.", "INTERNAL", details)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
