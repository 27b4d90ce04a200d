package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// Recovery turns a panicking handler into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.Logger.WithField("request_id", utils.RequestIDFrom(r.Context())).
					Errorf("PANIC recovered: %v\n%s", rec, debug.Stack())
				utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
					"An unexpected error occurred", nil, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
