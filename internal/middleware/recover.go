package middleware

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/filedrophq/filedrop/internal/response"
)

// stackSize bounds the captured stack trace.
const stackSize = 4096

// Recover converts handler panics into 500 responses and logs the stack,
// so one broken request cannot take the process down.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					stack := make([]byte, stackSize)
					n := runtime.Stack(stack, false)
					log.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(stack[:n])),
					)

					response.InternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
