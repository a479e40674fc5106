package transport

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rhuss/kaffee/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						slog.String("path", r.URL.Path),
						slog.String("panic", fmt.Sprint(rec)))
					WriteAPIError(w, api.NewServerError("internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
