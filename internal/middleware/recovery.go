package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const errorPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Error | TreydBuddy</title></head>
<body><h1>Something went wrong</h1><p>Please go back and try again.</p></body>
</html>
`

// RecoveryMiddleware recovers from panics and logs the error.
//
// Requests under "apiPrefix" get the JSON error body, page requests an HTML error page.
// When the handler had already started the response nothing more is written.
func RecoveryMiddleware(logger *zap.Logger, apiPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := wrapResponseWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Bool("response_started", ww.wroteHeader),
					zap.Any("error", rec),
					zap.Stack("stack"),
				)

				if ww.wroteHeader {
					return
				}
				if strings.HasPrefix(r.URL.Path, apiPrefix) {
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				writeHTMLError(w, http.StatusInternalServerError)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func writeHTMLError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(errorPage))
}
