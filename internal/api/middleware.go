package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasttemplate"

	"github.com/contactkit/contactd/internal/log"
)

// JSONContentType middleware enforces JSON content type for requests with body.
func JSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only check content-type for requests with body (POST, PUT, PATCH)
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength > 0 {
				ct := r.Header.Get("Content-Type")
				if ct != "application/json" && ct != "" {
					RespondValidationError(w, "Content-Type must be application/json")
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// AccessLog returns a middleware logging every request using the configured
// line template. Supported placeholders: {{method}}, {{path}}, {{status}},
// {{duration}}, {{remote}}.
func AccessLog(format string) func(http.Handler) http.Handler {
	tmpl := fasttemplate.New(format, "{{", "}}")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			line := tmpl.ExecuteString(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   strconv.Itoa(wrapped.statusCode),
				"duration": time.Since(start).String(),
				"remote":   r.RemoteAddr,
			})
			log.Infof("%s", line)
		})
	}
}

// Recovery returns a middleware recovering from handler panics with a 500
// envelope. Panic details are only exposed outside production mode.
func Recovery(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Errorf("Panic recovered: %v", rec)
					detail := ""
					if !production {
						detail = recoveredText(rec)
					}
					RespondError(w, http.StatusInternalServerError, "Internal server error", detail)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func recoveredText(rec interface{}) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return "unexpected panic"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
