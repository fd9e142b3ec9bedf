// internal/middleware/logging.go
//
// Request logging and panic recovery.
//
// Context
// -------
// RequestLog writes one structured line per request (method, path,
// status, bytes, duration, request id).  Recover turns a panicking
// handler into a 500: in development the panic value and stack are shown
// in the response, in production the supplied error handler renders a
// friendly page instead.
//
// Notes
// -----
// • Both rely on chi's WrapResponseWriter and RequestID helpers.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLog logs every request at INFO once the response is written.
func RequestLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}

// Recover catches panics.  When dev is false, onError renders the
// response; a nil onError falls back to a bare 500.
func Recover(log *zap.SugaredLogger, dev bool, onError http.Handler) func(http.Handler) http.Handler {
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

				stack := debug.Stack()
				log.Errorw("handler panic",
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(stack),
				)

				switch {
				case dev:
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = fmt.Fprintf(w, "panic: %v\n\n%s", rec, stack)
				case onError != nil:
					onError.ServeHTTP(w, r)
				default:
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
