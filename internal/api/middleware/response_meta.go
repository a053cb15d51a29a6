package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	RequestIDHeader    = "X-Request-ID"
	ResponseTimeHeader = "X-Response-Time"
)

// ResponseMeta echoes the request id and reports the handling time in
// response headers. Requests slower than slowThreshold are logged.
func ResponseMeta(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if id := chiMiddleware.GetReqID(r.Context()); id != "" {
				w.Header().Set(RequestIDHeader, id)
			}

			mw := &metaWriter{ResponseWriter: w, start: start, status: http.StatusOK}
			next.ServeHTTP(mw, r)
			mw.stamp()

			if elapsed := time.Since(start); slowThreshold > 0 && elapsed > slowThreshold {
				log.Printf("WARN: slow request %s %s status=%d took %s", r.Method, r.URL.Path, mw.status, elapsed)
			}
		})
	}
}

// metaWriter sets the timing header just before the status line goes out.
type metaWriter struct {
	http.ResponseWriter
	start   time.Time
	status  int
	written bool
}

func (w *metaWriter) stamp() {
	if w.written {
		return
	}
	w.written = true
	elapsed := time.Since(w.start)
	w.Header().Set(ResponseTimeHeader, strconv.FormatFloat(elapsed.Seconds(), 'f', 4, 64))
}

func (w *metaWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
	}
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *metaWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *metaWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
