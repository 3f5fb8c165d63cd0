package runner

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/httputils"
	"boscoin.io/obscura/lib/metrics"
)

// RecoverMiddleware turns a panic in a handler into a 500 problem.
func RecoverMiddleware(logger logging.Logger, printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rc := recover(); rc != nil {
					err, ok := rc.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", rc)
					}
					httputils.WriteJSONError(w, errors.HTTPServerError.Clone().SetData("error", err.Error()))
					logger.Error("recover an panic", "err", err, "uri", r.RequestURI)
					if printStack {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type responseLogWriter struct {
	w      http.ResponseWriter
	status int
	size   int
}

func (l *responseLogWriter) Header() http.Header {
	return l.w.Header()
}

func (l *responseLogWriter) Write(b []byte) (int, error) {
	if l.status == 0 {
		l.status = http.StatusOK
	}
	size, err := l.w.Write(b)
	l.size += size
	return size, err
}

func (l *responseLogWriter) WriteHeader(s int) {
	l.w.WriteHeader(s)
	l.status = s
}

func (l *responseLogWriter) Status() int {
	return l.status
}

func (l *responseLogWriter) Size() int {
	return l.size
}

// Flush keeps the event stream working behind the logger.
func (l *responseLogWriter) Flush() {
	if f, ok := l.w.(http.Flusher); ok {
		f.Flush()
	}
}

var HeaderKeyFiltered = []string{
	"Content-Length",
	"Content-Type",
	"Accept",
	"Accept-Encoding",
	"User-Agent",
}

// LogMiddleware logs each request twice: when it is received and when the
// response is sent. Both records carry the same id.
func LogMiddleware(logger logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := common.GenerateUUID()

			uri := r.RequestURI
			if uri == "" {
				uri = r.URL.RequestURI()
			}

			header := http.Header{}
			for key, value := range r.Header {
				if _, found := common.InStringArray(HeaderKeyFiltered, key); found {
					continue
				}
				header[key] = value
			}

			logger.Debug(
				"request",
				"content-length", r.ContentLength,
				"content-type", r.Header.Get("Content-Type"),
				"headers", header,
				"host", r.Host,
				"id", uid,
				"method", r.Method,
				"proto", r.Proto,
				"remote", r.RemoteAddr,
				"uri", uri,
				"user-agent", r.UserAgent(),
			)

			writer := &responseLogWriter{w: w}
			next.ServeHTTP(writer, r)

			logger.Debug(
				"response",
				"id", uid,
				"status", writer.Status(),
				"size", writer.Size(),
			)
		})
	}
}

// MetricsMiddleware observes every request by its route template, so
// `/proposals/1` and `/proposals/2` share one series.
func MetricsMiddleware(m *metrics.APIMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			begin := time.Now()
			writer := &responseLogWriter{w: w}
			next.ServeHTTP(writer, r)

			endpoint := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					endpoint = tpl
				}
			}

			status := writer.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(endpoint, r.Method, status, time.Since(begin))
		})
	}
}
