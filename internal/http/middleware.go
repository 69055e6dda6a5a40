package httpapi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"popup-backend-go/internal/services"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// Hijack lets websocket upgrades pass through the logger.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestID reuses an incoming X-Request-Id or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		if recorder.status == 0 {
			recorder.status = http.StatusOK
		}
		log.WithFields(log.Fields{
			"request_id": GetRequestID(r),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     recorder.status,
			"bytes":      recorder.bytes,
			"duration":   time.Since(start).String(),
			"remote":     r.RemoteAddr,
		}).Info("request")
	})
}

// Recoverer turns a handler panic into a ServerLogs entry and the usual empty JSON object.
func (s *Server) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.WithFields(log.Fields{
				"request_id": GetRequestID(r),
				"method":     r.Method,
				"path":       r.URL.Path,
			}).Errorf("panic: %v\n%s", rec, debug.Stack())
			source := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
			s.fail(w, r, services.Soft(source, r.URL.Query().Get("device_id"), fmt.Errorf("panic: %v", rec)))
		}()
		next.ServeHTTP(w, r)
	})
}
