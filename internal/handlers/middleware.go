package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type (
	responseData struct {
		status int
		size   int
	}

	loggingResponseWriter struct {
		http.ResponseWriter
		responseData *responseData
	}
)

// Write records the size of the written body.
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	if r.responseData.status == 0 {
		r.responseData.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader records the status code.
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// Flush lets streamed proxy responses through.
func (r *loggingResponseWriter) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingMiddleware logs every request with its status, size and duration.
func (con *Controller) LoggingMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		start := time.Now()
		data := &responseData{}
		lw := &loggingResponseWriter{ResponseWriter: res, responseData: data}

		h.ServeHTTP(lw, req)

		con.sugar.Infow("request",
			"request_id", middleware.GetReqID(req.Context()),
			"uri", req.RequestURI,
			"method", req.Method,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}
