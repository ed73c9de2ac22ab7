package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"
)

const (
	transportGRPC = "grpc"
	transportHTTP = "http"
)

// UnaryServerInterceptor returns a gRPC interceptor that records metrics for each request.
func UnaryServerInterceptor(collector *Collector, exporter *PrometheusExporter) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		method := info.FullMethod

		// Record request
		collector.RecordRequest(method)
		if exporter != nil {
			exporter.RecordRequest(transportGRPC, method)
		}

		// Call handler
		resp, err := handler(ctx, req)

		// Record duration
		duration := time.Since(start).Seconds()
		collector.RecordDuration(method, duration)
		if exporter != nil {
			exporter.RecordDuration(transportGRPC, method, duration)
		}

		// Record error if any
		if err != nil {
			collector.RecordError(method)
			if exporter != nil {
				exporter.RecordError(transportGRPC, method)
			}
		}

		return resp, err
	}
}

// statusRecorder captures the response status for HTTPMiddleware
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HTTPMiddleware returns a mux middleware that records metrics per route.
// Responses with status >= 500 count as errors.
func HTTPMiddleware(collector *Collector, exporter *PrometheusExporter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			method := r.Method + " " + r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					method = r.Method + " " + tpl
				}
			}

			collector.RecordRequest(method)
			if exporter != nil {
				exporter.RecordRequest(transportHTTP, method)
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			duration := time.Since(start).Seconds()
			collector.RecordDuration(method, duration)
			if exporter != nil {
				exporter.RecordDuration(transportHTTP, method, duration)
			}

			if rec.status >= http.StatusInternalServerError {
				collector.RecordError(method)
				if exporter != nil {
					exporter.RecordError(transportHTTP, method)
				}
			}
		})
	}
}
