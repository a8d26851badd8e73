// Package metrics содержит Prometheus-метрики сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FormRejections считает отказы валидации формы по правилу.
	FormRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "form",
		Name:      "rejections_total",
		Help:      "Event form submissions rejected by validation, by rule.",
	}, []string{"rule"})

	// FormSubmissions считает отправки формы по режиму и результату.
	FormSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "form",
		Name:      "submissions_total",
		Help:      "Event form submissions handed to storage, by mode and result.",
	}, []string{"mode", "result"})

	// StatusTransitions считает опубликованные переходы UPCOMING -> COMPLETED.
	StatusTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "events",
		Subsystem: "scheduler",
		Name:      "transitions_published_total",
		Help:      "Event status transitions published to the broker.",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "events",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

// HTTPMiddleware измеряет длительность запросов по шаблону маршрута chi.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
