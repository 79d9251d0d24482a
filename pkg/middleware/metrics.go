package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/seller-summary-api/internal/metrics"
)

// Metrics registra duração e contagem das requisições da rota. Recebe o
// padrão da rota (ex.: /api/seller/:id/summary) para não criar uma série por id.
func Metrics(routePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			status := strconv.Itoa(recorder.statusCode)
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, routePath, status).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, routePath, status).Inc()
		})
	}
}
