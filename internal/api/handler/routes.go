package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vfg2006/seller-summary-api/internal/api/handler/router"
	"github.com/vfg2006/seller-summary-api/internal/usecases/summarizing"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:        "/metrics",
			Method:      http.MethodGet,
			Handler:     promhttp.Handler(),
			SkipMetrics: true,
		},
	}
}

func SellerSummary(service summarizing.Summarizer) []router.Route {
	return []router.Route{
		{
			Path:    "/api/seller/:id/summary",
			Method:  http.MethodGet,
			Handler: GetSellerSummary(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
