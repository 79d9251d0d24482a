package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/seller-summary-api/internal/scheduler"
	"github.com/vfg2006/seller-summary-api/pkg/apiErrors"
	"github.com/vfg2006/seller-summary-api/pkg/log"
)

const (
	CronJobTypeSummaryCacheFlush = "summary-cache-flush"
	CronJobTypeAll               = "all"
)

// CronJobServices contém os serviços de cron que podem ser executados manualmente
type CronJobServices struct {
	SummaryCacheFlushService *scheduler.SummaryCacheFlushService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Cron job type is required", nil)
			return
		}

		switch cronType {
		case CronJobTypeSummaryCacheFlush, CronJobTypeAll:
			if services.SummaryCacheFlushService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Summary cache flush is not available", nil)
				return
			}
			if !services.SummaryCacheFlushService.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrServiceBusy, "Summary cache flush already running", nil)
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid cron job type. Accepted values: summary-cache-flush, all", nil)
			return
		}

		log.ForContext(r.Context()).Infof("cron: %s disparada manualmente", cronType)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Cron job started",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.SummaryCacheFlushService != nil {
			status[CronJobTypeSummaryCacheFlush] = services.SummaryCacheFlushService.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}
