package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/seller-summary-api/internal/domain"
	"github.com/vfg2006/seller-summary-api/internal/usecases/summarizing"
	"github.com/vfg2006/seller-summary-api/pkg/apiErrors"
	"github.com/vfg2006/seller-summary-api/pkg/log"
	"github.com/vfg2006/seller-summary-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UnknownSellerName é usado quando o vendedor existe mas não tem nome cadastrado
const UnknownSellerName = "Unknown Seller"

// SellerSummaryResponse é o corpo de GET /api/seller/:id/summary. Valores
// decimais saem como número JSON com duas casas.
type SellerSummaryResponse struct {
	Name                 string          `json:"name"`
	TotalSalesThisWeek   int64           `json:"total_sales_this_week"`
	TotalRevenueThisWeek jsoniter.Number `json:"total_revenue_this_week"`
	ReturnRate           jsoniter.Number `json:"return_rate"`
	Alerts               []string        `json:"alerts"`
}

func newSellerSummaryResponse(summary *domain.SellerSummary) SellerSummaryResponse {
	name := summary.Name
	if strings.TrimSpace(name) == "" {
		name = UnknownSellerName
	}

	alerts := summary.Alerts
	if alerts == nil {
		alerts = []string{}
	}

	return SellerSummaryResponse{
		Name:                 name,
		TotalSalesThisWeek:   summary.TotalSalesThisWeek,
		TotalRevenueThisWeek: jsoniter.Number(summary.TotalRevenueThisWeek.StringFixed(2)),
		ReturnRate:           jsoniter.Number(summary.ReturnRate.StringFixed(2)),
		Alerts:               alerts,
	}
}

// GetSellerSummary retorna o resumo semanal do vendedor
func GetSellerSummary(service summarizing.Summarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		params := httprouter.ParamsFromContext(ctx)

		rawID := params.ByName("id")
		sellerID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, fmt.Sprintf("Invalid seller id: %s", rawID), nil)
			return
		}

		asOf, err := utils.ParseDate(r.URL.Query().Get("as_of"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid as_of date, expected YYYY-MM-DD", nil)
			return
		}

		summary, err := service.GetSellerSummary(ctx, sellerID, *asOf)
		if err != nil {
			writeSummaryError(w, r, sellerID, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(newSellerSummaryResponse(summary)); err != nil {
			log.ForContext(ctx).WithError(err).Error("handler: erro ao enviar resumo")
		}
	}
}

func writeSummaryError(w http.ResponseWriter, r *http.Request, sellerID int64, err error) {
	logger := log.ForContext(r.Context()).WithField("seller_id", sellerID)

	var summaryErr *summarizing.SummaryError
	if !errors.As(err, &summaryErr) {
		logger.WithError(err).Error("handler: erro inesperado ao gerar resumo")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, apiErrors.InternalErrorMessage, correlationDetails(r))
		return
	}

	switch summaryErr.Kind {
	case summarizing.KindInvalidIdentifier:
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Seller id must be a positive integer", nil)
	case summarizing.KindSellerNotFound:
		apiErrors.WriteError(w, apiErrors.ErrSellerNotFound, fmt.Sprintf("Seller not found with id: %d", sellerID), nil)
	case summarizing.KindStorageFailure:
		logger.WithField("kind", summaryErr.Kind.String()).WithError(err).Error("handler: falha de armazenamento ao gerar resumo")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, apiErrors.InternalErrorMessage, correlationDetails(r))
	default:
		logger.WithError(err).Error("handler: erro inesperado ao gerar resumo")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, apiErrors.InternalErrorMessage, correlationDetails(r))
	}
}

func correlationDetails(r *http.Request) any {
	correlationID := log.GetCorrelationID(r.Context())
	if correlationID == "" {
		return nil
	}
	return map[string]string{"correlation_id": correlationID}
}
