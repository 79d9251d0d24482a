package summarizing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/seller-summary-api/infrastructure/repository"
	"github.com/vfg2006/seller-summary-api/internal/domain"
	"github.com/vfg2006/seller-summary-api/pkg/log"
)

type WindowAggregator struct {
	saleRepository repository.SaleRepository
	windowDays     int
	location       *time.Location
	now            func() time.Time
}

func NewWindowAggregator(saleRepository repository.SaleRepository, thresholds Thresholds, location *time.Location) *WindowAggregator {
	if location == nil {
		location = time.Local
	}

	return &WindowAggregator{
		saleRepository: saleRepository,
		windowDays:     thresholds.WindowDays,
		location:       location,
		now:            time.Now,
	}
}

// Window devolve as duas janelas ancoradas em asOf; data zero significa hoje
// no fuso configurado.
func (a *WindowAggregator) Window(asOf time.Time) domain.SalesWindow {
	if asOf.IsZero() {
		asOf = a.now().In(a.location)
	}
	return domain.NewSalesWindow(asOf, a.windowDays)
}

// Aggregate lê as vendas dos últimos 2×windowDays dias e calcula as métricas
// das duas janelas.
func (a *WindowAggregator) Aggregate(ctx context.Context, sellerID int64, asOf time.Time) (*domain.WindowMetrics, error) {
	if sellerID <= 0 {
		return nil, NewSummaryError(KindInvalidIdentifier, sellerID, ErrInvalidIdentifier)
	}

	window := a.Window(asOf)

	sales, err := a.saleRepository.GetByDateRange(ctx, sellerID, window.LastWeekStart, window.AsOf)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"seller_id": sellerID,
			"as_of":     window.AsOf.Format(time.DateOnly),
		}).WithError(err).Error("summarizing: erro ao buscar vendas")
		return nil, NewSummaryError(KindStorageFailure, sellerID, err)
	}

	metrics := FoldSales(sellerID, window, sales)

	log.ForContext(ctx).WithFields(log.Fields{
		"seller_id": sellerID,
		"as_of":     window.AsOf.Format(time.DateOnly),
	}).Debugf("summarizing: %d vendas lidas, %d na semana atual, %d na anterior",
		len(sales), metrics.ThisWeekCount, metrics.LastWeekCount)

	return &metrics, nil
}

// FoldSales acumula as vendas nas duas janelas. Vendas de outro vendedor ou
// fora das janelas são ignoradas.
func FoldSales(sellerID int64, window domain.SalesWindow, sales []*domain.Sale) domain.WindowMetrics {
	metrics := domain.WindowMetrics{
		ThisWeekRevenue: decimal.Zero,
	}

	for _, sale := range sales {
		if sale == nil || sale.SellerID != sellerID {
			continue
		}

		switch {
		case window.InThisWeek(sale.Date):
			metrics.ThisWeekCount++
			metrics.ThisWeekRevenue = metrics.ThisWeekRevenue.Add(sale.Amount())
			if sale.Returned {
				metrics.ThisWeekReturns++
			}
		case window.InLastWeek(sale.Date):
			metrics.LastWeekCount++
		}
	}

	return metrics
}
