package summarizing

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/seller-summary-api/internal/domain"
)

const (
	AlertSalesDrop      = "Sales dropped by more than 30% vs last week"
	AlertHighReturnRate = "Return rate above 10%"
)

var hundred = decimal.NewFromInt(100)

// Thresholds são fixos em produção (DefaultThresholds); os testes injetam outros valores.
type Thresholds struct {
	SalesDropPercent  decimal.Decimal
	ReturnRatePercent decimal.Decimal
	WindowDays        int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SalesDropPercent:  decimal.NewFromInt(30),
		ReturnRatePercent: decimal.NewFromInt(10),
		WindowDays:        7,
	}
}

type Evaluator struct {
	thresholds Thresholds
}

func NewEvaluator(thresholds Thresholds) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate monta o resumo a partir das métricas. Alertas saem sempre na ordem
// queda de vendas, depois taxa de devolução.
func (e *Evaluator) Evaluate(sellerExists bool, sellerName string, metrics domain.WindowMetrics) (*domain.SellerSummary, error) {
	if !sellerExists {
		return nil, NewSummaryError(KindSellerNotFound, 0, ErrSellerNotFound)
	}

	returnRate := ReturnRate(metrics.ThisWeekReturns, metrics.ThisWeekCount)
	salesChange := SalesChangePercent(metrics.ThisWeekCount, metrics.LastWeekCount)

	alerts := make([]string, 0, 2)
	if salesChange.IsNegative() && salesChange.Abs().GreaterThan(e.thresholds.SalesDropPercent) {
		alerts = append(alerts, AlertSalesDrop)
	}
	if returnRate.GreaterThan(e.thresholds.ReturnRatePercent) {
		alerts = append(alerts, AlertHighReturnRate)
	}

	return &domain.SellerSummary{
		Name:                 sellerName,
		TotalSalesThisWeek:   metrics.ThisWeekCount,
		TotalRevenueThisWeek: metrics.ThisWeekRevenue,
		ReturnRate:           returnRate,
		Alerts:               alerts,
	}, nil
}

// ReturnRate devolve returns*100/count com 2 casas, ou 0 quando não houve vendas
func ReturnRate(returns, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(returns).
		Mul(hundred).
		Div(decimal.NewFromInt(count)).
		Round(2)
}

// SalesChangePercent devolve a variação percentual da semana atual sobre a
// anterior com 2 casas, ou 0 quando a semana anterior não teve vendas.
func SalesChangePercent(thisWeek, lastWeek int64) decimal.Decimal {
	if lastWeek == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(thisWeek - lastWeek).
		Mul(hundred).
		Div(decimal.NewFromInt(lastWeek)).
		Round(2)
}
