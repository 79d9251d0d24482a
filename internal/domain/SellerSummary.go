package domain

import "github.com/shopspring/decimal"

// SellerSummary é o resumo semanal devolvido para o vendedor
type SellerSummary struct {
	Name                 string          `json:"name"`
	TotalSalesThisWeek   int64           `json:"total_sales_this_week"`
	TotalRevenueThisWeek decimal.Decimal `json:"total_revenue_this_week"`
	ReturnRate           decimal.Decimal `json:"return_rate"`
	Alerts               []string        `json:"alerts"`
}
