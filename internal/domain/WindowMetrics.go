package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesWindow guarda os limites, em dias de calendário, das duas janelas
// consecutivas ancoradas em AsOf. Todas as datas são meia-noite UTC do dia
// correspondente, para que a comparação ignore fuso e horário.
//
//	semana atual:    [ThisWeekStart, AsOf]
//	semana anterior: [LastWeekStart, LastWeekEnd]
type SalesWindow struct {
	AsOf          time.Time
	ThisWeekStart time.Time
	LastWeekStart time.Time
	LastWeekEnd   time.Time
}

// NewSalesWindow monta as janelas de `days` dias terminando em asOf (inclusive)
func NewSalesWindow(asOf time.Time, days int) SalesWindow {
	day := CalendarDay(asOf)
	return SalesWindow{
		AsOf:          day,
		ThisWeekStart: day.AddDate(0, 0, -(days - 1)),
		LastWeekStart: day.AddDate(0, 0, -(2*days - 1)),
		LastWeekEnd:   day.AddDate(0, 0, -days),
	}
}

// InThisWeek informa se a data cai na semana atual
func (w SalesWindow) InThisWeek(date time.Time) bool {
	return between(CalendarDay(date), w.ThisWeekStart, w.AsOf)
}

// InLastWeek informa se a data cai na semana anterior
func (w SalesWindow) InLastWeek(date time.Time) bool {
	return between(CalendarDay(date), w.LastWeekStart, w.LastWeekEnd)
}

func between(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

// CalendarDay descarta horário e fuso, mantendo ano/mês/dia como vistos em t
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowMetrics é o resultado da agregação das duas janelas
type WindowMetrics struct {
	ThisWeekCount   int64           `json:"this_week_count"`
	LastWeekCount   int64           `json:"last_week_count"`
	ThisWeekRevenue decimal.Decimal `json:"this_week_revenue"`
	ThisWeekReturns int64           `json:"this_week_returns"`
}
