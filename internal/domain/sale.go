package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa uma linha da tabela de vendas de um vendedor
type Sale struct {
	ID        int64           `json:"id"`
	SellerID  int64           `json:"seller_id"`
	Date      time.Time       `json:"date"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Returned  bool            `json:"returned"`
	Reference string          `json:"reference"`
}

// Amount devolve price × quantity
func (s *Sale) Amount() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
