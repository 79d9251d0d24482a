package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/seller-summary-api/infrastructure/database/postgres"
	"github.com/vfg2006/seller-summary-api/internal/domain"
)

//go:generate mockgen -source=sale.go -destination=mocks/mock_sale.go -package=mocks

const (
	salesTable = "sales sa"
)

type SaleRepository interface {
	// GetByDateRange lista as vendas do vendedor com data entre startDate e endDate, ambos inclusive
	GetByDateRange(ctx context.Context, sellerID int64, startDate, endDate time.Time) ([]*domain.Sale, error)
	SaveAll(ctx context.Context, sales []*domain.Sale) error
}

type saleRepository struct {
	conn postgres.Queryer
}

func NewSaleRepository(conn postgres.Queryer) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

func (r *saleRepository) GetByDateRange(ctx context.Context, sellerID int64, startDate, endDate time.Time) ([]*domain.Sale, error) {
	query, args, err := squirrel.
		Select("sa.id, sa.seller_id, sa.date, sa.price, sa.quantity, sa.returned, sa.reference").
		From(salesTable).
		Where(squirrel.Eq{"sa.seller_id": sellerID}).
		Where(squirrel.GtOrEq{"sa.date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"sa.date": endDate.Format(time.DateOnly)}).
		OrderBy("sa.date ASC", "sa.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query de vendas")
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)
	for rows.Next() {
		sale, err := r.scanSale(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear venda")
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return sales, nil
}

// SaveAll insere as vendas em lote. Usado pelo seeder e pelos testes de integração.
func (r *saleRepository) SaveAll(ctx context.Context, sales []*domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("sales").
		Columns("seller_id", "date", "price", "quantity", "returned", "reference").
		PlaceholderFormat(squirrel.Dollar)

	for _, sale := range sales {
		query = query.Values(
			sale.SellerID,
			sale.Date.Format(time.DateOnly),
			sale.Price,
			sale.Quantity,
			sale.Returned,
			sale.Reference,
		)
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	_, err = r.conn.Exec(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return errors.Wrapf(pqErr, "erro no banco de dados (código: %s)", pqErr.Code)
		}
		return errors.Wrap(err, "erro ao executar query de inserção")
	}

	return nil
}

func (r *saleRepository) scanSale(rows *sql.Rows) (*domain.Sale, error) {
	sale := &domain.Sale{}

	err := rows.Scan(
		&sale.ID,
		&sale.SellerID,
		&sale.Date,
		&sale.Price,
		&sale.Quantity,
		&sale.Returned,
		&sale.Reference,
	)
	if err != nil {
		return nil, err
	}

	return sale, nil
}
