package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/seller-summary-api/infrastructure/database/postgres"
	"github.com/vfg2006/seller-summary-api/internal/domain"
)

//go:generate mockgen -source=seller.go -destination=mocks/mock_seller.go -package=mocks

const (
	sellersTable = "sellers s"
)

type SellerRepository interface {
	// GetByID devolve nil, nil quando o vendedor não existe
	GetByID(ctx context.Context, sellerID int64) (*domain.Seller, error)
	// Save insere o vendedor e preenche o ID gerado
	Save(ctx context.Context, seller *domain.Seller) error
}

type sellerRepository struct {
	conn postgres.Queryer
}

func NewSellerRepository(conn postgres.Queryer) SellerRepository {
	return &sellerRepository{
		conn: conn,
	}
}

func (r *sellerRepository) GetByID(ctx context.Context, sellerID int64) (*domain.Seller, error) {
	query, args, err := squirrel.
		Select("s.id, s.name").
		From(sellersTable).
		Where(squirrel.Eq{"s.id": sellerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	seller := &domain.Seller{}
	var name sql.NullString

	err = r.conn.QueryRow(ctx, query, args...).Scan(&seller.ID, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar vendedor %d", sellerID)
	}

	if name.Valid {
		seller.Name = &name.String
	}

	return seller, nil
}

func (r *sellerRepository) Save(ctx context.Context, seller *domain.Seller) error {
	query, args, err := squirrel.
		Insert("sellers").
		Columns("name").
		Values(seller.Name).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&seller.ID); err != nil {
		return errors.Wrap(err, "erro ao inserir vendedor")
	}

	return nil
}
