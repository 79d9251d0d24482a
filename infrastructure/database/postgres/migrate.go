package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema cria as tabelas lidas pelo resumo de vendedores. Idempotente.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sellers (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id        BIGSERIAL PRIMARY KEY,
		seller_id BIGINT NOT NULL REFERENCES sellers(id),
		date      DATE NOT NULL,
		price     NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		quantity  INTEGER NOT NULL CHECK (quantity >= 0),
		returned  BOOLEAN NOT NULL DEFAULT FALSE,
		reference TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_seller_date ON sales (seller_id, date)`,
}

// Migrate aplica o schema dentro de uma única transação
func (c *Connection) Migrate(ctx context.Context) error {
	return c.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("postgres: erro ao aplicar migração %d: %w", i+1, err)
			}
		}
		return nil
	})
}
