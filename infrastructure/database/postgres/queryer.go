package postgres

import (
	"context"
	"database/sql"
)

// Queryer é o subconjunto usado pelos repositórios; *Connection e os testes o implementam
type Queryer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
}
