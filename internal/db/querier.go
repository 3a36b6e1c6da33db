package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is what the run and artifact stores need from Postgres. It is met
// by *pgxpool.Pool, by a pgx.Tx while telemetry results are being written,
// and by pgxmock in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool adds Begin so statistics and artifacts commit together.
type Pool interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}
