// Package pgx implements the relational storage ports on a pgx
// connection pool. Row IDs are generated here with google/uuid; callers
// never supply identifiers.
package pgx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jrlim/moat/core"
)

// Postgres class 23505: unique_violation.
const uniqueViolationCode = "23505"

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.Storage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
