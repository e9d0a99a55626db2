package store

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

var (
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrNoRows 由查無資料的查詢或未影響任何列的更新回傳（包裝後）
	ErrNoRows = pgx.ErrNoRows
)

var dialect = goqu.Dialect("postgres")

// IsUniqueViolation reports whether err is a Postgres unique constraint violation,
// optionally restricted to one constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
