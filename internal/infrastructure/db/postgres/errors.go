package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsPgUniqueViolation(err error) bool { return pgErrCode(err) == pgUniqueViolation }

func IsPgForeignKeyViolation(err error) bool { return pgErrCode(err) == pgForeignKeyViolation }

func IsPgCheckViolation(err error) bool { return pgErrCode(err) == pgCheckViolation }
