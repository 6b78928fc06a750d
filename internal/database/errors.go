package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsDuplicate reports whether err is a unique constraint violation.
// Slug, category-name, and tag uniqueness all rely on this: the insert
// itself is the atomic check, so two concurrent creates can never both
// succeed.
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}
