package store

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// Builder renders squirrel statements with postgres placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func IsErrNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err is a postgres unique_violation on the
// given constraint. An empty constraint matches any.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}

	return constraint == "" || pqErr.Constraint == constraint
}
