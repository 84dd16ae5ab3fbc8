package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGFields extracts the Postgres diagnostics from err's chain for logging.
// It returns nil when the chain carries no *pgconn.PgError.
func PGFields(err error) map[string]any {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	fields := map[string]any{"pg_code": pgErr.Code}
	for k, v := range map[string]string{
		"pg_constraint": pgErr.ConstraintName,
		"pg_table":      pgErr.TableName,
		"pg_column":     pgErr.ColumnName,
		"pg_detail":     pgErr.Detail,
		"pg_message":    pgErr.Message,
	} {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}
