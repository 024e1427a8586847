package postgres

import (
	"errors"
	"fmt"

	"myblog/internal/service"
	"myblog/pkg/tableinfo"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrBuildingQuery = errors.New("error building sql-query")

// mapError translates driver errors into service sentinels; anything
// unrecognised is wrapped with op.
func mapError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			switch pgErr.ConstraintName {
			case tableinfo.UserEmailConstraint:
				return service.ErrDuplicateEmail
			case tableinfo.PostTitleConstraint:
				return service.ErrDuplicateTitle
			}
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, service.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func isSingleAdminViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == tableinfo.UserSingleAdminConstraint
}
