package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate indica violación de una restricción de unicidad.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidReference indica violación de una clave foránea.
	ErrInvalidReference = errors.New("invalid reference")
)

// translateConstraint mapea errores de restricciones de Postgres a sentinelas.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrDuplicate
	case pgerrcode.ForeignKeyViolation:
		return ErrInvalidReference
	}
	return err
}
