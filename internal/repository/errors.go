package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrForeignKeyViolation is returned when a write breaks referential integrity.
	ErrForeignKeyViolation = errors.New("repository: foreign key violation")
)

const (
	pgForeignKeyViolation     = "23503"
	mysqlRowIsReferenced      = 1451
	mysqlNoReferencedRow      = 1452
	sqliteForeignKeyViolation = "FOREIGN KEY constraint failed"
)

// translate wraps driver-level foreign key failures in ErrForeignKeyViolation.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", ErrForeignKeyViolation, err)
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlRowIsReferenced || myErr.Number == mysqlNoReferencedRow
	}

	return strings.Contains(err.Error(), sqliteForeignKeyViolation)
}
