package database

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrConfiguration is returned when the connection configuration is
	// missing or malformed. Construction fails fast and is never retried.
	ErrConfiguration = errors.New("invalid database configuration")
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConnection is returned when the database is unreachable.
	ErrConnection = errors.New("database connection failed")
	// ErrTimeout is returned when an operation exceeds its allotted time.
	ErrTimeout = errors.New("database operation timed out")
)

// IntegrityKind is a coarse category of constraint violation.
type IntegrityKind string

// Constraint violation categories.
const (
	IntegrityUnique     IntegrityKind = "unique"
	IntegrityForeignKey IntegrityKind = "foreign_key"
	IntegrityNotNull    IntegrityKind = "not_null"
	IntegrityCheck      IntegrityKind = "check"
)

// IntegrityError reports a constraint violation without exposing schema
// detail beyond the coarse category.
type IntegrityError struct {
	Kind IntegrityKind
}

func (e *IntegrityError) Error() string {
	return string(e.Kind) + " constraint violation"
}

// Postgres SQLSTATE codes for constraint violations.
const (
	pgCodeNotNullViolation    = "23502"
	pgCodeForeignKeyViolation = "23503"
	pgCodeUniqueViolation     = "23505"
	pgCodeCheckViolation      = "23514"
	pgCodeQueryCanceled       = "57014"
)

// Classify maps a storage error onto the package taxonomy. The returned
// error carries only a sanitized category; raw driver text, which may
// embed credentials or hostnames, never crosses this boundary.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &IntegrityError{Kind: IntegrityUnique}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &IntegrityError{Kind: IntegrityForeignKey}
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return &IntegrityError{Kind: IntegrityUnique}
		case pgCodeForeignKeyViolation:
			return &IntegrityError{Kind: IntegrityForeignKey}
		case pgCodeNotNullViolation:
			return &IntegrityError{Kind: IntegrityNotNull}
		case pgCodeCheckViolation:
			return &IntegrityError{Kind: IntegrityCheck}
		case pgCodeQueryCanceled:
			return ErrTimeout
		}
		// Class 08 covers connection exceptions.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return ErrConnection
		}
		return ErrConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrConnection
	}

	return err
}
