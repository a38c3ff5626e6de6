package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrUnavailable marks transport or connection failures to the backing store.
var ErrUnavailable = errors.New("store_unavailable")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgConnectionClass     = "08"
	pgAdminShutdown       = "57P01"
	pgCannotConnectNow    = "57P03"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if code := sqlState(err); code != "" {
		return code == pgUniqueViolation
	}

	msg := err.Error()
	// PostgreSQL text surfaced through gorm without TranslateError
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		return true
	}
	// SQLite (error code 2067)
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return true
	}

	return false
}

func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if code := sqlState(err); code != "" {
		return code == pgForeignKeyViolation
	}

	msg := err.Error()
	if strings.Contains(msg, "violates foreign key constraint") {
		return true
	}
	// SQLite (error code 787)
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return true
	}

	return false
}

// IsUnavailableErr reports connection-level failures, as opposed to
// statement errors the caller could fix.
func IsUnavailableErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if code := sqlState(err); code != "" {
		return strings.HasPrefix(code, pgConnectionClass) || code == pgAdminShutdown || code == pgCannotConnectNow
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Unavailable tags connection failures with ErrUnavailable and returns every
// other error unchanged.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) || !IsUnavailableErr(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
