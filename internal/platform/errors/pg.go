package errors

// Postgres helpers: SQLSTATE classification, field inference and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrStringDataRightTruncation = "22001"
	pgErrInvalidDatetimeFormat     = "22007"
	pgErrNumericOutOfRange         = "22003"
	pgErrInvalidTextRepresentation = "22P02"

	pgErrSerializationFailure   = "40001"
	pgErrDeadlockDetected       = "40P01"
	pgErrLockNotAvailable       = "55P03"
	pgErrReadOnlySQLTransaction = "25006"
	pgErrCannotConnectNow       = "57P03"
)

// ExtractPgError returns the *pgconn.PgError at the root of err
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports a unique constraint violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// IsCheckViolation reports a check constraint violation
func IsCheckViolation(err error) bool { return IsSQLState(err, pgErrCheckViolation) }

// IsNotNullViolation reports a not-null violation
func IsNotNullViolation(err error) bool { return IsSQLState(err, pgErrNotNullViolation) }

// DBErrorCode maps a Postgres error to an ErrorCode; !ok when err is not a PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgErrUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgErrForeignKeyViolation, pgErrStringDataRightTruncation, pgErrInvalidTextRepresentation,
		pgErrInvalidDatetimeFormat, pgErrNumericOutOfRange:
		return ErrorCodeInvalidArgument, true
	case pgErrNotNullViolation, pgErrCheckViolation:
		return ErrorCodeValidation, true
	case pgErrReadOnlySQLTransaction, pgErrCannotConnectNow:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a pg error with its mapped code and attaches the inferred field
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return AttachFieldFromPg(Wrap(err, code, msg))
}

// FromPostgresf is the formatted FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// AttachFieldFromPg sets the field from the PgError column, else from the
// constraint name segment before the suffix (employees_org_id_email_key -> email)
func AttachFieldFromPg(err error) error {
	if f := pgField(err); f != "" {
		return WithField(err, f)
	}
	return err
}

func pgField(err error) string {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ""
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return col
	}
	parts := strings.Split(strings.TrimSpace(pgErr.ConstraintName), "_")
	for i := len(parts) - 1; i >= 0; i-- {
		switch parts[i] {
		case "", "key", "idx", "fkey", "check", "pkey", "uniq":
			continue
		}
		return parts[i]
	}
	return ""
}

// RowMessage renders a persistence failure as a short human message for a per-row report
func RowMessage(err error) string {
	if err == nil {
		return ""
	}
	pgErr, ok := ExtractPgError(err)
	if !ok {
		if e, ok := As(err); ok {
			return e.Message()
		}
		return err.Error()
	}
	field := pgField(err)
	switch pgErr.Code {
	case pgErrUniqueViolation:
		if field != "" {
			return fmt.Sprintf("duplicate %s: another employee already uses this value", field)
		}
		return "duplicate record"
	case pgErrCheckViolation:
		return fmt.Sprintf("value rejected by constraint %s", pgErr.ConstraintName)
	case pgErrNotNullViolation:
		return fmt.Sprintf("missing required value for %s", field)
	case pgErrStringDataRightTruncation:
		return "value too long"
	case pgErrInvalidDatetimeFormat, pgErrInvalidTextRepresentation, pgErrNumericOutOfRange:
		return "invalid value: " + pgErr.Message
	}
	return pgErr.Message
}

// IsRetryable reports transient contention worth retrying. Cancellations are never retryable.
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"canceling statement due to lock timeout",
		"terminating connection due to administrator command",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
