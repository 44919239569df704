// Package apperr defines the error kinds shared by the ledger, exchange and
// reporting packages. Errors carry codes, never localized text; rendering is
// left to the HTTP layer and its message catalog.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Violation codes.
const (
	CodeRequired            = "required"
	CodeInvalidNumber       = "invalid_number"
	CodeNegative            = "negative"
	CodeMustBePositive      = "must_be_positive"
	CodeOutOfRange          = "out_of_range"
	CodeUnsupportedCurrency = "unsupported_currency"
	CodeNotApplicable       = "not_applicable"
	CodeInvalidDate         = "invalid_date"
	CodeInvalidDirection    = "invalid_direction"
	CodeInvalidPeriod       = "invalid_period"
	CodeInvalidViewMode     = "invalid_view_mode"
	CodeNotFound            = "not_found"
	CodeInvalidCode         = "invalid_code"
	CodeInvalidRole         = "invalid_role"
	CodeTooShort            = "too_short"
	CodeInvalidFormat       = "invalid_format"
)

// Violations maps a field name to its violation code.
type Violations map[string]string

func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

func (v Violations) Empty() bool { return len(v) == 0 }

// Err returns a *ValidationError, or nil when nothing was recorded.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

// ValidationError reports malformed or missing input before persistence.
type ValidationError struct {
	Fields Violations
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Invalid is a shortcut for a single-field validation error.
func Invalid(field, code string) error {
	return &ValidationError{Fields: Violations{field: code}}
}

// ConflictError is returned when a unique key already exists.
type ConflictError struct {
	Entity string
	Key    string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// UpstreamError means an external source could not supply usable data.
type UpstreamError struct {
	Source string
	Reason string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Source, e.Reason)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// QueryError wraps a storage failure; the underlying error stays reachable.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }

// NotFoundError is returned by single-row lookups.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found: " + e.ID }

// Query wraps err as a *QueryError; nil stays nil.
func Query(op string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

func IsQuery(err error) bool {
	var target *QueryError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsDuplicateKey recognizes unique violations from both gorm's translated
// error and a raw PostgreSQL 23505.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
