package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestViolations(t *testing.T) {
	v := Violations{}
	assert.NoError(t, v.Err())

	v.Add("amount_original", CodeNegative)
	v.Add("amount_original", CodeInvalidNumber)
	v.Add("exchange_rate", CodeRequired)

	err := v.Err()
	assert.True(t, IsValidation(err))
	assert.Equal(t, "validation failed: amount_original: negative, exchange_rate: required", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, CodeNegative, ve.Fields["amount_original"])
}

func TestKindsSurviveWrapping(t *testing.T) {
	base := errors.New("connection reset")
	qerr := Query("list transactions", base)
	wrapped := fmt.Errorf("service: %w", qerr)

	assert.True(t, IsQuery(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.False(t, IsConflict(wrapped))
	assert.Nil(t, Query("noop", nil))

	conflict := fmt.Errorf("insert: %w", &ConflictError{Entity: "exchange_rate", Key: "USD/2024-06-01"})
	assert.True(t, IsConflict(conflict))
	assert.False(t, IsUpstream(conflict))

	up := &UpstreamError{Source: "tcmb", Reason: "status 503"}
	assert.True(t, IsUpstream(up))
	assert.Equal(t, "tcmb unavailable: status 503", up.Error())

	assert.True(t, IsNotFound(&NotFoundError{Entity: "transaction", ID: "x"}))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
}
