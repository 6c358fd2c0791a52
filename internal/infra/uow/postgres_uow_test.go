//go:build unit

package uow

import (
	"errors"
	"testing"

	"buildquote/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name:      "serialization failure",
			err:       &pgconn.PgError{Code: pgErrCodeSerializationFailure},
			retryable: true,
		},
		{
			name:      "deadlock",
			err:       &pgconn.PgError{Code: pgErrCodeDeadlockDetected},
			retryable: true,
		},
		{
			name:      "wrapped serialization failure",
			err:       errs.Wrap(&pgconn.PgError{Code: pgErrCodeSerializationFailure}, "failed to commit"),
			retryable: true,
		},
		{
			name:      "unique violation is not retryable",
			err:       &pgconn.PgError{Code: "23505"},
			retryable: false,
		},
		{
			name:      "plain error is not retryable",
			err:       errors.New("boom"),
			retryable: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, isRetryableError(tc.err))
		})
	}
}

func TestMarkRetriesExhausted(t *testing.T) {
	cause := &pgconn.PgError{Code: pgErrCodeSerializationFailure}
	err := markRetriesExhausted(cause)

	assert.ErrorIs(t, err, errs.ErrTransient)
	assert.ErrorIs(t, err, errMaxRetriesExceeded)

	// The driver error survives for logging and inspection.
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, pgErrCodeSerializationFailure, pgErr.Code)
}
