package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/deppfellow/person-api/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkViolation() *pgconn.PgError {
	return &pgconn.PgError{
		Code:           "23514",
		Message:        `new row for relation "persons" violates check constraint "persons_name_check"`,
		TableName:      "persons",
		ColumnName:     "name",
		ConstraintName: "persons_name_check",
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"check violation", fmt.Errorf("insert: %w", checkViolation()), "PERSON_INVALID"},
		{"duplicate id", &pgconn.PgError{Code: "23505", TableName: "persons"}, "PERSON_ALREADY_EXISTS"},
		{"statement timeout", &pgconn.PgError{Code: "57014", TableName: "persons"}, "PERSON_TIMEOUT"},
		{"connection exception", &pgconn.PgError{Code: "08006", TableName: "persons"}, "PERSON_UNAVAILABLE"},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), CodeStoreTimeout},
		{"canceled", context.Canceled, CodeRequestCanceled},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, CodeStoreUnavailable},
		{"unknown", errors.New("boom"), "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := Describe(tt.err)
			require.NotNil(t, detail)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.NotEmpty(t, detail.Message)
		})
	}
}

func TestDescribe_DoesNotLeakDriverMessage(t *testing.T) {
	detail := Describe(checkViolation())

	assert.NotContains(t, detail.Message, "persons_name_check")
	assert.Equal(t, "The Name value does not meet required conditions", detail.Message)
}

func TestHandleError(t *testing.T) {
	t.Run("http errors pass through", func(t *testing.T) {
		original := errs.NewNotFoundError("Could not find person", nil)
		assert.Same(t, original, HandleError(original))
	})

	t.Run("constraint violations are sanitised 500s", func(t *testing.T) {
		cause := fmt.Errorf("insert person: %w", checkViolation())

		var httpErr *errs.HTTPError
		require.ErrorAs(t, HandleError(cause), &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		require.NotNil(t, httpErr.Detail)
		assert.Equal(t, "PERSON_INVALID", httpErr.Detail.Code)
		assert.NotContains(t, httpErr.Detail.Message, "persons_name_check")
		assert.ErrorIs(t, httpErr, cause)
	})

	t.Run("unknown errors are sanitised 500s", func(t *testing.T) {
		cause := errors.New("driver exploded")

		var httpErr *errs.HTTPError
		require.ErrorAs(t, HandleError(cause), &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		require.NotNil(t, httpErr.Detail)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", httpErr.Detail.Code)
		assert.NotContains(t, httpErr.Detail.Message, "exploded")
		assert.ErrorIs(t, httpErr, cause)
	})
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, QueryCanceled, MapCode("57014"))
	assert.Equal(t, ConnectionException, MapCode("08001"))
	assert.Equal(t, InsufficientRes, MapCode("53300"))
	assert.Equal(t, Other, MapCode("XX000"))
	assert.Equal(t, Other, MapCode("23502"))
}

func TestConvertPgError_Unwraps(t *testing.T) {
	src := checkViolation()
	converted := ConvertPgError(src)

	assert.Equal(t, CheckViolation, converted.Code)
	assert.Equal(t, "23514", converted.DatabaseCode)
	assert.ErrorIs(t, converted, src)
	assert.Contains(t, converted.Error(), "SQLSTATE 23514")
}
