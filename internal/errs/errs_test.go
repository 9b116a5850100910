package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	badRequest := NewBadRequestError("Please input person name", nil, nil)
	assert.Equal(t, http.StatusBadRequest, badRequest.Status)
	assert.Equal(t, "BAD_REQUEST", badRequest.Code)

	code := "PERSON_NOT_FOUND"
	notFound := NewNotFoundError("Could not find person", &code)
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, code, notFound.Code)

	internal := NewInternalServerError()
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", internal.Code)
	assert.Equal(t, "Internal Server Error", internal.Message)
}

func TestHTTPError_CopiesDoNotMutateBase(t *testing.T) {
	base := NewInternalServerError()
	cause := errors.New("connection refused")

	derived := base.
		WithMessage("Error person not created").
		WithDetail(&ErrorDetail{Code: "STORE_UNAVAILABLE", Message: "unavailable"}).
		WithCause(cause)

	assert.Equal(t, "Internal Server Error", base.Message)
	assert.Nil(t, base.Detail)
	assert.NoError(t, base.Unwrap())

	assert.Equal(t, "Error person not created", derived.Message)
	assert.Equal(t, "STORE_UNAVAILABLE", derived.Detail.Code)
	assert.ErrorIs(t, derived, cause)
	assert.Equal(t, "Error person not created: connection refused", derived.Error())
}

func TestHTTPError_AsThroughWrapping(t *testing.T) {
	err := errors.Join(errors.New("context"), NewNotFoundError("Could not find person", nil))

	var httpErr *HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.True(t, errors.Is(err, &HTTPError{}))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("not found"))
}
