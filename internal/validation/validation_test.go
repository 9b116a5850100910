package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/person-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namePayload struct {
	Name string `json:"name" validate:"required,max=5,nonul"`
}

func (p *namePayload) Validate() error {
	return Struct(p)
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := &namePayload{}
		require.NoError(t, BindAndValidate(newContext(`{"name":"Ada"}`), payload))
		assert.Equal(t, "Ada", payload.Name)
	})

	t.Run("malformed json", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"name":`), &namePayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.NotEmpty(t, httpErr.Message)
		assert.Empty(t, httpErr.Errors)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"name":42}`), &namePayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	})

	t.Run("rule violations become field errors", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"name":"Grace Hopper"}`), &namePayload{})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, ValidationFailedMessage, httpErr.Message)
		assert.Equal(t, []errs.FieldError{{Field: "name", Message: "must not exceed 5 characters"}}, httpErr.Errors)
	})
}

func TestCheck(t *testing.T) {
	assert.True(t, Check(&namePayload{Name: "Ada"}).Valid)

	result := Check(&namePayload{})
	assert.False(t, result.Valid)
	assert.Equal(t, []errs.FieldError{{Field: "name", Message: "is required"}}, result.FieldErrors)

	result = Check(&namePayload{Name: "A\x00a"})
	assert.False(t, result.Valid)
	assert.Equal(t, []errs.FieldError{{Field: "name", Message: "must not contain NUL characters"}}, result.FieldErrors)

	assert.True(t, Check(&namePayload{Name: "A0"}).Valid)
}

func TestBindAndValidate_EscapedNUL(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"A\u0000"}`), &namePayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, ValidationFailedMessage, httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "name", Message: "must not contain NUL characters"}}, httpErr.Errors)
}
