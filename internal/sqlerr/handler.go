package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/deppfellow/person-api/internal/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sanitised codes for failures that do not come from a postgres error response.
const (
	CodeStoreTimeout     = "STORE_TIMEOUT"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeRequestCanceled  = "REQUEST_CANCELED"
)

// ConvertPgError converts a raw *pgconn.PgError into *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds "<DOMAIN>_<ACTION>" codes, e.g. persons + CheckViolation => PERSON_INVALID.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case CheckViolation:
		action = "INVALID"
	case ConnectionException, InsufficientRes:
		action = "UNAVAILABLE"
	case QueryCanceled:
		action = "TIMEOUT"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing message for sqlErr.
func formatUserFriendlyMessage(sqlErr *Error) string {
	switch sqlErr.Code {
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", getEntityName(sqlErr.TableName))

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case ConnectionException, InsufficientRes:
		return "The data store is temporarily unavailable"

	case QueryCanceled:
		return "The data store did not respond in time"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName returns the singularised table name, else "record".
func getEntityName(tableName string) string {
	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case: "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// Describe returns the sanitised code/message pair for a failed store call.
//
// Postgres errors are classified by SQLSTATE and table; timeouts, cancellations
// and network failures get fixed codes; everything else is reported as a
// generic internal error. Driver messages are never copied into the result.
func Describe(err error) *errs.ErrorDetail {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		return &errs.ErrorDetail{
			Code:    generateErrorCode(sqlErr.TableName, sqlErr.Code),
			Message: formatUserFriendlyMessage(sqlErr),
		}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &errs.ErrorDetail{Code: CodeStoreTimeout, Message: "The data store did not respond in time"}
	case errors.Is(err, context.Canceled):
		return &errs.ErrorDetail{Code: CodeRequestCanceled, Message: "The request was canceled"}
	case pgconn.SafeToRetry(err), errors.As(err, &netErr):
		return &errs.ErrorDetail{Code: CodeStoreUnavailable, Message: "The data store is temporarily unavailable"}
	}

	internal := errs.NewInternalServerError()
	return &errs.ErrorDetail{
		Code:    internal.Code,
		Message: "An error occurred while processing your request",
	}
}

// HandleError converts an error that reached the edge of the API without an
// HTTP shape into one. *errs.HTTPError is returned unchanged; anything else
// becomes a 500 carrying the sanitised Describe detail.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	return errs.NewInternalServerError().WithDetail(Describe(err)).WithCause(err)
}
