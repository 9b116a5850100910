// Package sqlerr specifically handles store driver errors.
//
// It parses cryptic error codes from the database driver and
// converts them into user-friendly messages and sanitised
// codes, so raw driver output never reaches API clients.
package sqlerr

import "fmt"

// Code is a driver-independent category for a database error.
type Code string

const (
	Other               Code = "other"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ConnectionException Code = "connection_exception"
	QueryCanceled       Code = "query_canceled"
	InsufficientRes     Code = "insufficient_resources"
)

// Error is a normalised postgres error.
type Error struct {
	Code           Code
	DatabaseCode   string
	Message        string
	TableName      string
	ColumnName     string
	ConstraintName string
	driverErr      error
}

func (pe *Error) Error() string {
	return fmt.Sprintf("%s (SQLSTATE %s)", pe.Message, pe.DatabaseCode)
}

// Unwrap returns the original driver error.
func (pe *Error) Unwrap() error {
	return pe.driverErr
}

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "57014":
		return QueryCanceled
	}

	if len(sqlState) == 5 {
		switch sqlState[:2] {
		case "08":
			return ConnectionException
		case "53":
			return InsufficientRes
		}
	}

	return Other
}
