package entities

import (
	"errors"
	"fmt"
)

// SupplyErrorKind classifies why a batch could not be supplied.
type SupplyErrorKind int

const (
	SupplyUnreachable      SupplyErrorKind = iota + 1 // transport failure
	SupplyBadStatus                                   // non-success HTTP status
	SupplyMalformed                                   // body could not be decoded or validated
	SupplyUpstreamRejected                            // response_code other than 0
	SupplyEmptyResult                                 // well-formed response without questions
)

func (k SupplyErrorKind) String() string {
	switch k {
	case SupplyUnreachable:
		return "unreachable"
	case SupplyBadStatus:
		return "bad_status"
	case SupplyMalformed:
		return "malformed"
	case SupplyUpstreamRejected:
		return "upstream_rejected"
	case SupplyEmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

// SupplyError is the single failure channel of a question supplier.
// Code carries the HTTP status for BadStatus and the API response code for UpstreamRejected.
type SupplyError struct {
	Kind SupplyErrorKind
	Code int
	Err  error
}

func (e *SupplyError) Error() string {
	msg := "question supply: " + e.Kind.String()
	if e.Kind == SupplyBadStatus || e.Kind == SupplyUpstreamRejected {
		msg = fmt.Sprintf("%s (%d)", msg, e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SupplyError) Unwrap() error {
	return e.Err
}

func NewUnreachable(err error) *SupplyError {
	return &SupplyError{Kind: SupplyUnreachable, Err: err}
}

func NewBadStatus(code int) *SupplyError {
	return &SupplyError{Kind: SupplyBadStatus, Code: code}
}

func NewMalformed(err error) *SupplyError {
	return &SupplyError{Kind: SupplyMalformed, Err: err}
}

func NewUpstreamRejected(code int) *SupplyError {
	return &SupplyError{Kind: SupplyUpstreamRejected, Code: code}
}

func NewEmptyResult() *SupplyError {
	return &SupplyError{Kind: SupplyEmptyResult}
}

// AsSupplyError converts any error into a SupplyError.
// Errors that are not already SupplyErrors are reported as Unreachable.
func AsSupplyError(err error) *SupplyError {
	if err == nil {
		return nil
	}
	var se *SupplyError
	if errors.As(err, &se) {
		return se
	}
	return NewUnreachable(err)
}
