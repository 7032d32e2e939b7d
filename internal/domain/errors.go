package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflicting concurrent update")
	ErrDuplicateSettlement    = errors.New("settlement already exists for order")
	ErrMismatchedCounterparty = errors.New("orders reference different counterparty pairs")
	ErrUnknownTransaction     = errors.New("unknown transaction id")
	ErrTransport              = errors.New("transport failure")
)

// ErrorKind is the failure taxonomy every business error maps to.
// Handlers translate kinds to NACK codes, never raw error strings.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindPrecondition
	KindConsistency
	KindTransport
	KindUnexpected
)

// Protocol error codes returned inside NACK envelopes.
const (
	CodeInvalidSignature       = "invalid-signature"
	CodeMissingAuthorization   = "missing-authorization"
	CodeInvalidPayload         = "invalid-payload-shape"
	CodeLookupFailure          = "downstream-lookup-failure"
	CodeProcessingFailure      = "transient-processing-failure"
	CodeMismatchedCounterparty = "mismatched-counterparty"
	CodeDuplicateSettlement    = "duplicate-settlement"
	CodeInvalidReconState      = "invalid-recon-state"
	CodeUnknownTransaction     = "unknown-transaction"
	CodeBatchMismatch          = "batch-membership-mismatch"
	CodeConflict               = "conflicting-update"
	CodeServiceError           = "service-error"
)

type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewValidationError(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewPreconditionError(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindPrecondition, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewConsistencyError(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindConsistency, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewTransportError(err error, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindTransport, Code: CodeProcessingFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewUnexpectedError(err error) *DomainError {
	return &DomainError{Kind: KindUnexpected, Code: CodeServiceError, Message: "internal service error", Err: err}
}

// KindOf extracts the taxonomy kind, defaulting to unexpected for
// errors that escaped classification.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}
