// cmd/periksa/errors.go
package main

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInput       ErrorType = "input"
	ErrorTypeAcquisition ErrorType = "acquisition"
	ErrorTypeSource      ErrorType = "source"
	ErrorTypeReasoner    ErrorType = "reasoner"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeInternal    ErrorType = "internal"
)

// AppError is the application error type. Expected degraded-mode paths
// (failed fetches, unavailable sources, a dead reasoner) travel as
// values of this type and are absorbed into result records; they are
// never allowed to escape a component boundary as a hard failure.
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Inner   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("[%s-%s] %s: %v", e.Type, e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("[%s-%s] %s", e.Type, e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Inner
}

// NewError creates a new AppError
func NewError(errType ErrorType, code string, message string, inner error) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

// Common error constructors
func NewInputError(code string, message string) *AppError {
	return NewError(ErrorTypeInput, code, message, nil)
}

func NewAcquisitionError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeAcquisition, code, message, inner)
}

func NewSourceError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeSource, code, message, inner)
}

func NewReasonerError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeReasoner, code, message, inner)
}

func NewConfigError(code string, message string, inner error) *AppError {
	return NewError(ErrorTypeConfig, code, message, inner)
}

// Error codes
const (
	// Input error codes
	ErrEmptyText    = "INPUT_001"
	ErrMalformedURL = "INPUT_002"

	// Acquisition error codes
	ErrFetchFailed  = "ACQ_001"
	ErrBodyTooShort = "ACQ_002"
	ErrHTTPStatus   = "ACQ_003"

	// Retrieval source error codes
	ErrSourceQuery = "SRC_001"
	ErrSourceParse = "SRC_002"

	// Reasoner error codes
	ErrReasonerCall  = "LLM_001"
	ErrReasonerParse = "LLM_002"

	// Config error codes
	ErrConfigLoad       = "CONFIG_001"
	ErrConfigValidation = "CONFIG_002"
	ErrLexiconCompile   = "CONFIG_003"
)

// IsTransient determines if an error is likely temporary
func IsTransient(err error) bool {
	if ae, ok := err.(*AppError); ok {
		switch ae.Code {
		case ErrFetchFailed, ErrHTTPStatus, ErrSourceQuery, ErrReasonerCall:
			return true
		}
	}
	return false
}
