package errs

import (
	"fmt"
	"net/http"
)

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type ForbiddenError struct {
	ErrorMessage
}

// SchemaLockedError is the expected outcome of trying to remove or change a
// field that existing data records depend on.
type SchemaLockedError struct {
	ErrorMessage
	Index int
}

// UnknownWidgetTypeError is returned when a widget type has no registry entry.
type UnknownWidgetTypeError struct {
	ErrorMessage
	Type string
}

// TransportError is a non-2xx response or network failure from the REST API.
// Status is zero for network failures.
type TransportError struct {
	ErrorMessage
	Status int
	Code   string
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

type EncryptionError struct {
	ErrorMessage
	Err error
}

func (e *EncryptionError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewSchemaLockedError(index int, message string) *SchemaLockedError {
	return &SchemaLockedError{
		ErrorMessage: ErrorMessage{Message: message},
		Index:        index,
	}
}

func NewUnknownWidgetTypeError(widgetType string) *UnknownWidgetTypeError {
	return &UnknownWidgetTypeError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("unknown widget type: %s", widgetType)},
		Type:         widgetType,
	}
}

// NewTransportError builds a TransportError. An empty message falls back to the
// HTTP status text.
func NewTransportError(status int, code, message string) *TransportError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &TransportError{
		ErrorMessage: ErrorMessage{Message: message},
		Status:       status,
		Code:         code,
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewEncryptionError(message string, err error) *EncryptionError {
	return &EncryptionError{
		ErrorMessage: ErrorMessage{Message: message},
		Err:          err,
	}
}
