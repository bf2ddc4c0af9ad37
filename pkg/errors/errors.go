package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeAuthentication Code = "AUTHENTICATION_FAILED"
	CodeAuthorization  Code = "AUTHORIZATION_DENIED"
	CodeValidation     Code = "VALIDATION_FAILED"
	CodeNotFound       Code = "NOT_FOUND"
	CodeTransport      Code = "TRANSPORT_FAILED"
	CodeInternal       Code = "INTERNAL_ERROR"
)

// Metadata describes how a code surfaces to the person using the client.
type Metadata struct {
	Retryable      bool
	UserMessage    string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeAuthentication: {
		Retryable:      false,
		UserMessage:    "sign in failed, check your username and password",
		DetailsAllowed: false,
	},
	CodeAuthorization: {
		Retryable:      false,
		UserMessage:    "you do not have access to this section",
		DetailsAllowed: false,
	},
	CodeValidation: {
		Retryable:      false,
		UserMessage:    "the submitted values were rejected",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		Retryable:      false,
		UserMessage:    "the requested item no longer exists",
		DetailsAllowed: false,
	},
	CodeTransport: {
		Retryable:      true,
		UserMessage:    "the shop service is unreachable, try again",
		DetailsAllowed: false,
	},
	CodeInternal: {
		Retryable:      false,
		UserMessage:    "something went wrong",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// CodeForStatus maps an HTTP response status to the client error taxonomy.
// Anything transport-shaped (5xx, unknown) is reported as CodeTransport.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusUnauthorized:
		return CodeAuthentication
	case http.StatusForbidden:
		return CodeAuthorization
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	default:
		if status >= 400 && status < 500 {
			return CodeValidation
		}
		return CodeTransport
	}
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given taxonomy code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
