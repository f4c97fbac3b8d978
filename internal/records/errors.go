package records

import (
	"errors"
	"strings"
)

// Kind is the class of an upstream store failure as far as the HTTP layer is concerned.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAuthorized
	KindTableNotFound
	KindInvalidRequest
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotAuthorized:
		return "not_authorized"
	case KindTableNotFound:
		return "table_not_found"
	case KindInvalidRequest:
		return "invalid_request"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Typed is implemented by store errors that carry a structured error code.
type Typed interface {
	error
	ErrorType() string
}

// Classify maps a store error to its Kind. Structured error codes win over the message text;
// the substring checks only apply to errors without a recognised code.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrMissingCredentials) {
		return KindUnavailable
	}
	var typed Typed
	if errors.As(err, &typed) {
		if k := kindOfType(typed.ErrorType()); k != KindUnknown {
			return k
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "NOT_AUTHORIZED"):
		return KindNotAuthorized
	case strings.Contains(msg, "TABLE_NOT_FOUND"), strings.Contains(msg, "Could not find table"):
		return KindTableNotFound
	case strings.Contains(msg, "INVALID_REQUEST"):
		return KindInvalidRequest
	}
	return KindUnknown
}

func kindOfType(t string) Kind {
	switch {
	case t == "NOT_AUTHORIZED", t == "AUTHENTICATION_REQUIRED", t == "INVALID_PERMISSIONS_OR_MODEL_NOT_FOUND":
		return KindNotAuthorized
	case t == "TABLE_NOT_FOUND", t == "NOT_FOUND", t == "MODEL_ID_NOT_FOUND":
		return KindTableNotFound
	case strings.HasPrefix(t, "INVALID_REQUEST"), t == "INVALID_VALUE_FOR_COLUMN",
		t == "UNKNOWN_FIELD_NAME", t == "INVALID_MULTIPLE_CHOICE_OPTIONS":
		return KindInvalidRequest
	}
	return KindUnknown
}
