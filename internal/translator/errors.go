package translator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind separates failures that may succeed on a later attempt from those
// that cannot.
type Kind int

const (
	// Transient failures (timeouts, temporary unavailability) are retried.
	Transient Kind = iota
	// Permanent failures (bad credentials, malformed requests, exhausted
	// quota) abort retries immediately.
	Permanent
)

func (k Kind) String() string {
	if k == Permanent {
		return "permanent"
	}
	return "transient"
}

// Error is a classified provider failure.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s translation error: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with an explicit kind.
func NewError(kind Kind, provider string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// IsPermanent reports whether err carries a Permanent classification.
// Unclassified errors count as transient.
func IsPermanent(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == Permanent
}

// permanentKeywords flag failure messages that retrying cannot fix.
var permanentKeywords = []string{
	"authentication",
	"unauthorized",
	"forbidden",
	"invalid api key",
	"api key not valid",
	"bad request",
	"invalid request",
	"not found",
	"method not allowed",
	"quota exceeded",
	"daily limit exceeded",
	"billing not enabled",
	"access denied",
	"permission denied",
}

// ClassifyStatus maps an HTTP status code to a failure kind. Client errors
// and quota exhaustion are permanent; everything else, including server
// errors, is worth retrying.
func ClassifyStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusMethodNotAllowed,
		http.StatusTooManyRequests:
		return Permanent
	}
	return Transient
}

// Classify wraps err for a provider, deciding the kind from the error
// message when no explicit signal is available. Errors already classified
// pass through unchanged.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}

	msg := strings.ToLower(err.Error())
	for _, kw := range permanentKeywords {
		if strings.Contains(msg, kw) {
			return NewError(Permanent, provider, err)
		}
	}
	return NewError(Transient, provider, err)
}
