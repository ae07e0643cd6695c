package oneclick

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrConfiguration is the sentinel matched by every *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")
	// ErrConcurrentLogin is returned if the attempt is made to show the login,
	// while there's another login flow in flight on the same manager.
	ErrConcurrentLogin = errors.New("login already in progress, wait for it to complete")
)

// Errors that a Handshaker may return (or wrap) to report the outcome
// category of a failed handshake.
var (
	ErrKey   = errors.New("invalid token, access key or secret key")
	ErrData  = errors.New("malformed backend response")
	ErrNet   = errors.New("network failure")
	ErrPhone = errors.New("invalid phone number")
)

// ConfigurationError is returned when the manager is misconfigured: missing
// credentials, missing or released presentation host, bad language tag and so
// on.  These are integration bugs and should not be retried.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + e.Field + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(err error) bool {
	return err == ErrConfiguration
}

func errConfig(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}

// CodeOf classifies a handshake error into a LoginErrorCode.  nil maps to
// CodeSuccess.
func CodeOf(err error) LoginErrorCode {
	if err == nil {
		return CodeSuccess
	}
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		netErr    net.Error
	)
	switch {
	case errors.Is(err, ErrKey):
		return CodeKeyError
	case errors.Is(err, ErrPhone):
		return CodePhoneError
	case errors.Is(err, ErrData), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return CodeDataError
	case errors.Is(err, ErrNet), errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return CodeNetError
	case errors.Is(err, context.Canceled):
		return CodeUserCancelled
	}
	return CodeUnknown
}

// describe returns the short description of the code suitable for the log.
func describe(code LoginErrorCode, err error) string {
	if err == nil {
		return code.String()
	}
	return fmt.Sprintf("%s: %s", code, err)
}
