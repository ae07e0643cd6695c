package oneclick

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	var syntaxErr error
	{
		var v any
		syntaxErr = json.Unmarshal([]byte("{"), &v)
	}
	var typeErr error
	{
		var v struct{ N int }
		typeErr = json.Unmarshal([]byte(`{"N":"x"}`), &v)
	}
	tests := []struct {
		name string
		err  error
		want LoginErrorCode
	}{
		{"nil", nil, CodeSuccess},
		{"key", ErrKey, CodeKeyError},
		{"wrapped key", fmt.Errorf("sign: %w", ErrKey), CodeKeyError},
		{"data", ErrData, CodeDataError},
		{"json syntax", syntaxErr, CodeDataError},
		{"json type", typeErr, CodeDataError},
		{"net", ErrNet, CodeNetError},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, CodeNetError},
		{"deadline", fmt.Errorf("handshake: %w", context.DeadlineExceeded), CodeNetError},
		{"phone", ErrPhone, CodePhoneError},
		{"cancelled", context.Canceled, CodeUserCancelled},
		{"other", errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestConfigurationError(t *testing.T) {
	inner := errors.New("bad subtag")
	err := &ConfigurationError{Field: "language", Reason: "invalid", Err: inner}
	assert.Equal(t, "configuration error: language: invalid: bad subtag", err.Error())
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, inner)
	assert.NotErrorIs(t, err, ErrConcurrentLogin)

	assert.Equal(t, "configuration error: token: must not be empty", errConfig("token", "must not be empty").Error())
}

func TestLoginErrorCode_String(t *testing.T) {
	assert.Equal(t, "Success", CodeSuccess.String())
	assert.Equal(t, "PhoneError", CodePhoneError.String())
	assert.Equal(t, "UserCancelled", CodeUserCancelled.String())
	assert.Equal(t, "LoginErrorCode(42)", LoginErrorCode(42).String())
	// raw values match the mobile SDK
	assert.Equal(t, 5, int(CodeUnknown))
}
