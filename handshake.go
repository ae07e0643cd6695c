package oneclick

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// Request is what the backend handshake receives for one login flow.
type Request struct {
	FlowID string
	Credentials
	PhoneOperator string
	IP            string
	Language      string
}

// Handshaker is the backend verification service.  Handshake must return
// exactly once, either with the payload (claims, such as phone number or
// session token) or with an error.  Errors wrapping ErrKey, ErrData, ErrNet or
// ErrPhone are reported with the matching LoginErrorCode, see CodeOf.  The
// handshaker owns the timeout policy.
type Handshaker interface {
	Handshake(ctx context.Context, req Request) (map[string]any, error)
}

// HandshakerFunc is an adapter to use ordinary functions as Handshakers.
type HandshakerFunc func(ctx context.Context, req Request) (map[string]any, error)

func (f HandshakerFunc) Handshake(ctx context.Context, req Request) (map[string]any, error) {
	return f(ctx, req)
}

// ParsePayload parses the JSON object returned by the backend.  Anything
// other than a JSON object is reported as ErrData.
func ParsePayload(data string) (map[string]any, error) {
	if !gjson.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrData)
	}
	res := gjson.Parse(data)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrData, res.Type)
	}
	payload, ok := res.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", ErrData, res.Value())
	}
	return payload, nil
}
