// Package channel exposes the Manager as a method-call channel, the way the
// mobile plugin does it: the host application sends a named method with JSON
// arguments and receives a result, or a CallError.  Asynchronous login
// results and icon clicks are sent to the EventSink.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/datashield/oneclick"
)

// Error codes of CallError.
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInvalidResource = "INVALID_RESOURCE"
	CodeSetLogoError    = "SET_LOGO_ERROR"
	CodeNotInitialized  = "NOT_INITIALIZED"
	CodeLoginInProgress = "LOGIN_IN_PROGRESS"
	CodeNotImplemented  = "NOT_IMPLEMENTED"
)

const startedMessage = "Login process started, listen for events for results"

// event types
const (
	eventLoginSuccess = "login_success"
	eventLoginFailure = "login_failure"
	eventIconClick    = "icon_click"
)

// keys of result and event maps
const (
	keySuccess = "success"
	keyCode    = "code"
	keyType    = "type"
	keyData    = "data"
	keyIndex   = "index"
	keyMessage = "message"
	keyFlow    = "flow"
)

// ErrNotImplemented is returned for unknown methods.
var ErrNotImplemented = &CallError{Code: CodeNotImplemented, Message: "method not implemented"}

// Call is a method call received from the host application.
type Call struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// CallError is the error reported back to the caller of the method.
type CallError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *CallError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func invalidArg(format string, a ...any) *CallError {
	return &CallError{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, a...)}
}

// EventSink receives the asynchronous events.
type EventSink interface {
	Success(event map[string]any)
}

// EventSinkFunc is an adapter to use ordinary functions as EventSinks.
type EventSinkFunc func(event map[string]any)

func (f EventSinkFunc) Success(event map[string]any) {
	f(event)
}

// Plugin routes method calls to the Manager.
type Plugin struct {
	m    *oneclick.Manager
	host func() oneclick.HostHandle

	mu   sync.Mutex
	sink EventSink
}

type Option func(p *Plugin)

// WithHostProvider sets the function that returns the current presentation
// host, it is called before every login.
func WithHostProvider(fn func() oneclick.HostHandle) Option {
	return func(p *Plugin) {
		p.host = fn
	}
}

// New returns the plugin for the manager.
func New(m *oneclick.Manager, opts ...Option) *Plugin {
	p := &Plugin{m: m}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Manager returns the underlying manager.
func (p *Plugin) Manager() *oneclick.Manager {
	return p.m
}

// Listen starts sending events to sink.
func (p *Plugin) Listen(sink EventSink) {
	p.mu.Lock()
	p.sink = sink
	p.mu.Unlock()
}

// Cancel stops sending events.
func (p *Plugin) Cancel() {
	p.Listen(nil)
}

func (p *Plugin) emit(event map[string]any) {
	p.mu.Lock()
	sink := p.sink
	p.mu.Unlock()
	if sink == nil {
		oneclick.Log.Debugf("no listener, dropping event %v", event[keyType])
		return
	}
	sink.Success(event)
}

// Handle executes the call.
func (p *Plugin) Handle(ctx context.Context, call Call) (any, error) {
	if len(call.Args) > 0 && !gjson.ValidBytes(call.Args) {
		return nil, invalidArg("arguments are not valid JSON")
	}
	switch call.Method {
	case "register", "initSdk":
		return p.register(call.Args)
	case "setLanguage":
		return p.setLanguage(call.Args)
	case "setLogo":
		return p.setLogo(ctx, call.Args)
	case "setMoreLoginIcons":
		return p.setMoreLoginIcons(ctx, call.Args)
	case "setPhoneOperator":
		return p.setString(call.Args, "operator", p.m.SetPhoneOperator)
	case "setIp":
		return p.setString(call.Args, "ip", p.m.SetIP)
	case "getSupportsOneClickLogin":
		return p.supports(ctx), nil
	case "showLogin":
		return p.showLogin(ctx)
	case "startLogin":
		return p.startLogin(ctx)
	}
	return nil, ErrNotImplemented
}

// HandleJSON decodes the call from JSON object {"method": ..., "args": ...},
// executes it and returns the JSON encoded response, either {"result": ...}
// or {"error": {"code": ..., "message": ...}}.
func (p *Plugin) HandleJSON(ctx context.Context, data []byte) []byte {
	var (
		res any
		err error
	)
	if !gjson.ValidBytes(data) {
		err = invalidArg("call is not valid JSON")
	} else {
		call := Call{Method: gjson.GetBytes(data, "method").String()}
		if args := gjson.GetBytes(data, "args"); args.Exists() {
			call.Args = json.RawMessage(args.Raw)
		}
		res, err = p.Handle(ctx, call)
	}

	var resp struct {
		Result any        `json:"result,omitempty"`
		Error  *CallError `json:"error,omitempty"`
	}
	if err != nil {
		var ce *CallError
		if !errors.As(err, &ce) {
			ce = &CallError{Code: "ERROR", Message: err.Error(), Err: err}
		}
		resp.Error = ce
	} else {
		resp.Result = res
	}
	out, mErr := json.Marshal(resp)
	if mErr != nil {
		out, _ = json.Marshal(map[string]any{"error": &CallError{Code: "ERROR", Message: mErr.Error()}})
	}
	return out
}

func stringArg(args json.RawMessage, key string) (string, bool) {
	r := gjson.GetBytes(args, key)
	if r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}

func (p *Plugin) register(args json.RawMessage) (any, error) {
	token, ok1 := stringArg(args, "token")
	ak, ok2 := stringArg(args, "ak")
	sk, ok3 := stringArg(args, "sk")
	if !ok1 || !ok2 || !ok3 {
		return nil, invalidArg("Missing token/ak/sk")
	}
	if err := p.m.Register(token, ak, sk); err != nil {
		return nil, &CallError{Code: CodeInvalidArgument, Message: err.Error(), Err: err}
	}
	return true, nil
}

func (p *Plugin) setLanguage(args json.RawMessage) (any, error) {
	code, ok := stringArg(args, "languageCode")
	if !ok {
		return nil, invalidArg("Missing or invalid languageCode")
	}
	if err := p.m.SetLanguage(code); err != nil {
		return nil, &CallError{Code: CodeInvalidArgument, Message: err.Error(), Err: err}
	}
	return true, nil
}

func (p *Plugin) setLogo(ctx context.Context, args json.RawMessage) (any, error) {
	name, ok := stringArg(args, "resName")
	if !ok || name == "" {
		return nil, invalidArg("resName is required")
	}
	if err := p.m.SetLogoByName(ctx, name); err != nil {
		if errors.Is(err, oneclick.ErrAssetNotFound) {
			return nil, &CallError{Code: CodeInvalidResource, Message: "Drawable not found: " + name, Err: err}
		}
		return nil, &CallError{Code: CodeSetLogoError, Message: err.Error(), Err: err}
	}
	return true, nil
}

func (p *Plugin) setMoreLoginIcons(ctx context.Context, args json.RawMessage) (any, error) {
	r := gjson.GetBytes(args, "resNames")
	if !r.IsArray() {
		return nil, invalidArg("resNames must be an array")
	}
	var names []string
	for _, v := range r.Array() {
		if v.Type != gjson.String {
			return nil, invalidArg("resNames must contain strings only")
		}
		names = append(names, v.Str)
	}
	err := p.m.SetMoreLoginOptionsByName(ctx, names, func(index int) {
		p.emit(map[string]any{keyType: eventIconClick, keyIndex: index})
	})
	if err != nil {
		if errors.Is(err, oneclick.ErrAssetNotFound) {
			return nil, &CallError{Code: CodeInvalidResource, Message: err.Error(), Err: err}
		}
		return nil, &CallError{Code: CodeInvalidArgument, Message: err.Error(), Err: err}
	}
	return true, nil
}

func (p *Plugin) setString(args json.RawMessage, key string, set func(string)) (any, error) {
	v, ok := stringArg(args, key)
	if !ok {
		return nil, invalidArg("Missing %s", key)
	}
	set(v)
	return true, nil
}

// supports reports false until the credentials are registered.
func (p *Plugin) supports(ctx context.Context) bool {
	if p.m.Config().IsEmpty() {
		return false
	}
	return p.m.SupportsOneClickLogin(ctx)
}

func (p *Plugin) prepareHost() {
	if p.host == nil {
		return
	}
	if h := p.host(); h != nil {
		p.m.SetPresentationHost(h)
	}
}

func startError(err error) error {
	if errors.Is(err, oneclick.ErrConcurrentLogin) {
		return &CallError{Code: CodeLoginInProgress, Message: err.Error(), Err: err}
	}
	return &CallError{Code: CodeNotInitialized, Message: err.Error(), Err: err}
}

// showLogin blocks until the login completes and returns the result map.
func (p *Plugin) showLogin(ctx context.Context) (any, error) {
	p.prepareHost()
	res, err := p.m.Login(ctx)
	if err != nil && (errors.Is(err, oneclick.ErrConfiguration) || errors.Is(err, oneclick.ErrConcurrentLogin)) {
		return nil, startError(err)
	}
	return resultMap(res), nil
}

// startLogin starts the login and returns immediately, the result is sent as
// an event.
func (p *Plugin) startLogin(ctx context.Context) (any, error) {
	p.prepareHost()
	err := p.m.ShowLogin(ctx, func(res oneclick.Result) {
		if errors.Is(res.Err, oneclick.ErrConfiguration) || errors.Is(res.Err, oneclick.ErrConcurrentLogin) {
			return // reported as the call error
		}
		ev := map[string]any{
			keySuccess: res.Success,
			keyCode:    int(res.Code),
			keyFlow:    res.FlowID,
		}
		if res.Success {
			ev[keyType] = eventLoginSuccess
			ev[keyData] = res.Payload
		} else {
			ev[keyType] = eventLoginFailure
		}
		p.emit(ev)
	})
	if err != nil {
		return nil, startError(err)
	}
	return map[string]any{keySuccess: true, keyMessage: startedMessage}, nil
}

// resultMap flattens the result into {success, code, ...payload}.  Payload
// keys never override success and code.
func resultMap(res oneclick.Result) map[string]any {
	m := make(map[string]any, len(res.Payload)+2)
	for k, v := range res.Payload {
		m[k] = v
	}
	m[keySuccess] = res.Success
	m[keyCode] = int(res.Code)
	return m
}
