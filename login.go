package oneclick

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/datashield/oneclick/authflow"
)

// State is the state of the login flow.
//
//go:generate stringer -type=State
type State int

const (
	Idle           State = iota // no login in flight
	Presenting                  // login screen is shown
	AwaitingResult              // backend handshake is in flight
	Completed                   // result is being delivered
)

// Result is the outcome of the login flow.
type Result struct {
	Success bool
	Code    LoginErrorCode
	// Payload carries the claims issued by the backend, present only on
	// success.
	Payload map[string]any
	// Err is the underlying error, if any.  For flows rejected by ShowLogin
	// it is the same error ShowLogin returned.
	Err    error
	FlowID string
}

// once wraps the completion function so that it runs at most once.  nil
// completion is allowed.
func once(fn func(Result)) func(Result) {
	var o sync.Once
	return func(r Result) {
		o.Do(func() {
			if fn != nil {
				fn(r)
			}
		})
	}
}

// flow is one login attempt.
type flow struct {
	id      string
	screen  *authflow.Screen
	req     Request
	deliver func(Result)
	lg      *zap.Logger
}

// ShowLogin starts the login flow.  completion is called exactly once with
// the result.
//
// If the manager is not ready (credentials are not registered, presentation
// host is not set or already released, collaborators are missing) ShowLogin
// returns the *ConfigurationError.  If another flow is in flight, it returns
// ErrConcurrentLogin.  In both cases completion is called synchronously with
// the failed Result before ShowLogin returns, and nothing else happens.
//
// Otherwise ShowLogin returns nil and the flow continues in background: the
// login screen is presented, and once the user confirms, the backend
// handshake is performed.  The result is delivered through the Dispatcher.
// Cancelling ctx ends the flow early, still with a single result.
func (m *Manager) ShowLogin(ctx context.Context, completion func(Result)) error {
	deliver := once(completion)
	id := uuid.NewString()
	loc := m.platformLocale()

	m.mu.Lock()
	if m.state != Idle {
		m.mu.Unlock()
		m.lg.Debug("login rejected", zap.String("flow", id), zap.Error(ErrConcurrentLogin))
		deliver(Result{Code: CodeUnknown, Err: ErrConcurrentLogin, FlowID: id})
		return ErrConcurrentLogin
	}
	fl, err := m.prepareLocked(id, loc)
	if err != nil {
		m.mu.Unlock()
		m.lg.Debug("login rejected", zap.String("flow", id), zap.Error(err))
		deliver(Result{Code: CodeUnknown, Err: err, FlowID: id})
		return err
	}
	fl.deliver = deliver
	m.state = Presenting
	m.mu.Unlock()

	m.metrics.inflight.Inc()
	go m.run(ctx, fl)
	return nil
}

// Login is the blocking version of ShowLogin.  It returns the error if the
// flow could not be started, or if ctx is done before the result arrives.
func (m *Manager) Login(ctx context.Context) (Result, error) {
	resC := make(chan Result, 1)
	if err := m.ShowLogin(ctx, func(r Result) { resC <- r }); err != nil {
		return <-resC, err
	}
	select {
	case <-ctx.Done():
		return Result{Code: CodeOf(ctx.Err()), Err: ctx.Err()}, ctx.Err()
	case r := <-resC:
		return r, nil
	}
}

// prepareLocked validates the configuration and builds the flow.  Caller
// must hold m.mu.
func (m *Manager) prepareLocked(id, locale string) (*flow, error) {
	if err := m.cfg.Credentials.validate(); err != nil {
		return nil, err
	}
	if m.host == nil {
		return nil, errConfig("presentation host", "not set")
	}
	host, ok := m.host.Value()
	if !ok {
		return nil, errConfig("presentation host", "released")
	}
	if m.presenter == nil {
		return nil, errConfig("presenter", "not set")
	}
	if m.backend == nil {
		return nil, errConfig("handshaker", "not set")
	}

	lang := m.languageLocked(locale)
	onClick := m.onIconClick
	scr := authflow.NewScreen(slices.Clone(m.cfg.Icons), func(i int) {
		m.metrics.taps.Inc()
		if onClick != nil {
			m.dispatcher.Dispatch(func() { onClick(i) })
		}
	})
	scr.FlowID = id
	scr.Host = host
	scr.Language = lang
	scr.Operator = m.cfg.PhoneOperator
	scr.Logo = m.cfg.Logo

	return &flow{
		id:     id,
		screen: scr,
		req: Request{
			FlowID:        id,
			Credentials:   m.cfg.Credentials,
			PhoneOperator: m.cfg.PhoneOperator,
			IP:            m.cfg.IP,
			Language:      lang,
		},
		lg: m.lg.With(zap.String("flow", id)),
	}, nil
}

func (m *Manager) run(ctx context.Context, fl *flow) {
	ctx, task := trace.NewTask(ctx, "login")
	defer task.End()

	res := m.execute(ctx, fl)
	res.FlowID = fl.id

	m.setState(Completed)
	m.metrics.inflight.Dec()
	m.metrics.results.WithLabelValues(res.Code.String()).Inc()
	fl.lg.Debug("login completed", zap.Bool("success", res.Success), zap.Stringer("code", res.Code), zap.Error(res.Err))
	trace.Log(ctx, "result", res.Code.String())

	m.dispatcher.Dispatch(func() {
		defer m.setState(Idle)
		fl.deliver(res)
	})
}

// execute runs the flow and converts any outcome, including a panic in the
// collaborators, into the Result.
func (m *Manager) execute(ctx context.Context, fl *flow) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			Log.Printf("login flow %s panicked: %v", fl.id, r)
			res = Result{Code: CodeUnknown, Err: fmt.Errorf("login flow panic: %v", r)}
		}
	}()
	defer fl.screen.Close()

	m.inferDevice(ctx, fl)

	fl.lg.Debug("presenting", zap.String("language", fl.screen.Language), zap.Int("icons", len(fl.screen.Icons)))
	region := trace.StartRegion(ctx, "present")
	decision, err := m.presenter.Present(ctx, fl.screen)
	fl.screen.Close()
	region.End()
	if err != nil {
		code := CodeUnknown
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			code = CodeOf(err)
		}
		return Result{Code: code, Err: fmt.Errorf("presentation: %w", err)}
	}
	if decision != authflow.Confirmed {
		fl.lg.Debug("dismissed by user")
		return Result{Code: CodeUserCancelled}
	}

	m.setState(AwaitingResult)
	fl.lg.Debug("handshake", zap.String("operator", fl.req.PhoneOperator))
	region = trace.StartRegion(ctx, "handshake")
	payload, err := m.backend.Handshake(ctx, fl.req)
	region.End()
	if err != nil {
		code := CodeOf(err)
		Log.Debugf("login flow %s: %s", fl.id, describe(code, err))
		return Result{Code: code, Err: err}
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return Result{Success: true, Code: CodeSuccess, Payload: payload}
}

// inferDevice fills the phone operator and IP from the device, if they were
// not set by the caller.
func (m *Manager) inferDevice(ctx context.Context, fl *flow) {
	if m.platform == nil || (fl.req.PhoneOperator != "" && fl.req.IP != "") {
		return
	}
	snap, err := m.platform.Snapshot(ctx)
	if err != nil {
		fl.lg.Debug("device snapshot", zap.Error(err))
		return
	}
	if fl.req.PhoneOperator == "" {
		fl.req.PhoneOperator = snap.Operator
		fl.screen.Operator = snap.Operator
	}
	if fl.req.IP == "" {
		fl.req.IP = snap.IP
	}
}
