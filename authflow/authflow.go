// Package authflow defines the contract between the login flow and the
// presentation layer that renders the one-click login screen.
package authflow

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrIndexOutOfRange is returned by Screen.Tap for an index outside of the
	// alternate login icons.
	ErrIndexOutOfRange = errors.New("icon index out of range")
	// ErrScreenClosed is returned by Screen.Tap after the presentation has
	// ended.
	ErrScreenClosed = errors.New("login screen is closed")
)

// Asset is an opaque image reference owned by the caller.  The presentation
// layer knows how to render it, the login flow never looks inside.
type Asset = any

//go:generate stringer -type=Decision
type Decision int

const (
	// Dismissed means that the user closed the screen without logging in.
	Dismissed Decision = iota
	// Confirmed means that the user asked to log in with the current number.
	Confirmed
)

// Presenter is the presentation layer.  Present shows the screen on the host
// and blocks until the user either confirms or dismisses it.  While the
// screen is shown, taps on alternate login icons are reported with
// Screen.Tap.
type Presenter interface {
	Present(ctx context.Context, s *Screen) (Decision, error)
}

// PresenterFunc is an adapter to use ordinary functions as Presenters.
type PresenterFunc func(ctx context.Context, s *Screen) (Decision, error)

func (f PresenterFunc) Present(ctx context.Context, s *Screen) (Decision, error) {
	return f(ctx, s)
}

// Screen is everything the presentation layer needs to render the login
// screen for one flow.
type Screen struct {
	FlowID   string
	Host     any // resolved presentation host
	Language string
	Operator string
	Logo     Asset
	Icons    []Asset

	onTap func(int)

	mu     sync.Mutex
	closed bool
}

// NewScreen returns the screen for the given icons.  onTap is called with the
// zero-based index of each tapped icon, it may be nil.
func NewScreen(icons []Asset, onTap func(index int)) *Screen {
	return &Screen{
		Icons: icons,
		onTap: onTap,
	}
}

// Tap reports a tap on the alternate login icon i.  The index is forwarded
// unchanged.
func (s *Screen) Tap(i int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrScreenClosed
	}
	if i < 0 || i >= len(s.Icons) {
		s.mu.Unlock()
		return ErrIndexOutOfRange
	}
	fn := s.onTap
	s.mu.Unlock()

	if fn != nil {
		fn(i)
	}
	return nil
}

// Close marks the screen as dismissed, subsequent taps are rejected.
func (s *Screen) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed returns true if the screen was closed.
func (s *Screen) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
