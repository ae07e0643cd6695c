package oneclick

import (
	"reflect"
	"weak"
)

// HostHandle is a non-owning reference to the screen that hosts the login UI.
// Value returns the host and true while it is alive, or nil and false once
// it has been released by its owner.
type HostHandle interface {
	Value() (any, bool)
}

type weakHost[T any] struct {
	p weak.Pointer[T]
}

// WeakHost returns a handle that does not keep h alive.  It is the caller's
// responsibility to keep the host reachable while the login is shown.
func WeakHost[T any](h *T) HostHandle {
	return weakHost[T]{p: weak.Make(h)}
}

func (w weakHost[T]) Value() (any, bool) {
	v := w.p.Value()
	if v == nil {
		return nil, false
	}
	return v, true
}

type strongHost struct {
	v any
}

// StrongHost returns a handle for hosts that live for the whole process, i.e.
// the terminal.  A nil v, including a typed nil pointer, is never alive.
func StrongHost(v any) HostHandle {
	if isNil(v) {
		v = nil
	}
	return strongHost{v: v}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

func (s strongHost) Value() (any, bool) {
	return s.v, s.v != nil
}
