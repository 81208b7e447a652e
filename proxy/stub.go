package proxy

import "github.com/google/uuid"

// Invoker dispatches stub method calls through a wrapper's chain.
type Invoker interface {
	// Invoke calls the named capability method. Variadic methods take their
	// variadic part as a single slice argument.
	Invoke(method string, args ...any) []any

	// Target returns the wrapped object.
	Target() any

	// ID identifies the wrapper instance.
	ID() uuid.UUID
}

// Stub is embedded by stub types. It forwards calls to its Invoker and
// exposes the wrapper's identity.
type Stub struct {
	inv Invoker
}

// NewStub binds a Stub to inv.
func NewStub(inv Invoker) Stub { return Stub{inv: inv} }

// Call invokes method through the chain.
func (s Stub) Call(method string, args ...any) []any {
	return s.inv.Invoke(method, args...)
}

// ProxyTarget returns the wrapped object.
func (s Stub) ProxyTarget() any { return s.inv.Target() }

// ProxyID returns the wrapper's identity.
func (s Stub) ProxyID() uuid.UUID { return s.inv.ID() }

// Wrapper is implemented by every value built around a Stub.
type Wrapper interface {
	ProxyTarget() any
	ProxyID() uuid.UUID
}

// TargetOf returns the object wrapped by v, if v is a wrapper.
func TargetOf(v any) (any, bool) {
	w, ok := v.(Wrapper)
	if !ok {
		return nil, false
	}
	return w.ProxyTarget(), true
}

// Result returns results[i] as T, or the zero T when it is nil or of another
// type.
func Result[T any](results []any, i int) T {
	var zero T
	if i < 0 || i >= len(results) {
		return zero
	}
	v, ok := results[i].(T)
	if !ok {
		return zero
	}
	return v
}
