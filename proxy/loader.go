// Package proxy builds wrappers: values implementing a set of capabilities
// that route every method through a chain of interceptors before reaching
// the wrapped target.
//
// Go cannot synthesize method sets at run time, so each capability needs a
// stub: a small type that forwards its methods to an Invoker. Stubs are
// registered in a Loader, which plays the role of the build context.
//
//	type transformerStub struct{ proxy.Stub }
//
//	func (s transformerStub) Transform(in string) string {
//		return proxy.Result[string](s.Call("Transform", in), 0)
//	}
//
//	func init() {
//		proxy.Register(proxy.DefaultLoader(), func(inv proxy.Invoker) Transformer {
//			return transformerStub{proxy.NewStub(inv)}
//		})
//	}
package proxy

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/dusk-indust/aspectwrap/capability"
)

// StubFactory builds a stub bound to inv.
type StubFactory func(inv Invoker) any

type stubEntry struct {
	capability capability.Descriptor
	factory    StubFactory
}

// Loader is a registry of stubs keyed by the interface they implement.
type Loader struct {
	mu    sync.RWMutex
	stubs []stubEntry
	index map[reflect.Type]int
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{index: make(map[reflect.Type]int)}
}

var defaultLoader = NewLoader()

// DefaultLoader returns the process-wide loader used when no loader is
// given to a wrap call.
func DefaultLoader() *Loader { return defaultLoader }

// Register adds the stub factory for interface T to l, replacing any earlier
// registration for T. T is also made known to capability.DefaultReflector.
// It panics if T is not an interface type.
func Register[T any](l *Loader, factory func(inv Invoker) T) {
	d := capability.Of[T]()
	l.register(d, func(inv Invoker) any { return factory(inv) })
	capability.DefaultReflector().Know(d)
}

func (l *Loader) register(d capability.Descriptor, factory StubFactory) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := stubEntry{capability: d, factory: factory}
	if i, ok := l.index[d.Type()]; ok {
		l.stubs[i] = entry
		return
	}
	l.index[d.Type()] = len(l.stubs)
	l.stubs = append(l.stubs, entry)
}

// Capabilities lists the interfaces with a registered stub, in registration
// order.
func (l *Loader) Capabilities() []capability.Descriptor {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]capability.Descriptor, 0, len(l.stubs))
	for _, s := range l.stubs {
		out = append(out, s.capability)
	}
	return out
}

// lookup returns the narrowest registered stub whose interface covers every
// capability in caps and is implemented by target. Ties go to the earlier
// registration.
func (l *Loader) lookup(caps capability.Set, target reflect.Type) (stubEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	best := -1
	for i, s := range l.stubs {
		iface := s.capability.Type()
		if !caps.SatisfiedBy(iface) || !target.Implements(iface) {
			continue
		}
		if best < 0 || iface.NumMethod() < l.stubs[best].capability.Type().NumMethod() {
			best = i
		}
	}
	if best >= 0 {
		return l.stubs[best], nil
	}
	return stubEntry{}, fmt.Errorf("%w: %v", ErrNoStub, caps.Names())
}
