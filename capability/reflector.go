package capability

import (
	"reflect"
	"sync"
)

// Reflector discovers the capabilities an object implements.
type Reflector interface {
	AllInterfacesOf(object any) Set
}

// KnownReflector answers AllInterfacesOf against a registry of known
// interfaces. Go has no run-time list of the interfaces a type implements,
// so candidates must be registered up front.
type KnownReflector struct {
	mu    sync.RWMutex
	known Set
}

// NewKnownReflector returns a reflector seeded with ds.
func NewKnownReflector(ds ...Descriptor) *KnownReflector {
	return &KnownReflector{known: NewSet(ds...)}
}

// Know registers additional candidate interfaces.
func (r *KnownReflector) Know(ds ...Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range ds {
		r.known.Add(d)
	}
}

// AllInterfacesOf returns the known interfaces object implements, in
// registration order. A nil object implements nothing.
func (r *KnownReflector) AllInterfacesOf(object any) Set {
	if object == nil {
		return Set{}
	}
	t := reflect.TypeOf(object)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out Set
	for _, d := range r.known.order {
		if d.SatisfiedBy(t) {
			out.Add(d)
		}
	}
	return out
}

var defaultReflector = NewKnownReflector()

// DefaultReflector returns the process-wide reflector that stub
// registrations feed.
func DefaultReflector() *KnownReflector { return defaultReflector }
