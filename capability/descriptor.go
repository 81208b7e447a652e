// Package capability models the contracts a wrapper must implement.
package capability

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/dusk-indust/aspectwrap/aspect"
)

// ErrNotInterface is returned when a descriptor is built from a non-interface
// type.
var ErrNotInterface = errors.New("capability: not an interface type")

// Descriptor identifies one interface a wrapper must implement.
type Descriptor struct {
	typ reflect.Type
}

// FromType builds a descriptor for the interface type t.
func FromType(t reflect.Type) (Descriptor, error) {
	if t == nil || t.Kind() != reflect.Interface {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrNotInterface, t)
	}
	return Descriptor{typ: t}, nil
}

// Of builds a descriptor for interface T. It panics if T is not an
// interface, which is a programming error at the call site.
func Of[T any]() Descriptor {
	d, err := FromType(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return d
}

// Type returns the interface type.
func (d Descriptor) Type() reflect.Type { return d.typ }

// IsZero reports whether d was never initialized.
func (d Descriptor) IsZero() bool { return d.typ == nil }

// SatisfiedBy reports whether values of type t implement the capability.
func (d Descriptor) SatisfiedBy(t reflect.Type) bool {
	return d.typ != nil && t != nil && t.Implements(d.typ)
}

// Methods lists the capability's methods in reflect order (sorted by name).
func (d Descriptor) Methods() []aspect.Method {
	if d.typ == nil {
		return nil
	}
	methods := make([]aspect.Method, 0, d.typ.NumMethod())
	for i := 0; i < d.typ.NumMethod(); i++ {
		m := d.typ.Method(i)
		methods = append(methods, aspect.Method{Capability: d.typ, Name: m.Name, Type: m.Type})
	}
	return methods
}

func (d Descriptor) String() string { return aspect.TypeName(d.typ) }
