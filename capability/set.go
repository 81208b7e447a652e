package capability

import (
	"reflect"

	"github.com/dusk-indust/aspectwrap/aspect"
)

// Set is a de-duplicated collection of descriptors. Insertion order only
// drives enumeration, never behavior. The zero value is an empty set.
type Set struct {
	order []Descriptor
	index map[reflect.Type]struct{}
}

// NewSet builds a set from ds, skipping duplicates and zero descriptors.
func NewSet(ds ...Descriptor) Set {
	var s Set
	for _, d := range ds {
		s.Add(d)
	}
	return s
}

// Add inserts d and reports whether it was new.
func (s *Set) Add(d Descriptor) bool {
	if d.IsZero() {
		return false
	}
	if s.index == nil {
		s.index = make(map[reflect.Type]struct{})
	}
	if _, ok := s.index[d.typ]; ok {
		return false
	}
	s.index[d.typ] = struct{}{}
	s.order = append(s.order, d)
	return true
}

// Contains reports whether d is in the set.
func (s Set) Contains(d Descriptor) bool {
	_, ok := s.index[d.typ]
	return ok
}

// Len returns the number of descriptors.
func (s Set) Len() int { return len(s.order) }

// Descriptors returns a copy of the descriptors in insertion order.
func (s Set) Descriptors() []Descriptor {
	return append([]Descriptor(nil), s.order...)
}

// Names returns the descriptor names in insertion order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.order))
	for _, d := range s.order {
		names = append(names, d.String())
	}
	return names
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	return NewSet(s.order...)
}

// SatisfiedBy reports whether t implements every capability in the set.
func (s Set) SatisfiedBy(t reflect.Type) bool {
	for _, d := range s.order {
		if !d.SatisfiedBy(t) {
			return false
		}
	}
	return true
}

// Methods enumerates the methods of all capabilities in set order. A method
// name declared by several capabilities is reported once, attributed to the
// first capability declaring it. Declarations lists every declarer.
func (s Set) Methods() []aspect.Method {
	var methods []aspect.Method
	seen := make(map[string]bool)
	for _, d := range s.order {
		for _, m := range d.Methods() {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			methods = append(methods, m)
		}
	}
	return methods
}

// Declarations returns every capability method in set order, keeping one
// entry per declaring capability when several declare the same name.
func (s Set) Declarations() []aspect.Method {
	var methods []aspect.Method
	for _, d := range s.order {
		methods = append(methods, d.Methods()...)
	}
	return methods
}
