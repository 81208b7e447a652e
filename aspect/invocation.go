// Package aspect defines the behavior kinds a wrapper factory can interpose
// around calls: plain interceptors and advice, advisors that pair a behavior
// with a pointcut, and aspect aggregates that bundle several scoped advice.
package aspect

import (
	"reflect"
	"strings"
)

// Method describes one capability method as seen by pointcuts and
// interceptors.
type Method struct {
	// Capability is the interface type declaring the method. It may be nil
	// when the method is resolved from a concrete type only.
	Capability reflect.Type

	// Name is the exported method name.
	Name string

	// Type is the method signature without a receiver.
	Type reflect.Type
}

// FullName returns "pkg/path.Interface.Method", or just the method name when
// the declaring capability is unknown.
func (m Method) FullName() string {
	if m.Capability == nil {
		return m.Name
	}
	return TypeName(m.Capability) + "." + m.Name
}

func (m Method) String() string { return m.FullName() }

// TypeName returns the package-qualified name of t ("pkg/path.Name"),
// dereferencing pointers. Unnamed types fall back to t.String().
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	var prefix string
	for t.Kind() == reflect.Pointer {
		prefix += "*"
		t = t.Elem()
	}
	if t.Name() == "" {
		return prefix + t.String()
	}
	if t.PkgPath() == "" {
		return prefix + t.Name()
	}
	return prefix + t.PkgPath() + "." + t.Name()
}

// Invocation is one intercepted call travelling down a behavior chain.
type Invocation interface {
	// Method returns the capability method being called.
	Method() Method

	// Target returns the wrapped object.
	Target() any

	// Args returns the live argument slice. Interceptors may replace
	// elements before calling Proceed.
	Args() []any

	// Proceed runs the next interceptor in the chain, or the target method
	// once the chain is exhausted, and returns its results.
	Proceed() []any

	// Attribute returns a per-call attribute set by an earlier interceptor.
	Attribute(key string) (any, bool)

	// SetAttribute stores a per-call attribute visible to later interceptors.
	SetAttribute(key string, value any)
}

// LastError returns the trailing error result of a call, if the method's
// last result is a non-nil error.
func LastError(results []any) error {
	if len(results) == 0 {
		return nil
	}
	err, _ := results[len(results)-1].(error)
	return err
}

// ShortName trims the package path from a full type or method name.
func ShortName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		return full[i+1:]
	}
	return full
}
