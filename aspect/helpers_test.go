package aspect

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type greeter interface {
	Greet(name string) string
	Close() error
}

type english struct{}

func (english) Greet(name string) string { return "hello " + name }
func (english) Close() error             { return nil }

func methodOf(t *testing.T, name string) Method {
	t.Helper()
	typ := reflect.TypeFor[greeter]()
	m, ok := typ.MethodByName(name)
	require.True(t, ok, "greeter has no method %s", name)
	return Method{Capability: typ, Name: name, Type: m.Type}
}

// stubInvocation is a single-position Invocation whose Proceed returns a
// copy of results and records how often it was called.
type stubInvocation struct {
	method    Method
	target    any
	args      []any
	results   []any
	proceeded int
	attrs     map[string]any
}

func (s *stubInvocation) Method() Method { return s.method }
func (s *stubInvocation) Target() any    { return s.target }
func (s *stubInvocation) Args() []any    { return s.args }

func (s *stubInvocation) Proceed() []any {
	s.proceeded++
	return append([]any(nil), s.results...)
}

func (s *stubInvocation) Attribute(key string) (any, bool) {
	v, ok := s.attrs[key]
	return v, ok
}

func (s *stubInvocation) SetAttribute(key string, value any) {
	if s.attrs == nil {
		s.attrs = make(map[string]any)
	}
	s.attrs[key] = value
}
