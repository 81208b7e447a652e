// Package fixture holds capabilities, targets, stubs and behaviors shared by
// the module's tests.
package fixture

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/dusk-indust/aspectwrap/aspect"
	"github.com/dusk-indust/aspectwrap/proxy"
)

// Transformer converts a value to a string.
type Transformer interface {
	Transform(in any) string
}

// Counter reports how many calls an object served.
type Counter interface {
	Count() int
}

// CountingTransformer is both a Transformer and a Counter.
type CountingTransformer interface {
	Transformer
	Counter
}

// Parser parses integers and fails on bad input.
type Parser interface {
	Parse(s string) (int, error)
}

// Joiner joins strings; it exercises variadic dispatch.
type Joiner interface {
	Join(sep string, parts ...string) string
}

// ToString returns fmt.Sprint of its input, unmodified.
type ToString struct{}

func (ToString) Transform(in any) string { return fmt.Sprint(in) }

// Counting is a ToString that counts its calls.
type Counting struct {
	n atomic.Int64
}

func (c *Counting) Transform(in any) string {
	c.n.Add(1)
	return fmt.Sprint(in)
}

func (c *Counting) Count() int { return int(c.n.Load()) }

// Atoi parses with strconv.Atoi.
type Atoi struct{}

func (Atoi) Parse(s string) (int, error) { return strconv.Atoi(s) }

// StringsJoiner joins with strings.Join.
type StringsJoiner struct{}

func (StringsJoiner) Join(sep string, parts ...string) string { return strings.Join(parts, sep) }

type transformerStub struct{ proxy.Stub }

func (s transformerStub) Transform(in any) string {
	return proxy.Result[string](s.Call("Transform", in), 0)
}

type countingStub struct{ proxy.Stub }

func (s countingStub) Transform(in any) string {
	return proxy.Result[string](s.Call("Transform", in), 0)
}

func (s countingStub) Count() int { return proxy.Result[int](s.Call("Count"), 0) }

type parserStub struct{ proxy.Stub }

func (s parserStub) Parse(in string) (int, error) {
	out := s.Call("Parse", in)
	return proxy.Result[int](out, 0), proxy.Result[error](out, 1)
}

type joinerStub struct{ proxy.Stub }

func (s joinerStub) Join(sep string, parts ...string) string {
	return proxy.Result[string](s.Call("Join", sep, parts), 0)
}

// RegisterStubs adds every fixture stub to l.
func RegisterStubs(l *proxy.Loader) {
	proxy.Register(l, func(inv proxy.Invoker) Transformer { return transformerStub{proxy.NewStub(inv)} })
	proxy.Register(l, func(inv proxy.Invoker) CountingTransformer { return countingStub{proxy.NewStub(inv)} })
	proxy.Register(l, func(inv proxy.Invoker) Parser { return parserStub{proxy.NewStub(inv)} })
	proxy.Register(l, func(inv proxy.Invoker) Joiner { return joinerStub{proxy.NewStub(inv)} })
}

// Loader returns a fresh loader holding every fixture stub.
func Loader() *proxy.Loader {
	l := proxy.NewLoader()
	RegisterStubs(l)
	return l
}

func init() {
	RegisterStubs(proxy.DefaultLoader())
}

// Trim trims surrounding whitespace from a string first result.
func Trim() aspect.Interceptor {
	return aspect.InterceptorFunc(func(inv aspect.Invocation) []any {
		out := inv.Proceed()
		if len(out) > 0 {
			if s, ok := out[0].(string); ok {
				out[0] = strings.TrimSpace(s)
			}
		}
		return out
	})
}

// Constant proceeds, then replaces the first result with v.
func Constant(v any) aspect.Interceptor {
	return aspect.InterceptorFunc(func(inv aspect.Invocation) []any {
		out := inv.Proceed()
		if len(out) > 0 {
			out[0] = v
		}
		return out
	})
}

// Tag appends label to a string first result, recording call order.
func Tag(label string) aspect.Interceptor {
	return aspect.InterceptorFunc(func(inv aspect.Invocation) []any {
		out := inv.Proceed()
		if len(out) > 0 {
			if s, ok := out[0].(string); ok {
				out[0] = s + label
			}
		}
		return out
	})
}

// ConstantAspect is an aggregate whose around advice returns Value for every
// Transform call.
type ConstantAspect struct {
	Value any
	Scope aspect.Scope
}

func (a ConstantAspect) AspectScope() aspect.Scope { return a.Scope }

func (a ConstantAspect) Advice() []aspect.Advice {
	return []aspect.Advice{
		aspect.Around("returnConstant", aspect.MustExpr(`method == "Transform"`), func(inv aspect.Invocation) []any {
			out := inv.Proceed()
			out[0] = a.Value
			return out
		}),
	}
}
