package aspect

import "math"

const (
	// HighestPrecedence runs before every other entry in a chain.
	HighestPrecedence = math.MinInt

	// LowestPrecedence is assumed for behaviors without order metadata.
	LowestPrecedence = math.MaxInt
)

// Ordered is implemented by behaviors that carry explicit precedence.
// Lower values run first, i.e. further out in the chain.
type Ordered interface {
	Order() int
}

// OrderOf reports the explicit precedence of v, if any.
func OrderOf(v any) (int, bool) {
	if o, ok := v.(Ordered); ok {
		return o.Order(), true
	}
	return LowestPrecedence, false
}

// Interceptor is around advice applicable to every call it sees.
type Interceptor interface {
	Invoke(inv Invocation) []any
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(inv Invocation) []any

// Invoke calls f(inv).
func (f InterceptorFunc) Invoke(inv Invocation) []any { return f(inv) }

// BeforeAdvice runs before the call proceeds.
type BeforeAdvice interface {
	Before(inv Invocation)
}

// BeforeFunc adapts a function to BeforeAdvice.
type BeforeFunc func(inv Invocation)

// Before calls f(inv).
func (f BeforeFunc) Before(inv Invocation) { f(inv) }

// AfterReturningAdvice runs after a call that did not return an error.
type AfterReturningAdvice interface {
	AfterReturning(inv Invocation, results []any)
}

// AfterReturningFunc adapts a function to AfterReturningAdvice.
type AfterReturningFunc func(inv Invocation, results []any)

// AfterReturning calls f(inv, results).
func (f AfterReturningFunc) AfterReturning(inv Invocation, results []any) { f(inv, results) }

// AfterThrowingAdvice runs after a call whose trailing error result is
// non-nil.
type AfterThrowingAdvice interface {
	AfterThrowing(inv Invocation, err error)
}

// AfterThrowingFunc adapts a function to AfterThrowingAdvice.
type AfterThrowingFunc func(inv Invocation, err error)

// AfterThrowing calls f(inv, err).
func (f AfterThrowingFunc) AfterThrowing(inv Invocation, err error) { f(inv, err) }

// Adapt converts a plain behavior into an Interceptor. It reports false for
// values that are not a recognized plain kind. Kinds are checked in order:
// Interceptor, BeforeAdvice, AfterReturningAdvice, AfterThrowingAdvice.
func Adapt(behavior any) (Interceptor, bool) {
	switch b := behavior.(type) {
	case nil:
		return nil, false
	case Interceptor:
		return b, true
	case BeforeAdvice:
		return InterceptorFunc(func(inv Invocation) []any {
			b.Before(inv)
			return inv.Proceed()
		}), true
	case AfterReturningAdvice:
		return InterceptorFunc(func(inv Invocation) []any {
			results := inv.Proceed()
			if LastError(results) == nil {
				b.AfterReturning(inv, results)
			}
			return results
		}), true
	case AfterThrowingAdvice:
		return InterceptorFunc(func(inv Invocation) []any {
			results := inv.Proceed()
			if err := LastError(results); err != nil {
				b.AfterThrowing(inv, err)
			}
			return results
		}), true
	default:
		return nil, false
	}
}

type orderedInterceptor struct {
	Interceptor
	order int
}

func (o orderedInterceptor) Order() int { return o.order }

// Ordering attaches explicit precedence to an interceptor.
func Ordering(order int, ic Interceptor) Interceptor {
	return orderedInterceptor{Interceptor: ic, order: order}
}
