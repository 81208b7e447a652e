package aspect

import "fmt"

// Scope is an aggregate's composition scope.
type Scope int

const (
	// ScopeSingleton shares one aggregate instance across all targets.
	ScopeSingleton Scope = iota

	// ScopePerTarget asks for one aggregate instance per wrapped target.
	ScopePerTarget

	// ScopePerFlow asks for one aggregate instance per control flow.
	ScopePerFlow
)

func (s Scope) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	case ScopePerTarget:
		return "per-target"
	case ScopePerFlow:
		return "per-flow"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Aspect is the marker for an aggregate behavior: one object bundling
// several pointcut-scoped advice, expanded when registered.
type Aspect interface {
	AspectScope() Scope
	Advice() []Advice
}

// AdviceKind orders advice inside one aggregate.
type AdviceKind int

const (
	KindAround AdviceKind = iota
	KindBefore
	KindAfter
	KindAfterReturning
	KindAfterThrowing
)

func (k AdviceKind) String() string {
	names := [...]string{"around", "before", "after", "after-returning", "after-throwing"}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Advice is one constituent of an Aspect. Build it with Around, Before,
// After, AfterReturning or AfterThrowing.
type Advice struct {
	Name     string
	Kind     AdviceKind
	Pointcut Pointcut

	run Interceptor
}

// Interceptor returns the advice as around-style interception.
func (a Advice) Interceptor() Interceptor { return a.run }

func newAdvice(name string, kind AdviceKind, pc Pointcut, run InterceptorFunc) Advice {
	if pc == nil {
		pc = All()
	}
	return Advice{Name: name, Kind: kind, Pointcut: pc, run: run}
}

// Around advice controls whether and how the call proceeds.
func Around(name string, pc Pointcut, fn func(inv Invocation) []any) Advice {
	return newAdvice(name, KindAround, pc, fn)
}

// Before advice observes the join point before the call proceeds.
func Before(name string, pc Pointcut, fn func(jp JoinPoint)) Advice {
	return newAdvice(name, KindBefore, pc, func(inv Invocation) []any {
		fn(CurrentJoinPoint(inv))
		return inv.Proceed()
	})
}

// After advice runs once the call completes, whatever its outcome.
func After(name string, pc Pointcut, fn func(jp JoinPoint)) Advice {
	return newAdvice(name, KindAfter, pc, func(inv Invocation) []any {
		defer fn(CurrentJoinPoint(inv))
		return inv.Proceed()
	})
}

// AfterReturning advice sees the results of calls that did not fail.
func AfterReturning(name string, pc Pointcut, fn func(jp JoinPoint, results []any)) Advice {
	return newAdvice(name, KindAfterReturning, pc, func(inv Invocation) []any {
		results := inv.Proceed()
		if LastError(results) == nil {
			fn(CurrentJoinPoint(inv), results)
		}
		return results
	})
}

// AfterThrowing advice sees the trailing error of calls that failed.
func AfterThrowing(name string, pc Pointcut, fn func(jp JoinPoint, err error)) Advice {
	return newAdvice(name, KindAfterThrowing, pc, func(inv Invocation) []any {
		results := inv.Proceed()
		if err := LastError(results); err != nil {
			fn(CurrentJoinPoint(inv), err)
		}
		return results
	})
}

// Definition is a ready-made Aspect for callers that do not want to declare
// their own type.
type Definition struct {
	scope   Scope
	advice  []Advice
	order   int
	ordered bool
}

// NewAspect bundles advice under scope.
func NewAspect(scope Scope, advice ...Advice) *Definition {
	return &Definition{scope: scope, advice: append([]Advice(nil), advice...)}
}

// WithOrder sets the precedence every constituent inherits.
func (d *Definition) WithOrder(order int) *Definition {
	d.order = order
	d.ordered = true
	return d
}

// AspectScope implements Aspect.
func (d *Definition) AspectScope() Scope { return d.scope }

// Advice implements Aspect.
func (d *Definition) Advice() []Advice { return append([]Advice(nil), d.advice...) }

// Order implements Ordered.
func (d *Definition) Order() int {
	if d.ordered {
		return d.order
	}
	return LowestPrecedence
}
