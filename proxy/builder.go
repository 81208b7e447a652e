package proxy

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/dusk-indust/aspectwrap/aspect"
	"github.com/dusk-indust/aspectwrap/capability"
)

var (
	// ErrNoCapabilities is returned when a wrapper is requested without any
	// declared capability.
	ErrNoCapabilities = errors.New("proxy: no capabilities declared")

	// ErrTargetMismatch is returned when the target does not implement a
	// declared capability.
	ErrTargetMismatch = errors.New("proxy: target does not implement capability")

	// ErrNoStub is returned when no registered stub covers the declared
	// capabilities.
	ErrNoStub = errors.New("proxy: no stub registered for capabilities")
)

// Builder constructs a wrapper around target implementing caps, routing
// calls through chain in order. Builders must not mutate target or chain.
type Builder interface {
	Build(target any, caps capability.Set, chain []aspect.Advisor, loader *Loader) (any, error)
}

// ReflectBuilder binds a registered stub to a reflective dispatcher.
type ReflectBuilder struct{}

// Compile-time check.
var _ Builder = ReflectBuilder{}

// Build implements Builder. A nil loader means DefaultLoader.
func (ReflectBuilder) Build(target any, caps capability.Set, chain []aspect.Advisor, loader *Loader) (any, error) {
	if loader == nil {
		loader = DefaultLoader()
	}
	if caps.Len() == 0 {
		return nil, ErrNoCapabilities
	}
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrTargetMismatch)
	}

	value := reflect.ValueOf(target)
	targetType := value.Type()
	for _, d := range caps.Descriptors() {
		if !d.SatisfiedBy(targetType) {
			return nil, fmt.Errorf("%w: %s does not implement %s", ErrTargetMismatch, aspect.TypeName(targetType), d)
		}
	}

	stub, err := loader.lookup(caps, targetType)
	if err != nil {
		return nil, err
	}

	d := &dispatcher{
		id:      uuid.New(),
		target:  target,
		value:   value,
		methods: make(map[string]*methodPlan),
	}
	declared := make(map[string][]aspect.Method)
	for _, m := range caps.Declarations() {
		declared[m.Name] = append(declared[m.Name], m)
	}
	for _, m := range caps.Methods() {
		plan := &methodPlan{method: m, fn: value.MethodByName(m.Name)}
		for _, adv := range chain {
			if matchesAny(adv.Pointcut(), declared[m.Name], targetType) {
				plan.chain = append(plan.chain, adv.Interceptor())
			}
		}
		d.methods[m.Name] = plan
	}

	return stub.factory(d), nil
}

// matchesAny reports whether pc selects the method under any of the
// capabilities declaring it.
func matchesAny(pc aspect.Pointcut, decls []aspect.Method, target reflect.Type) bool {
	if !pc.MatchesType(target) {
		return false
	}
	for _, m := range decls {
		if pc.MatchesMethod(m, target) {
			return true
		}
	}
	return false
}

// dispatcher is the Invoker behind every wrapper built by ReflectBuilder.
// Its method plans are fixed at build time.
type dispatcher struct {
	id      uuid.UUID
	target  any
	value   reflect.Value
	methods map[string]*methodPlan
}

func (d *dispatcher) Target() any   { return d.target }
func (d *dispatcher) ID() uuid.UUID { return d.id }

func (d *dispatcher) Invoke(method string, args ...any) []any {
	plan, ok := d.methods[method]
	if !ok {
		// Stub methods outside the declared capabilities pass straight
		// through to the target.
		fn := d.value.MethodByName(method)
		if !fn.IsValid() {
			panic(fmt.Sprintf("proxy: %s has no method %s", aspect.TypeName(d.value.Type()), method))
		}
		plan = &methodPlan{method: aspect.Method{Name: method, Type: fn.Type()}, fn: fn}
	}
	state := &callState{plan: plan, target: d.target, args: args}
	return invocation{callState: state}.Proceed()
}

type methodPlan struct {
	method aspect.Method
	fn     reflect.Value
	chain  []aspect.Interceptor
}

func (p *methodPlan) call(args []any) []any {
	ft := p.fn.Type()
	if len(args) != ft.NumIn() {
		panic(fmt.Sprintf("proxy: %s called with %d arguments, want %d", p.method.FullName(), len(args), ft.NumIn()))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = argValue(a, ft.In(i))
	}

	var out []reflect.Value
	if ft.IsVariadic() {
		out = p.fn.CallSlice(in)
	} else {
		out = p.fn.Call(in)
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results
}

func argValue(a any, t reflect.Type) reflect.Value {
	if a == nil {
		return reflect.Zero(t)
	}
	v := reflect.ValueOf(a)
	if !v.Type().AssignableTo(t) && v.Type().ConvertibleTo(t) {
		return v.Convert(t)
	}
	return v
}
