package proxy

import "github.com/dusk-indust/aspectwrap/aspect"

// callState is shared by every position of one call's chain.
type callState struct {
	plan   *methodPlan
	target any
	args   []any
	attrs  map[string]any
}

// invocation is a view of a call at one chain position. Proceed always
// continues from pos, so an interceptor may proceed more than once.
type invocation struct {
	*callState
	pos int
}

// Compile-time check.
var _ aspect.Invocation = invocation{}

func (i invocation) Method() aspect.Method { return i.plan.method }
func (i invocation) Target() any           { return i.target }
func (i invocation) Args() []any           { return i.args }

func (i invocation) Proceed() []any {
	if i.pos < len(i.plan.chain) {
		return i.plan.chain[i.pos].Invoke(invocation{callState: i.callState, pos: i.pos + 1})
	}
	return i.plan.call(i.args)
}

func (i invocation) Attribute(key string) (any, bool) {
	v, ok := i.attrs[key]
	return v, ok
}

func (i invocation) SetAttribute(key string, value any) {
	if i.attrs == nil {
		i.attrs = make(map[string]any)
	}
	i.attrs[key] = value
}
