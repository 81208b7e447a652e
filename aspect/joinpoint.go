package aspect

// JoinPointAttribute is the invocation attribute holding the exposed
// JoinPoint.
const JoinPointAttribute = "aspectwrap.joinpoint"

// JoinPoint is a snapshot of a call as it entered the chain.
type JoinPoint struct {
	Method Method
	Target any
	Args   []any
}

// Signature returns the called method's full name.
func (jp JoinPoint) Signature() string { return jp.Method.FullName() }

// ExposeJoinPoint returns the interceptor that snapshots the incoming call
// into JoinPointAttribute. It must run first so later advice sees the
// arguments as called even if an interceptor in between rewrites them.
func ExposeJoinPoint() Interceptor {
	return InterceptorFunc(func(inv Invocation) []any {
		if _, ok := inv.Attribute(JoinPointAttribute); !ok {
			inv.SetAttribute(JoinPointAttribute, snapshot(inv))
		}
		return inv.Proceed()
	})
}

// CurrentJoinPoint returns the exposed join point of inv, or a fresh
// snapshot when nothing exposed one.
func CurrentJoinPoint(inv Invocation) JoinPoint {
	if v, ok := inv.Attribute(JoinPointAttribute); ok {
		if jp, ok := v.(JoinPoint); ok {
			return jp
		}
	}
	return snapshot(inv)
}

func snapshot(inv Invocation) JoinPoint {
	return JoinPoint{
		Method: inv.Method(),
		Target: inv.Target(),
		Args:   append([]any(nil), inv.Args()...),
	}
}
