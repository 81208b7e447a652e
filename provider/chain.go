package provider

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/dusk-indust/aspectwrap/aspect"
	"github.com/dusk-indust/aspectwrap/capability"
)

// Origin records which behavior kind produced a chain entry.
type Origin int

const (
	OriginInterceptor Origin = iota
	OriginAdvisor
	OriginAspect
	OriginExposure
)

func (o Origin) String() string {
	switch o {
	case OriginInterceptor:
		return "interceptor"
	case OriginAdvisor:
		return "advisor"
	case OriginAspect:
		return "aspect"
	case OriginExposure:
		return "exposure"
	default:
		return "unknown"
	}
}

// Entry is one resolved, pointcut-scoped interceptor in a chain.
type Entry struct {
	Name        string
	Origin      Origin
	Pointcut    aspect.Pointcut
	Interceptor aspect.Interceptor
	Order       int
	Seq         uint64
}

// Chain is an ordered sequence of entries. It is not safe for concurrent
// use; providers guard it with their own lock.
type Chain struct {
	entries []Entry
	seq     uint64
}

// Append adds e at the tail, stamping its registration sequence.
func (c *Chain) Append(e Entry) {
	c.seq++
	e.Seq = c.seq
	c.entries = append(c.entries, e)
}

// Merge adds es and re-sorts the whole chain. The join-point exposure entry
// is inserted first if aspect entries are now present.
func (c *Chain) Merge(es []Entry) {
	for _, e := range es {
		c.Append(e)
	}
	c.ensureJoinPointExposure()
	slices.SortStableFunc(c.entries, Compare)
}

// ensureJoinPointExposure keeps exactly one exposure entry in a chain that
// holds aspect advice.
func (c *Chain) ensureJoinPointExposure() {
	hasAspect := false
	for _, e := range c.entries {
		switch e.Origin {
		case OriginExposure:
			return
		case OriginAspect:
			hasAspect = true
		}
	}
	if !hasAspect {
		return
	}
	c.Append(Entry{
		Name:        "expose-join-point",
		Origin:      OriginExposure,
		Pointcut:    aspect.All(),
		Interceptor: aspect.ExposeJoinPoint(),
		Order:       aspect.HighestPrecedence,
	})
}

// Len returns the number of entries.
func (c *Chain) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in chain order.
func (c *Chain) Entries() []Entry { return slices.Clone(c.entries) }

// Compare orders entries: exposure first, then ascending Order, then
// registration sequence.
func Compare(a, b Entry) int {
	if (a.Origin == OriginExposure) != (b.Origin == OriginExposure) {
		if a.Origin == OriginExposure {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

// Applicable returns the entries that can apply to a target of type target
// wrapped with caps: the pointcut must accept the type and at least one
// capability method. The exposure entry survives only alongside aspect
// advice. entries is not modified.
func Applicable(entries []Entry, target reflect.Type, caps capability.Set) []Entry {
	methods := caps.Declarations()
	out := make([]Entry, 0, len(entries))
	hasAspect := false
	for _, e := range entries {
		if e.Origin == OriginExposure {
			out = append(out, e)
			continue
		}
		if !canApply(e.Pointcut, target, methods) {
			continue
		}
		if e.Origin == OriginAspect {
			hasAspect = true
		}
		out = append(out, e)
	}
	if !hasAspect {
		out = slices.DeleteFunc(out, func(e Entry) bool { return e.Origin == OriginExposure })
	}
	return out
}

func canApply(pc aspect.Pointcut, target reflect.Type, methods []aspect.Method) bool {
	if !pc.MatchesType(target) {
		return false
	}
	for _, m := range methods {
		if pc.MatchesMethod(m, target) {
			return true
		}
	}
	return false
}

// advisors converts entries to the form proxy builders consume.
func advisors(entries []Entry) []aspect.Advisor {
	out := make([]aspect.Advisor, 0, len(entries))
	for _, e := range entries {
		out = append(out, aspect.NewAdvisor(e.Pointcut, e.Interceptor))
	}
	return out
}
