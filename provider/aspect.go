package provider

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/dusk-indust/aspectwrap/aspect"
	"github.com/dusk-indust/aspectwrap/proxy"
)

// AspectProvider is the richest mechanism: on top of interceptors and
// advisors it expands singleton aspect aggregates into the shared chain and
// filters the chain per target at wrap time.
type AspectProvider struct {
	base
}

// Compile-time check.
var _ Provider = (*AspectProvider)(nil)

// NewAspect creates an AspectProvider.
func NewAspect(opts ...Option) *AspectProvider {
	p := &AspectProvider{}
	p.configure(opts)
	return p
}

// Mechanism implements Provider.
func (p *AspectProvider) Mechanism() Mechanism { return MechanismAspect }

// Register implements Provider. Aggregates must declare singleton scope,
// otherwise ErrInvalidScope is returned. Accepting an aggregate re-sorts the
// entire chain. Plain interceptors and advisors are appended in registration
// order; an explicit Order on them takes effect only at the next aggregate
// merge.
func (p *AspectProvider) Register(behavior any) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.registerPlainLocked(behavior) {
		return true, nil
	}

	a, ok := behavior.(aspect.Aspect)
	if !ok {
		p.logger.Debug("behavior rejected", zap.String("type", fmt.Sprintf("%T", behavior)))
		return false, nil
	}
	if scope := a.AspectScope(); scope != aspect.ScopeSingleton {
		return false, fmt.Errorf("%w: %s declares %s scope", ErrInvalidScope, behaviorName(behavior), scope)
	}

	entries := expand(a)
	if len(entries) == 0 {
		return false, nil
	}
	p.chain.Merge(entries)
	p.logger.Debug("aspect merged",
		zap.String("aspect", behaviorName(behavior)),
		zap.Int("advice", len(entries)),
		zap.Int("chain_length", p.chain.Len()))
	return true, nil
}

// Wrap implements Provider. Entries that cannot apply to the target's type
// and declared capabilities are left out of the wrapper.
func (p *AspectProvider) Wrap(target any, loader *proxy.Loader) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.chain.Entries()
	if target != nil {
		entries = Applicable(entries, reflect.TypeOf(target), p.caps)
	}
	return p.buildLocked(target, entries, loader)
}

// expand turns an aggregate into chain entries: advice is ordered by kind,
// then declaration, and inherits the aggregate's precedence.
func expand(a aspect.Aspect) []Entry {
	advice := slices.Clone(a.Advice())
	slices.SortStableFunc(advice, func(x, y aspect.Advice) int {
		return cmp.Compare(x.Kind, y.Kind)
	})

	order, _ := aspect.OrderOf(a)
	prefix := behaviorName(a)
	entries := make([]Entry, 0, len(advice))
	for _, adv := range advice {
		if adv.Interceptor() == nil {
			continue
		}
		pc := adv.Pointcut
		if pc == nil {
			pc = aspect.All()
		}
		entries = append(entries, Entry{
			Name:        prefix + "." + adv.Name,
			Origin:      OriginAspect,
			Pointcut:    pc,
			Interceptor: adv.Interceptor(),
			Order:       order,
		})
	}
	return entries
}
