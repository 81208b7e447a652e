package provider

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/dusk-indust/aspectwrap/aspect"
	"github.com/dusk-indust/aspectwrap/capability"
	"github.com/dusk-indust/aspectwrap/proxy"
)

// base holds the configuration shared by the intercepting mechanisms. Every
// method takes mu for its whole duration.
type base struct {
	mu      sync.Mutex
	caps    capability.Set
	chain   Chain
	builder proxy.Builder
	logger  *zap.Logger
}

func (b *base) configure(opts []Option) {
	b.builder = proxy.ReflectBuilder{}
	b.logger = zap.NewNop()
	for _, opt := range opts {
		opt(b)
	}
}

// SetCapabilities implements Provider.
func (b *base) SetCapabilities(ds ...capability.Descriptor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.caps = capability.NewSet(ds...)
}

// AddCapability implements Provider.
func (b *base) AddCapability(d capability.Descriptor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.caps.Add(d)
}

// Capabilities implements Provider.
func (b *base) Capabilities() capability.Set {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.caps.Clone()
}

// Chain implements Provider.
func (b *base) Chain() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chain.Entries()
}

// registerPlainLocked appends b when it is a plain behavior or an advisor.
func (b *base) registerPlainLocked(behavior any) bool {
	e, ok := plainEntry(behavior)
	if !ok {
		return false
	}
	b.chain.Append(e)
	b.logger.Debug("behavior registered",
		zap.String("name", e.Name),
		zap.Stringer("origin", e.Origin),
		zap.Int("chain_length", b.chain.Len()))
	return true
}

func (b *base) buildLocked(target any, entries []Entry, loader *proxy.Loader) (any, error) {
	w, err := b.builder.Build(target, b.caps.Clone(), advisors(entries), loader)
	if err != nil {
		return nil, err
	}
	if pw, ok := w.(proxy.Wrapper); ok {
		b.logger.Debug("wrapper built",
			zap.Stringer("id", pw.ProxyID()),
			zap.Strings("capabilities", b.caps.Names()),
			zap.Int("chain_length", len(entries)))
	}
	return w, nil
}

// plainEntry resolves interceptors, plain advice and advisors. Plain kinds
// are checked before advisors.
func plainEntry(behavior any) (Entry, bool) {
	order, _ := aspect.OrderOf(behavior)
	if ic, ok := aspect.Adapt(behavior); ok {
		return Entry{
			Name:        behaviorName(behavior),
			Origin:      OriginInterceptor,
			Pointcut:    aspect.All(),
			Interceptor: ic,
			Order:       order,
		}, true
	}
	if adv, ok := behavior.(aspect.Advisor); ok && adv.Interceptor() != nil {
		pc := adv.Pointcut()
		if pc == nil {
			pc = aspect.All()
		}
		return Entry{
			Name:        behaviorName(behavior),
			Origin:      OriginAdvisor,
			Pointcut:    pc,
			Interceptor: adv.Interceptor(),
			Order:       order,
		}, true
	}
	return Entry{}, false
}

func behaviorName(v any) string {
	return aspect.ShortName(aspect.TypeName(reflect.TypeOf(v)))
}

// InterceptingProvider applies interceptors and advisors in registration
// order.
type InterceptingProvider struct {
	base
}

// Compile-time check.
var _ Provider = (*InterceptingProvider)(nil)

// NewIntercepting creates an InterceptingProvider.
func NewIntercepting(opts ...Option) *InterceptingProvider {
	p := &InterceptingProvider{}
	p.configure(opts)
	return p
}

// Mechanism implements Provider.
func (p *InterceptingProvider) Mechanism() Mechanism { return MechanismIntercepting }

// Register implements Provider. It accepts interceptors, plain advice and
// advisors.
func (p *InterceptingProvider) Register(behavior any) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.registerPlainLocked(behavior) {
		return true, nil
	}
	p.logger.Debug("behavior rejected", zap.String("type", fmt.Sprintf("%T", behavior)))
	return false, nil
}

// Wrap implements Provider. The whole chain is handed to the builder, which
// matches it per method.
func (p *InterceptingProvider) Wrap(target any, loader *proxy.Loader) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.buildLocked(target, p.chain.Entries(), loader)
}
