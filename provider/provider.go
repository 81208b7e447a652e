// Package provider implements the mechanisms a wrapper factory can run on.
// Each mechanism sits behind the Provider contract: NullProvider passes
// targets through untouched, InterceptingProvider applies interceptors and
// advisors, and AspectProvider additionally expands aspect aggregates.
package provider

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dusk-indust/aspectwrap/capability"
	"github.com/dusk-indust/aspectwrap/proxy"
)

var (
	// ErrInvalidScope is returned when an aggregate declares a scope other
	// than singleton.
	ErrInvalidScope = errors.New("provider: aspect does not declare singleton scope")

	// ErrNoMechanism is returned when no mechanism is available and the
	// null fallback is disabled.
	ErrNoMechanism = errors.New("provider: no interception mechanism available")

	// ErrUnknownMechanism is returned for mechanism names this package does
	// not implement.
	ErrUnknownMechanism = errors.New("provider: unknown mechanism")
)

// Mechanism names one proxying mechanism.
type Mechanism string

const (
	// MechanismAspect supports interceptors, advisors and aspect aggregates.
	MechanismAspect Mechanism = "aspect"

	// MechanismIntercepting supports interceptors and advisors.
	MechanismIntercepting Mechanism = "intercepting"

	// MechanismNull accepts no behaviors and returns targets unchanged.
	MechanismNull Mechanism = "null"
)

// ParseMechanism maps a name to a Mechanism.
func ParseMechanism(name string) (Mechanism, error) {
	switch m := Mechanism(name); m {
	case MechanismAspect, MechanismIntercepting, MechanismNull:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMechanism, name)
	}
}

// Provider is one mechanism's implementation of "wrap a target and apply
// the registered behaviors". Every method of one Provider is mutually
// exclusive with every other.
type Provider interface {
	// Mechanism names the implementation.
	Mechanism() Mechanism

	// Wrap builds a new wrapper around target from a snapshot of the
	// current configuration. A nil loader means proxy.DefaultLoader.
	Wrap(target any, loader *proxy.Loader) (any, error)

	// Register adds one behavior. It reports false, with a nil error, for
	// kinds this provider does not recognize.
	Register(behavior any) (bool, error)

	// SetCapabilities replaces the declared capability set.
	SetCapabilities(ds ...capability.Descriptor)

	// AddCapability adds one capability to the declared set.
	AddCapability(d capability.Descriptor)

	// Capabilities returns a copy of the declared capability set.
	Capabilities() capability.Set

	// Chain returns a copy of the behavior chain.
	Chain() []Entry
}

// New constructs the provider for m.
func New(m Mechanism, opts ...Option) (Provider, error) {
	switch m {
	case MechanismAspect:
		return NewAspect(opts...), nil
	case MechanismIntercepting:
		return NewIntercepting(opts...), nil
	case MechanismNull:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMechanism, m)
	}
}

// Option configures an intercepting provider.
type Option func(*base)

// WithBuilder replaces the proxy builder (proxy.ReflectBuilder by default).
func WithBuilder(b proxy.Builder) Option {
	return func(p *base) {
		if b != nil {
			p.builder = b
		}
	}
}

// WithLogger sets the provider's logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *base) {
		if l != nil {
			p.logger = l
		}
	}
}
