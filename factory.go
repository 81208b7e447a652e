// Package aspectwrap produces wrappers that implement a declared set of
// interfaces and run registered behaviors around calls into a target.
//
// A Factory hides which mechanism builds its wrappers. It is configured with
// capabilities and behaviors, then reused for any number of wrap calls:
//
//	f, err := aspectwrap.New[Transformer](
//		aspectwrap.WithInterfaces(capability.Of[Transformer]()),
//		aspectwrap.WithAspects(trim),
//	)
//	wrapped, err := f.Wrap(target)
//
// Each wrapper captures the configuration at the moment it was built; later
// reconfiguration only affects later wrappers.
package aspectwrap

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/dusk-indust/aspectwrap/capability"
	"github.com/dusk-indust/aspectwrap/internal/metrics"
	"github.com/dusk-indust/aspectwrap/provider"
	"github.com/dusk-indust/aspectwrap/proxy"
)

var (
	// ErrNilTarget is returned when a nil target is wrapped.
	ErrNilTarget = errors.New("aspectwrap: nil target")

	// ErrNotAssignable is returned when a built wrapper does not implement
	// the factory's type parameter.
	ErrNotAssignable = errors.New("aspectwrap: wrapper does not implement factory type")

	errNilProvider = errors.New("aspectwrap: nil provider")
)

// Factory produces wrappers of type I. It exclusively owns its provider and
// is safe for concurrent use.
type Factory[I any] struct {
	mu        sync.Mutex
	provider  provider.Provider
	reflector capability.Reflector
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// New selects the richest available mechanism and returns a factory over it.
// Mechanisms disabled by WithConfigDir or WithDisabled are skipped.
func New[I any](opts ...Option) (*Factory[I], error) {
	o := newOptions(opts)
	if err := o.applyConfig(); err != nil {
		return nil, err
	}

	selectorOpts := append([]provider.SelectorOption{
		provider.WithSelectorLogger(o.logger),
		provider.WithProviderOptions(append([]provider.Option{provider.WithLogger(o.logger)}, o.providerOpts...)...),
	}, o.selectorOpts...)

	p, err := provider.NewSelector(selectorOpts...).Select()
	if err != nil {
		return nil, err
	}
	return newFactory[I](p, o)
}

// NewWithProvider returns a factory over p.
func NewWithProvider[I any](p provider.Provider, opts ...Option) (*Factory[I], error) {
	if p == nil {
		return nil, errNilProvider
	}
	return newFactory[I](p, newOptions(opts))
}

func newFactory[I any](p provider.Provider, o *options) (*Factory[I], error) {
	f := &Factory[I]{
		provider:  p,
		reflector: o.reflector,
		logger:    o.logger.With(zap.String("mechanism", string(p.Mechanism()))),
	}
	if o.registerer != nil {
		m, err := metrics.New(o.registerer)
		if err != nil {
			return nil, fmt.Errorf("aspectwrap: metrics: %w", err)
		}
		f.metrics = m
	}

	for _, d := range o.capabilities {
		p.AddCapability(d)
	}
	if _, err := f.AddAspects(o.aspects...); err != nil {
		return nil, err
	}
	return f, nil
}

// Provider returns the factory's provider.
func (f *Factory[I]) Provider() provider.Provider { return f.provider }

// Mechanism names the mechanism building this factory's wrappers.
func (f *Factory[I]) Mechanism() provider.Mechanism { return f.provider.Mechanism() }

// Wrap builds a wrapper around target with the current configuration, using
// proxy.DefaultLoader.
func (f *Factory[I]) Wrap(target I) (I, error) {
	return f.WrapWith(target, nil)
}

// WrapWith is Wrap with an explicit stub loader.
func (f *Factory[I]) WrapWith(target I, loader *proxy.Loader) (I, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wrapLocked(target, loader)
}

// WrapAllInterfaces declares every interface the reflector finds on target,
// replacing the current set, and wraps target in one step. To wrap many
// objects of one type, call WithAllInterfacesOf once and then Wrap.
func (f *Factory[I]) WrapAllInterfaces(target I) (I, error) {
	return f.WrapAllInterfacesWith(target, nil)
}

// WrapAllInterfacesWith is WrapAllInterfaces with an explicit stub loader.
func (f *Factory[I]) WrapAllInterfacesWith(target I, loader *proxy.Loader) (I, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if isNil(target) {
		var zero I
		f.metrics.Wrap(string(f.provider.Mechanism()), metrics.ResultError)
		return zero, ErrNilTarget
	}
	f.provider.SetCapabilities(f.reflector.AllInterfacesOf(target).Descriptors()...)
	return f.wrapLocked(target, loader)
}

func (f *Factory[I]) wrapLocked(target I, loader *proxy.Loader) (I, error) {
	var zero I
	mechanism := string(f.provider.Mechanism())

	if isNil(target) {
		f.metrics.Wrap(mechanism, metrics.ResultError)
		return zero, ErrNilTarget
	}

	w, err := f.provider.Wrap(target, loader)
	if err != nil {
		f.metrics.Wrap(mechanism, metrics.ResultError)
		return zero, fmt.Errorf("aspectwrap: wrap %T: %w", target, err)
	}
	out, ok := w.(I)
	if !ok {
		f.metrics.Wrap(mechanism, metrics.ResultError)
		return zero, fmt.Errorf("%w: %T", ErrNotAssignable, w)
	}
	f.metrics.Wrap(mechanism, metrics.ResultOK)
	return out, nil
}

// AddAspect registers one behavior. It reports false for kinds the
// mechanism does not recognize; errors are reserved for invalid behaviors.
func (f *Factory[I]) AddAspect(behavior any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(behavior)
}

// AddAspects registers behaviors in order and returns how many were
// accepted. It stops at the first hard error.
func (f *Factory[I]) AddAspects(behaviors ...any) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	accepted := 0
	for _, b := range behaviors {
		ok, err := f.addLocked(b)
		if err != nil {
			return accepted, err
		}
		if ok {
			accepted++
		}
	}
	return accepted, nil
}

func (f *Factory[I]) addLocked(behavior any) (bool, error) {
	mechanism := string(f.provider.Mechanism())
	ok, err := f.provider.Register(behavior)
	switch {
	case err != nil:
		f.metrics.Registration(mechanism, metrics.ResultError)
		return false, fmt.Errorf("aspectwrap: register %T: %w", behavior, err)
	case ok:
		f.metrics.Registration(mechanism, metrics.ResultAccepted)
	default:
		f.metrics.Registration(mechanism, metrics.ResultRejected)
		f.logger.Debug("behavior not accepted", zap.String("type", fmt.Sprintf("%T", behavior)))
	}
	return ok, nil
}

// SetCapabilities replaces the declared capabilities.
func (f *Factory[I]) SetCapabilities(ds ...capability.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provider.SetCapabilities(ds...)
}

// AddCapabilities adds to the declared capabilities.
func (f *Factory[I]) AddCapabilities(ds ...capability.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range ds {
		f.provider.AddCapability(d)
	}
}

// WithCapability adds d to the declared capabilities and returns f.
func (f *Factory[I]) WithCapability(d capability.Descriptor) *Factory[I] {
	return f.WithCapabilities(d)
}

// WithCapabilities adds to the declared capabilities and returns f.
func (f *Factory[I]) WithCapabilities(ds ...capability.Descriptor) *Factory[I] {
	f.AddCapabilities(ds...)
	return f
}

// WithAllInterfacesOf replaces the declared capabilities with every
// interface the reflector finds on object, and returns f.
func (f *Factory[I]) WithAllInterfacesOf(object any) *Factory[I] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provider.SetCapabilities(f.reflector.AllInterfacesOf(object).Descriptors()...)
	return f
}

// Capabilities returns a copy of the declared capabilities.
func (f *Factory[I]) Capabilities() capability.Set {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.provider.Capabilities()
}

// Chain returns a copy of the provider's behavior chain.
func (f *Factory[I]) Chain() []provider.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.provider.Chain()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
