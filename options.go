package aspectwrap

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dusk-indust/aspectwrap/capability"
	"github.com/dusk-indust/aspectwrap/internal/config"
	"github.com/dusk-indust/aspectwrap/provider"
	"github.com/dusk-indust/aspectwrap/proxy"
)

// Option configures a Factory at construction.
type Option func(*options)

type options struct {
	logger       *zap.Logger
	registerer   prometheus.Registerer
	reflector    capability.Reflector
	selectorOpts []provider.SelectorOption
	providerOpts []provider.Option
	aspects      []any
	capabilities []capability.Descriptor
	configDir    string
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:    zap.NewNop(),
		reflector: capability.DefaultReflector(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used by the factory, its selector and its
// provider.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics registers registration and wrap counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithReflector replaces capability.DefaultReflector for WrapAllInterfaces
// and WithAllInterfacesOf.
func WithReflector(r capability.Reflector) Option {
	return func(o *options) {
		if r != nil {
			o.reflector = r
		}
	}
}

// WithNoopFallback enables or disables the null provider fallback when no
// interception mechanism is available. Enabled by default.
func WithNoopFallback(allow bool) Option {
	return func(o *options) {
		o.selectorOpts = append(o.selectorOpts, provider.WithNullFallback(allow))
	}
}

// WithAvailability injects the mechanism availability table instead of the
// detected one.
func WithAvailability(av provider.Availability) Option {
	return func(o *options) {
		o.selectorOpts = append(o.selectorOpts, provider.WithAvailability(av))
	}
}

// WithDisabled treats ms as unavailable during selection.
func WithDisabled(ms ...provider.Mechanism) Option {
	return func(o *options) {
		o.selectorOpts = append(o.selectorOpts, provider.WithDisabled(ms...))
	}
}

// WithBuilder replaces the proxy builder of the selected provider.
func WithBuilder(b proxy.Builder) Option {
	return func(o *options) {
		o.providerOpts = append(o.providerOpts, provider.WithBuilder(b))
	}
}

// WithAspects registers behaviors once the provider is selected.
// Unrecognized kinds are skipped; hard registration errors fail New.
func WithAspects(behaviors ...any) Option {
	return func(o *options) {
		o.aspects = append(o.aspects, behaviors...)
	}
}

// WithInterfaces declares capabilities once the provider is selected.
func WithInterfaces(ds ...capability.Descriptor) Option {
	return func(o *options) {
		o.capabilities = append(o.capabilities, ds...)
	}
}

// WithConfigDir loads aspectwrap.yml (or .yaml) from dir when the factory is
// created. Its allowNoopFallback and disable settings apply before any
// explicit WithNoopFallback or WithDisabled option. A missing file changes
// nothing.
func WithConfigDir(dir string) Option {
	return func(o *options) {
		o.configDir = dir
	}
}

// applyConfig prepends selector options derived from the config file.
func (o *options) applyConfig() error {
	if o.configDir == "" {
		return nil
	}
	cfg, err := config.Load(o.configDir)
	if err != nil {
		return err
	}
	disabled, err := cfg.DisabledMechanisms()
	if err != nil {
		return err
	}
	o.selectorOpts = append([]provider.SelectorOption{
		provider.WithNullFallback(cfg.NoopFallback()),
		provider.WithDisabled(disabled...),
	}, o.selectorOpts...)
	return nil
}
