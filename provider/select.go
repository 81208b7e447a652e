package provider

import (
	"fmt"

	"go.uber.org/zap"
)

// Choose picks the highest-priority available mechanism. The null mechanism
// is chosen only when allowNull is set; otherwise an empty table fails with
// ErrNoMechanism naming what is missing. Choose has no side effects.
func Choose(av Availability, allowNull bool) (Mechanism, error) {
	for _, m := range priority {
		if av.Has(m) {
			return m, nil
		}
	}
	if allowNull {
		return MechanismNull, nil
	}
	return "", fmt.Errorf("%w: missing %v", ErrNoMechanism, av.Missing())
}

// Select chooses a mechanism from av and constructs its provider.
func Select(av Availability, allowNull bool, opts ...Option) (Provider, error) {
	m, err := Choose(av, allowNull)
	if err != nil {
		return nil, err
	}
	return New(m, opts...)
}

// Selector chooses a provider from a detector's table, minus any mechanisms
// disabled by configuration.
type Selector struct {
	detector     Detector
	allowNull    bool
	disabled     []Mechanism
	providerOpts []Option
	logger       *zap.Logger
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithDetector replaces the process-wide detector.
func WithDetector(d Detector) SelectorOption {
	return func(s *Selector) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithAvailability injects a fixed availability table.
func WithAvailability(av Availability) SelectorOption {
	return WithDetector(StaticDetector(av))
}

// WithNullFallback enables or disables falling back to NullProvider.
// Fallback is enabled by default.
func WithNullFallback(allow bool) SelectorOption {
	return func(s *Selector) {
		s.allowNull = allow
	}
}

// WithDisabled treats ms as unavailable.
func WithDisabled(ms ...Mechanism) SelectorOption {
	return func(s *Selector) {
		s.disabled = append(s.disabled, ms...)
	}
}

// WithProviderOptions passes opts to the selected provider.
func WithProviderOptions(opts ...Option) SelectorOption {
	return func(s *Selector) {
		s.providerOpts = append(s.providerOpts, opts...)
	}
}

// WithSelectorLogger sets the selector's logger.
func WithSelectorLogger(l *zap.Logger) SelectorOption {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSelector creates a Selector reading the process-wide detector with the
// null fallback enabled.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		detector:  DefaultDetector{},
		allowNull: true,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Availability returns the detector's table minus disabled mechanisms.
func (s *Selector) Availability() Availability {
	return s.detector.Detect().Without(s.disabled...)
}

// Plan reports which mechanism Select would construct.
func (s *Selector) Plan() (Mechanism, error) {
	return Choose(s.Availability(), s.allowNull)
}

// Select constructs the provider for the planned mechanism.
func (s *Selector) Select() (Provider, error) {
	av := s.Availability()
	m, err := Choose(av, s.allowNull)
	if err != nil {
		s.logger.Debug("no mechanism selected", zap.Stringer("availability", av), zap.Error(err))
		return nil, err
	}
	if m == MechanismNull {
		s.logger.Warn("no interception mechanism available, wrappers will pass targets through",
			zap.Stringer("availability", av))
	} else {
		s.logger.Debug("mechanism selected", zap.String("mechanism", string(m)), zap.Stringer("availability", av))
	}
	return New(m, s.providerOpts...)
}
