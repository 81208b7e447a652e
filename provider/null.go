package provider

import (
	"github.com/dusk-indust/aspectwrap/capability"
	"github.com/dusk-indust/aspectwrap/proxy"
)

// NullProvider is the always-available fallback. It accepts no behavior and
// returns every target unchanged, so callers run unmodified where no
// interception mechanism exists and can still detect it from Register.
type NullProvider struct{}

// Compile-time check.
var _ Provider = NullProvider{}

// NewNull returns the null provider.
func NewNull() NullProvider { return NullProvider{} }

func (NullProvider) Mechanism() Mechanism { return MechanismNull }

func (NullProvider) Wrap(target any, _ *proxy.Loader) (any, error) { return target, nil }

func (NullProvider) Register(any) (bool, error) { return false, nil }

func (NullProvider) SetCapabilities(...capability.Descriptor) {}

func (NullProvider) AddCapability(capability.Descriptor) {}

func (NullProvider) Capabilities() capability.Set { return capability.Set{} }

func (NullProvider) Chain() []Entry { return nil }
