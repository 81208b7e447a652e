package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dusk-indust/aspectwrap/provider"
)

func TestChoose_AllCombinations(t *testing.T) {
	tests := []struct {
		name      string
		available []provider.Mechanism
		allowNull bool
		want      provider.Mechanism
		wantErr   bool
	}{
		{"both", []provider.Mechanism{provider.MechanismAspect, provider.MechanismIntercepting}, false, provider.MechanismAspect, false},
		{"both with fallback", []provider.Mechanism{provider.MechanismAspect, provider.MechanismIntercepting}, true, provider.MechanismAspect, false},
		{"aspect only", []provider.Mechanism{provider.MechanismAspect}, false, provider.MechanismAspect, false},
		{"intercepting only", []provider.Mechanism{provider.MechanismIntercepting}, false, provider.MechanismIntercepting, false},
		{"intercepting only with fallback", []provider.Mechanism{provider.MechanismIntercepting}, true, provider.MechanismIntercepting, false},
		{"none with fallback", nil, true, provider.MechanismNull, false},
		{"none without fallback", nil, false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provider.Choose(provider.NewAvailability(tt.available...), tt.allowNull)
			if tt.wantErr {
				require.ErrorIs(t, err, provider.ErrNoMechanism)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChoose_ErrorNamesMissingMechanisms(t *testing.T) {
	_, err := provider.Choose(provider.NewAvailability(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aspect")
	assert.Contains(t, err.Error(), "intercepting")
}

func TestChoose_IsRepeatable(t *testing.T) {
	av := provider.NewAvailability(provider.MechanismIntercepting)
	first, err := provider.Choose(av, true)
	require.NoError(t, err)
	for range 10 {
		got, err := provider.Choose(av, true)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestSelect_ConstructsVariant(t *testing.T) {
	p, err := provider.Select(provider.NewAvailability(provider.MechanismAspect), false)
	require.NoError(t, err)
	assert.IsType(t, &provider.AspectProvider{}, p)

	p, err = provider.Select(provider.NewAvailability(provider.MechanismIntercepting), false)
	require.NoError(t, err)
	assert.IsType(t, &provider.InterceptingProvider{}, p)

	p, err = provider.Select(provider.NewAvailability(), true)
	require.NoError(t, err)
	assert.IsType(t, provider.NullProvider{}, p)

	_, err = provider.Select(provider.NewAvailability(), false)
	require.ErrorIs(t, err, provider.ErrNoMechanism)
}

func TestSelector_Disabled(t *testing.T) {
	sel := provider.NewSelector(
		provider.WithAvailability(provider.NewAvailability(provider.MechanismAspect, provider.MechanismIntercepting)),
		provider.WithDisabled(provider.MechanismAspect),
	)
	m, err := sel.Plan()
	require.NoError(t, err)
	assert.Equal(t, provider.MechanismIntercepting, m)
	assert.Equal(t, "-aspect +intercepting", sel.Availability().String())
}

func TestSelector_NoFallback(t *testing.T) {
	sel := provider.NewSelector(
		provider.WithAvailability(provider.NewAvailability()),
		provider.WithNullFallback(false),
	)
	_, err := sel.Select()
	require.ErrorIs(t, err, provider.ErrNoMechanism)
}

func TestSelector_WarnsOnNullFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sel := provider.NewSelector(
		provider.WithAvailability(provider.NewAvailability()),
		provider.WithSelectorLogger(zap.New(core)),
	)

	p, err := sel.Select()
	require.NoError(t, err)
	assert.Equal(t, provider.MechanismNull, p.Mechanism())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "no interception mechanism")
}

func TestSelector_DefaultDetector(t *testing.T) {
	sel := provider.NewSelector()
	assert.Equal(t, provider.Detect(), sel.Availability())
}

func TestSelector_ProviderOptions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sel := provider.NewSelector(
		provider.WithAvailability(provider.NewAvailability(provider.MechanismIntercepting)),
		provider.WithProviderOptions(provider.WithLogger(zap.New(core))),
	)
	p, err := sel.Select()
	require.NoError(t, err)

	ok, err := p.Register(42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("behavior rejected").Len())
}

func TestParseMechanism(t *testing.T) {
	for _, m := range provider.Mechanisms() {
		got, err := provider.ParseMechanism(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := provider.ParseMechanism("cglib")
	require.ErrorIs(t, err, provider.ErrUnknownMechanism)

	_, err = provider.New("cglib")
	require.ErrorIs(t, err, provider.ErrUnknownMechanism)
}
