package personality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopkeep/internal/personality"
)

func TestValidate(t *testing.T) {
	valid := personality.Profile{
		PriceSensitivity:    0.5,
		QualityFocus:        0.0,
		NegotiationTendency: 1.0,
		ImpulsePurchasing:   0.3,
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		profile personality.Profile
	}{
		{"negative price sensitivity", personality.Profile{PriceSensitivity: -0.1}},
		{"quality focus above one", personality.Profile{QualityFocus: 1.2}},
		{"negative negotiation", personality.Profile{NegotiationTendency: -0.01}},
		{"impulse above one", personality.Profile{ImpulsePurchasing: 1.01}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.profile.Validate())
		})
	}
}

func TestAffordability(t *testing.T) {
	assert.InDelta(t, 1.0, personality.Affordability(0, 100), 1e-9)
	assert.InDelta(t, 0.5, personality.Affordability(50, 100), 1e-9)
	assert.Equal(t, 0.0, personality.Affordability(100, 100))
	assert.Equal(t, 0.0, personality.Affordability(250, 100), "beyond budget clamps to zero")
	assert.Equal(t, 0.0, personality.Affordability(10, 0), "no spending power at all")
}

func TestPricePenalty(t *testing.T) {
	assert.Equal(t, 0.0, personality.PricePenalty(0.5, 0.9), "comfortable affordability has no penalty")
	assert.Equal(t, 0.0, personality.PricePenalty(0.8, 1.0))
	assert.InDelta(t, 0.9, personality.PricePenalty(0.0, 0.9), 1e-9)
	assert.InDelta(t, 0.45, personality.PricePenalty(0.5-1e-12, 0.9), 1e-6)
}

func TestQualityFit(t *testing.T) {
	// Even an indifferent customer notices craftsmanship.
	assert.InDelta(t, 0.4, personality.QualityFit(1.0, 0.0), 1e-9)
	assert.InDelta(t, 1.0, personality.QualityFit(1.0, 1.0), 1e-9)
	assert.Equal(t, 0.0, personality.QualityFit(0.0, 1.0))
}

func TestImpulseBonus(t *testing.T) {
	assert.Equal(t, 0.0, personality.ImpulseBonus(0.6), "floor is exclusive")
	assert.Equal(t, 0.15, personality.ImpulseBonus(0.61))
}

func TestInterestBounded(t *testing.T) {
	for _, quality := range []float64{0, 0.25, 0.5, 0.75, 1} {
		for _, focus := range []float64{0, 0.5, 1} {
			for _, impulse := range []float64{0, 0.5, 1} {
				p := personality.Profile{QualityFocus: focus, ImpulsePurchasing: impulse}
				v := personality.Interest(p, quality)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}
