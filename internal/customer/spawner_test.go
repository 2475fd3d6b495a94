package customer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopkeep/internal/customer"
	"github.com/talgya/shopkeep/internal/personality"
)

func TestNewValidation(t *testing.T) {
	valid := personality.Profile{
		PriceSensitivity:    0.5,
		QualityFocus:        0.5,
		NegotiationTendency: 0.5,
		ImpulsePurchasing:   0.5,
	}

	_, err := customer.New("Erik Voss", customer.ArchNovice, 25, 100, valid)
	assert.NoError(t, err)

	_, err = customer.New("Erik Voss", customer.ArchNovice, 100, 25, valid)
	assert.Error(t, err, "inverted budget range")

	_, err = customer.New("Erik Voss", customer.ArchNovice, -1, 25, valid)
	assert.Error(t, err, "negative budget")

	bad := valid
	bad.PriceSensitivity = 1.2
	_, err = customer.New("Erik Voss", customer.ArchNovice, 25, 100, bad)
	assert.Error(t, err, "trait out of range")
}

func TestArchetypeWeightsGradeAdjustment(t *testing.T) {
	base := customer.ArchetypeWeights(3)
	assert.InDelta(t, 10, base[customer.ArchNoble], 1e-9)
	assert.InDelta(t, 30, base[customer.ArchCasual], 1e-9)

	poor := customer.ArchetypeWeights(2)
	assert.InDelta(t, 3, poor[customer.ArchNoble], 1e-9)
	assert.InDelta(t, 7.5, poor[customer.ArchMerchant], 1e-9)
	assert.InDelta(t, 16, poor[customer.ArchVeteran], 1e-9)
	assert.InDelta(t, 30, poor[customer.ArchCasual], 1e-9, "low-value archetypes unaffected")

	rich := customer.ArchetypeWeights(5)
	assert.InDelta(t, 20, rich[customer.ArchNoble], 1e-9)
	assert.InDelta(t, 22.5, rich[customer.ArchMerchant], 1e-9)
	assert.InDelta(t, 24, rich[customer.ArchVeteran], 1e-9)
	assert.InDelta(t, 25, rich[customer.ArchNovice], 1e-9)
}

func TestPickArchetypeFollowsGrade(t *testing.T) {
	// A renowned shop should draw nobles noticeably more often than a
	// struggling one over a large sample.
	const draws = 5000
	count := func(grade int) int {
		s := customer.NewSpawner(11)
		n := 0
		for i := 0; i < draws; i++ {
			if s.PickArchetype(grade) == customer.ArchNoble {
				n++
			}
		}
		return n
	}

	noblesPoor := count(1)
	noblesRich := count(6)
	assert.Greater(t, noblesRich, noblesPoor*2)
}

func TestPickArchetypeDeterministicPerSeed(t *testing.T) {
	a := customer.NewSpawner(99)
	b := customer.NewSpawner(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.PickArchetype(4), b.PickArchetype(4))
	}
}

func TestSpawnOfRollsWithinTemplateRanges(t *testing.T) {
	s := customer.NewSpawner(42)
	for i := 0; i < 100; i++ {
		c := s.SpawnOf(customer.ArchMerchant)
		require.NotNil(t, c)
		assert.NotEqual(t, "", c.Name)
		assert.Equal(t, customer.ArchMerchant, c.Archetype)
		assert.InDelta(t, 100, c.BudgetMin, 1e-9)
		assert.InDelta(t, 400, c.BudgetMax, 1e-9)
		assert.GreaterOrEqual(t, c.Profile.PriceSensitivity, 0.70)
		assert.LessOrEqual(t, c.Profile.PriceSensitivity, 0.90)
		assert.GreaterOrEqual(t, c.Profile.NegotiationTendency, 0.70)
		assert.LessOrEqual(t, c.Profile.NegotiationTendency, 0.90)
		assert.NoError(t, c.Profile.Validate())
	}
}

func TestSpawnedIdentitiesAreUnique(t *testing.T) {
	s := customer.NewSpawner(7)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		c := s.Spawn(3)
		key := c.ID.String()
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestMaxItemsExamined(t *testing.T) {
	assert.Equal(t, 5, customer.ArchNovice.MaxItemsExamined())
	assert.Equal(t, 6, customer.ArchVeteran.MaxItemsExamined())
	assert.Equal(t, 7, customer.ArchMerchant.MaxItemsExamined())
	assert.Equal(t, 4, customer.ArchNoble.MaxItemsExamined())
	assert.Equal(t, 4, customer.ArchCasual.MaxItemsExamined())
}

func TestMaxSpendingPower(t *testing.T) {
	c := customer.NewSpawner(5).SpawnOf(customer.ArchNoble)
	assert.InDelta(t, c.BudgetMax, c.MaxSpendingPower(), 1e-9)
}
