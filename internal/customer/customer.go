// Package customer provides the customer data model and the archetype
// tables that seed personality and budget at spawn time.
package customer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/shopkeep/internal/personality"
	"github.com/talgya/shopkeep/internal/shop"
)

// Archetype is a fixed customer segment controlling the base weighting
// and preference defaults a customer spawns with.
type Archetype uint8

const (
	ArchNovice Archetype = iota
	ArchVeteran
	ArchNoble
	ArchMerchant
	ArchCasual
)

// NumArchetypes is the total number of customer archetypes.
const NumArchetypes = 5

// Name returns a human-readable archetype name.
func (a Archetype) Name() string {
	switch a {
	case ArchNovice:
		return "novice"
	case ArchVeteran:
		return "veteran"
	case ArchNoble:
		return "noble"
	case ArchMerchant:
		return "merchant"
	case ArchCasual:
		return "casual"
	default:
		return "unknown"
	}
}

// Customer is one visitor to the shop. Created at arrival, owned by its
// shopping session, discarded when the session ends.
type Customer struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Archetype Archetype           `json:"archetype"`
	BudgetMin float64             `json:"budget_min"`
	BudgetMax float64             `json:"budget_max"`
	Profile   personality.Profile `json:"profile"`
}

// New validates and builds a customer. Traits outside [0,1] or an
// inverted budget range are construction errors.
func New(name string, arch Archetype, budgetMin, budgetMax float64, profile personality.Profile) (*Customer, error) {
	if budgetMin < 0 || budgetMax < budgetMin {
		return nil, fmt.Errorf("customer: invalid budget range [%.2f, %.2f]", budgetMin, budgetMax)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Customer{
		ID:        uuid.New(),
		Name:      name,
		Archetype: arch,
		BudgetMin: budgetMin,
		BudgetMax: budgetMax,
		Profile:   profile,
	}, nil
}

// MaxSpendingPower is the hard ceiling a customer will ever pay.
func (c *Customer) MaxSpendingPower() float64 {
	return c.BudgetMax
}

// archetypeTemplate seeds one archetype's spawn ranges and preferences.
type archetypeTemplate struct {
	budgetMin, budgetMax float64 // Budget range bounds
	priceSens            [2]float64
	qualityFocus         [2]float64
	negotiation          [2]float64
	impulse              [2]float64
	preferred            []shop.ItemCategory // Categories browsed first
	examineOffset        int                 // Adjustment to max items examined
	baseWeight           float64             // Arrival-mix weight before grade adjustment
}

var archetypeTemplates = map[Archetype]archetypeTemplate{
	ArchNovice: {
		budgetMin: 25, budgetMax: 100,
		priceSens:    [2]float64{0.50, 0.70},
		qualityFocus: [2]float64{0.30, 0.50},
		negotiation:  [2]float64{0.25, 0.45},
		impulse:      [2]float64{0.55, 0.75},
		preferred:    []shop.ItemCategory{shop.CategoryPotion, shop.CategoryTrinket},
		baseWeight:   25,
	},
	ArchVeteran: {
		budgetMin: 80, budgetMax: 300,
		priceSens:    [2]float64{0.40, 0.60},
		qualityFocus: [2]float64{0.60, 0.80},
		negotiation:  [2]float64{0.50, 0.70},
		impulse:      [2]float64{0.20, 0.40},
		preferred:    []shop.ItemCategory{shop.CategoryWeapon, shop.CategoryArmor},
		examineOffset: 1,
		baseWeight:    20,
	},
	ArchNoble: {
		budgetMin: 300, budgetMax: 900,
		priceSens:    [2]float64{0.10, 0.30},
		qualityFocus: [2]float64{0.80, 1.00},
		negotiation:  [2]float64{0.20, 0.40},
		impulse:      [2]float64{0.40, 0.60},
		preferred:    []shop.ItemCategory{shop.CategoryTrinket, shop.CategoryArmor},
		examineOffset: -1,
		baseWeight:    10,
	},
	ArchMerchant: {
		budgetMin: 100, budgetMax: 400,
		priceSens:    [2]float64{0.70, 0.90},
		qualityFocus: [2]float64{0.40, 0.60},
		negotiation:  [2]float64{0.70, 0.90},
		impulse:      [2]float64{0.10, 0.30},
		preferred:    []shop.ItemCategory{shop.CategoryMaterial, shop.CategoryWeapon},
		examineOffset: 2,
		baseWeight:    15,
	},
	ArchCasual: {
		budgetMin: 20, budgetMax: 80,
		priceSens:    [2]float64{0.50, 0.80},
		qualityFocus: [2]float64{0.20, 0.50},
		negotiation:  [2]float64{0.10, 0.30},
		impulse:      [2]float64{0.40, 0.70},
		preferred:    []shop.ItemCategory{shop.CategoryTrinket, shop.CategoryPotion},
		examineOffset: -1,
		baseWeight:    30,
	},
}

// PreferredCategories returns the categories an archetype gravitates to.
func (a Archetype) PreferredCategories() []shop.ItemCategory {
	if t, ok := archetypeTemplates[a]; ok {
		return t.preferred
	}
	return nil
}

// baseMaxExamined is how many items a customer examines per visit before
// archetype adjustment.
const baseMaxExamined = 5

// MaxItemsExamined returns how many items this archetype will look at in
// one visit. Never below one.
func (a Archetype) MaxItemsExamined() int {
	n := baseMaxExamined
	if t, ok := archetypeTemplates[a]; ok {
		n += t.examineOffset
	}
	if n < 1 {
		n = 1
	}
	return n
}
