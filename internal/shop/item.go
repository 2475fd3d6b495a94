// Package shop provides the shared shop collaborator: displayed goods,
// the sale transaction path, and the performance metrics the traffic
// system feeds on.
package shop

import (
	"time"

	"github.com/google/uuid"
)

// ItemCategory groups goods by what a customer is shopping for.
type ItemCategory uint8

const (
	CategoryWeapon ItemCategory = iota
	CategoryArmor
	CategoryPotion
	CategoryMaterial
	CategoryTrinket
)

// NumCategories is the total number of item categories.
const NumCategories = 5

// CategoryName returns a human-readable category name.
func CategoryName(c ItemCategory) string {
	switch c {
	case CategoryWeapon:
		return "weapon"
	case CategoryArmor:
		return "armor"
	case CategoryPotion:
		return "potion"
	case CategoryMaterial:
		return "material"
	case CategoryTrinket:
		return "trinket"
	default:
		return "unknown"
	}
}

// QualityTier rates an item's craftsmanship from 1 (crude) to 5 (masterwork).
type QualityTier uint8

const (
	QualityCrude      QualityTier = 1
	QualityCommon     QualityTier = 2
	QualityFine       QualityTier = 3
	QualitySuperior   QualityTier = 4
	QualityMasterwork QualityTier = 5
)

// Scale maps a quality tier onto [0,1] for scoring.
func (q QualityTier) Scale() float64 {
	if q < QualityCrude {
		return 0
	}
	if q > QualityMasterwork {
		return 1
	}
	return float64(q-1) / 4
}

// Item is a read-only snapshot of one good, supplied by the crafting side
// of the game. The simulation never mutates it.
type Item struct {
	Name     string       `json:"name"`
	Category ItemCategory `json:"category"`
	Quality  QualityTier  `json:"quality"`
}

// Candidate pairs an item snapshot with the slot and asking price a
// customer sees on the shop floor.
type Candidate struct {
	SlotID      int     `json:"slot_id"`
	Item        Item    `json:"item"`
	AskingPrice float64 `json:"asking_price"`
}

// Transaction records one completed sale against the shop ledger.
type Transaction struct {
	SlotID     int       `json:"slot_id"`
	Item       Item      `json:"item"`
	Price      float64   `json:"price"`
	CustomerID uuid.UUID `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}
