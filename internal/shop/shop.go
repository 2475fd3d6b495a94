// Shop state — display slots, the serialized sale path, and the
// performance metrics query consumed by the traffic scheduler.
package shop

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PerformanceMetrics is the read model the scheduler scores traffic from.
type PerformanceMetrics struct {
	ReputationGrade int     `json:"reputation_grade"` // 1 (failing) to 6 (renowned)
	Utilization     float64 `json:"utilization"`      // Fraction of slots occupied, 0–1
	SalesLastHour   int     `json:"sales_last_hour"`
}

// displaySlot holds one stocked good. Each slot has its own lock so two
// customers racing for the same item serialize on that slot alone; the
// loser gets an ordinary "not available" answer.
type displaySlot struct {
	mu       sync.Mutex
	id       int
	item     Item
	price    float64
	occupied bool
}

// Shop is the shared collaborator every shopping session works against.
// Only AttemptSale mutates slot state; everything else is read-only.
type Shop struct {
	slots   []*displaySlot
	ambient *AmbientField

	mu         sync.Mutex
	ledger     []Transaction
	reputation float64 // 0–1, drifts with sale outcomes
	saleTimes  []time.Time
}

// New creates a shop with the given number of empty display slots.
// Reputation starts at the given level in [0,1].
func New(slotCount int, reputation float64, seed int64) (*Shop, error) {
	if slotCount <= 0 {
		return nil, fmt.Errorf("shop: slot count must be positive, got %d", slotCount)
	}
	if reputation < 0 || reputation > 1 {
		return nil, fmt.Errorf("shop: reputation %.2f outside [0,1]", reputation)
	}
	slots := make([]*displaySlot, slotCount)
	for i := range slots {
		slots[i] = &displaySlot{id: i}
	}
	return &Shop{
		slots:      slots,
		ambient:    NewAmbientField(seed),
		reputation: reputation,
	}, nil
}

// Stock places an item at the given asking price in the first free slot.
// Returns the slot id, or an error when every slot is taken.
func (s *Shop) Stock(item Item, askingPrice float64) (int, error) {
	for _, slot := range s.slots {
		slot.mu.Lock()
		if !slot.occupied {
			slot.item = item
			slot.price = askingPrice
			slot.occupied = true
			id := slot.id
			slot.mu.Unlock()
			return id, nil
		}
		slot.mu.Unlock()
	}
	return 0, fmt.Errorf("shop: no free display slot for %q", item.Name)
}

// DisplayedItems returns a snapshot of every occupied slot.
func (s *Shop) DisplayedItems() []Candidate {
	var out []Candidate
	for _, slot := range s.slots {
		slot.mu.Lock()
		if slot.occupied {
			out = append(out, Candidate{SlotID: slot.id, Item: slot.item, AskingPrice: slot.price})
		}
		slot.mu.Unlock()
	}
	return out
}

// AttemptSale tries to buy the item in the given slot at the proposed
// price. A slot already emptied by another customer is not an error —
// ok is false and the session treats it as stock gone.
func (s *Shop) AttemptSale(slotID int, price float64, customerID uuid.UUID) (Transaction, bool) {
	if slotID < 0 || slotID >= len(s.slots) {
		slog.Warn("sale against unknown slot", "slot", slotID, "customer", customerID)
		return Transaction{}, false
	}

	slot := s.slots[slotID]
	slot.mu.Lock()
	if !slot.occupied {
		slot.mu.Unlock()
		return Transaction{}, false
	}
	tx := Transaction{
		SlotID:     slot.id,
		Item:       slot.item,
		Price:      price,
		CustomerID: customerID,
		Timestamp:  time.Now(),
	}
	slot.occupied = false
	slot.mu.Unlock()

	s.mu.Lock()
	s.ledger = append(s.ledger, tx)
	s.saleTimes = append(s.saleTimes, tx.Timestamp)
	// Each sale nudges reputation up; it decays elsewhere when customers
	// leave unhappy.
	s.reputation += 0.01
	if s.reputation > 1 {
		s.reputation = 1
	}
	s.mu.Unlock()

	return tx, true
}

// AdjustReputation shifts reputation by delta, clamped to [0,1]. Sessions
// call this when a customer leaves notably pleased or displeased.
func (s *Shop) AdjustReputation(delta float64) {
	s.mu.Lock()
	s.reputation += delta
	if s.reputation < 0 {
		s.reputation = 0
	}
	if s.reputation > 1 {
		s.reputation = 1
	}
	s.mu.Unlock()
}

// Reputation returns the current reputation in [0,1].
func (s *Shop) Reputation() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reputation
}

// Ambiance returns the current ambient quality of the shop floor in [0,1].
func (s *Shop) Ambiance() float64 {
	return s.ambient.At(time.Now())
}

// Ledger returns a copy of all completed transactions.
func (s *Shop) Ledger() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transaction, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// Metrics computes the performance read model: reputation grade 1–6,
// occupied-slot fraction, and sales in the trailing hour.
func (s *Shop) Metrics() PerformanceMetrics {
	occupied := 0
	for _, slot := range s.slots {
		slot.mu.Lock()
		if slot.occupied {
			occupied++
		}
		slot.mu.Unlock()
	}

	s.mu.Lock()
	rep := s.reputation
	cutoff := time.Now().Add(-time.Hour)
	// Prune and count trailing-hour sales in one pass.
	kept := s.saleTimes[:0]
	for _, t := range s.saleTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	s.saleTimes = kept
	recent := len(kept)
	s.mu.Unlock()

	grade := 1 + int(rep*5+0.5)
	if grade > 6 {
		grade = 6
	}

	return PerformanceMetrics{
		ReputationGrade: grade,
		Utilization:     float64(occupied) / float64(len(s.slots)),
		SalesLastHour:   recent,
	}
}

// SlotCount returns the total number of display slots.
func (s *Shop) SlotCount() int {
	return len(s.slots)
}
