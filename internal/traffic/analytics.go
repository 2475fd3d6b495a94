// Traffic history and the analytics snapshot derived from it.
package traffic

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/shopkeep/internal/customer"
	"github.com/talgya/shopkeep/internal/session"
	"github.com/talgya/shopkeep/internal/shop"
)

// Record is one row of the append-only traffic history: one customer
// visit from entry to walkout. MadePurchase is true exactly when
// CompletedTransaction is set.
type Record struct {
	CustomerID           uuid.UUID            `json:"customer_id"`
	CustomerName         string               `json:"customer_name"`
	Archetype            customer.Archetype   `json:"archetype"`
	EnteredAt            time.Time            `json:"entered_at"`
	Duration             time.Duration        `json:"duration"`
	MadePurchase         bool                 `json:"made_purchase"`
	Amount               float64              `json:"amount"`
	Satisfaction         session.Satisfaction `json:"satisfaction"`
	CompletedTransaction *shop.Transaction    `json:"completed_transaction,omitempty"`
}

// Analytics is a derived, recomputable snapshot over the visit history.
// Never persisted; rebuild it from records whenever needed.
type Analytics struct {
	TotalVisits    int            `json:"total_visits"`
	Purchases      int            `json:"purchases"`
	ConversionRate float64        `json:"conversion_rate"`
	TotalRevenue   float64        `json:"total_revenue"`
	AvgDuration    time.Duration  `json:"avg_duration"`
	ByArchetype    map[string]int `json:"by_archetype"`
	PeakHour       int            `json:"peak_hour"` // Hour of day with most arrivals; -1 if no visits
}

// Compute derives an analytics snapshot from the given records.
func Compute(records []Record) Analytics {
	a := Analytics{
		ByArchetype: make(map[string]int),
		PeakHour:    -1,
	}
	if len(records) == 0 {
		return a
	}

	var totalDur time.Duration
	var hourCounts [24]int
	for _, r := range records {
		a.TotalVisits++
		if r.MadePurchase {
			a.Purchases++
			a.TotalRevenue += r.Amount
		}
		totalDur += r.Duration
		a.ByArchetype[r.Archetype.Name()]++
		hourCounts[r.EnteredAt.Hour()]++
	}

	a.ConversionRate = float64(a.Purchases) / float64(a.TotalVisits)
	a.AvgDuration = totalDur / time.Duration(a.TotalVisits)

	// Earliest hour wins ties.
	best := 0
	for h, n := range hourCounts {
		if n > best {
			best = n
			a.PeakHour = h
		}
	}
	return a
}
