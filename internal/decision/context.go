// Package decision turns a customer, a candidate item, and the running
// interaction context into a purchase decision.
package decision

// InteractionContext is the per-session mutable record of accumulated
// service-quality signals. Owned by exactly one session and discarded
// with it, so it needs no synchronization.
type InteractionContext struct {
	InteractionQuality    float64 // Accumulated, -1 (grating) to +1 (charmed)
	DiscountOffered       bool    // A counter-offer is on the table
	NegotiationSucceeded  bool    // A past negotiation this visit closed well
	ShopReputation        float64 // Ambient signal, 0–1
	Ambiance              float64 // Ambient signal, 0–1
	AlternativesAvailable bool    // Other stock remains to browse
	InteractionCount      int
}

// RecordInteraction accumulates one interaction's quality into the
// running total, clamped to [-1,1].
func (c *InteractionContext) RecordInteraction(quality float64) {
	c.InteractionCount++
	c.InteractionQuality += quality
	if c.InteractionQuality > 1 {
		c.InteractionQuality = 1
	}
	if c.InteractionQuality < -1 {
		c.InteractionQuality = -1
	}
}

// maxContextAdjustment bounds how far positive ambient signals can lift
// confidence before bucketing.
const maxContextAdjustment = 0.15

// adjustment computes the bounded positive confidence lift from the
// context's signals. Never negative: a poor visit simply earns no lift.
func (c *InteractionContext) adjustment() float64 {
	adj := 0.0
	if c.DiscountOffered {
		adj += 0.05
	}
	if c.NegotiationSucceeded {
		adj += 0.04
	}
	if c.ShopReputation >= 0.7 {
		adj += 0.03
	}
	if c.Ambiance >= 0.7 {
		adj += 0.03
	}
	if c.InteractionQuality > 0 {
		adj += c.InteractionQuality * 0.05
	}
	if adj > maxContextAdjustment {
		adj = maxContextAdjustment
	}
	return adj
}
