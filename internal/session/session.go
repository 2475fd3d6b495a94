// The shopping session state machine. One goroutine runs it from
// Entering to Leaving; only the Purchasing transition touches shared
// shop state.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/talgya/shopkeep/internal/customer"
	"github.com/talgya/shopkeep/internal/decision"
	"github.com/talgya/shopkeep/internal/personality"
	"github.com/talgya/shopkeep/internal/shop"
)

// Negotiation parameters: a counter-offer discounts the asking price in
// proportion to negotiation tendency, never below the acceptable floor.
const (
	maxDiscountFactor = 0.30
	minAcceptFraction = 0.70
)

// ExaminedItem records one item a customer looked over and how much it
// drew them in.
type ExaminedItem struct {
	Candidate shop.Candidate
	Interest  float64
}

// Config tunes session pacing.
type Config struct {
	ThinkTime time.Duration // Simulated pause between phases; 0 for tests
	Seed      int64
}

// Session is one customer's visit. Immutable once it reaches Leaving.
type Session struct {
	Customer *customer.Customer

	shop      *shop.Shop
	engine    *decision.Engine
	rng       *rand.Rand
	thinkTime time.Duration

	phase         Phase
	ctx           decision.InteractionContext
	examined      []ExaminedItem
	examinedSlots map[int]bool
	transaction   *shop.Transaction
	satisfaction  Satisfaction
	startedAt     time.Time
	duration      time.Duration

	events chan Event
}

// New builds a session for a customer. The shop, engine, and customer
// must be non-nil.
func New(c *customer.Customer, sh *shop.Shop, eng *decision.Engine, cfg Config) (*Session, error) {
	if c == nil || sh == nil || eng == nil {
		return nil, fmt.Errorf("session: customer, shop, and engine are required")
	}
	return &Session{
		Customer:      c,
		shop:          sh,
		engine:        eng,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		thinkTime:     cfg.ThinkTime,
		phase:         PhaseEntering,
		examinedSlots: make(map[int]bool),
		events:        make(chan Event, 16),
	}, nil
}

// Events returns the session's notification channel. It is closed after
// the session-ended event, once the session is in Leaving.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Examined returns a copy of the items looked at so far with their
// interest levels.
func (s *Session) Examined() []ExaminedItem {
	out := make([]ExaminedItem, len(s.examined))
	copy(out, s.examined)
	return out
}

// Transaction returns the completed purchase, or nil.
func (s *Session) Transaction() *shop.Transaction { return s.transaction }

// Satisfaction returns the final satisfaction; meaningful once Leaving.
func (s *Session) Satisfaction() Satisfaction { return s.satisfaction }

// Duration returns how long the visit lasted; meaningful once Leaving.
func (s *Session) Duration() time.Duration { return s.duration }

// Run drives the customer through the phases until Leaving, then closes
// the event channel. Call once, from its own goroutine.
func (s *Session) Run() {
	s.startedAt = time.Now()

	// The one candidate currently in hand, carried across the
	// Examining → Considering → Negotiating/Purchasing phases.
	var current *shop.Candidate
	var offer float64

	for s.phase != PhaseLeaving {
		s.think()

		switch s.phase {
		case PhaseEntering:
			s.setPhase(PhaseBrowsing)

		case PhaseBrowsing:
			current = s.pickItem()
			if current == nil {
				s.setPhase(PhaseLeaving)
				continue
			}
			offer = current.AskingPrice
			s.setPhase(PhaseExamining)

		case PhaseExamining:
			s.examine(current)
			s.setPhase(PhaseConsidering)

		case PhaseConsidering:
			d := s.evaluate(current, offer)
			switch d.Category {
			case decision.Buying:
				s.setPhase(PhasePurchasing)
			case decision.WantsToNegotiate:
				s.setPhase(PhaseNegotiating)
			case decision.Considering:
				s.ctx.RecordInteraction(0.05)
				s.setPhase(s.browseOrLeave())
			default:
				s.ctx.RecordInteraction(-0.05)
				s.setPhase(s.browseOrLeave())
			}

		case PhaseNegotiating:
			offer = s.counterOffer(current.AskingPrice)
			s.emit(Event{
				Kind:       EventNegotiationStarted,
				CustomerID: s.Customer.ID,
				Item:       current,
				Offer:      offer,
			})
			s.ctx.DiscountOffered = true
			d := s.evaluate(current, offer)
			switch d.Category {
			case decision.Buying:
				s.ctx.NegotiationSucceeded = true
				s.ctx.RecordInteraction(0.15)
				s.setPhase(PhasePurchasing)
			case decision.Considering:
				s.setPhase(s.browseOrLeave())
			default:
				s.ctx.RecordInteraction(-0.10)
				s.setPhase(PhaseLeaving)
			}

		case PhasePurchasing:
			tx, ok := s.shop.AttemptSale(current.SlotID, offer, s.Customer.ID)
			if ok {
				s.transaction = &tx
				s.ctx.RecordInteraction(0.20)
				s.emit(Event{
					Kind:        EventPurchaseCompleted,
					CustomerID:  s.Customer.ID,
					Transaction: &tx,
				})
			} else {
				// Lost the race for the slot — stock gone is an
				// ordinary outcome, not an error.
				slog.Info("item sold out from under customer",
					"customer", s.Customer.Name,
					"slot", current.SlotID,
				)
				s.ctx.RecordInteraction(-0.15)
			}
			s.setPhase(PhaseLeaving)
		}
	}

	s.finish()
}

// setPhase transitions and emits the phase-changed notification.
func (s *Session) setPhase(p Phase) {
	s.phase = p
	s.emit(Event{Kind: EventPhaseChanged, CustomerID: s.Customer.ID, Phase: p})
}

// pickItem chooses the next item to examine: archetype category
// preference plus raw interest, with a small jitter so equal candidates
// don't always resolve the same way. Returns nil when nothing examinable
// remains or the customer has looked at enough.
func (s *Session) pickItem() *shop.Candidate {
	if len(s.examined) >= s.Customer.Archetype.MaxItemsExamined() {
		return nil
	}

	displayed := s.shop.DisplayedItems()
	preferred := make(map[shop.ItemCategory]bool)
	for _, cat := range s.Customer.Archetype.PreferredCategories() {
		preferred[cat] = true
	}

	var best *shop.Candidate
	bestScore := -1.0
	for i := range displayed {
		cand := displayed[i]
		if s.examinedSlots[cand.SlotID] {
			continue
		}
		score := personality.Interest(s.Customer.Profile, cand.Item.Quality.Scale())
		if preferred[cand.Item.Category] {
			score += 0.3
		}
		score += s.rng.Float64() * 0.1
		if score > bestScore {
			bestScore = score
			best = &displayed[i]
		}
	}
	return best
}

// examine records the item and its interest level and notifies.
func (s *Session) examine(cand *shop.Candidate) {
	interest := personality.Interest(s.Customer.Profile, cand.Item.Quality.Scale())
	s.examined = append(s.examined, ExaminedItem{Candidate: *cand, Interest: interest})
	s.examinedSlots[cand.SlotID] = true
	s.ctx.RecordInteraction((interest - 0.5) * 0.2)
	s.emit(Event{
		Kind:       EventItemExamined,
		CustomerID: s.Customer.ID,
		Item:       cand,
		Interest:   interest,
	})
}

// evaluate refreshes ambient signals and asks the decision engine.
func (s *Session) evaluate(cand *shop.Candidate, offer float64) decision.Decision {
	s.ctx.ShopReputation = s.shop.Reputation()
	s.ctx.Ambiance = s.shop.Ambiance()
	s.ctx.AlternativesAvailable = s.remainingStock() > 0
	return s.engine.Evaluate(s.Customer, cand.Item, offer, &s.ctx)
}

// counterOffer computes the customer's haggle price: asking scaled down
// by negotiation tendency, clamped to the minimum acceptable fraction.
func (s *Session) counterOffer(asking float64) float64 {
	offer := asking * (1 - s.Customer.Profile.NegotiationTendency*maxDiscountFactor)
	if floor := asking * minAcceptFraction; offer < floor {
		offer = floor
	}
	return offer
}

// browseOrLeave keeps browsing while unexamined stock remains and the
// examine budget holds; otherwise the visit winds down.
func (s *Session) browseOrLeave() Phase {
	if len(s.examined) >= s.Customer.Archetype.MaxItemsExamined() {
		return PhaseLeaving
	}
	if s.remainingStock() == 0 {
		return PhaseLeaving
	}
	return PhaseBrowsing
}

func (s *Session) remainingStock() int {
	n := 0
	for _, cand := range s.shop.DisplayedItems() {
		if !s.examinedSlots[cand.SlotID] {
			n++
		}
	}
	return n
}

// finish computes final satisfaction, nudges shop reputation, emits the
// session-ended notification, and closes the channel.
func (s *Session) finish() {
	s.duration = time.Since(s.startedAt)
	sat, reason := s.computeSatisfaction()
	s.satisfaction = sat

	switch s.satisfaction {
	case SatHappy, SatDelighted:
		s.shop.AdjustReputation(0.005)
	case SatAngry, SatDisappointed:
		s.shop.AdjustReputation(-0.005)
	}

	s.emit(Event{
		Kind:         EventSessionEnded,
		CustomerID:   s.Customer.ID,
		Satisfaction: s.satisfaction,
		Reason:       reason,
	})
	close(s.events)
}

// computeSatisfaction derives the walkout mood from purchase outcome,
// items examined, and accumulated interaction quality.
func (s *Session) computeSatisfaction() (Satisfaction, string) {
	if s.transaction != nil {
		switch {
		case s.ctx.InteractionQuality >= 0.5:
			return SatDelighted, "found exactly what they wanted"
		case s.ctx.NegotiationSucceeded:
			return SatHappy, "haggled their way to a deal"
		default:
			return SatContent, "made a purchase"
		}
	}

	switch {
	case len(s.examined) == 0:
		return SatDisappointed, "found nothing to browse"
	case s.ctx.InteractionQuality < -0.3:
		return SatAngry, "left irritated by the prices"
	case s.ctx.InteractionQuality < 0:
		return SatDisappointed, "left with nothing suitable"
	default:
		return SatNeutral, "browsed but didn't commit"
	}
}

// think pauses between phases to simulate deliberation.
func (s *Session) think() {
	if s.thinkTime <= 0 {
		return
	}
	jitter := time.Duration(s.rng.Int63n(int64(s.thinkTime)))
	time.Sleep(s.thinkTime/2 + jitter)
}

func (s *Session) emit(ev Event) {
	s.events <- ev
}
