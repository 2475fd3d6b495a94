// Package session drives one customer through the shopping state
// machine, emitting every transition on a channel scoped to the session.
package session

import (
	"github.com/google/uuid"

	"github.com/talgya/shopkeep/internal/shop"
)

// Phase is a shopping session state. Transitions run strictly forward
// except the Browsing⇄Examining⇄Considering loop; Leaving is terminal.
type Phase uint8

const (
	PhaseEntering Phase = iota
	PhaseBrowsing
	PhaseExamining
	PhaseConsidering
	PhaseNegotiating
	PhasePurchasing
	PhaseLeaving
)

// Name returns a human-readable phase name.
func (p Phase) Name() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseBrowsing:
		return "browsing"
	case PhaseExamining:
		return "examining"
	case PhaseConsidering:
		return "considering"
	case PhaseNegotiating:
		return "negotiating"
	case PhasePurchasing:
		return "purchasing"
	case PhaseLeaving:
		return "leaving"
	default:
		return "unknown"
	}
}

// Satisfaction is how a customer feels walking out the door.
type Satisfaction uint8

const (
	SatAngry Satisfaction = iota
	SatDisappointed
	SatNeutral
	SatContent
	SatHappy
	SatDelighted
)

// Name returns a human-readable satisfaction name.
func (s Satisfaction) Name() string {
	switch s {
	case SatAngry:
		return "angry"
	case SatDisappointed:
		return "disappointed"
	case SatNeutral:
		return "neutral"
	case SatContent:
		return "content"
	case SatHappy:
		return "happy"
	case SatDelighted:
		return "delighted"
	default:
		return "unknown"
	}
}

// EventKind enumerates the session notifications.
type EventKind uint8

const (
	EventPhaseChanged EventKind = iota
	EventItemExamined
	EventNegotiationStarted
	EventPurchaseCompleted
	EventSessionEnded
)

// Event is one session notification. Fields beyond Kind and CustomerID
// are populated per kind.
type Event struct {
	Kind       EventKind
	CustomerID uuid.UUID

	Phase        Phase             // EventPhaseChanged
	Item         *shop.Candidate   // EventItemExamined, EventNegotiationStarted
	Interest     float64           // EventItemExamined
	Offer        float64           // EventNegotiationStarted
	Transaction  *shop.Transaction // EventPurchaseCompleted
	Satisfaction Satisfaction      // EventSessionEnded
	Reason       string            // EventSessionEnded
}
