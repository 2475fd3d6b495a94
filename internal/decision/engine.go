// The decision engine — weighted four-signal scoring of one candidate
// item at one offered price. Category and confidence are a pure function
// of the inputs; randomness touches only the flavor comment.
package decision

import (
	"math"
	"math/rand"
	"sync"

	"github.com/talgya/shopkeep/internal/customer"
	"github.com/talgya/shopkeep/internal/personality"
	"github.com/talgya/shopkeep/internal/shop"
)

// Category is the decision bucket a confidence score falls into.
type Category uint8

const (
	NotBuying Category = iota
	Considering
	WantsToNegotiate
	Buying
)

// Name returns a human-readable category name.
func (c Category) Name() string {
	switch c {
	case Buying:
		return "buying"
	case WantsToNegotiate:
		return "wants-to-negotiate"
	case Considering:
		return "considering"
	default:
		return "not-buying"
	}
}

// Emotion is the customer's emotional response to an evaluation. The
// values form an unordered category set, not a severity scale.
type Emotion uint8

const (
	EmotionUpset Emotion = iota
	EmotionFrustrated
	EmotionNeutral
	EmotionSatisfied
	EmotionDelighted
	EmotionConflicted
)

// Name returns a human-readable emotion name.
func (e Emotion) Name() string {
	switch e {
	case EmotionUpset:
		return "upset"
	case EmotionFrustrated:
		return "frustrated"
	case EmotionNeutral:
		return "neutral"
	case EmotionSatisfied:
		return "satisfied"
	case EmotionDelighted:
		return "delighted"
	case EmotionConflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// Reason names the signal that drove (or nearly drove) a decision.
type Reason string

const (
	ReasonAffordability Reason = "affordability"
	ReasonQuality       Reason = "quality"
	ReasonPrice         Reason = "price-sensitivity"
	ReasonImpulse       Reason = "impulse"
)

// Decision is one evaluation's outcome. Produced fresh per evaluation
// and never mutated.
type Decision struct {
	Category               Category
	Confidence             float64 // 0–1
	NegotiationWillingness float64 // 0–1
	Emotion                Emotion
	PrimaryReason          Reason
	SecondaryFactors       []Reason
	Comment                string // Presentation flavor only
}

// Scoring weights and thresholds.
const (
	weightAffordability = 0.55
	weightQuality       = 0.35
	weightPricePenalty  = 0.30

	buyThreshold      = 0.60
	considerThreshold = 0.45

	negotiationFloor = 0.50 // Tendency above this unlocks the override
	negotiationBand  = 0.15 // Width of the band just under buyThreshold

	// Signals within this distance of the dominant one are reported as
	// secondary factors.
	secondaryCloseness = 0.15
)

// Engine evaluates purchase decisions. Safe for concurrent use: the only
// mutable state is the flavor-text rng, guarded by a mutex.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a decision engine seeded for flavor-text variety.
func NewEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// Evaluate scores one candidate at the offered price for one customer.
func (e *Engine) Evaluate(c *customer.Customer, item shop.Item, offeredPrice float64, ctx *InteractionContext) Decision {
	p := c.Profile

	afford := personality.Affordability(offeredPrice, c.MaxSpendingPower())
	qualityFit := personality.QualityFit(item.Quality.Scale(), p.QualityFocus)
	penalty := personality.PricePenalty(afford, p.PriceSensitivity)
	impulse := personality.ImpulseBonus(p.ImpulsePurchasing)

	confidence := weightAffordability*afford +
		weightQuality*qualityFit -
		weightPricePenalty*penalty +
		impulse +
		ctx.adjustment()
	confidence = personality.Clamp01(confidence)

	cat := bucket(confidence)

	// A price beyond the customer's spending power can never close,
	// however strong the other signals are.
	if cat == Buying && offeredPrice > c.MaxSpendingPower() {
		cat = Considering
	}

	// Negotiation rescues marginal sales: a willing haggler who isn't
	// sold but hasn't already been offered a discount counters instead
	// of walking.
	if cat != Buying && !ctx.DiscountOffered && p.NegotiationTendency > negotiationFloor {
		if cat == NotBuying || confidence >= buyThreshold-negotiationBand {
			cat = WantsToNegotiate
		}
	}

	primary, secondary := rankSignals(signalSet{
		afford:    weightAffordability * afford,
		quality:   weightQuality * qualityFit,
		pricePain: weightPricePenalty * penalty,
		impulse:   impulse,
	})

	emotion := classifyEmotion(cat, confidence, afford, qualityFit)

	// With nothing else on the shelves to fall back on, a haggler
	// presses harder for this one.
	willingness := p.NegotiationTendency * (0.6 + 0.6*(1-afford))
	if !ctx.AlternativesAvailable {
		willingness += 0.1
	}

	return Decision{
		Category:               cat,
		Confidence:             confidence,
		NegotiationWillingness: personality.Clamp01(willingness),
		Emotion:                emotion,
		PrimaryReason:          primary,
		SecondaryFactors:       secondary,
		Comment:                e.flavor(emotion),
	}
}

func bucket(confidence float64) Category {
	switch {
	case confidence >= buyThreshold:
		return Buying
	case confidence >= considerThreshold:
		return Considering
	default:
		return NotBuying
	}
}

type signalSet struct {
	afford    float64
	quality   float64
	pricePain float64
	impulse   float64
}

// rankSignals picks the dominant signal contribution and any others
// within the closeness threshold of it.
func rankSignals(s signalSet) (Reason, []Reason) {
	type ranked struct {
		reason Reason
		value  float64
	}
	all := []ranked{
		{ReasonAffordability, s.afford},
		{ReasonQuality, s.quality},
		{ReasonPrice, s.pricePain},
		{ReasonImpulse, s.impulse},
	}

	primary := all[0]
	for _, r := range all[1:] {
		if r.value > primary.value {
			primary = r
		}
	}

	var secondary []Reason
	for _, r := range all {
		if r.reason == primary.reason {
			continue
		}
		if primary.value-r.value <= secondaryCloseness {
			secondary = append(secondary, r.reason)
		}
	}
	return primary.reason, secondary
}

func classifyEmotion(cat Category, confidence, afford, qualityFit float64) Emotion {
	if math.Abs(afford-qualityFit) > 0.5 {
		return EmotionConflicted
	}
	switch cat {
	case Buying:
		if confidence >= 0.8 {
			return EmotionDelighted
		}
		return EmotionSatisfied
	case WantsToNegotiate, Considering:
		return EmotionNeutral
	default:
		if confidence < 0.2 {
			return EmotionUpset
		}
		return EmotionFrustrated
	}
}

// flavorLines gives each emotion a handful of shopkeeper-facing remarks.
var flavorLines = map[Emotion][]string{
	EmotionUpset: {
		"mutters about robbery and turns away",
		"scoffs at the price tag",
		"shakes their head sharply",
	},
	EmotionFrustrated: {
		"sighs and puts the item back",
		"frowns at the asking price",
		"taps the counter, unconvinced",
	},
	EmotionNeutral: {
		"turns the item over thoughtfully",
		"hums quietly, weighing it up",
		"glances between the item and their purse",
	},
	EmotionSatisfied: {
		"nods with approval",
		"smiles at the craftsmanship",
		"seems pleased with the find",
	},
	EmotionDelighted: {
		"beams and reaches for their coin",
		"declares it exactly what they were after",
		"can hardly contain their excitement",
	},
	EmotionConflicted: {
		"hesitates, torn between want and means",
		"lingers over it far longer than planned",
		"mumbles about quality versus coin",
	},
}

// flavor picks a presentation comment for the emotion. This is the only
// place the engine consumes randomness.
func (e *Engine) flavor(em Emotion) string {
	lines := flavorLines[em]
	if len(lines) == 0 {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return lines[e.rng.Intn(len(lines))]
}
