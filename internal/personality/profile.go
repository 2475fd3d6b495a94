// Package personality provides the pure scoring model mapping a
// customer's fixed traits and a candidate item/price onto interest and
// affordability signals. No shared state, no randomness.
package personality

import "fmt"

// Profile holds the four independent traits that drive one customer's
// purchase weighting. All values are fixed at creation and range 0–1.
type Profile struct {
	PriceSensitivity    float64 `json:"price_sensitivity"`
	QualityFocus        float64 `json:"quality_focus"`
	NegotiationTendency float64 `json:"negotiation_tendency"`
	ImpulsePurchasing   float64 `json:"impulse_purchasing"`
}

// Validate rejects any trait outside [0,1].
func (p Profile) Validate() error {
	check := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("personality: trait %s = %.3f outside [0,1]", name, v)
		}
		return nil
	}
	if err := check("price_sensitivity", p.PriceSensitivity); err != nil {
		return err
	}
	if err := check("quality_focus", p.QualityFocus); err != nil {
		return err
	}
	if err := check("negotiation_tendency", p.NegotiationTendency); err != nil {
		return err
	}
	return check("impulse_purchasing", p.ImpulsePurchasing)
}

// Affordability scores how comfortably a price fits under the customer's
// maximum spending power: 1 when free, 0 at or beyond the limit.
func Affordability(price, maxSpend float64) float64 {
	if maxSpend <= 0 {
		return 0
	}
	return Clamp01(1 - price/maxSpend)
}

// QualityFit scores how appealing an item's quality is given the
// customer's quality focus. Even indifferent customers give some weight
// to craftsmanship; focused ones weight it heavily.
func QualityFit(qualityScale, qualityFocus float64) float64 {
	return Clamp01(qualityScale * (0.4 + 0.6*qualityFocus))
}

// PricePenalty returns the drag a price-sensitive customer feels when an
// item strains the budget. Zero once affordability is comfortable.
func PricePenalty(affordability, priceSensitivity float64) float64 {
	if affordability >= 0.5 {
		return 0
	}
	return Clamp01(priceSensitivity * (1 - affordability))
}

// impulseFloor is the trait level above which a customer gets the flat
// impulse boost.
const impulseFloor = 0.6

// ImpulseBonus returns the flat confidence boost for impulsive shoppers.
func ImpulseBonus(impulsePurchasing float64) float64 {
	if impulsePurchasing > impulseFloor {
		return 0.15
	}
	return 0
}

// Interest scores how much an item draws a customer's eye while browsing,
// independent of price: quality pull plus an impulse spark.
func Interest(p Profile, qualityScale float64) float64 {
	return Clamp01(QualityFit(qualityScale, p.QualityFocus)*0.7 + p.ImpulsePurchasing*0.3)
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
