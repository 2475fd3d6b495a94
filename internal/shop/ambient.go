// Ambient shop signals — smooth noise fields for ambiance so the floor
// "feels" different over a day without discrete jumps.
package shop

import (
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// AmbientField produces a slowly varying ambiance level from normalized
// simplex noise sampled along the time axis.
type AmbientField struct {
	noise  opensimplex.Noise
	origin time.Time
}

// NewAmbientField creates an ambient field seeded deterministically.
func NewAmbientField(seed int64) *AmbientField {
	return &AmbientField{
		noise:  opensimplex.NewNormalized(seed),
		origin: time.Now(),
	}
}

// At samples the ambiance in [0,1] at the given wall time. The field
// drifts over roughly ten-minute periods, layered with a faster shimmer.
func (f *AmbientField) At(t time.Time) float64 {
	minutes := t.Sub(f.origin).Minutes()
	slow := f.noise.Eval2(minutes/10, 0)
	fast := f.noise.Eval2(minutes, 7.3)
	v := slow*0.8 + fast*0.2
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}
