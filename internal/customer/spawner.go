// Customer spawning — archetype selection via a cumulative-weight table
// and trait rolls within each archetype's ranges.
package customer

import (
	"math/rand"
	"sort"

	"github.com/talgya/shopkeep/internal/personality"
)

// Spawner creates customers for the traffic scheduler. Not safe for
// concurrent use; the scheduler calls it from its tick loop only.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a customer spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed))}
}

// weightEntry is one row of the cumulative-distribution table.
type weightEntry struct {
	arch       Archetype
	cumulative float64
}

// ArchetypeWeights returns the effective arrival-mix weight per archetype
// for the given reputation grade. A struggling shop sees fewer high-value
// customers; a renowned one draws them in.
func ArchetypeWeights(grade int) map[Archetype]float64 {
	weights := make(map[Archetype]float64, NumArchetypes)
	for arch, tmpl := range archetypeTemplates {
		w := tmpl.baseWeight
		switch {
		case grade <= 2:
			switch arch {
			case ArchNoble:
				w *= 0.3
			case ArchMerchant:
				w *= 0.5
			case ArchVeteran:
				w *= 0.8
			}
		case grade >= 5:
			switch arch {
			case ArchNoble:
				w *= 2.0
			case ArchMerchant:
				w *= 1.5
			case ArchVeteran:
				w *= 1.2
			}
		}
		weights[arch] = w
	}
	return weights
}

// buildTable turns a weight map into a sorted cumulative table. Archetype
// ordinal order breaks ties so the draw is reproducible.
func buildTable(weights map[Archetype]float64) ([]weightEntry, float64) {
	archs := make([]Archetype, 0, len(weights))
	for a := range weights {
		archs = append(archs, a)
	}
	sort.Slice(archs, func(i, j int) bool { return archs[i] < archs[j] })

	table := make([]weightEntry, 0, len(archs))
	total := 0.0
	for _, a := range archs {
		if weights[a] <= 0 {
			continue
		}
		total += weights[a]
		table = append(table, weightEntry{arch: a, cumulative: total})
	}
	return table, total
}

// PickArchetype draws an archetype from the grade-adjusted distribution.
func (s *Spawner) PickArchetype(grade int) Archetype {
	table, total := buildTable(ArchetypeWeights(grade))
	if len(table) == 0 {
		return ArchCasual
	}
	r := s.rng.Float64() * total
	for _, e := range table {
		if r < e.cumulative {
			return e.arch
		}
	}
	return table[len(table)-1].arch
}

// Spawn creates one customer of the drawn archetype with traits rolled
// inside the archetype's ranges.
func (s *Spawner) Spawn(grade int) *Customer {
	arch := s.PickArchetype(grade)
	return s.SpawnOf(arch)
}

// SpawnOf creates one customer of a specific archetype.
func (s *Spawner) SpawnOf(arch Archetype) *Customer {
	tmpl := archetypeTemplates[arch]

	c, err := New(
		s.generateName(),
		arch,
		tmpl.budgetMin,
		tmpl.budgetMax,
		personalityFromTemplate(s.rng, tmpl),
	)
	if err != nil {
		// Templates are static and in-range; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return c
}

func personalityFromTemplate(rng *rand.Rand, tmpl archetypeTemplate) personality.Profile {
	roll := func(r [2]float64) float64 {
		return r[0] + rng.Float64()*(r[1]-r[0])
	}
	return personality.Profile{
		PriceSensitivity:    roll(tmpl.priceSens),
		QualityFocus:        roll(tmpl.qualityFocus),
		NegotiationTendency: roll(tmpl.negotiation),
		ImpulsePurchasing:   roll(tmpl.impulse),
	}
}

func (s *Spawner) generateName() string {
	first := firstNames[s.rng.Intn(len(firstNames))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var firstNames = []string{
	"Aldric", "Astrid", "Bram", "Brenna", "Cedric", "Calla", "Doran",
	"Daria", "Erik", "Elara", "Finn", "Freya", "Gareth", "Greta",
	"Halvard", "Helene", "Ivan", "Iris", "Jasper", "Juno", "Kael",
	"Kira", "Leif", "Lena", "Magnus", "Mira", "Nils", "Nessa",
	"Oswin", "Olwen", "Per", "Petra", "Quinn", "Runa", "Rowan",
	"Senna", "Theron", "Thea", "Ulric", "Una", "Varen", "Vera",
	"Wren", "Willa", "Yorick", "Yara", "Zander", "Zara",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
	"Deepwell", "Brightwater", "Oakenshield", "Redforge", "Windholm",
	"Marshwood", "Goldhaven", "Nightingale", "Riverstone", "Steelworth",
}
