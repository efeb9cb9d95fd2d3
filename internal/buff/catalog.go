// internal/buff/catalog.go
//
// Static buff registry and weighted random draw.
// Responsibilities:
//   - Hold the fixed table of buff definitions.
//   - Draw cards with replacement: roll a rarity tier by cumulative weight,
//     then pick uniformly among that tier's definitions.
//   - Fail fast on a misconfigured table or weight set.
//
// Notes:
//   - A Catalog owns its *rand.Rand and is not safe for concurrent use; the
//     host gives every session its own catalog.
//   - Tier weights are named constants so tests can check draw frequencies.

package buff

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Default tier weights (probability mass out of their sum).
const (
	WeightCommon    = 60
	WeightRare      = 25
	WeightEpic      = 10
	WeightLegendary = 5
)

var (
	ErrEmptyCatalog = errors.New("buff: catalog is empty")
	ErrBadWeights   = errors.New("buff: invalid rarity weights")
)

// DefaultWeights returns a fresh copy of the default tier weights.
func DefaultWeights() map[Rarity]int {
	return map[Rarity]int{
		Common:    WeightCommon,
		Rare:      WeightRare,
		Epic:      WeightEpic,
		Legendary: WeightLegendary,
	}
}

// definitions is the fixed buff universe.
var definitions = []Definition{
	{Type: DoubleScore, Rarity: Rare, Positive: true, Duration: 3, Value: 2,
		Name: "Double Score", Description: "Score x2 for the next 3 questions", Icon: "✨"},
	{Type: GoldenScore, Rarity: Legendary, Positive: true, Duration: 2, Value: 3,
		Name: "Golden Touch", Description: "Score x3 for the next 2 questions", Icon: "👑"},
	{Type: Shield, Rarity: Common, Positive: true, Value: 1,
		Name: "Shield", Description: "Absorbs one wrong answer", Icon: "🛡️"},
	{Type: Fortress, Rarity: Legendary, Positive: true, Value: 3,
		Name: "Fortress", Description: "Absorbs three wrong answers", Icon: "🏰"},
	{Type: ExtraTime, Rarity: Common, Positive: true, Value: 15,
		Name: "Extra Time", Description: "+15 seconds", Icon: "⏰"},
	{Type: TimeFreeze, Rarity: Epic, Positive: true, Duration: 2,
		Name: "Time Freeze", Description: "The clock stops for the next 2 questions", Icon: "❄️"},
	{Type: SkipQuestion, Rarity: Rare, Positive: true,
		Name: "Skip", Description: "Skip the current question without penalty", Icon: "⏭️"},
	{Type: LuckyReveal, Rarity: Common, Positive: true, Value: 2,
		Name: "Lucky Reveal", Description: "Removes two wrong options", Icon: "🍀"},
	{Type: ComboBoost, Rarity: Epic, Positive: true, Value: 2,
		Name: "Combo Boost", Description: "Combo +2", Icon: "🔥"},
	{Type: HalfScore, Rarity: Common, Positive: false, Duration: 2, Value: 0.5,
		Name: "Butterfingers", Description: "Score x0.5 for the next 2 questions", Icon: "🧈"},
	{Type: TimePenalty, Rarity: Common, Positive: false, Duration: 3, Value: 5,
		Name: "Hourglass Crack", Description: "Wrong answers cost 5 seconds for 3 questions", Icon: "⌛"},
	{Type: TimeDrain, Rarity: Rare, Positive: false, Value: 10,
		Name: "Time Drain", Description: "-10 seconds", Icon: "🕳️"},
	{Type: ComboBreak, Rarity: Epic, Positive: false,
		Name: "Combo Break", Description: "Resets your combo", Icon: "💔"},
}

// Catalog draws buffs from a fixed definition table.
type Catalog struct {
	defs    []Definition
	byTier  map[Rarity][]Definition
	weights map[Rarity]int
	total   int
	rng     *rand.Rand
}

// NewCatalog builds a catalog over the built-in table.
// A nil weights map uses DefaultWeights; a nil rng is seeded randomly.
func NewCatalog(weights map[Rarity]int, rng *rand.Rand) (*Catalog, error) {
	return newCatalog(definitions, weights, rng)
}

// MustDefault builds the default catalog and panics if the table is broken.
func MustDefault(rng *rand.Rand) *Catalog {
	c, err := NewCatalog(nil, rng)
	if err != nil {
		panic(err)
	}
	return c
}

func newCatalog(defs []Definition, weights map[Rarity]int, rng *rand.Rand) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyCatalog
	}
	if weights == nil {
		weights = DefaultWeights()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c := &Catalog{
		defs:    append([]Definition(nil), defs...),
		byTier:  make(map[Rarity][]Definition, len(Rarities)),
		weights: make(map[Rarity]int, len(weights)),
		rng:     rng,
	}
	for _, d := range defs {
		c.byTier[d.Rarity] = append(c.byTier[d.Rarity], d)
	}
	for r, w := range weights {
		if r < Common || r > Legendary {
			return nil, fmt.Errorf("%w: unknown tier %d", ErrBadWeights, int(r))
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: %s weight %d", ErrBadWeights, r, w)
		}
		if w > 0 && len(c.byTier[r]) == 0 {
			return nil, fmt.Errorf("%w: %s has weight but no buffs", ErrBadWeights, r)
		}
		c.weights[r] = w
		c.total += w
	}
	if c.total == 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrBadWeights)
	}
	return c, nil
}

// Draw returns count freshly instantiated buffs, drawn with replacement.
func (c *Catalog) Draw(count int) []Buff {
	if count <= 0 {
		return []Buff{}
	}
	out := make([]Buff, 0, count)
	for i := 0; i < count; i++ {
		tier := c.rollTier()
		pool := c.byTier[tier]
		d := pool[c.rng.IntN(len(pool))]
		out = append(out, Buff{ID: uuid.NewString(), Definition: d})
	}
	return out
}

// rollTier picks a tier with a single roll against the cumulative weights.
// Tiers are walked in ascending order so a given roll is reproducible.
func (c *Catalog) rollTier() Rarity {
	roll := c.rng.IntN(c.total)
	current := 0
	for _, r := range Rarities {
		current += c.weights[r]
		if roll < current {
			return r
		}
	}
	return Rarities[len(Rarities)-1]
}

// Definitions returns a copy of the buff table.
func (c *Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Lookup finds the definition for a buff type.
func (c *Catalog) Lookup(t Type) (Definition, bool) {
	for _, d := range c.defs {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

// Weights returns a copy of the active tier weights.
func (c *Catalog) Weights() map[Rarity]int {
	out := make(map[Rarity]int, len(c.weights))
	for r, w := range c.weights {
		out[r] = w
	}
	return out
}

// Instance wraps a definition in a new card. Used to hand out specific cards
// (tests, scripted rewards) without going through the random draw.
func Instance(d Definition) Buff {
	return Buff{ID: uuid.NewString(), Definition: d}
}
