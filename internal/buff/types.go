// internal/buff/types.go
//
// Core type definitions for buff cards.
// Defines:
//   - Type:   the effect kind a card carries (double score, shield, skip...).
//   - Rarity: ordered draw tier (common < rare < epic < legendary).
//   - Definition: one row of the static buff table.
//   - Buff:   a drawn card instance with its own ID.

package buff

// Type identifies the effect a buff applies.
type Type string

const (
	DoubleScore  Type = "double_score"
	GoldenScore  Type = "golden_score"
	Shield       Type = "shield"
	Fortress     Type = "fortress"
	ExtraTime    Type = "extra_time"
	TimeFreeze   Type = "time_freeze"
	SkipQuestion Type = "skip_question"
	LuckyReveal  Type = "lucky_reveal"
	ComboBoost   Type = "combo_boost"
	HalfScore    Type = "half_score"
	TimePenalty  Type = "time_penalty"
	TimeDrain    Type = "time_drain"
	ComboBreak   Type = "combo_break"
)

// Rarity is an ordered draw tier. Higher values are rarer.
type Rarity int

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
)

// Rarities lists every tier in ascending order.
var Rarities = []Rarity{Common, Rare, Epic, Legendary}

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	}
	return "unknown"
}

// ParseRarity maps a tier name back to its Rarity.
func ParseRarity(s string) (Rarity, bool) {
	for _, r := range Rarities {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// MarshalText encodes the tier by name so JSON/YAML payloads stay readable.
func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Definition is a static buff table row.
//
// Duration > 0 marks a time-bound effect that lives on as an active buff for
// that many answered questions. Duration == 0 marks an instantaneous effect.
type Definition struct {
	Type        Type    `json:"type"`
	Rarity      Rarity  `json:"rarity"`
	Positive    bool    `json:"isPositive"`
	Duration    int     `json:"duration,omitempty"`
	Value       float64 `json:"value,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Buff is one drawn card. Every draw yields a fresh ID so two cards of the
// same Type in a hand stay distinguishable.
type Buff struct {
	ID string `json:"id"`
	Definition
}

// Timed reports whether the buff outlives the turn it was played in.
func (b Buff) Timed() bool { return b.Duration > 0 }

// ScoreMultiplier reports whether Value scales score while the buff is active.
func (t Type) ScoreMultiplier() bool {
	switch t {
	case DoubleScore, GoldenScore, HalfScore:
		return true
	}
	return false
}
