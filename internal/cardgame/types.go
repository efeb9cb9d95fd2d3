// internal/cardgame/types.go
//
// Core type definitions for the card-buff quiz engine.
// Defines:
//   - Phase: session lifecycle (not_started → in_progress → game_over).
//   - Question: one externally supplied quiz item.
//   - ActiveBuff: a played, time-bound buff counting down answered questions.
//   - Config: tunable rules (time, hand size, scoring curve, penalties).
//   - State / AnswerResult / Result: read-only views handed to the host.

package cardgame

import (
	"errors"
	"fmt"

	"github.com/robalobadob/wordbuff/internal/buff"
)

// Phase is the coarse lifecycle state of a session.
type Phase int

const (
	NotStarted Phase = iota
	InProgress
	GameOver
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case GameOver:
		return "game_over"
	}
	return "unknown"
}

// MarshalText renders the phase by name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// QuestionType tags the shape of a question.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
)

// Choice reports whether the question is answered by picking an option.
func (t QuestionType) Choice() bool { return t == MultipleChoice || t == TrueFalse }

// Question is a single quiz item supplied by the content layer.
type Question struct {
	ID         string       `json:"id" yaml:"id"`
	Type       QuestionType `json:"type" yaml:"type"`
	Prompt     string       `json:"prompt" yaml:"prompt"`
	Answer     string       `json:"answer" yaml:"answer"`
	Options    []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Difficulty string       `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// Validate checks the content contract: a non-empty answer, and for choice
// questions an answer that is one of the options.
func (q Question) Validate() error {
	if normalize(q.Answer) == "" {
		return fmt.Errorf("%w: %q has no answer", ErrInvalidQuestion, q.ID)
	}
	switch q.Type {
	case MultipleChoice, TrueFalse:
		for _, o := range q.Options {
			if matches(o, q.Answer) {
				return nil
			}
		}
		return fmt.Errorf("%w: %q answer not among options", ErrInvalidQuestion, q.ID)
	case FillBlank:
		return nil
	}
	return fmt.Errorf("%w: %q has unknown type %q", ErrInvalidQuestion, q.ID, q.Type)
}

// ActiveBuff is a played time-bound buff. RemainingTurns counts answered
// questions and never goes below zero; at zero the entry is dropped.
type ActiveBuff struct {
	Buff           buff.Buff `json:"buff"`
	RemainingTurns int       `json:"remainingTurns"`
}

// Config holds the session rules.
type Config struct {
	StartingTime     float64 `json:"startingTime" yaml:"starting_time"`          // seconds on the clock at start
	InitialHand      int     `json:"initialHand" yaml:"initial_hand"`            // cards drawn at start
	MaxHandSize      int     `json:"maxHandSize" yaml:"max_hand_size"`           // hand cap
	BaseScore        int     `json:"baseScore" yaml:"base_score"`                // points per correct answer before multipliers
	ComboStep        float64 `json:"comboStep" yaml:"combo_step"`                // multiplier gained per streak step
	ComboCap         float64 `json:"comboCap" yaml:"combo_cap"`                  // ceiling of the combo multiplier
	MissPenalty      float64 `json:"missPenalty" yaml:"miss_penalty"`            // seconds lost on every unshielded miss
	ComboRewardEvery int     `json:"comboRewardEvery" yaml:"combo_reward_every"` // bonus card every N streak; 0 disables
}

// DefaultConfig returns the standard rules: 60 s, 3 of 5 cards, 100 points
// per answer, combo multiplier +0.25 per streak step capped at 2x.
func DefaultConfig() Config {
	return Config{
		StartingTime:     60,
		InitialHand:      3,
		MaxHandSize:      5,
		BaseScore:        100,
		ComboStep:        0.25,
		ComboCap:         2.0,
		MissPenalty:      0,
		ComboRewardEvery: 3,
	}
}

// Validate rejects rule sets the engine cannot run.
func (c Config) Validate() error {
	switch {
	case c.StartingTime <= 0:
		return fmt.Errorf("%w: starting time must be positive", ErrInvalidConfig)
	case c.MaxHandSize < 1:
		return fmt.Errorf("%w: max hand size must be at least 1", ErrInvalidConfig)
	case c.InitialHand < 0 || c.InitialHand > c.MaxHandSize:
		return fmt.Errorf("%w: initial hand must be within 0..%d", ErrInvalidConfig, c.MaxHandSize)
	case c.BaseScore <= 0:
		return fmt.Errorf("%w: base score must be positive", ErrInvalidConfig)
	case c.ComboStep < 0:
		return fmt.Errorf("%w: combo step must not be negative", ErrInvalidConfig)
	case c.ComboCap < 1:
		return fmt.Errorf("%w: combo cap must be at least 1", ErrInvalidConfig)
	case c.MissPenalty < 0:
		return fmt.Errorf("%w: miss penalty must not be negative", ErrInvalidConfig)
	case c.ComboRewardEvery < 0:
		return fmt.Errorf("%w: combo reward interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// State is a snapshot of a session. Slices are copies.
type State struct {
	Phase                Phase        `json:"phase"`
	Score                int          `json:"score"`
	Combo                int          `json:"combo"`
	MaxCombo             int          `json:"maxCombo"`
	Hand                 []buff.Buff  `json:"hand"`
	ActiveBuffs          []ActiveBuff `json:"activeBuffs"`
	CurrentQuestionIndex int          `json:"currentQuestionIndex"`
	TotalQuestions       int          `json:"totalQuestions"`
	TimeRemaining        float64      `json:"timeRemaining"`
	GameOver             bool         `json:"isGameOver"`
	ShieldCharges        int          `json:"shieldCharges"`
	CorrectCount         int          `json:"correctCount"`
	AnsweredCount        int          `json:"answeredCount"`
	SkippedCount         int          `json:"skippedCount"`
	EliminatedOptions    []string     `json:"eliminatedOptions"`
}

// AnswerResult reports the outcome of one answer.
type AnswerResult struct {
	Correct    bool `json:"correct"`
	ScoreDelta int  `json:"scoreDelta"`
	Shielded   bool `json:"shielded"`
	Combo      int  `json:"combo"`
	GameOver   bool `json:"isGameOver"`
}

// Result summarises a session.
type Result struct {
	FinalScore     int     `json:"finalScore"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	MaxCombo       int     `json:"maxCombo"`
	AnsweredCount  int     `json:"answeredCount"`
	SkippedCount   int     `json:"skippedCount"`
	Accuracy       float64 `json:"accuracy"`
}

var (
	ErrInvalidConfig   = errors.New("cardgame: invalid config")
	ErrNoQuestions     = errors.New("cardgame: question bank is empty")
	ErrInvalidQuestion = errors.New("cardgame: invalid question")
	ErrInvalidState    = errors.New("cardgame: invalid state")
)
