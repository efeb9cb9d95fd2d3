// internal/cardgame/engine.go
//
// Card-buff quiz engine for a single timed session.
// Responsibilities:
//   - Deal a hand of buff cards and refill it as cards are played.
//   - Apply buffs: time-bound ones become ActiveBuffs (same type refreshes,
//     never stacks); instantaneous ones fire once and are discarded.
//   - Score answers with a capped combo multiplier and active score buffs.
//   - Absorb misses with shield charges; otherwise break the combo and apply
//     time penalties.
//   - Track the lifecycle: not_started → in_progress → game_over.
//
// Notes:
//   - The engine is synchronous and holds no locks. The host must serialise
//     calls (see internal/session).
//   - Time only moves through Tick and buff effects; the engine never reads a
//     clock of its own.
//   - Once game_over is reached every mutating call is a no-op (Answer
//     reports ErrInvalidState).
package cardgame

import (
	"fmt"
	"math"
	"strings"

	"github.com/robalobadob/wordbuff/internal/buff"
)

// Drawer supplies freshly drawn buff cards.
type Drawer interface {
	Draw(count int) []buff.Buff
}

// Engine runs one quiz session. Create with New, then Start.
type Engine struct {
	cfg       Config
	drawer    Drawer
	questions []Question

	phase         Phase
	score         int
	combo         int
	maxCombo      int
	hand          []buff.Buff
	active        []ActiveBuff
	index         int
	timeRemaining float64
	shieldCharges int
	correct       int
	answered      int
	skipped       int
	eliminated    []string
}

// New constructs an engine in the not_started phase.
func New(d Drawer, cfg Config) (*Engine, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil buff drawer", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, drawer: d}, nil
}

// Start begins the session over questions.
// Fails on an empty or malformed bank, or when the session already started.
func (e *Engine) Start(questions []Question) error {
	if e.phase != NotStarted {
		return fmt.Errorf("%w: start while %s", ErrInvalidState, e.phase)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}

	e.questions = append([]Question(nil), questions...)
	e.hand = e.drawer.Draw(e.cfg.InitialHand)
	e.active = nil
	e.score, e.combo, e.maxCombo = 0, 0, 0
	e.index = 0
	e.timeRemaining = e.cfg.StartingTime
	e.shieldCharges = 0
	e.correct, e.answered, e.skipped = 0, 0, 0
	e.eliminated = nil
	e.phase = InProgress
	return nil
}

// UseCard plays the card with buffID from the hand.
// Returns false (and changes nothing) if the card is not held or the session
// is not in progress.
func (e *Engine) UseCard(buffID string) bool {
	if e.phase != InProgress {
		return false
	}
	i := e.handIndex(buffID)
	if i < 0 {
		return false
	}
	card := e.hand[i]
	e.hand = append(e.hand[:i], e.hand[i+1:]...)

	if card.Timed() {
		e.activate(card)
	} else {
		e.applyInstant(card)
	}

	e.checkOver()
	if e.phase == InProgress && len(e.hand) < e.cfg.MaxHandSize {
		e.hand = append(e.hand, e.drawer.Draw(1)...)
	}
	return true
}

// Answer evaluates userAnswer against the current question, then closes the
// turn: active buffs lose one turn, the question advances, and the session
// ends if questions or time ran out.
//
// Matching ignores surrounding whitespace and letter case.
func (e *Engine) Answer(userAnswer string) (AnswerResult, error) {
	if e.phase != InProgress {
		return AnswerResult{GameOver: e.phase == GameOver},
			fmt.Errorf("%w: answer while %s", ErrInvalidState, e.phase)
	}

	var res AnswerResult
	q := e.questions[e.index]
	e.answered++

	switch {
	case matches(userAnswer, q.Answer):
		e.combo++
		if e.combo > e.maxCombo {
			e.maxCombo = e.combo
		}
		e.correct++
		res.Correct = true
		res.ScoreDelta = e.scoreFor(e.combo)
		e.score += res.ScoreDelta
		e.rewardCombo()

	case e.shieldCharges > 0:
		e.shieldCharges--
		res.Shielded = true

	default:
		e.combo = 0
		e.drainTime(e.cfg.MissPenalty + e.activeValue(buff.TimePenalty))
	}

	e.expireTurn()
	e.advance()
	e.checkOver()

	res.Combo = e.combo
	res.GameOver = e.phase == GameOver
	return res, nil
}

// Tick drains deltaSeconds from the clock unless a time freeze is active.
// Non-positive deltas are ignored; the clock never goes below zero.
func (e *Engine) Tick(deltaSeconds float64) {
	if e.phase != InProgress || !(deltaSeconds > 0) {
		return
	}
	if e.isActive(buff.TimeFreeze) {
		return
	}
	e.drainTime(deltaSeconds)
	e.checkOver()
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	active := make([]ActiveBuff, len(e.active))
	copy(active, e.active)
	return State{
		Phase:                e.phase,
		Score:                e.score,
		Combo:                e.combo,
		MaxCombo:             e.maxCombo,
		Hand:                 append([]buff.Buff{}, e.hand...),
		ActiveBuffs:          active,
		CurrentQuestionIndex: e.index,
		TotalQuestions:       len(e.questions),
		TimeRemaining:        e.timeRemaining,
		GameOver:             e.phase == GameOver,
		ShieldCharges:        e.shieldCharges,
		CorrectCount:         e.correct,
		AnsweredCount:        e.answered,
		SkippedCount:         e.skipped,
		EliminatedOptions:    append([]string{}, e.eliminated...),
	}
}

// CurrentQuestion returns the question awaiting an answer, with options
// removed by lucky reveals filtered out.
func (e *Engine) CurrentQuestion() (Question, bool) {
	if e.phase != InProgress {
		return Question{}, false
	}
	q := e.questions[e.index]
	if len(q.Options) > 0 {
		opts := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if !e.isEliminated(o) {
				opts = append(opts, o)
			}
		}
		q.Options = opts
	}
	return q, true
}

// Result summarises the session. Safe to call at any phase; before game over
// it reports the progress so far.
func (e *Engine) Result() Result {
	r := Result{
		FinalScore:     e.score,
		CorrectCount:   e.correct,
		TotalQuestions: len(e.questions),
		MaxCombo:       e.maxCombo,
		AnsweredCount:  e.answered,
		SkippedCount:   e.skipped,
	}
	if e.answered > 0 {
		r.Accuracy = float64(e.correct) / float64(e.answered)
	}
	return r
}

// Phase reports the lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// ComboMultiplier is the streak bonus for a combo of c consecutive correct
// answers: 1 + step*(c-1), capped.
func (c Config) ComboMultiplier(combo int) float64 {
	if combo <= 1 {
		return 1
	}
	return math.Min(1+c.ComboStep*float64(combo-1), c.ComboCap)
}

// ----------------------------------------------------------------------------
// internals

// scoreFor computes the points for a correct answer at the given combo.
func (e *Engine) scoreFor(combo int) int {
	mult := e.cfg.ComboMultiplier(combo)
	for _, a := range e.active {
		if a.Buff.Type.ScoreMultiplier() {
			mult *= a.Buff.Value
		}
	}
	delta := int(math.Round(float64(e.cfg.BaseScore) * mult))
	if delta < 0 {
		return 0
	}
	return delta
}

// rewardCombo hands out a bonus card on every ComboRewardEvery-th streak step.
func (e *Engine) rewardCombo() {
	every := e.cfg.ComboRewardEvery
	if every == 0 || e.combo%every != 0 || len(e.hand) >= e.cfg.MaxHandSize {
		return
	}
	e.hand = append(e.hand, e.drawer.Draw(1)...)
}

// activate registers a time-bound buff. An active buff of the same type is
// refreshed to the new duration instead of stacking.
func (e *Engine) activate(card buff.Buff) {
	for i := range e.active {
		if e.active[i].Buff.Type == card.Type {
			e.active[i] = ActiveBuff{Buff: card, RemainingTurns: card.Duration}
			return
		}
	}
	e.active = append(e.active, ActiveBuff{Buff: card, RemainingTurns: card.Duration})
}

// applyInstant fires a one-shot buff.
func (e *Engine) applyInstant(card buff.Buff) {
	switch card.Type {
	case buff.Shield, buff.Fortress:
		e.shieldCharges += int(card.Value)
	case buff.ExtraTime:
		e.timeRemaining += card.Value
	case buff.TimeDrain:
		e.drainTime(card.Value)
	case buff.SkipQuestion:
		e.skipped++
		e.advance()
	case buff.LuckyReveal:
		e.eliminate(int(card.Value))
	case buff.ComboBoost:
		e.combo += int(card.Value)
		if e.combo > e.maxCombo {
			e.maxCombo = e.combo
		}
	case buff.ComboBreak:
		e.combo = 0
	}
}

// eliminate hides up to n wrong options of the current question.
// Questions without options are unaffected.
func (e *Engine) eliminate(n int) {
	q := e.questions[e.index]
	for _, o := range q.Options {
		if n <= 0 {
			return
		}
		if matches(o, q.Answer) || e.isEliminated(o) {
			continue
		}
		e.eliminated = append(e.eliminated, o)
		n--
	}
}

// expireTurn takes one turn off every active buff and drops spent ones.
func (e *Engine) expireTurn() {
	kept := e.active[:0]
	for _, a := range e.active {
		a.RemainingTurns--
		if a.RemainingTurns > 0 {
			kept = append(kept, a)
		}
	}
	e.active = kept
}

// advance moves to the next question and clears per-question state.
func (e *Engine) advance() {
	e.index++
	e.eliminated = nil
}

// checkOver ends the session when questions or time are exhausted.
func (e *Engine) checkOver() {
	if e.phase != InProgress {
		return
	}
	if e.index >= len(e.questions) || e.timeRemaining <= 0 {
		e.phase = GameOver
		if e.timeRemaining < 0 {
			e.timeRemaining = 0
		}
		if e.index > len(e.questions) {
			e.index = len(e.questions)
		}
	}
}

// drainTime removes seconds from the clock, clamped at zero.
func (e *Engine) drainTime(seconds float64) {
	if seconds <= 0 {
		return
	}
	e.timeRemaining = math.Max(0, e.timeRemaining-seconds)
}

// activeValue sums Value across active buffs of type t.
func (e *Engine) activeValue(t buff.Type) float64 {
	var sum float64
	for _, a := range e.active {
		if a.Buff.Type == t {
			sum += a.Buff.Value
		}
	}
	return sum
}

func (e *Engine) isActive(t buff.Type) bool {
	for _, a := range e.active {
		if a.Buff.Type == t {
			return true
		}
	}
	return false
}

func (e *Engine) isEliminated(option string) bool {
	for _, o := range e.eliminated {
		if o == option {
			return true
		}
	}
	return false
}

func (e *Engine) handIndex(id string) int {
	for i, b := range e.hand {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// normalize trims surrounding whitespace.
func normalize(s string) string { return strings.TrimSpace(s) }

// matches compares answers ignoring surrounding whitespace and case.
func matches(a, b string) bool { return strings.EqualFold(normalize(a), normalize(b)) }
