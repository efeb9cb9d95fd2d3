package cardgame

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordbuff/internal/buff"
)

// scriptedDrawer deals cards in a fixed order, then shields forever.
type scriptedDrawer struct {
	queue []buff.Type
	cat   *buff.Catalog
	drawn int
}

func newScripted(types ...buff.Type) *scriptedDrawer {
	return &scriptedDrawer{queue: types, cat: buff.MustDefault(nil)}
}

func (s *scriptedDrawer) Draw(n int) []buff.Buff {
	out := make([]buff.Buff, 0, n)
	for i := 0; i < n; i++ {
		t := buff.Shield
		if len(s.queue) > 0 {
			t, s.queue = s.queue[0], s.queue[1:]
		}
		d, _ := s.cat.Lookup(t)
		out = append(out, buff.Instance(d))
		s.drawn++
	}
	return out
}

func questions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:      fmt.Sprintf("q%d", i),
			Type:    MultipleChoice,
			Prompt:  "pick A",
			Answer:  "A",
			Options: []string{"A", "B", "C", "D"},
		}
	}
	return qs
}

func started(t *testing.T, cfg Config, d Drawer, n int) *Engine {
	t.Helper()
	e, err := New(d, cfg)
	require.NoError(t, err)
	require.NoError(t, e.Start(questions(n)))
	return e
}

func cardOf(t *testing.T, e *Engine, typ buff.Type) string {
	t.Helper()
	for _, b := range e.State().Hand {
		if b.Type == typ {
			return b.ID
		}
	}
	t.Fatalf("no %s in hand", typ)
	return ""
}

func answer(t *testing.T, e *Engine, s string) AnswerResult {
	t.Helper()
	res, err := e.Answer(s)
	require.NoError(t, err)
	return res
}

func TestNew_RejectsBadSetup(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad := DefaultConfig()
	bad.InitialHand = 9
	_, err = New(newScripted(), bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad = DefaultConfig()
	bad.ComboCap = 0.5
	_, err = New(newScripted(), bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStart(t *testing.T) {
	e, err := New(newScripted(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, NotStarted, e.Phase())

	assert.ErrorIs(t, e.Start(nil), ErrNoQuestions)

	broken := questions(2)
	broken[1].Answer = "Z"
	assert.ErrorIs(t, e.Start(broken), ErrInvalidQuestion)
	assert.Equal(t, NotStarted, e.Phase())

	require.NoError(t, e.Start(questions(3)))
	s := e.State()
	assert.Equal(t, InProgress, s.Phase)
	assert.Len(t, s.Hand, 3)
	assert.Equal(t, 60.0, s.TimeRemaining)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.Combo)
	assert.Zero(t, s.CurrentQuestionIndex)
	assert.False(t, s.GameOver)

	assert.ErrorIs(t, e.Start(questions(3)), ErrInvalidState)
}

func TestQuestionValidate(t *testing.T) {
	ok := []Question{
		{ID: "tf", Type: TrueFalse, Answer: "true", Options: []string{"True", "False"}},
		{ID: "fb", Type: FillBlank, Answer: "apple"},
	}
	for _, q := range ok {
		assert.NoError(t, q.Validate(), q.ID)
	}

	bad := []Question{
		{ID: "empty", Type: FillBlank, Answer: "  "},
		{ID: "missing", Type: MultipleChoice, Answer: "x", Options: []string{"a", "b"}},
		{ID: "kind", Type: "essay", Answer: "x"},
	}
	for _, q := range bad {
		assert.ErrorIs(t, q.Validate(), ErrInvalidQuestion, q.ID)
	}
}

func TestAnswer_BeforeStart(t *testing.T) {
	e, err := New(newScripted(), DefaultConfig())
	require.NoError(t, err)
	_, err = e.Answer("A")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestComboCurve(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1.0, cfg.ComboMultiplier(0))
	assert.Equal(t, 1.0, cfg.ComboMultiplier(1))
	assert.Equal(t, 1.25, cfg.ComboMultiplier(2))
	assert.Equal(t, 1.75, cfg.ComboMultiplier(4))
	assert.Equal(t, 2.0, cfg.ComboMultiplier(5))
	assert.Equal(t, 2.0, cfg.ComboMultiplier(50))
}

func TestCorrectAnswers_ScoreMonotonic(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 10)

	want := []int{100, 125, 150, 175, 200, 200}
	prev := 0
	for i, w := range want {
		res := answer(t, e, "A")
		assert.True(t, res.Correct)
		assert.Equal(t, w, res.ScoreDelta, "answer %d", i)
		assert.Equal(t, i+1, res.Combo)
		s := e.State()
		assert.GreaterOrEqual(t, s.Score, prev)
		prev = s.Score
	}
	assert.Equal(t, 950, e.State().Score)
	assert.Equal(t, 6, e.State().MaxCombo)
}

func TestAnswer_Normalization(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 3)
	assert.True(t, answer(t, e, "  a ").Correct)
	assert.False(t, answer(t, e, "A.").Correct)
}

func TestIncorrectAnswer_ResetsCombo(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 10)
	answer(t, e, "A")
	answer(t, e, "A")
	answer(t, e, "A")
	require.Equal(t, 3, e.State().Combo)

	res := answer(t, e, "B")
	assert.False(t, res.Correct)
	assert.False(t, res.Shielded)
	assert.Zero(t, res.ScoreDelta)
	assert.Zero(t, e.State().Combo)
	assert.Equal(t, 3, e.State().MaxCombo)
	assert.Equal(t, 60.0, e.State().TimeRemaining, "no penalty configured")
}

func TestShieldAbsorbsMiss(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.Shield), 10)

	require.True(t, e.UseCard(cardOf(t, e, buff.Shield)))
	require.Equal(t, 1, e.State().ShieldCharges)

	answer(t, e, "A")
	answer(t, e, "A")
	before := e.State()

	res := answer(t, e, "B")
	assert.True(t, res.Shielded)
	assert.Zero(t, res.ScoreDelta)

	after := e.State()
	assert.Equal(t, before.Combo, after.Combo)
	assert.Equal(t, before.Score, after.Score)
	assert.Zero(t, after.ShieldCharges)
	assert.Equal(t, before.TimeRemaining, after.TimeRemaining)

	answer(t, e, "B")
	assert.Zero(t, e.State().Combo)
}

func TestFortressAddsCharges(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.Fortress), 5)
	require.True(t, e.UseCard(cardOf(t, e, buff.Fortress)))
	assert.Equal(t, 3, e.State().ShieldCharges)
}

func TestUseCard_UnknownOrNotHeld(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 3)
	before := e.State()
	assert.False(t, e.UseCard("missing"))
	assert.Equal(t, before, e.State())

	id := cardOf(t, e, buff.Shield)
	assert.True(t, e.UseCard(id))
	assert.False(t, e.UseCard(id), "a played card leaves the hand")
}

func TestUseCard_ReplenishesHand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialHand = cfg.MaxHandSize
	e := started(t, cfg, newScripted(), 10)

	for i := 0; i < 8; i++ {
		require.True(t, e.UseCard(e.State().Hand[0].ID))
		assert.Len(t, e.State().Hand, cfg.MaxHandSize)
	}

	cfg.InitialHand = 2
	e = started(t, cfg, newScripted(), 10)
	require.True(t, e.UseCard(e.State().Hand[0].ID))
	assert.Len(t, e.State().Hand, 2, "one card out, one card in")
}

func TestHandSizeInvariant_RandomCatalog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartingTime = 100000
	cat := buff.MustDefault(rand.New(rand.NewPCG(11, 12)))
	e := started(t, cfg, cat, 2000)

	for i := 0; i < 500 && !e.State().GameOver; i++ {
		before := len(e.State().Hand)
		if before == 0 {
			break
		}
		require.True(t, e.UseCard(e.State().Hand[0].ID))
		s := e.State()
		assert.LessOrEqual(t, len(s.Hand), cfg.MaxHandSize)
		if !s.GameOver && before == cfg.MaxHandSize {
			assert.Len(t, s.Hand, cfg.MaxHandSize)
		}
		if i%3 == 0 {
			_, _ = e.Answer("A")
		}
	}
}

func TestTimedBuff_RefreshNotStack(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.DoubleScore, buff.DoubleScore), 10)
	first := cardOf(t, e, buff.DoubleScore)
	require.True(t, e.UseCard(first))

	res := answer(t, e, "A")
	assert.Equal(t, 200, res.ScoreDelta, "double score applies")
	require.Len(t, e.State().ActiveBuffs, 1)
	require.Equal(t, 2, e.State().ActiveBuffs[0].RemainingTurns)

	second := cardOf(t, e, buff.DoubleScore)
	require.True(t, e.UseCard(second))

	active := e.State().ActiveBuffs
	require.Len(t, active, 1)
	assert.Equal(t, second, active[0].Buff.ID)
	assert.Equal(t, 3, active[0].RemainingTurns)
}

func TestTimedBuff_Expires(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.DoubleScore), 10)
	require.True(t, e.UseCard(cardOf(t, e, buff.DoubleScore)))

	answer(t, e, "B")
	answer(t, e, "B")
	require.Len(t, e.State().ActiveBuffs, 1)
	answer(t, e, "B")
	assert.Empty(t, e.State().ActiveBuffs)

	assert.Equal(t, 100, answer(t, e, "A").ScoreDelta)
}

func TestScoreMultipliersCompose(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.DoubleScore, buff.HalfScore, buff.GoldenScore), 10)
	require.True(t, e.UseCard(cardOf(t, e, buff.DoubleScore)))
	require.True(t, e.UseCard(cardOf(t, e, buff.HalfScore)))
	require.True(t, e.UseCard(cardOf(t, e, buff.GoldenScore)))

	// 100 * 2 * 0.5 * 3
	assert.Equal(t, 300, answer(t, e, "A").ScoreDelta)
}

func TestHalfScore(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.HalfScore), 10)
	require.True(t, e.UseCard(cardOf(t, e, buff.HalfScore)))
	assert.Equal(t, 50, answer(t, e, "A").ScoreDelta)
}

func TestTimePenalty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissPenalty = 2
	e := started(t, cfg, newScripted(buff.TimePenalty), 10)

	answer(t, e, "B")
	assert.Equal(t, 58.0, e.State().TimeRemaining)

	require.True(t, e.UseCard(cardOf(t, e, buff.TimePenalty)))
	answer(t, e, "B")
	assert.Equal(t, 51.0, e.State().TimeRemaining)

	answer(t, e, "A")
	assert.Equal(t, 51.0, e.State().TimeRemaining, "correct answers cost nothing")
}

func TestTick(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 5)

	e.Tick(10)
	assert.Equal(t, 50.0, e.State().TimeRemaining)
	e.Tick(-5)
	e.Tick(0)
	e.Tick(math.NaN())
	assert.Equal(t, 50.0, e.State().TimeRemaining)

	e.Tick(9999)
	s := e.State()
	assert.True(t, s.GameOver)
	assert.Equal(t, GameOver, s.Phase)
	assert.Equal(t, 0.0, s.TimeRemaining)
}

func TestTick_BeforeStartIsNoop(t *testing.T) {
	e, err := New(newScripted(), DefaultConfig())
	require.NoError(t, err)
	e.Tick(5)
	assert.Equal(t, NotStarted, e.Phase())
}

func TestTimeFreezePausesClock(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.TimeFreeze), 10)
	require.True(t, e.UseCard(cardOf(t, e, buff.TimeFreeze)))

	e.Tick(10)
	assert.Equal(t, 60.0, e.State().TimeRemaining)

	answer(t, e, "A")
	e.Tick(9999)
	assert.False(t, e.State().GameOver)

	answer(t, e, "A")
	e.Tick(10)
	assert.Equal(t, 50.0, e.State().TimeRemaining)
}

func TestExtraTimeIsOneTimeBonus(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.ExtraTime), 10)
	require.True(t, e.UseCard(cardOf(t, e, buff.ExtraTime)))
	assert.Equal(t, 75.0, e.State().TimeRemaining)
	assert.Empty(t, e.State().ActiveBuffs)

	e.Tick(5)
	assert.Equal(t, 70.0, e.State().TimeRemaining)
}

func TestTimeDrainCanEndGame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartingTime = 5
	e := started(t, cfg, newScripted(buff.TimeDrain), 10)

	require.True(t, e.UseCard(cardOf(t, e, buff.TimeDrain)))
	s := e.State()
	assert.True(t, s.GameOver)
	assert.Equal(t, 0.0, s.TimeRemaining)
	assert.Len(t, s.Hand, 2, "no refill after the game ended")
}

func TestSkipQuestion(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.SkipQuestion), 2)
	answer(t, e, "A")

	require.True(t, e.UseCard(cardOf(t, e, buff.SkipQuestion)))
	s := e.State()
	assert.True(t, s.GameOver, "skipping the last question ends the session")
	assert.Equal(t, 1, s.Combo, "skip does not break the combo")
	assert.Equal(t, 60.0, s.TimeRemaining)

	r := e.Result()
	assert.Equal(t, Result{
		FinalScore: 100, CorrectCount: 1, TotalQuestions: 2, MaxCombo: 1,
		AnsweredCount: 1, SkippedCount: 1, Accuracy: 1,
	}, r)
}

func TestLuckyReveal(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.LuckyReveal), 3)
	require.True(t, e.UseCard(cardOf(t, e, buff.LuckyReveal)))

	q, ok := e.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, []string{"A", "D"}, q.Options)
	assert.Equal(t, []string{"B", "C"}, e.State().EliminatedOptions)

	answer(t, e, "A")
	q, _ = e.CurrentQuestion()
	assert.Len(t, q.Options, 4)
	assert.Empty(t, e.State().EliminatedOptions)
}

func TestComboBoostAndBreak(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(buff.ComboBoost, buff.ComboBreak), 10)
	require.True(t, e.UseCard(cardOf(t, e, buff.ComboBoost)))
	assert.Equal(t, 2, e.State().Combo)
	assert.Equal(t, 2, e.State().MaxCombo)

	assert.Equal(t, 150, answer(t, e, "A").ScoreDelta)

	require.True(t, e.UseCard(cardOf(t, e, buff.ComboBreak)))
	assert.Zero(t, e.State().Combo)
	assert.Equal(t, 3, e.State().MaxCombo)
}

func TestComboRewardDrawsCard(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 10)
	require.Len(t, e.State().Hand, 3)

	answer(t, e, "A")
	answer(t, e, "A")
	assert.Len(t, e.State().Hand, 3)
	answer(t, e, "A")
	assert.Len(t, e.State().Hand, 4)
	answer(t, e, "A")
	answer(t, e, "A")
	answer(t, e, "A")
	assert.Len(t, e.State().Hand, 5)
	answer(t, e, "A")
	answer(t, e, "A")
	answer(t, e, "A")
	assert.Len(t, e.State().Hand, 5, "hand stays capped")
}

func TestQuestionsExhausted(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 2)
	assert.False(t, answer(t, e, "A").GameOver)
	res := answer(t, e, "B")
	assert.True(t, res.GameOver)

	_, ok := e.CurrentQuestion()
	assert.False(t, ok)

	r := e.Result()
	assert.Equal(t, 100, r.FinalScore)
	assert.Equal(t, 1, r.CorrectCount)
	assert.Equal(t, 2, r.TotalQuestions)
	assert.Equal(t, 1, r.MaxCombo)
	assert.Equal(t, 0.5, r.Accuracy)
}

func TestResult_BeforeGameOver(t *testing.T) {
	e, err := New(newScripted(), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Result{}, e.Result())

	require.NoError(t, e.Start(questions(4)))
	answer(t, e, "A")
	r := e.Result()
	assert.Equal(t, 100, r.FinalScore)
	assert.Equal(t, 4, r.TotalQuestions)
}

func TestImmutableAfterGameOver(t *testing.T) {
	e := started(t, DefaultConfig(), newScripted(), 1)
	answer(t, e, "A")
	require.True(t, e.State().GameOver)
	before := e.State()

	res, err := e.Answer("A")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.True(t, res.GameOver)
	assert.False(t, e.UseCard(before.Hand[0].ID))
	e.Tick(30)

	assert.Equal(t, before, e.State())
}
