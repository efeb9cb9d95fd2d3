package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordbuff/internal/cardgame"
	"github.com/robalobadob/wordbuff/internal/wordgrid"
)

const tinyDoc = `
banks:
  - id: tiny
    title: Tiny
    questions:
      - {id: q1, type: true_false, prompt: Sky is blue?, answer: "true", options: ["true", "false"]}
puzzles:
  - id: go
    letters: [[G, O], [x, y]]
    words: [{word: go}]
`

func TestLoadEmbedded(t *testing.T) {
	p, err := LoadEmbedded()
	require.NoError(t, err)

	banks, puzzles := p.Stats()
	assert.GreaterOrEqual(t, banks, 2)
	assert.GreaterOrEqual(t, puzzles, 2)

	b, ok := p.Bank("capitals")
	require.True(t, ok)
	assert.NotEmpty(t, b.Questions)

	z, ok := p.Puzzle("critters")
	require.True(t, ok)
	assert.Equal(t, 5, z.Size())

	_, ok = p.Bank("missing")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(tinyDoc))
	require.NoError(t, err)
	require.Len(t, doc.Banks, 1)
	require.Len(t, doc.Puzzles, 1)
	assert.Equal(t, cardgame.TrueFalse, doc.Banks[0].Questions[0].Type)
	assert.Equal(t, 2, doc.Puzzles[0].Size())
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "banks: [",
		"no bank id":      "banks: [{questions: [{id: a, type: fill_blank, answer: x}]}]",
		"empty bank":      "banks: [{id: a}]",
		"bad answer":      "banks: [{id: a, questions: [{id: q, type: multiple_choice, answer: z, options: [a, b]}]}]",
		"no puzzle id":    "puzzles: [{letters: [[A]], words: [{word: A}]}]",
		"ragged grid":     "puzzles: [{id: p, letters: [[A, B], [C]], words: [{word: AB}]}]",
		"digit letter":    "puzzles: [{id: p, letters: [['1']], words: [{word: A}]}]",
		"puzzle no words": "puzzles: [{id: p, letters: [[A]]}]",
	}
	for name, body := range cases {
		_, err := Parse([]byte(body))
		assert.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestNewPack_Duplicates(t *testing.T) {
	doc, err := Parse([]byte(tinyDoc))
	require.NoError(t, err)

	_, err = NewPack(doc, doc)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(tinyDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"),
		[]byte(`{"banks":[{"id":"json","questions":[{"id":"j1","type":"fill_blank","answer":"go"}]}]}`), 0o644))

	p, err := Load(dir)
	require.NoError(t, err)
	banks, puzzles := p.Stats()
	assert.Equal(t, 2, banks)
	assert.Equal(t, 1, puzzles)

	assert.Len(t, p.Summaries(KindBank), 2)
	assert.True(t, p.Summaries(KindPuzzle)[0].Builtin)

	_, err = Load(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestPuzzleDrivesEngine(t *testing.T) {
	p, err := LoadEmbedded()
	require.NoError(t, err)
	z, ok := p.Puzzle("nightfall")
	require.True(t, ok)

	cfg := wordgrid.DefaultConfig()
	cfg.GridSize = z.Size()
	e, err := wordgrid.New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.SetGrid(z.Letters, z.Words))

	// O(2,0) W(2,1) L(1,1)
	e.HandleCellClick(2, 0)
	e.HandleCellClick(2, 1)
	e.HandleCellClick(1, 1)
	res := e.SubmitWord()
	assert.True(t, res.Success)
	assert.True(t, res.IsNew)
	assert.Equal(t, "OWL", res.Word)
}
