// internal/wordgrid/engine.go
//
// Grid word-search engine for a single timed round.
// Responsibilities:
//   - Hold an n×n letter grid and the target word list.
//   - Build a path one click at a time: clicking the last cell undoes it,
//     cells already on the path are ignored, and every new cell must touch
//     the previous one (including diagonals).
//   - Validate submitted paths against the word list and score discoveries.
//   - Count the round down and end it at zero.
//
// Notes:
//   - The ordered path is the only selection state; Cell.Selected and
//     Cell.InPath are derived from it when a snapshot is taken.
//   - The engine never searches the grid for solutions. Reachability of the
//     target words is the content generator's responsibility.
//   - The engine holds no locks; the host serialises calls.
package wordgrid

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length bonuses added on top of 10 points per letter.
const (
	PointsPerLetter = 10
	BonusLen4       = 10
	BonusLen5       = 20
	BonusLen6Plus   = 30
)

// Engine runs one word-search round. Create with New, then SetGrid.
type Engine struct {
	cfg Config

	letters       [][]string
	words         []Word
	path          []Coord
	found         []string
	score         int
	timeRemaining float64
	over          bool
	ready         bool
}

// New constructs an engine waiting for a grid.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// SetGrid loads letters and target words and starts a fresh round.
//
// letters must be exactly GridSize×GridSize with one letter per cell; letters
// and words are upper-cased. Any previous round state is discarded.
func (e *Engine) SetGrid(letters [][]string, words []Word) error {
	n := e.cfg.GridSize
	if len(letters) != n {
		return fmt.Errorf("%w: got %d rows, want %d", ErrGridSize, len(letters), n)
	}
	grid := make([][]string, n)
	for r, row := range letters {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrGridSize, r, len(row), n)
		}
		grid[r] = make([]string, n)
		for c, cell := range row {
			l := strings.ToUpper(strings.TrimSpace(cell))
			if utf8.RuneCountInString(l) != 1 || !unicode.IsLetter([]rune(l)[0]) {
				return fmt.Errorf("%w: (%d,%d) = %q", ErrBadLetter, r, c, cell)
			}
			grid[r][c] = l
		}
	}

	if len(words) == 0 {
		return ErrNoWords
	}
	targets := make([]Word, 0, len(words))
	for i, w := range words {
		up := strings.ToUpper(strings.TrimSpace(w.Word))
		if up == "" {
			return fmt.Errorf("%w: word %d is blank", ErrNoWords, i)
		}
		targets = append(targets, Word{Word: up, Hint: w.Hint})
	}

	e.letters = grid
	e.words = targets
	e.path = nil
	e.found = nil
	e.score = 0
	e.timeRemaining = e.cfg.Duration
	e.over = false
	e.ready = true
	return nil
}

// HandleCellClick extends or trims the current path.
//
//   - the last cell of the path: removed (undo).
//   - any other cell already on the path: ignored.
//   - a cell not adjacent to the last one: ignored.
//   - otherwise: appended.
//
// Out-of-bounds clicks, and any click before SetGrid or after the round
// ended, are ignored.
func (e *Engine) HandleCellClick(row, col int) {
	if !e.live() || !e.inBounds(row, col) {
		return
	}
	at := Coord{Row: row, Col: col}
	if n := len(e.path); n > 0 {
		if e.path[n-1] == at {
			e.path = e.path[:n-1]
			return
		}
		if e.onPath(at) || !e.path[n-1].Adjacent(at) {
			return
		}
	}
	e.path = append(e.path, at)
}

// ClearPath drops the current path without submitting it.
func (e *Engine) ClearPath() {
	if !e.live() {
		return
	}
	e.path = nil
}

// SubmitWord checks the word spelled by the current path.
//
// An unknown word clears the path and fails. A known word that was already
// found clears the path and succeeds without points. A new word is recorded,
// scored and the path cleared. An empty path, or a round that is not live,
// changes nothing.
func (e *Engine) SubmitWord() SubmitResult {
	if !e.live() || len(e.path) == 0 {
		return SubmitResult{}
	}
	word := e.pathWord()
	e.path = nil

	if !e.isTarget(word) {
		return SubmitResult{Success: false, Word: word}
	}
	if e.isFound(word) {
		return SubmitResult{Success: true, Word: word}
	}

	e.found = append(e.found, word)
	for i := range e.words {
		if e.words[i].Word == word {
			e.words[i].Found = true
		}
	}
	pts := Points(word)
	e.score += pts

	if e.cfg.EndWhenAllFound && e.Remaining() == 0 {
		e.over = true
	}
	return SubmitResult{Success: true, Word: word, IsNew: true, Points: pts}
}

// UpdateTimer counts the round down by deltaSeconds, clamped at zero.
// Non-positive deltas are ignored.
func (e *Engine) UpdateTimer(deltaSeconds float64) {
	if !e.live() || !(deltaSeconds > 0) {
		return
	}
	e.timeRemaining = math.Max(0, e.timeRemaining-deltaSeconds)
	if e.timeRemaining == 0 {
		e.over = true
	}
}

// Remaining counts target words not yet found.
func (e *Engine) Remaining() int {
	n := 0
	for _, w := range e.words {
		if !w.Found {
			n++
		}
	}
	return n
}

// GameOver reports whether the round has ended.
func (e *Engine) GameOver() bool { return e.over }

// State returns a snapshot of the round with presentation flags derived from
// the current path.
func (e *Engine) State() State {
	grid := make([][]Cell, len(e.letters))
	for r, row := range e.letters {
		grid[r] = make([]Cell, len(row))
		for c, l := range row {
			grid[r][c] = Cell{Letter: l, Row: r, Col: c}
		}
	}
	for i, p := range e.path {
		grid[p.Row][p.Col].InPath = true
		if i == len(e.path)-1 {
			grid[p.Row][p.Col].Selected = true
		}
	}
	return State{
		Grid:          grid,
		CurrentPath:   append([]Coord{}, e.path...),
		CurrentWord:   e.pathWord(),
		FoundWords:    append([]string{}, e.found...),
		Words:         append([]Word{}, e.words...),
		Score:         e.score,
		TimeRemaining: e.timeRemaining,
		GameOver:      e.over,
		Ready:         e.ready,
	}
}

// Points scores a word: 10 per letter plus a stepped length bonus
// (+10 at 4 letters, +20 at 5, +30 at 6 or more).
func Points(word string) int {
	n := utf8.RuneCountInString(word)
	pts := n * PointsPerLetter
	switch {
	case n >= 6:
		pts += BonusLen6Plus
	case n == 5:
		pts += BonusLen5
	case n == 4:
		pts += BonusLen4
	}
	return pts
}

// ----------------------------------------------------------------------------
// internals

func (e *Engine) live() bool { return e.ready && !e.over }

func (e *Engine) inBounds(row, col int) bool {
	n := len(e.letters)
	return row >= 0 && row < n && col >= 0 && col < n
}

func (e *Engine) onPath(at Coord) bool {
	for _, p := range e.path {
		if p == at {
			return true
		}
	}
	return false
}

func (e *Engine) pathWord() string {
	var b strings.Builder
	for _, p := range e.path {
		b.WriteString(e.letters[p.Row][p.Col])
	}
	return b.String()
}

func (e *Engine) isTarget(word string) bool {
	for _, w := range e.words {
		if w.Word == word {
			return true
		}
	}
	return false
}

func (e *Engine) isFound(word string) bool {
	for _, f := range e.found {
		if f == word {
			return true
		}
	}
	return false
}
