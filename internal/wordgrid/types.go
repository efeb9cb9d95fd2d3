// internal/wordgrid/types.go
//
// Core type definitions for the grid word-search engine.
// Defines:
//   - Coord: a cell position.
//   - Cell:  a letter plus presentation flags derived from the current path.
//   - Word:  a target word with its hint and discovery flag.
//   - Config, State, SubmitResult.

package wordgrid

import (
	"errors"
	"fmt"
)

// Coord addresses a grid cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Adjacent reports whether c and o are 8-directional neighbours
// (Chebyshev distance exactly 1).
func (c Coord) Adjacent(o Coord) bool {
	dr, dc := abs(c.Row-o.Row), abs(c.Col-o.Col)
	return max(dr, dc) == 1
}

// Cell is one grid square as shown to the player. Selected marks the last
// cell of the current path; InPath marks every cell on it.
type Cell struct {
	Letter   string `json:"letter"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Selected bool   `json:"selected"`
	InPath   bool   `json:"inPath"`
}

// Word is a target word supplied by the content layer.
type Word struct {
	Word  string `json:"word" yaml:"word"`
	Hint  string `json:"hint" yaml:"hint"`
	Found bool   `json:"found" yaml:"-"`
}

// Config holds the grid rules. GridSize is set by the host from the board
// being played, so it has no YAML key.
type Config struct {
	GridSize int     `json:"gridSize" yaml:"-"`
	Duration float64 `json:"duration" yaml:"duration"` // seconds on the clock after SetGrid
	// EndWhenAllFound ends the round as soon as every word is found instead of
	// waiting for the timer.
	EndWhenAllFound bool `json:"endWhenAllFound" yaml:"end_when_all_found"`
}

// DefaultConfig returns a 5x5 grid, three minutes, timeout-only ending.
func DefaultConfig() Config {
	return Config{GridSize: 5, Duration: 180}
}

// Validate rejects rule sets the engine cannot run.
func (c Config) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("%w: grid size must be positive", ErrInvalidConfig)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	}
	return nil
}

// State is a snapshot of a round. Slices are copies.
type State struct {
	Grid          [][]Cell `json:"grid"`
	CurrentPath   []Coord  `json:"currentPath"`
	CurrentWord   string   `json:"currentWord"`
	FoundWords    []string `json:"foundWords"`
	Words         []Word   `json:"words"`
	Score         int      `json:"score"`
	TimeRemaining float64  `json:"timeRemaining"`
	GameOver      bool     `json:"isGameOver"`
	Ready         bool     `json:"ready"`
}

// SubmitResult reports the outcome of a word submission.
type SubmitResult struct {
	Success bool   `json:"success"`
	Word    string `json:"word"`
	IsNew   bool   `json:"isNew"`
	Points  int    `json:"points"`
}

var (
	ErrInvalidConfig = errors.New("wordgrid: invalid config")
	ErrGridSize      = errors.New("wordgrid: grid dimensions mismatch")
	ErrBadLetter     = errors.New("wordgrid: cell must hold a single letter")
	ErrNoWords       = errors.New("wordgrid: word list is empty")
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
