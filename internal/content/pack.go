// internal/content/pack.go
//
// Question banks and grid puzzles supplied to the engines.
//
// Responsibilities:
//   - Parse YAML (or JSON, which YAML accepts) content documents.
//   - Validate content against the engines' contracts before a session is
//     ever started on it.
//   - Load the built-in pack from a directory (CONTENT_DIR) or, when none is
//     configured, from the embedded defaults in package assets.
//
// Document shape:
//
//	banks:
//	  - id: capitals
//	    title: World capitals
//	    questions: [{id, type, prompt, answer, options, difficulty}, ...]
//	puzzles:
//	  - id: nightfall
//	    letters: [[S, T, A, R, E], ...]
//	    words: [{word, hint}, ...]

package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordbuff/assets"
	"github.com/robalobadob/wordbuff/internal/cardgame"
	"github.com/robalobadob/wordbuff/internal/wordgrid"
)

// Bank is a named list of quiz questions.
type Bank struct {
	ID        string              `json:"id" yaml:"id"`
	Title     string              `json:"title" yaml:"title"`
	Questions []cardgame.Question `json:"questions" yaml:"questions"`
}

// Puzzle is a square letter grid with its target words.
type Puzzle struct {
	ID      string          `json:"id" yaml:"id"`
	Title   string          `json:"title" yaml:"title"`
	Letters [][]string      `json:"letters" yaml:"letters"`
	Words   []wordgrid.Word `json:"words" yaml:"words"`
}

// Document is one content file.
type Document struct {
	Banks   []Bank   `yaml:"banks"`
	Puzzles []Puzzle `yaml:"puzzles"`
}

var (
	ErrInvalid   = errors.New("content: invalid")
	ErrDuplicate = errors.New("content: duplicate id")
	ErrNotFound  = errors.New("content: not found")
)

// Validate checks a bank the same way cardgame.Engine.Start will.
func (b Bank) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: bank without id", ErrInvalid)
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %q: %w", ErrInvalid, b.ID, cardgame.ErrNoQuestions)
	}
	for _, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: bank %q: %w", ErrInvalid, b.ID, err)
		}
	}
	return nil
}

// Size is the puzzle's grid dimension.
func (p Puzzle) Size() int { return len(p.Letters) }

// Validate checks a puzzle by loading it into a throwaway engine.
func (p Puzzle) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: puzzle without id", ErrInvalid)
	}
	cfg := wordgrid.DefaultConfig()
	cfg.GridSize = p.Size()
	e, err := wordgrid.New(cfg)
	if err != nil {
		return fmt.Errorf("%w: puzzle %q: %w", ErrInvalid, p.ID, err)
	}
	if err := e.SetGrid(p.Letters, p.Words); err != nil {
		return fmt.Errorf("%w: puzzle %q: %w", ErrInvalid, p.ID, err)
	}
	return nil
}

// Parse decodes and validates a content document.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for _, b := range doc.Banks {
		if err := b.Validate(); err != nil {
			return Document{}, err
		}
	}
	for _, p := range doc.Puzzles {
		if err := p.Validate(); err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

// Pack is an immutable, indexed set of banks and puzzles.
type Pack struct {
	banks   []Bank
	puzzles []Puzzle
	bankIdx map[string]int
	puzIdx  map[string]int
}

// NewPack indexes documents, rejecting duplicate IDs across them.
func NewPack(docs ...Document) (*Pack, error) {
	p := &Pack{bankIdx: map[string]int{}, puzIdx: map[string]int{}}
	for _, d := range docs {
		for _, b := range d.Banks {
			if _, dup := p.bankIdx[b.ID]; dup {
				return nil, fmt.Errorf("%w: bank %q", ErrDuplicate, b.ID)
			}
			p.bankIdx[b.ID] = len(p.banks)
			p.banks = append(p.banks, b)
		}
		for _, z := range d.Puzzles {
			if _, dup := p.puzIdx[z.ID]; dup {
				return nil, fmt.Errorf("%w: puzzle %q", ErrDuplicate, z.ID)
			}
			p.puzIdx[z.ID] = len(p.puzzles)
			p.puzzles = append(p.puzzles, z)
		}
	}
	return p, nil
}

// LoadEmbedded builds the pack from the files compiled into package assets.
func LoadEmbedded() (*Pack, error) {
	names, err := assets.ContentFiles()
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, n := range names {
		b, err := assets.ReadContent(n)
		if err != nil {
			return nil, err
		}
		d, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n, err)
		}
		docs = append(docs, d)
	}
	return NewPack(docs...)
}

// LoadDir builds the pack from every *.yaml / *.yml / *.json file in dir.
func LoadDir(dir string) (*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var docs []Document
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		d, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		docs = append(docs, d)
	}
	return NewPack(docs...)
}

// Load picks LoadDir when dir is set, otherwise the embedded defaults.
func Load(dir string) (*Pack, error) {
	if dir != "" {
		return LoadDir(dir)
	}
	return LoadEmbedded()
}

// Banks returns the banks in load order.
func (p *Pack) Banks() []Bank { return append([]Bank(nil), p.banks...) }

// Puzzles returns the puzzles in load order.
func (p *Pack) Puzzles() []Puzzle { return append([]Puzzle(nil), p.puzzles...) }

// Bank looks up a bank by ID.
func (p *Pack) Bank(id string) (Bank, bool) {
	i, ok := p.bankIdx[id]
	if !ok {
		return Bank{}, false
	}
	return p.banks[i], true
}

// Puzzle looks up a puzzle by ID.
func (p *Pack) Puzzle(id string) (Puzzle, bool) {
	i, ok := p.puzIdx[id]
	if !ok {
		return Puzzle{}, false
	}
	return p.puzzles[i], true
}

// Stats returns counts of loaded content: (banks, puzzles).
func (p *Pack) Stats() (banks int, puzzles int) {
	return len(p.banks), len(p.puzzles)
}
