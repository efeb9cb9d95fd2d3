// internal/content/library.go
//
// SQLite-backed library of imported banks and puzzles.
// Imported items are validated exactly like the built-in pack, stored as a
// JSON body in content_items, and looked up by ID when a session starts.

package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordbuff/internal/db"
)

// Kind is the content_items.kind column.
type Kind string

const (
	KindBank   Kind = "bank"
	KindPuzzle Kind = "puzzle"
)

// Summary is one row of a listing.
type Summary struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Items     int       `json:"items"` // questions or words
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Builtin   bool      `json:"builtin"`
}

// Library persists imported content.
type Library struct {
	db *sql.DB
}

// NewLibrary wraps a migrated database handle.
func NewLibrary(conn *sql.DB) *Library { return &Library{db: conn} }

// SaveBank validates and stores a bank. An empty ID is assigned a UUID.
// owner may be empty.
func (l *Library) SaveBank(ctx context.Context, b Bank, owner string) (Bank, error) {
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}
	if err := b.Validate(); err != nil {
		return Bank{}, err
	}
	if err := l.insert(ctx, KindBank, b.ID, b.Title, len(b.Questions), b, owner); err != nil {
		return Bank{}, err
	}
	return b, nil
}

// SavePuzzle validates and stores a puzzle. An empty ID is assigned a UUID.
func (l *Library) SavePuzzle(ctx context.Context, p Puzzle, owner string) (Puzzle, error) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return Puzzle{}, err
	}
	if err := l.insert(ctx, KindPuzzle, p.ID, p.Title, len(p.Words), p, owner); err != nil {
		return Puzzle{}, err
	}
	return p, nil
}

func (l *Library) insert(ctx context.Context, kind Kind, id, title string, items int, v any, owner string) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", kind, id, err)
	}
	var createdBy any
	if owner != "" {
		createdBy = owner
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO content_items (id, kind, title, items, body, created_by, created_at) VALUES (?,?,?,?,?,?,?)`,
		id, string(kind), title, items, string(body), createdBy, time.Now().UTC().Format(time.RFC3339))
	if db.IsConstraint(err) {
		return fmt.Errorf("%w: %s %q", ErrDuplicate, kind, id)
	}
	if err != nil {
		return fmt.Errorf("insert %s %q: %w", kind, id, err)
	}
	return nil
}

// Bank loads an imported bank.
func (l *Library) Bank(ctx context.Context, id string) (Bank, error) {
	var b Bank
	if err := l.load(ctx, KindBank, id, &b); err != nil {
		return Bank{}, err
	}
	return b, nil
}

// Puzzle loads an imported puzzle.
func (l *Library) Puzzle(ctx context.Context, id string) (Puzzle, error) {
	var p Puzzle
	if err := l.load(ctx, KindPuzzle, id, &p); err != nil {
		return Puzzle{}, err
	}
	return p, nil
}

func (l *Library) load(ctx context.Context, kind Kind, id string, dst any) error {
	var body string
	err := l.db.QueryRowContext(ctx,
		`SELECT body FROM content_items WHERE id=? AND kind=?`, id, string(kind)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
	}
	if err != nil {
		return fmt.Errorf("load %s %q: %w", kind, id, err)
	}
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("decode %s %q: %w", kind, id, err)
	}
	return nil
}

// List returns imported items of a kind, newest first.
func (l *Library) List(ctx context.Context, kind Kind) ([]Summary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, title, items, COALESCE(created_by,''), created_at
		 FROM content_items WHERE kind=? ORDER BY created_at DESC, id LIMIT 200`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		s := Summary{Kind: kind}
		var created string
		if err := rows.Scan(&s.ID, &s.Title, &s.Items, &s.CreatedBy, &created); err != nil {
			return nil, err
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Summaries lists the built-in pack in the same shape as List.
func (p *Pack) Summaries(kind Kind) []Summary {
	out := []Summary{}
	switch kind {
	case KindBank:
		for _, b := range p.banks {
			out = append(out, Summary{ID: b.ID, Kind: kind, Title: b.Title, Items: len(b.Questions), Builtin: true})
		}
	case KindPuzzle:
		for _, z := range p.puzzles {
			out = append(out, Summary{ID: z.ID, Kind: kind, Title: z.Title, Items: len(z.Words), Builtin: true})
		}
	}
	return out
}
