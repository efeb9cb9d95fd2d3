// internal/httpserver/routes_daily.go
//
// Daily challenge selection.
//   - GET /daily → today's date key, bank and puzzle.
//
// Every player gets the same built-in bank, puzzle and buff draws on a given
// UTC day. Start a daily session with {"daily": true} on /card/new or
// /grid/new. Selection is derived from date + DAILY_SALT.

package httpserver

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordbuff/internal/content"
	"github.com/robalobadob/wordbuff/internal/daily"
)

// mountDaily registers the /daily route.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

// dailyRes is returned by GET /daily.
type dailyRes struct {
	Date        string `json:"date"`
	BankID      string `json:"bankId,omitempty"`
	BankTitle   string `json:"bankTitle,omitempty"`
	PuzzleID    string `json:"puzzleId,omitempty"`
	PuzzleTitle string `json:"puzzleTitle,omitempty"`
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	res := dailyRes{Date: daily.DateKey(now)}
	if b, ok := s.dailyBank(now); ok {
		res.BankID, res.BankTitle = b.ID, b.Title
	}
	if p, ok := s.dailyPuzzle(now); ok {
		res.PuzzleID, res.PuzzleTitle = p.ID, p.Title
	}
	writeJSON(w, http.StatusOK, res)
}

// dailyBank picks today's bank from the built-in pack.
func (s *Server) dailyBank(now time.Time) (content.Bank, bool) {
	banks := s.pack.Banks()
	if len(banks) == 0 {
		return content.Bank{}, false
	}
	return banks[daily.Index(now, s.env.DailySalt+"|bank", len(banks))], true
}

// dailyPuzzle picks today's puzzle from the built-in pack.
func (s *Server) dailyPuzzle(now time.Time) (content.Puzzle, bool) {
	puzzles := s.pack.Puzzles()
	if len(puzzles) == 0 {
		return content.Puzzle{}, false
	}
	return puzzles[daily.Index(now, s.env.DailySalt+"|puzzle", len(puzzles))], true
}

// randIndex picks a free-play index in [0, n).
func randIndex(n int) int { return rand.IntN(n) }
