// internal/httpserver/routes_grid.go
//
// HTTP routes for the grid word search.
//   - POST /grid/new          → start a round on a puzzle (or today's daily puzzle)
//   - GET  /grid/{id}         → snapshot
//   - POST /grid/{id}/click   → click a cell (extend / undo the path)
//   - POST /grid/{id}/submit  → submit the traced word
//   - POST /grid/{id}/clear   → drop the current path

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbuff/internal/content"
	"github.com/robalobadob/wordbuff/internal/session"
	"github.com/robalobadob/wordbuff/internal/wordgrid"
)

func (s *Server) mountGrid(r chi.Router) {
	r.Route("/grid", func(r chi.Router) {
		r.Post("/new", s.handleGridNew)
		r.Get("/{id}", s.handleGridGet)
		r.Post("/{id}/click", s.handleGridClick)
		r.Post("/{id}/submit", s.handleGridSubmit)
		r.Post("/{id}/clear", s.handleGridClear)
	})
}

// gridView is the common response body for grid routes.
type gridView struct {
	SessionID string         `json:"sessionId"`
	Source    string         `json:"source"`
	State     wordgrid.State `json:"state"`
	Remaining int            `json:"remaining"`
}

func viewGrid(sess *session.Session, e *wordgrid.Engine) gridView {
	return gridView{SessionID: sess.ID, Source: sess.Source, State: e.State(), Remaining: e.Remaining()}
}

type gridNewReq struct {
	PuzzleID string `json:"puzzleId"`
	Daily    bool   `json:"daily"`
}

func (s *Server) handleGridNew(w http.ResponseWriter, r *http.Request) {
	var req gridNewReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		p   content.Puzzle
		err error
	)
	if req.Daily {
		var ok bool
		if p, ok = s.dailyPuzzle(s.clock.Now()); !ok {
			writeError(w, http.StatusNotFound, "no_puzzles")
			return
		}
	} else if p, err = s.findPuzzle(r, req.PuzzleID); err != nil {
		writeError(w, http.StatusNotFound, "puzzle_not_found")
		return
	}

	// Rules fix the timer and ending policy. The board size always comes
	// from the puzzle; rules files cannot set it.
	cfg := s.rules.Grid
	cfg.GridSize = p.Size()
	e, err := wordgrid.New(cfg)
	if err == nil {
		err = e.SetGrid(p.Letters, p.Words)
	}
	if err != nil {
		log.Warn().Err(err).Str("puzzle", p.ID).Msg("start grid game")
		writeError(w, http.StatusUnprocessableEntity, "puzzle_unplayable")
		return
	}

	sess := session.NewGrid(s.ownerID(w, r), p.ID, e, s.clock)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", sess.ID).Str("kind", string(sess.Kind)).Str("puzzle", p.ID).Bool("daily", req.Daily).Msg("session started")

	var v gridView
	_ = sess.Grid(func(e *wordgrid.Engine) { v = viewGrid(sess, e) })
	writeJSON(w, http.StatusCreated, v)
}

// findPuzzle resolves a puzzle from the built-in pack first, then the library.
// An empty id picks a random built-in puzzle.
func (s *Server) findPuzzle(r *http.Request, id string) (content.Puzzle, error) {
	if id == "" {
		puzzles := s.pack.Puzzles()
		if len(puzzles) == 0 {
			return content.Puzzle{}, content.ErrNotFound
		}
		return puzzles[randIndex(len(puzzles))], nil
	}
	if p, ok := s.pack.Puzzle(id); ok {
		return p, nil
	}
	return s.lib.Puzzle(r.Context(), id)
}

func (s *Server) handleGridGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindGrid)
	if !ok {
		return
	}
	var v gridView
	_ = sess.Grid(func(e *wordgrid.Engine) { v = viewGrid(sess, e) })
	writeJSON(w, http.StatusOK, v)
}

type clickReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// handleGridClick forwards a click. Clicks the engine ignores (out of
// bounds, not adjacent, round over) still answer 200 with the snapshot.
func (s *Server) handleGridClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindGrid)
	if !ok {
		return
	}
	var req clickReq
	if err := decodeBody(w, r, &req); err != nil || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "row_and_col_required")
		return
	}
	var v gridView
	_ = sess.Grid(func(e *wordgrid.Engine) {
		e.HandleCellClick(*req.Row, *req.Col)
		v = viewGrid(sess, e)
	})
	writeJSON(w, http.StatusOK, v)
}

type submitRes struct {
	Result wordgrid.SubmitResult `json:"result"`
	View   gridView              `json:"view"`
}

func (s *Server) handleGridSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindGrid)
	if !ok {
		return
	}
	var res submitRes
	_ = sess.Grid(func(e *wordgrid.Engine) {
		res.Result = e.SubmitWord()
		res.View = viewGrid(sess, e)
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGridClear(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindGrid)
	if !ok {
		return
	}
	var v gridView
	_ = sess.Grid(func(e *wordgrid.Engine) {
		e.ClearPath()
		v = viewGrid(sess, e)
	})
	writeJSON(w, http.StatusOK, v)
}
