// internal/httpserver/routes_card.go
//
// HTTP routes for the card-buff quiz.
//   - POST /card/new           → start a session on a bank (or today's daily bank)
//   - GET  /card/{id}          → snapshot + current question
//   - POST /card/{id}/use      → play a card from the hand
//   - POST /card/{id}/answer   → answer the current question
//   - GET  /card/{id}/result   → final (or partial) result
//
// Answers never leave the server: questions are sent without their answer.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbuff/internal/buff"
	"github.com/robalobadob/wordbuff/internal/cardgame"
	"github.com/robalobadob/wordbuff/internal/content"
	"github.com/robalobadob/wordbuff/internal/daily"
	"github.com/robalobadob/wordbuff/internal/session"
)

func (s *Server) mountCard(r chi.Router) {
	r.Route("/card", func(r chi.Router) {
		r.Post("/new", s.handleCardNew)
		r.Get("/{id}", s.handleCardGet)
		r.Post("/{id}/use", s.handleCardUse)
		r.Post("/{id}/answer", s.handleCardAnswer)
		r.Get("/{id}/result", s.handleCardResult)
	})
}

// questionView is a Question minus its answer.
type questionView struct {
	ID         string                `json:"id"`
	Type       cardgame.QuestionType `json:"type"`
	Prompt     string                `json:"prompt"`
	Options    []string              `json:"options,omitempty"`
	Difficulty string                `json:"difficulty,omitempty"`
}

// cardView is the common response body for card routes.
type cardView struct {
	SessionID string         `json:"sessionId"`
	Source    string         `json:"source"`
	State     cardgame.State `json:"state"`
	Question  *questionView  `json:"question"`
}

func viewCard(sess *session.Session, e *cardgame.Engine) cardView {
	v := cardView{SessionID: sess.ID, Source: sess.Source, State: e.State()}
	if q, ok := e.CurrentQuestion(); ok {
		v.Question = &questionView{ID: q.ID, Type: q.Type, Prompt: q.Prompt, Options: q.Options, Difficulty: q.Difficulty}
	}
	return v
}

// cardNewReq is the payload for POST /card/new. Both fields are optional:
// no bankId picks a random built-in bank.
type cardNewReq struct {
	BankID string `json:"bankId"`
	Daily  bool   `json:"daily"`
}

func (s *Server) handleCardNew(w http.ResponseWriter, r *http.Request) {
	var req cardNewReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	now := s.clock.Now()
	var (
		bank content.Bank
		cat  *buff.Catalog
		err  error
	)
	if req.Daily {
		var ok bool
		if bank, ok = s.dailyBank(now); !ok {
			writeError(w, http.StatusNotFound, "no_banks")
			return
		}
		cat, err = buff.NewCatalog(s.weights, daily.RNG(now, s.env.DailySalt))
	} else {
		if bank, err = s.findBank(r, req.BankID); err != nil {
			writeError(w, http.StatusNotFound, "bank_not_found")
			return
		}
		cat, err = buff.NewCatalog(s.weights, nil)
	}
	if err != nil {
		log.Error().Err(err).Msg("build buff catalog")
		writeError(w, http.StatusInternalServerError, "catalog_failed")
		return
	}

	e, err := cardgame.New(cat, s.rules.Card)
	if err == nil {
		err = e.Start(bank.Questions)
	}
	if err != nil {
		log.Warn().Err(err).Str("bank", bank.ID).Msg("start card game")
		writeError(w, http.StatusUnprocessableEntity, "bank_unplayable")
		return
	}

	sess := session.NewCard(s.ownerID(w, r), bank.ID, e, s.clock)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", sess.ID).Str("kind", string(sess.Kind)).Str("bank", bank.ID).Bool("daily", req.Daily).Msg("session started")

	var v cardView
	_ = sess.Card(func(e *cardgame.Engine) { v = viewCard(sess, e) })
	writeJSON(w, http.StatusCreated, v)
}

// findBank resolves a bank from the built-in pack first, then the library.
// An empty id picks a random built-in bank.
func (s *Server) findBank(r *http.Request, id string) (content.Bank, error) {
	if id == "" {
		banks := s.pack.Banks()
		if len(banks) == 0 {
			return content.Bank{}, content.ErrNotFound
		}
		return banks[randIndex(len(banks))], nil
	}
	if b, ok := s.pack.Bank(id); ok {
		return b, nil
	}
	return s.lib.Bank(r.Context(), id)
}

func (s *Server) handleCardGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindCard)
	if !ok {
		return
	}
	var v cardView
	_ = sess.Card(func(e *cardgame.Engine) { v = viewCard(sess, e) })
	writeJSON(w, http.StatusOK, v)
}

type useReq struct {
	BuffID string `json:"buffId"`
}

// handleCardUse plays a card. A card that is not in the hand, or a session
// that is not in progress, answers 409 with the unchanged snapshot.
func (s *Server) handleCardUse(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindCard)
	if !ok {
		return
	}
	var req useReq
	if err := decodeBody(w, r, &req); err != nil || req.BuffID == "" {
		writeError(w, http.StatusBadRequest, "buffId_required")
		return
	}

	var (
		used bool
		v    cardView
	)
	_ = sess.Card(func(e *cardgame.Engine) {
		used = e.UseCard(req.BuffID)
		v = viewCard(sess, e)
	})
	status := http.StatusOK
	if !used {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]any{"used": used, "view": v})
}

type answerReq struct {
	Answer string `json:"answer"`
}

type answerRes struct {
	Result cardgame.AnswerResult `json:"result"`
	View   cardView              `json:"view"`
}

func (s *Server) handleCardAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindCard)
	if !ok {
		return
	}
	var req answerReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		res answerRes
		err error
	)
	_ = sess.Card(func(e *cardgame.Engine) {
		res.Result, err = e.Answer(req.Answer)
		res.View = viewCard(sess, e)
	})
	if errors.Is(err, cardgame.ErrInvalidState) {
		writeError(w, http.StatusConflict, "game_over")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCardResult(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, session.KindCard)
	if !ok {
		return
	}
	var (
		res   cardgame.Result
		phase cardgame.Phase
	)
	_ = sess.Card(func(e *cardgame.Engine) {
		res = e.Result()
		phase = e.Phase()
	})
	writeJSON(w, http.StatusOK, map[string]any{"phase": phase, "result": res})
}
