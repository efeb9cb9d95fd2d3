// internal/httpserver/routes_content.go
//
// Content library routes.
//   - GET  /content/banks     → built-in + imported banks
//   - POST /content/banks     → import one bank (auth)
//   - GET  /content/puzzles   → built-in + imported puzzles
//   - POST /content/puzzles   → import one puzzle (auth)
//
// Import bodies are YAML or JSON (YAML is a superset) in the same shape as
// one entry of a content file.

package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordbuff/internal/content"
)

const maxImportBytes = 1 << 20

func (s *Server) mountContent(r chi.Router) {
	r.Route("/content", func(r chi.Router) {
		r.Get("/banks", s.listContent(content.KindBank))
		r.Get("/puzzles", s.listContent(content.KindPuzzle))
		r.With(s.requireAuth()).Post("/banks", s.handleImportBank)
		r.With(s.requireAuth()).Post("/puzzles", s.handleImportPuzzle)
	})
}

// listContent merges the built-in pack with the imported library.
func (s *Server) listContent(kind content.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := s.pack.Summaries(kind)
		imported, err := s.lib.List(r.Context(), kind)
		if err != nil {
			log.Error().Err(err).Str("kind", string(kind)).Msg("list content")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		writeJSON(w, http.StatusOK, append(out, imported...))
	}
}

func (s *Server) handleImportBank(w http.ResponseWriter, r *http.Request) {
	var b content.Bank
	if err := readYAML(w, r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "bad_body")
		return
	}
	if _, builtin := s.pack.Bank(b.ID); builtin {
		writeError(w, http.StatusConflict, "duplicate_id")
		return
	}
	me := userFrom(r.Context())
	saved, err := s.lib.SaveBank(r.Context(), b, me.ID)
	if err != nil {
		s.importFailed(w, err)
		return
	}
	log.Info().Str("bank", saved.ID).Str("user", me.ID).Int("questions", len(saved.Questions)).Msg("bank imported")
	writeJSON(w, http.StatusCreated, content.Summary{
		ID: saved.ID, Kind: content.KindBank, Title: saved.Title, Items: len(saved.Questions), CreatedBy: me.ID,
	})
}

func (s *Server) handleImportPuzzle(w http.ResponseWriter, r *http.Request) {
	var p content.Puzzle
	if err := readYAML(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_body")
		return
	}
	if _, builtin := s.pack.Puzzle(p.ID); builtin {
		writeError(w, http.StatusConflict, "duplicate_id")
		return
	}
	me := userFrom(r.Context())
	saved, err := s.lib.SavePuzzle(r.Context(), p, me.ID)
	if err != nil {
		s.importFailed(w, err)
		return
	}
	log.Info().Str("puzzle", saved.ID).Str("user", me.ID).Int("words", len(saved.Words)).Msg("puzzle imported")
	writeJSON(w, http.StatusCreated, content.Summary{
		ID: saved.ID, Kind: content.KindPuzzle, Title: saved.Title, Items: len(saved.Words), CreatedBy: me.ID,
	})
}

// importFailed maps library errors to responses.
func (s *Server) importFailed(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, content.ErrDuplicate):
		writeError(w, http.StatusConflict, "duplicate_id")
	default:
		log.Error().Err(err).Msg("import content")
		writeError(w, http.StatusInternalServerError, "db_error")
	}
}

// readYAML decodes a size-limited YAML/JSON body.
func readYAML(w http.ResponseWriter, r *http.Request, dst any) error {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return errors.New("empty body")
	}
	return yaml.Unmarshal(b, dst)
}
