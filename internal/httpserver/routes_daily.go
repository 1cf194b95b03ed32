// internal/httpserver/routes_daily.go
//
// HTTP route for the "deck of the day".
//   - POST /daily/new → start a game whose shuffle is derived from today's
//     UTC date and DAILY_SALT, so every player faces the same board.
//
// The returned session is an ordinary game: it is played through the
// /game/{id} endpoints with its play token. No results are kept.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/memorygame/internal/daily"
)

// dailyReq is the optional body of POST /daily/new.
type dailyReq struct {
	Theme string `json:"theme"`
}

// mountDaily registers the /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
	})
}

// handleDailyNew starts today's deterministic game.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	var req dailyReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	now := s.now()
	s.startSession(w, r, req.Theme, daily.Seed(now, s.opts.DailySalt), daily.DateKey(now))
}
