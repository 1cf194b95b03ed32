// internal/httpserver/server.go
//
// HTTP shell for the memory game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/themes".
//   - Game creation: POST /game/new, POST /daily/new (returns a play token).
//   - Per-game endpoints (play token required): GET /game/{id},
//     POST /game/{id}/click, POST /game/{id}/tick, POST /game/{id}/quit.
//   - Localized labels chosen from Accept-Language.
//   - Lifecycle events (started/attempt/completed/quit), best effort.
//
// Notes:
//   - The shell only translates HTTP into frame events; all game rules
//     live in internal/game.
//   - Sessions are in memory and swept when idle. Nothing is persisted.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorygame/internal/events"
	"github.com/robalobadob/memorygame/internal/frame"
	"github.com/robalobadob/memorygame/internal/game"
	"github.com/robalobadob/memorygame/internal/i18n"
	"github.com/robalobadob/memorygame/internal/store"
	"github.com/robalobadob/memorygame/internal/themes"
)

// Options carries the settings the shell reads from config.
type Options struct {
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	DailySalt    string
	Theme        string // default theme
	Locale       string // used when Accept-Language is absent
}

// Server bundles router, session store, themes and the event sink.
type Server struct {
	r      *chi.Mux
	store  store.Store
	themes *themes.Registry
	events events.Publisher
	opts   Options
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, reg *themes.Registry, pub events.Publisher, opts Options) *Server {
	if pub == nil {
		pub = events.Nop{}
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 2 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), store: st, themes: reg, events: pub, opts: opts, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"memorygame","endpoints":["/health","/themes","POST /game/new","POST /daily/new","/game/{id}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/themes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"default": s.defaultTheme(), "themes": s.themes.Names()})
	})

	s.r.Post("/game/new", s.handleNewGame)
	s.mountDaily(s.r)

	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requirePlayToken)
		r.Get("/", s.handleState)
		r.Post("/click", s.handleClick)
		r.Post("/tick", s.handleTick)
		r.Post("/quit", s.handleQuit)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Sweep drops sessions idle for longer than idle, every interval,
// until ctx is done.
func (s *Server) Sweep(ctx context.Context, idle, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Sweep(ctx, s.now().Add(-idle)); n > 0 {
				log.Info().Int("removed", n).Int("live", s.store.Len()).Msg("swept idle sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.opts.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes a debug line per request with status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the optional body of POST /game/new.
type newGameReq struct {
	Theme string `json:"theme"`
	Seed  *int64 `json:"seed"` // fixed shuffle (testing, replays)
}

// stateRes is the frame returned by every game endpoint.
type stateRes struct {
	GameID string        `json:"gameId"`
	Theme  string        `json:"theme"`
	Daily  string        `json:"daily,omitempty"`
	State  game.Snapshot `json:"state"`
	Labels i18n.View     `json:"labels"`
	Done   bool          `json:"done"`
}

// newGameRes adds the play token to the first frame.
type newGameRes struct {
	stateRes
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleNewGame deals a random (or seeded) board and returns its play token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	seed := game.RandomSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	s.startSession(w, r, req.Theme, seed, "")
}

// startSession creates, stores and announces a new game.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, theme string, seed int64, dailyKey string) {
	if theme == "" {
		theme = s.defaultTheme()
	}
	faces, err := s.themes.Get(theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_theme")
		return
	}
	deck, err := game.NewDeck(faces, game.NewRand(seed))
	if err != nil {
		log.Error().Err(err).Str("theme", theme).Msg("build deck")
		writeError(w, http.StatusInternalServerError, "deck_failed")
		return
	}
	clk := game.SystemClock{}
	st, err := game.New(deck, game.WithClock(clk))
	if err != nil {
		log.Error().Err(err).Str("theme", theme).Msg("new game")
		writeError(w, http.StatusInternalServerError, "deck_failed")
		return
	}

	sess := &store.Session{
		ID:    uuid.NewString(),
		Theme: theme,
		Daily: dailyKey,
		Loop:  frame.New(st, clk),
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signPlayToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign play token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}

	snap := sess.Loop.Snapshot()
	s.publish(r.Context(), sess, events.KindStarted, snap)
	log.Info().Str("gameId", sess.ID).Str("theme", theme).Str("daily", dailyKey).Msg("game started")

	writeJSON(w, http.StatusOK, newGameRes{
		stateRes:  s.frame(r, sess, snap),
		Token:     tok,
		ExpiresAt: exp,
	})
}

// handleState returns the current frame.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, s.frame(r, sess, sess.Loop.Snapshot()))
}

// clickReq is the body of POST /game/{id}/click.
type clickReq struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// handleClick feeds a pointer-down event. Clicks that hit nothing, or
// arrive while a pair is pending, still return 200 with an unchanged board.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.step(w, r, frame.PointerDown{X: req.X, Y: req.Y})
}

// tickReq is the body of POST /game/{id}/tick.
type tickReq struct {
	DeltaMs int64 `json:"deltaMs"`
}

// handleTick advances the flip animation by one frame.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.step(w, r, frame.Tick{Delta: time.Duration(req.DeltaMs) * time.Millisecond})
}

// step applies ev and publishes whatever progress it caused.
func (s *Server) step(w http.ResponseWriter, r *http.Request, ev frame.Event) {
	sess := sessionFrom(r.Context())
	before := sess.Loop.Snapshot()
	sess.Loop.Apply(ev)
	after := sess.Loop.Snapshot()

	if after.Attempts > before.Attempts {
		s.publish(r.Context(), sess, events.KindAttempt, after)
	}
	if after.Complete && !before.Complete {
		sum := sess.Loop.Summary()
		log.Info().Str("gameId", sess.ID).Int("attempts", sum.Attempts).Dur("total", sum.Total).Msg("game complete")
		s.publish(r.Context(), sess, events.KindCompleted, after)
	}
	writeJSON(w, http.StatusOK, s.frame(r, sess, after))
}

// handleQuit ends the game and forgets the session.
func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Loop.Apply(frame.Quit{})
	snap := sess.Loop.Snapshot()
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("delete session")
	}
	s.publish(r.Context(), sess, events.KindQuit, snap)
	log.Info().Str("gameId", sess.ID).Int("attempts", snap.Attempts).Msg("game quit")

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "summary": sess.Loop.Summary()})
}

// frame assembles the response for one snapshot.
func (s *Server) frame(r *http.Request, sess *store.Session, snap game.Snapshot) stateRes {
	return stateRes{
		GameID: sess.ID,
		Theme:  sess.Theme,
		Daily:  sess.Daily,
		State:  snap,
		Labels: s.labels(r).Frame(snap, sess.Loop.Summary()),
		Done:   sess.Loop.Done(),
	}
}

// labels negotiates the response locale.
func (s *Server) labels(r *http.Request) i18n.Labels {
	if al := r.Header.Get("Accept-Language"); al != "" {
		return i18n.For(al)
	}
	return i18n.For(s.opts.Locale)
}

func (s *Server) defaultTheme() string {
	if s.opts.Theme != "" {
		return s.opts.Theme
	}
	return themes.DefaultName
}

// publish sends a lifecycle event; failures are only logged.
func (s *Server) publish(ctx context.Context, sess *store.Session, kind events.Kind, snap game.Snapshot) {
	err := s.events.Publish(ctx, events.Event{
		Kind:         kind,
		GameID:       sess.ID,
		Theme:        sess.Theme,
		Daily:        sess.Daily,
		Attempts:     snap.Attempts,
		MatchedPairs: snap.MatchedPairs,
		ElapsedMs:    snap.ElapsedMs,
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Str("kind", string(kind)).Msg("publish event")
	}
}

// ------------------------------- util --------------------------------------

// decodeOptional decodes a JSON body, treating an empty body as {}.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
