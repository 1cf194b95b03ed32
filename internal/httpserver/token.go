// internal/httpserver/token.go
//
// Play tokens: an HS256 JWT naming the one game its holder may drive.
// Issued by /game/new and /daily/new, sent back as "Authorization: Bearer".

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/memorygame/internal/store"
)

// playClaims binds a token to a game ID.
type playClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

// signPlayToken creates a token for gameID expiring after TokenTTL.
func (s *Server) signPlayToken(gameID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, playClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(s.secret())
	return ss, exp, err
}

// parsePlayToken verifies tok and returns the game it grants.
func (s *Server) parsePlayToken(tok string) (string, error) {
	claims := &playClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.GameID == "" {
		return "", errors.New("invalid play token")
	}
	return claims.GameID, nil
}

func (s *Server) secret() []byte {
	if s.opts.JWTSecret == "" {
		return []byte("dev_secret_change_me")
	}
	return []byte(s.opts.JWTSecret)
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ctxSessionKey is the context key type for the authorized session.
type ctxSessionKey struct{}

// requirePlayToken enforces a valid token for the {id} in the path and
// injects the session into the request context.
func (s *Server) requirePlayToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		tok := bearer(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		gid, err := s.parsePlayToken(tok)
		if err != nil || gid != id {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		sess, err := s.store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found")
				return
			}
			writeError(w, http.StatusInternalServerError, "store_failed")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session placed by requirePlayToken.
func sessionFrom(ctx context.Context) *store.Session {
	sess, _ := ctx.Value(ctxSessionKey{}).(*store.Session)
	return sess
}
