// internal/httpserver/session.go
//
// Session binding for the HTTP adapter.
// Responsibilities:
//   - Sign an HS256 token naming one game session (cookie + bearer echo).
//   - requireSession: resolve the token to a store.Session in the request
//     context, answering 401 (missing/invalid) or 404 (expired/unknown).

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/wordgrid/internal/store"
)

// SessionCookie names the cookie carrying the signed session token.
const SessionCookie = "wordgrid_session"

type contextKey string

var sessionCtxKey = contextKey("session")

// signSession issues an HS256 token naming the game session.
func (s *Server) signSession(id string) (string, time.Time, error) {
	now := s.opts.Now()
	exp := now.Add(s.opts.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := token.SignedString([]byte(s.opts.SessionSecret))
	return ss, exp, err
}

// parseSession validates tok and returns the session ID it names.
func (s *Server) parseSession(tok string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.SessionSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	id, _ := claims["sid"].(string)
	if id == "" {
		return "", errors.New("invalid token")
	}
	return id, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// requireSession resolves the caller's game session or answers 401/404.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "no_session", "")
			return
		}
		id, err := s.parseSession(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_session", "")
			return
		}
		sess, err := s.store.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game_not_found", "")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "store_error", "")
			return
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *store.Session {
	sess, _ := ctx.Value(sessionCtxKey).(*store.Session)
	return sess
}
