package ui

import (
	"context"
	"net/http"

	"haloscope/internal/session"
)

type contextKey int

const sessionIDKey contextKey = iota

// withSession resolves the session cookie, starting a session when needed,
// and stores the id in the request context
func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(session.CookieName); err == nil {
			id = c.Value
		}
		id, _ = a.sessions.Get(id)

		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey, id)))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}
