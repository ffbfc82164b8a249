package route

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"postpilot/src-server/model"
	"postpilot/src-server/utils"
)

type UserIDCtxKeyType string

const (
	UserIDCtxKey            UserIDCtxKeyType = "user-id"
	SessionSecretCookieName string           = "session-secret"
)

// AuthMiddleware resolves the session secret (cookie or bearer token) to a
// user id and injects it into the request context. Expired sessions are
// deleted on sight.
func AuthMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionSecret := func() string {
			if sessionCookie, err := r.Cookie(SessionSecretCookieName); err == nil {
				return strings.TrimSpace(sessionCookie.Value)
			}
			if bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "); bearer != r.Header.Get("Authorization") {
				return strings.TrimSpace(bearer)
			}
			return ""
		}()
		if sessionSecret == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session secret not provided"))
			return
		}

		sessionModel := new(model.Session)
		if err := as.BunDB.
			NewSelect().
			Model(sessionModel).
			Where("secret = ?", sessionSecret).
			Scan(r.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("Session secret not found"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't find session in DB"))
			slog.Error("can't find session in DB", "error", err)
			return
		}

		if time.Unix(sessionModel.CreatedAt, 0).UTC().
			Add(as.Config.GetSessionExpire()).Before(time.Now()) {
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionSecret).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete expired session in DB"))
				slog.Error("can't delete expired session in DB", "error", err)
				return
			}

			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session expired"))
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, sessionModel.UserID)
		next(w, r.WithContext(ctx))
	}
}

// userIDFromCtx returns the authenticated user id placed there by
// AuthMiddleware.
func userIDFromCtx(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDCtxKey).(string); ok {
		return userID
	}
	return ""
}
