package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"postpilot/src-server/model"
	"postpilot/src-server/utils"
)

// Auth wires session issue/revoke. The upstream identity exchange (the
// dashboard's OAuth flow) lives outside this service; callers arrive here
// with an already-verified user id.
func Auth(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if reqBody.UserID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}

		sessionModel := model.Session{
			Secret:    uuid.NewString(),
			UserID:    reqBody.UserID,
			CreatedAt: time.Now().UTC().Unix(),
			IpAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		}
		if _, err := as.BunDB.NewInsert().
			Model(&sessionModel).
			Exec(r.Context()); err != nil {
			http.Error(w, "Can't create session", http.StatusInternalServerError)
			slog.Error("can't create session", "error", err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionSecretCookieName,
			Value:    sessionModel.Secret,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(as.Config.GetSessionExpire()),
		})
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{
			"session_secret": sessionModel.Secret,
		}); err != nil {
			slog.Warn("can't write response", "where", "route/auth.go", "error", err)
		}
	})

	muxer.HandleFunc("POST /api/logout", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromCtx(r.Context())
		if _, err := as.BunDB.NewDelete().
			Model((*model.Session)(nil)).
			Where("user_id = ?", userID).
			Exec(r.Context()); err != nil {
			http.Error(w, "Can't revoke session", http.StatusInternalServerError)
			slog.Error("can't revoke session", "error", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}
