package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"postpilot/src-server/extract"
	"postpilot/src-server/store"
	"postpilot/src-server/utils"
)

// Assistant is the hook the chat UI calls after the assistant replies.
// Extraction or storage failures never surface as errors here: the chat
// experience must not break over an unschedulable message, so both
// collapse into {"scheduled": false}.
func Assistant(muxer *http.ServeMux, as *utils.AppState, events store.EventStore) {
	muxer.HandleFunc("POST /api/assistant/schedule", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if reqBody.Message == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}

		userID := userIDFromCtx(r.Context())
		respBody := struct {
			Scheduled bool   `json:"scheduled"`
			EventID   string `json:"event_id,omitempty"`
		}{}

		eventID, err := extract.ExtractAndScheduleEvent(r.Context(), events, reqBody.Message, userID, time.Now())
		switch {
		case errors.Is(err, extract.ErrNoDate):
			slog.Info("assistant message holds no usable date", "user_id", userID)
		case err != nil:
			slog.Error("can't schedule event from assistant message", "user_id", userID, "error", err)
		default:
			respBody.Scheduled = true
			respBody.EventID = eventID
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(respBody); err != nil {
			slog.Warn("can't write response", "where", "route/assistant.go", "error", err)
		}
	}))
}
