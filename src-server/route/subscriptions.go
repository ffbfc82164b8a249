package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"postpilot/src-server/model"
	"postpilot/src-server/store"
	"postpilot/src-server/utils"
)

type subscriptionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	FeedURL   string `json:"feed_url"`
	CreatedAt int64  `json:"created_at"`
}

func toSubscriptionResponse(as *utils.AppState, s *model.CalendarSubscription) subscriptionResponse {
	return subscriptionResponse{
		ID:        s.ID,
		Name:      s.Name,
		FeedURL:   fmt.Sprintf("https://%s/ical/%s", as.Config.GetHostname(), s.Token),
		CreatedAt: s.CreatedAt,
	}
}

// Subscriptions wires the ICS feed token lifecycle. Deletion requires the
// subscription to come from the caller's own listing.
func Subscriptions(muxer *http.ServeMux, as *utils.AppState, subscriptions store.SubscriptionStore) {
	muxer.HandleFunc("POST /api/subscriptions", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		subscriptionModel, err := subscriptions.CreateSubscription(r.Context(), userIDFromCtx(r.Context()), reqBody.Name)
		if err != nil {
			http.Error(w, "Can't create subscription", http.StatusInternalServerError)
			slog.Error("can't create subscription", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(toSubscriptionResponse(as, subscriptionModel)); err != nil {
			slog.Warn("can't write response", "where", "route/subscriptions.go", "error", err)
		}
	}))

	muxer.HandleFunc("GET /api/subscriptions", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		subscriptionModels, err := subscriptions.ListSubscriptionsByOwner(r.Context(), userIDFromCtx(r.Context()))
		if err != nil {
			http.Error(w, "Can't list subscriptions", http.StatusInternalServerError)
			slog.Error("can't list subscriptions", "error", err)
			return
		}

		respBody := make([]subscriptionResponse, 0, len(subscriptionModels))
		for i := range subscriptionModels {
			respBody = append(respBody, toSubscriptionResponse(as, &subscriptionModels[i]))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(respBody); err != nil {
			slog.Warn("can't write response", "where", "route/subscriptions.go", "error", err)
		}
	}))

	muxer.HandleFunc("DELETE /api/subscriptions/{subscription_id}", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		subscriptionID := r.PathValue("subscription_id")

		// resolve ownership from the caller's own listing before deleting
		owned, err := subscriptions.ListSubscriptionsByOwner(r.Context(), userIDFromCtx(r.Context()))
		if err != nil {
			http.Error(w, "Can't list subscriptions", http.StatusInternalServerError)
			slog.Error("can't list subscriptions", "error", err)
			return
		}
		found := false
		for i := range owned {
			if owned[i].ID == subscriptionID {
				found = true
				break
			}
		}
		if !found {
			http.Error(w, "Subscription not found", http.StatusNotFound)
			return
		}

		err = subscriptions.DeleteSubscription(r.Context(), subscriptionID)
		switch {
		case errors.Is(err, store.ErrSubscriptionNotFound):
			http.Error(w, "Subscription not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "Can't delete subscription", http.StatusInternalServerError)
			slog.Error("can't delete subscription", "error", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}
