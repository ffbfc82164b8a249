package route

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"postpilot/src-server/store"
	"postpilot/src-server/utils"
)

// Ical serves a read-only ICS export of one owner's events, authorized by
// an opaque subscription token.
func Ical(muxer *http.ServeMux, as *utils.AppState, events store.EventStore, subscriptions store.SubscriptionStore) {
	muxer.HandleFunc("GET /ical/{token}", func(w http.ResponseWriter, r *http.Request) {
		subscriptionModel, err := subscriptions.SubscriptionByToken(r.Context(), r.PathValue("token"))
		switch {
		case errors.Is(err, store.ErrSubscriptionNotFound):
			http.Error(w, "Unknown calendar token", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "Can't look up calendar token", http.StatusInternalServerError)
			slog.Error("can't look up calendar token", "error", err)
			return
		}

		eventModels, err := events.ListByOwner(r.Context(), subscriptionModel.OwnerID)
		if err != nil {
			http.Error(w, "Can't list events", http.StatusInternalServerError)
			slog.Error("can't list events for ical feed", "error", err)
			return
		}

		icalCalendar := ics.NewCalendar()
		icalCalendar.SetMethod(ics.MethodPublish)
		icalCalendar.SetProductId("-//postpilot//content calendar//EN")
		for i := range eventModels {
			eventModel := &eventModels[i]
			icalEvent := icalCalendar.AddEvent(eventModel.ID)
			icalEvent.SetSummary(eventModel.Title)
			if eventModel.Description != "" {
				icalEvent.SetDescription(eventModel.Description)
			}
			icalEvent.SetDtStampTime(time.Unix(eventModel.CreatedAt, 0).UTC())
			startDate := eventModel.StartDate()
			if eventModel.AllDay {
				icalEvent.SetAllDayStartAt(startDate)
				icalEvent.SetAllDayEndAt(startDate.AddDate(0, 0, 1))
			} else {
				icalEvent.SetStartAt(startDate)
				if eventModel.EndDateUnix != 0 {
					icalEvent.SetEndAt(time.Unix(eventModel.EndDateUnix, 0))
				}
			}
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, icalCalendar.Serialize()); err != nil {
			slog.Warn("can't write to response", "where", "route/ical.go", "error", err)
		}
	})
}
