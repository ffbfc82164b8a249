package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"postpilot/src-server/model"
	"postpilot/src-server/store"
	"postpilot/src-server/utils"
)

type eventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   int64  `json:"start_date"`
	EndDate     int64  `json:"end_date,omitempty"`
	AllDay      bool   `json:"all_day"`
	Color       string `json:"color,omitempty"`
	Source      string `json:"source"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toEventResponse(e *model.CalendarEvent) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDateUnix,
		EndDate:     e.EndDateUnix,
		AllDay:      e.AllDay,
		Color:       e.Color,
		Source:      string(e.Source),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// Events wires the manual CRUD surface. Date inputs accept ISO dates plus
// whatever the natural-language parser understands ("next friday 5pm").
func Events(muxer *http.ServeMux, as *utils.AppState, events store.EventStore) {
	muxer.HandleFunc("GET /api/events", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		eventModels, err := events.ListByOwner(r.Context(), userIDFromCtx(r.Context()))
		if err != nil {
			http.Error(w, "Can't list events", http.StatusInternalServerError)
			slog.Error("can't list events", "error", err)
			return
		}

		respBody := make([]eventResponse, 0, len(eventModels))
		for i := range eventModels {
			respBody = append(respBody, toEventResponse(&eventModels[i]))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(respBody); err != nil {
			slog.Warn("can't write response", "where", "route/events.go", "error", err)
		}
	}))

	muxer.HandleFunc("POST /api/events", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Start       string `json:"start"`
			End         string `json:"end"`
			AllDay      bool   `json:"all_day"`
			Color       string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		startDate, err := parseDateInput(as, reqBody.Start)
		if err != nil {
			http.Error(w, fmt.Sprintf("Can't understand start date: %s", err.Error()), http.StatusBadRequest)
			return
		}
		var endDateUnix int64
		if reqBody.End != "" {
			endDate, err := parseDateInput(as, reqBody.End)
			if err != nil {
				http.Error(w, fmt.Sprintf("Can't understand end date: %s", err.Error()), http.StatusBadRequest)
				return
			}
			endDateUnix = endDate.Unix()
		}

		eventModel := model.CalendarEvent{
			OwnerID:       userIDFromCtx(r.Context()),
			Title:         reqBody.Title,
			Description:   reqBody.Description,
			StartDateUnix: startDate.Unix(),
			EndDateUnix:   endDateUnix,
			AllDay:        reqBody.AllDay,
			Color:         reqBody.Color,
			Source:        model.EventSourceManual,
		}
		if _, err := events.Create(r.Context(), &eventModel); err != nil {
			http.Error(w, "Can't create event", http.StatusInternalServerError)
			slog.Error("can't create event", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(toEventResponse(&eventModel)); err != nil {
			slog.Warn("can't write response", "where", "route/events.go", "error", err)
		}
	}))

	muxer.HandleFunc("PATCH /api/events/{event_id}", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Start       *string `json:"start"`
			End         *string `json:"end"`
			AllDay      *bool   `json:"all_day"`
			Color       *string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		patch := store.EventPatch{
			Title:       reqBody.Title,
			Description: reqBody.Description,
			AllDay:      reqBody.AllDay,
			Color:       reqBody.Color,
		}
		if reqBody.Start != nil {
			startDate, err := parseDateInput(as, *reqBody.Start)
			if err != nil {
				http.Error(w, fmt.Sprintf("Can't understand start date: %s", err.Error()), http.StatusBadRequest)
				return
			}
			startDateUnix := startDate.Unix()
			patch.StartDateUnix = &startDateUnix
		}
		if reqBody.End != nil {
			endDate, err := parseDateInput(as, *reqBody.End)
			if err != nil {
				http.Error(w, fmt.Sprintf("Can't understand end date: %s", err.Error()), http.StatusBadRequest)
				return
			}
			endDateUnix := endDate.Unix()
			patch.EndDateUnix = &endDateUnix
		}

		err := events.Update(r.Context(), userIDFromCtx(r.Context()), r.PathValue("event_id"), patch)
		switch {
		case errors.Is(err, store.ErrEventNotFound):
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "Can't update event", http.StatusInternalServerError)
			slog.Error("can't update event", "error", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	muxer.HandleFunc("DELETE /api/events/{event_id}", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		err := events.Delete(r.Context(), userIDFromCtx(r.Context()), r.PathValue("event_id"))
		switch {
		case errors.Is(err, store.ErrEventNotFound):
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "Can't delete event", http.StatusInternalServerError)
			slog.Error("can't delete event", "error", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}

func parseDateInput(as *utils.AppState, input string) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("parseDateInput: date is blank")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if date, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return date, nil
		}
	}
	result, err := as.When.Parse(input, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("parseDateInput: %w", err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("parseDateInput: can't parse %q", input)
	}
	return result.Time, nil
}
