package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"monitoreo-service/api"
	"monitoreo-service/internal/identity"
	"monitoreo-service/pkg/response"
	"monitoreo-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type EventGetter interface {
	GetEvent(ctx context.Context, id string, actor identity.Identity) (*api.EventResponse, error)
	ListEvents(ctx context.Context, from, to *time.Time, actor identity.Identity) ([]*api.EventResponse, error)
}

type Response struct {
	response.Response
	Events []*api.EventResponse `json:"events,omitempty"`
	Event  *api.EventResponse   `json:"event,omitempty"`
}

func New(log *slog.Logger, getter EventGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		actor := identity.FromContext(r.Context())
		id := chi.URLParam(r, "id")

		if id != "" {
			event, err := getter.GetEvent(r.Context(), id, actor)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get event", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get event"))
				return
			}

			log.Info("Event retrieved", slog.String("event_id", event.ID))
			render.JSON(w, r, Response{Event: event})
			return
		}

		var from, to *time.Time
		if raw := r.URL.Query().Get("from"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				from = &t
			} else if t, err := time.Parse("2006-01-02", raw); err == nil {
				from = &t
			}
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				to = &t
			} else if t, err := time.Parse("2006-01-02", raw); err == nil {
				to = &t
			}
		}

		events, err := getter.ListEvents(r.Context(), from, to, actor)
		if err != nil {
			log.Error("Failed to list events", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list events"))
			return
		}

		log.Info("Events listed", slog.Int("count", len(events)))
		render.JSON(w, r, Response{Events: events})
	}
}
