package agenda

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"monitoreo-service/api"
	"monitoreo-service/internal/identity"
	"monitoreo-service/pkg/response"
	"monitoreo-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type AgendaViewer interface {
	Agenda(ctx context.Context, days int, actor identity.Identity) (*api.AgendaResponse, error)
}

type Response struct {
	response.Response
	Agenda *api.AgendaResponse `json:"agenda,omitempty"`
}

func New(log *slog.Logger, viewer AgendaViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.agenda.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 || parsed > 90 {
				log.Error("invalid days", slog.String("days", raw))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "days must be between 1 and 90"))
				return
			}

			days = parsed
		}

		agenda, err := viewer.Agenda(r.Context(), days, identity.FromContext(r.Context()))
		if err != nil {
			log.Error("Failed to build agenda", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build agenda"))
			return
		}

		log.Info("Agenda built", slog.Int("count", len(agenda.Events)))
		render.JSON(w, r, Response{Agenda: agenda})
	}
}
