package month

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"monitoreo-service/api"
	"monitoreo-service/internal/identity"
	"monitoreo-service/pkg/response"
	"monitoreo-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type MonthViewer interface {
	MonthView(ctx context.Context, anchor time.Time, actor identity.Identity) (*api.CalendarMonthResponse, error)
}

type Response struct {
	response.Response
	Calendar *api.CalendarMonthResponse `json:"calendar,omitempty"`
}

func New(log *slog.Logger, viewer MonthViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.month.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		anchor := time.Now()
		if raw := r.URL.Query().Get("anchor"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				parsed, err = time.Parse("2006-01", raw)
			}
			if err != nil {
				log.Error("invalid anchor", slog.String("anchor", raw))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "anchor must be YYYY-MM or YYYY-MM-DD"))
				return
			}

			anchor = parsed
		}

		cal, err := viewer.MonthView(r.Context(), anchor, identity.FromContext(r.Context()))
		if err != nil {
			log.Error("Failed to build month view", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build month view"))
			return
		}

		log.Info("Month view built", slog.String("month", cal.Month))
		render.JSON(w, r, Response{Calendar: cal})
	}
}
