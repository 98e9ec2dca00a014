package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"monitoreo-service/api"
	"monitoreo-service/internal/identity"
	"monitoreo-service/pkg/response"
	"monitoreo-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type EventCreator interface {
	CreateEvent(ctx context.Context, req *api.EventRequest, actor identity.Identity) (*api.EventResponse, error)
}

type Request struct {
	api.EventRequest
}

type Response struct {
	response.Response
	Event *api.EventResponse `json:"event,omitempty"`
}

var validate = validator.New()

func New(log *slog.Logger, creator EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validate.Struct(req.EventRequest); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				log.Error("Invalid request", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErrs))
				return
			}

			log.Error("Failed to validate request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid request"))
			return
		}

		event, err := creator.CreateEvent(r.Context(), &req.EventRequest, identity.FromContext(r.Context()))

		if errors.Is(err, response.ErrForbidden) {
			log.Error("actor is not an admin")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "admin role required"))
			return
		}

		if errors.Is(err, response.ErrValidation) {
			log.Error("invalid event payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID), err.Error()))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("event already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "event already exists"))
			return
		}

		if err != nil {
			log.Error("Failed to create event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create event"))
			return
		}

		log.Info("Event created", slog.String("event_id", event.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Event: event})
	}
}
