package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"monitoreo-service/api"
	"monitoreo-service/internal/identity"
	"monitoreo-service/pkg/response"
	"monitoreo-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type InstanceSaver interface {
	SaveInstance(ctx context.Context, id string, data json.RawMessage, actor identity.Identity) (*api.InstanceResponse, error)
}

type Request struct {
	api.InstanceSaveRequest
}

type Response struct {
	response.Response
	Instance *api.InstanceResponse `json:"instance,omitempty"`
}

func New(log *slog.Logger, saver InstanceSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.instances.save.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if len(req.Data) == 0 {
			log.Error("data is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "data is required"))
			return
		}

		instance, err := saver.SaveInstance(r.Context(), id, req.Data, identity.FromContext(r.Context()))

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if errors.Is(err, response.ErrForbidden) {
			log.Error("actor does not own the instance")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "not the instance owner"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("instance already completed")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "instance already completed"))
			return
		}

		if err != nil {
			log.Error("Failed to save instance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to save instance"))
			return
		}

		log.Info("Instance saved", slog.String("instance_id", instance.ID))
		render.JSON(w, r, Response{Instance: instance})
	}
}
