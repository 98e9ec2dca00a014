package complete

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
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type InstanceCompleter interface {
	CompleteInstance(ctx context.Context, id string, actor identity.Identity) (*api.InstanceResponse, error)
}

type Response struct {
	response.Response
	Instance *api.InstanceResponse `json:"instance,omitempty"`
}

func New(log *slog.Logger, completer InstanceCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.instances.complete.New"

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

		instance, err := completer.CompleteInstance(r.Context(), id, identity.FromContext(r.Context()))

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

		if err != nil {
			log.Error("Failed to complete instance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to complete instance"))
			return
		}

		log.Info("Instance completed", slog.String("instance_id", instance.ID))
		render.JSON(w, r, Response{Instance: instance})
	}
}
