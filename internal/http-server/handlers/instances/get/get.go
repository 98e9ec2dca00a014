package get

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

type InstanceGetter interface {
	GetInstance(ctx context.Context, id string, actor identity.Identity) (*api.InstanceResponse, error)
	ListInstances(ctx context.Context, templateID *string, actor identity.Identity) ([]*api.InstanceResponse, error)
}

type Response struct {
	response.Response
	Instances []*api.InstanceResponse `json:"instances,omitempty"`
	Instance  *api.InstanceResponse   `json:"instance,omitempty"`
}

func New(log *slog.Logger, getter InstanceGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.instances.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		actor := identity.FromContext(r.Context())
		id := chi.URLParam(r, "id")

		if id != "" {
			instance, err := getter.GetInstance(r.Context(), id, actor)

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
				log.Error("Failed to get instance", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get instance"))
				return
			}

			log.Info("Instance retrieved", slog.String("instance_id", instance.ID))
			render.JSON(w, r, Response{Instance: instance})
			return
		}

		var templateID *string
		if raw := r.URL.Query().Get("template_id"); raw != "" {
			templateID = &raw
		}

		instances, err := getter.ListInstances(r.Context(), templateID, actor)
		if err != nil {
			log.Error("Failed to list instances", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list instances"))
			return
		}

		log.Info("Instances listed", slog.Int("count", len(instances)))
		render.JSON(w, r, Response{Instances: instances})
	}
}
