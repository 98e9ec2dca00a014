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

type InstanceCreator interface {
	CreateInstance(ctx context.Context, req *api.InstanceCreateRequest, actor identity.Identity) (*api.InstanceResponse, error)
}

type Request struct {
	api.InstanceCreateRequest
}

type Response struct {
	response.Response
	Instance *api.InstanceResponse `json:"instance,omitempty"`
}

var validate = validator.New()

func New(log *slog.Logger, creator InstanceCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.instances.create.New"

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

		if err := validate.Struct(req.InstanceCreateRequest); err != nil {
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

		instance, err := creator.CreateInstance(r.Context(), &req.InstanceCreateRequest, identity.FromContext(r.Context()))

		if errors.Is(err, response.ErrForbidden) {
			log.Error("caller has no identity")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "authenticated user required"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("template not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "template not found"))
			return
		}

		if errors.Is(err, response.ErrNotPublished) {
			log.Error("template is not published")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.NOT_PUBLISHED), "template is not published"))
			return
		}

		if errors.Is(err, response.ErrNotAvailable) {
			log.Error("template is not active")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.NOT_AVAILABLE), "template is not active"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("instance creation is locked")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.LOCKED), "another submission is in flight, retry"))
			return
		}

		if err != nil {
			log.Error("Failed to create instance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create instance"))
			return
		}

		log.Info("Instance ready", slog.String("instance_id", instance.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Instance: instance})
	}
}
