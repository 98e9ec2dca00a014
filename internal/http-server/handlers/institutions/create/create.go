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

type InstitutionCreator interface {
	CreateInstitution(ctx context.Context, req *api.InstitutionRequest, actor identity.Identity) (*api.InstitutionResponse, error)
}

type Request struct {
	api.InstitutionRequest
}

type Response struct {
	response.Response
	Institution *api.InstitutionResponse `json:"institution,omitempty"`
}

var validate = validator.New()

func New(log *slog.Logger, creator InstitutionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.institutions.create.New"

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

		if err := validate.Struct(req.InstitutionRequest); err != nil {
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

		institution, err := creator.CreateInstitution(r.Context(), &req.InstitutionRequest, identity.FromContext(r.Context()))

		if errors.Is(err, response.ErrForbidden) {
			log.Error("actor is not an admin")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "admin role required"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("duplicate cod_local or cod_modular")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "cod_local or cod_modular already registered"))
			return
		}

		if err != nil {
			log.Error("Failed to create institution", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create institution"))
			return
		}

		log.Info("Institution created", slog.String("institution_id", institution.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Institution: institution})
	}
}
