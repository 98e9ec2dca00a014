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

type InstitutionGetter interface {
	GetInstitution(ctx context.Context, id string) (*api.InstitutionResponse, error)
	ListInstitutions(ctx context.Context, includeInactive bool, actor identity.Identity) ([]*api.InstitutionResponse, error)
}

type Response struct {
	response.Response
	Institutions []*api.InstitutionResponse `json:"institutions,omitempty"`
	Institution  *api.InstitutionResponse   `json:"institution,omitempty"`
}

func New(log *slog.Logger, getter InstitutionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.institutions.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			institution, err := getter.GetInstitution(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get institution", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get institution"))
				return
			}

			log.Info("Institution retrieved", slog.String("institution_id", institution.ID))
			render.JSON(w, r, Response{Institution: institution})
			return
		}

		includeInactive := r.URL.Query().Get("include_inactive") == "true"

		institutions, err := getter.ListInstitutions(r.Context(), includeInactive, identity.FromContext(r.Context()))
		if err != nil {
			log.Error("Failed to list institutions", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list institutions"))
			return
		}

		log.Info("Institutions listed", slog.Int("count", len(institutions)))
		render.JSON(w, r, Response{Institutions: institutions})
	}
}
