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

type TemplateGetter interface {
	GetTemplate(ctx context.Context, id string) (*api.TemplateResponse, error)
	ListTemplates(ctx context.Context, status *string, actor identity.Identity) ([]*api.TemplateResponse, error)
}

type Response struct {
	response.Response
	Templates []*api.TemplateResponse `json:"templates,omitempty"`
	Template  *api.TemplateResponse   `json:"template,omitempty"`
}

func New(log *slog.Logger, getter TemplateGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.templates.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			template, err := getter.GetTemplate(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get template", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get template"))
				return
			}

			log.Info("Template retrieved", slog.String("template_id", template.ID))
			render.JSON(w, r, Response{Template: template})
			return
		}

		var status *string
		if raw := r.URL.Query().Get("status"); raw != "" {
			status = &raw
		}

		templates, err := getter.ListTemplates(r.Context(), status, identity.FromContext(r.Context()))
		if err != nil {
			log.Error("Failed to list templates", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list templates"))
			return
		}

		log.Info("Templates listed", slog.Int("count", len(templates)))
		render.JSON(w, r, Response{Templates: templates})
	}
}
