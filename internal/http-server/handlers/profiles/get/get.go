package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"monitoreo-service/api"
	"monitoreo-service/pkg/response"
	"monitoreo-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ProfileGetter interface {
	GetProfile(ctx context.Context, id string) (*api.ProfileResponse, error)
	ListProfiles(ctx context.Context) ([]*api.ProfileResponse, error)
}

type Response struct {
	response.Response
	Profiles []*api.ProfileResponse `json:"profiles,omitempty"`
	Profile  *api.ProfileResponse   `json:"profile,omitempty"`
}

func New(log *slog.Logger, getter ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profiles.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			profile, err := getter.GetProfile(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get profile", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get profile"))
				return
			}

			log.Info("Profile retrieved", slog.String("profile_id", profile.ID))
			render.JSON(w, r, Response{Profile: profile})
			return
		}

		profiles, err := getter.ListProfiles(r.Context())
		if err != nil {
			log.Error("Failed to list profiles", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list profiles"))
			return
		}

		log.Info("Profiles listed", slog.Int("count", len(profiles)))
		render.JSON(w, r, Response{Profiles: profiles})
	}
}
