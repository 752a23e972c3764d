package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"timetable-service/api"
	"timetable-service/pkg/response"
	"timetable-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type CurriculumProvider interface {
	GetCurriculum(ctx context.Context, id string) (*api.CurriculumResponse, error)
	ListCurricula(ctx context.Context) ([]*api.CurriculumResponse, error)
}

type ListResponse struct {
	response.Response
	Curricula []*api.CurriculumResponse `json:"curricula"`
}

type DetailResponse struct {
	response.Response
	Curriculum api.CurriculumResponse `json:"curriculum"`
}

func New(log *slog.Logger, provider CurriculumProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.curricula.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if id := chi.URLParam(r, "id"); id != "" {
			curriculum, err := provider.GetCurriculum(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("curriculum not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "curriculum not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get curriculum", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get curriculum"))
				return
			}

			render.JSON(w, r, DetailResponse{Curriculum: *curriculum})
			return
		}

		curricula, err := provider.ListCurricula(r.Context())
		if err != nil {
			log.Error("Failed to list curricula", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list curricula"))
			return
		}

		render.JSON(w, r, ListResponse{Curricula: curricula})
	}
}
