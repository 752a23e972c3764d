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

type TeacherProvider interface {
	GetTeacher(ctx context.Context, id string) (*api.TeacherResponse, error)
	ListTeachers(ctx context.Context) ([]*api.TeacherResponse, error)
}

type ListResponse struct {
	response.Response
	Teachers []*api.TeacherResponse `json:"teachers"`
}

type DetailResponse struct {
	response.Response
	Teacher api.TeacherResponse `json:"teacher"`
}

func New(log *slog.Logger, provider TeacherProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teachers.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if id := chi.URLParam(r, "id"); id != "" {
			teacher, err := provider.GetTeacher(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("teacher not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "teacher not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get teacher", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get teacher"))
				return
			}

			render.JSON(w, r, DetailResponse{Teacher: *teacher})
			return
		}

		teachers, err := provider.ListTeachers(r.Context())
		if err != nil {
			log.Error("Failed to list teachers", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list teachers"))
			return
		}

		render.JSON(w, r, ListResponse{Teachers: teachers})
	}
}
