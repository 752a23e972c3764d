package create

import (
	"context"
	"log/slog"
	"net/http"
	"timetable-service/api"
	"timetable-service/pkg/response"
	"timetable-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type TeacherCreator interface {
	CreateTeacher(ctx context.Context, req *api.TeacherRequest) (*api.TeacherResponse, error)
}

type Request struct {
	api.TeacherRequest
}

type Response struct {
	response.Response
	Teacher api.TeacherResponse `json:"teacher,omitempty"`
}

func New(log *slog.Logger, creator TeacherCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.teachers.create.New"

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

		if err := validate.Struct(req.TeacherRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		teacher, err := creator.CreateTeacher(r.Context(), &req.TeacherRequest)
		if err != nil {
			log.Error("Failed to create teacher", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create teacher"))
			return
		}

		log.Info("Teacher created", slog.String("teacher_id", teacher.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Teacher: *teacher,
		})
	}
}
