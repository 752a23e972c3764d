package create

import (
	"context"
	"errors"
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

type CurriculumCreator interface {
	CreateCurriculum(ctx context.Context, req *api.CurriculumRequest) (*api.CurriculumResponse, error)
}

type Request struct {
	api.CurriculumRequest
}

type Response struct {
	response.Response
	Curriculum api.CurriculumResponse `json:"curriculum,omitempty"`
}

func New(log *slog.Logger, creator CurriculumCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.curricula.create.New"

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

		if err := validate.Struct(req.CurriculumRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		curriculum, err := creator.CreateCurriculum(r.Context(), &req.CurriculumRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("related teacher or group not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "related teacher or group not found"))
			return
		}

		if errors.Is(err, response.ErrPolicyViolation) {
			log.Error("policy violation", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.POLICY_VIOLATION), response.Reason(err)))
			return
		}

		if err != nil {
			log.Error("Failed to create curriculum", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create curriculum"))
			return
		}

		log.Info("Curriculum created", slog.String("curriculum_id", curriculum.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Curriculum: *curriculum,
		})
	}
}
