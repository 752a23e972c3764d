package update

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
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CurriculumUpdater interface {
	UpdateCurriculum(ctx context.Context, id string, req *api.CurriculumRequest) (*api.CurriculumResponse, error)
}

type Request struct {
	api.CurriculumRequest
}

type Response struct {
	response.Response
	Curriculum api.CurriculumResponse `json:"curriculum,omitempty"`
}

func New(log *slog.Logger, updater CurriculumUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.curricula.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

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

		curriculum, err := updater.UpdateCurriculum(r.Context(), id, &req.CurriculumRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("curriculum, teacher or group not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "curriculum, teacher or group not found"))
			return
		}

		if errors.Is(err, response.ErrPolicyViolation) {
			log.Error("policy violation", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.POLICY_VIOLATION), response.Reason(err)))
			return
		}

		if err != nil {
			log.Error("Failed to update curriculum", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update curriculum"))
			return
		}

		log.Info("Curriculum updated", slog.String("curriculum_id", id))

		render.JSON(w, r, Response{
			Curriculum: *curriculum,
		})
	}
}
