package apply

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"timetable-service/api"
	"timetable-service/internal/service"
	"timetable-service/pkg/response"
	"timetable-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type YearTransitioner interface {
	ApplyYearTransition(ctx context.Context, direction service.Direction) error
}

type Request struct {
	api.YearTransitionRequest
}

func New(log *slog.Logger, transitioner YearTransitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.year.apply.New"

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

		if err := validate.Struct(req.YearTransitionRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		err := transitioner.ApplyYearTransition(r.Context(), service.Direction(req.Direction))

		if errors.Is(err, response.ErrLocked) {
			log.Error("year transition already in progress")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "year transition already in progress"))
			return
		}

		if errors.Is(err, response.ErrTransient) {
			log.Error("year transition rolled back", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error(string(response.TRANSIENT), "year transition failed and was rolled back"))
			return
		}

		if err != nil {
			log.Error("Failed to apply year transition", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to apply year transition"))
			return
		}

		log.Info("Year transition applied", slog.String("direction", req.Direction))

		render.JSON(w, r, response.Response{})
	}
}
