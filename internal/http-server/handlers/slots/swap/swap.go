package swap

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

type SlotSwapper interface {
	Swap(ctx context.Context, req *api.SwapRequest) error
}

type Request struct {
	api.SwapRequest
}

func New(log *slog.Logger, swapper SlotSwapper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.swap.New"

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

		if err := validate.Struct(req.SwapRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		err := swapper.Swap(r.Context(), &req.SwapRequest)

		if errors.Is(err, response.ErrLocked) {
			log.Error("swap already in progress for scope")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "swap already in progress"))
			return
		}

		if errors.Is(err, response.ErrTransient) {
			log.Error("swap rolled back", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error(string(response.TRANSIENT), "swap failed and was rolled back"))
			return
		}

		if err != nil {
			log.Error("Failed to swap slots", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to swap slots"))
			return
		}

		log.Info("Slots swapped",
			slog.String("scope", req.Scope),
			slog.String("scope_id", req.ScopeID),
		)

		render.JSON(w, r, response.Response{})
	}
}
