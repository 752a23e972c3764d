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

type GroupCreator interface {
	CreateGroup(ctx context.Context, req *api.GroupRequest) (*api.GroupResponse, error)
}

type Request struct {
	api.GroupRequest
}

type Response struct {
	response.Response
	Group api.GroupResponse `json:"group,omitempty"`
}

func New(log *slog.Logger, creator GroupCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.groups.create.New"

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

		if err := validate.Struct(req.GroupRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		group, err := creator.CreateGroup(r.Context(), &req.GroupRequest)

		if errors.Is(err, response.ErrPolicyViolation) {
			log.Error("policy violation", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.POLICY_VIOLATION), response.Reason(err)))
			return
		}

		if err != nil {
			log.Error("Failed to create group", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create group"))
			return
		}

		log.Info("Group created", slog.String("group_id", group.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Group: *group,
		})
	}
}
