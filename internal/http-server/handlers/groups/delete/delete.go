package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"timetable-service/pkg/response"
	"timetable-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type GroupDeleter interface {
	DeleteGroup(ctx context.Context, id string) error
}

func New(log *slog.Logger, deleter GroupDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.groups.delete.New"

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

		err := deleter.DeleteGroup(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("group not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "group not found"))
			return
		}

		if errors.Is(err, response.ErrPolicyViolation) {
			log.Error("policy violation", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.POLICY_VIOLATION), response.Reason(err)))
			return
		}

		if err != nil {
			log.Error("Failed to delete group", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete group"))
			return
		}

		log.Info("Group deleted", slog.String("group_id", id))

		render.JSON(w, r, response.Response{})
	}
}
