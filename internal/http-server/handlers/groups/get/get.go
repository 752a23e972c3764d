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

type GroupProvider interface {
	GetGroup(ctx context.Context, id string) (*api.GroupResponse, error)
	ListGroups(ctx context.Context) ([]*api.GroupResponse, error)
}

type ListResponse struct {
	response.Response
	Groups []*api.GroupResponse `json:"groups"`
}

type DetailResponse struct {
	response.Response
	Group api.GroupResponse `json:"group"`
}

func New(log *slog.Logger, provider GroupProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.groups.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if id := chi.URLParam(r, "id"); id != "" {
			group, err := provider.GetGroup(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("group not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "group not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get group", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get group"))
				return
			}

			render.JSON(w, r, DetailResponse{Group: *group})
			return
		}

		groups, err := provider.ListGroups(r.Context())
		if err != nil {
			log.Error("Failed to list groups", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list groups"))
			return
		}

		render.JSON(w, r, ListResponse{Groups: groups})
	}
}
