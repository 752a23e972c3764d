package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"timetable-service/api"
	"timetable-service/pkg/response"
	"timetable-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type SlotProvider interface {
	GetSlotDetail(ctx context.Context, id string) (*api.SlotDetailResponse, error)
	ListSlots(ctx context.Context, semester int, teacherID, groupID *string) ([]*api.SlotResponse, error)
}

type ListResponse struct {
	response.Response
	Slots []*api.SlotResponse `json:"slots"`
}

type DetailResponse struct {
	response.Response
	Slot api.SlotDetailResponse `json:"slot"`
}

func New(log *slog.Logger, provider SlotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if id := chi.URLParam(r, "id"); id != "" {
			slot, err := provider.GetSlotDetail(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("slot not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "slot not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get slot", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get slot"))
				return
			}

			render.JSON(w, r, DetailResponse{Slot: *slot})
			return
		}

		semester, err := strconv.Atoi(r.URL.Query().Get("semester"))
		if err != nil || semester < 1 || semester > 2 {
			log.Error("semester is invalid")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "semester must be 1 or 2"))
			return
		}

		var teacherID, groupID *string
		if v := r.URL.Query().Get("teacher_id"); v != "" {
			teacherID = &v
		}
		if v := r.URL.Query().Get("group_id"); v != "" {
			groupID = &v
		}

		slots, err := provider.ListSlots(r.Context(), semester, teacherID, groupID)
		if err != nil {
			log.Error("Failed to list slots", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list slots"))
			return
		}

		render.JSON(w, r, ListResponse{Slots: slots})
	}
}
