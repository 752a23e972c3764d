package recalculate

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

type CorrespondenceRecalculator interface {
	RecalculateCorrespondence(ctx context.Context, subjectID string) error
}

// New re-runs the correspondence tracker for one subject. The
// recalculation is idempotent, so retrying after a failed background
// pass is always safe.
func New(log *slog.Logger, recalculator CorrespondenceRecalculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.curricula.recalculate.New"

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

		err := recalculator.RecalculateCorrespondence(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("curriculum not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "curriculum not found"))
			return
		}

		if err != nil {
			log.Error("Failed to recalculate correspondence", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to recalculate correspondence"))
			return
		}

		log.Info("Correspondence recalculated", slog.String("curriculum_id", id))

		render.JSON(w, r, response.Response{})
	}
}
