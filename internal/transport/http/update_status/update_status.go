package updatestatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aquavenda/pos/internal/dal/recordstore"
)

type service interface {
	MarkAsShipped(ctx context.Context, id string) error
	MarkAsCanceled(ctx context.Context, id string) error
	MarkAsDelivered(ctx context.Context, id string) error
}

// MarkAsShipped handles the shipped transition.
func MarkAsShipped(w http.ResponseWriter, r *http.Request, service service) {
	transition(w, r, service.MarkAsShipped)
}

// MarkAsCanceled handles the canceled transition.
func MarkAsCanceled(w http.ResponseWriter, r *http.Request, service service) {
	transition(w, r, service.MarkAsCanceled)
}

// MarkAsDelivered handles the delivered transition.
func MarkAsDelivered(w http.ResponseWriter, r *http.Request, service service) {
	transition(w, r, service.MarkAsDelivered)
}

func transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) error) {
	id := chi.URLParam(r, "id")

	if err := apply(r.Context(), id); err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error applying status transition", "order_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
