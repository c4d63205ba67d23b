package listqueue

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aquavenda/pos/internal/service/models/order"
)

type service interface {
	AllInTheQueue(ctx context.Context) ([]order.Order, error)
}

// ListQueue returns every order still waiting in the queue, oldest first.
func ListQueue(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.AllInTheQueue(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing queue", "error", err)

		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending response for list queue", "error", err)
	}
}
