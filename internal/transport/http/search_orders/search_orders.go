package searchorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/aquavenda/pos/internal/service/models/order"
)

type service interface {
	SearchByAddress(ctx context.Context, fragment string, limit int) (map[string]order.Order, error)
	SearchByPhone(ctx context.Context, fragment string, limit int) (map[string]order.Order, error)
}

type searchRequest struct {
	Q     string `schema:"q"`
	Limit int    `schema:"limit,omitempty"`
}

// ByAddress answers the address-fragment autocomplete lookup.
func ByAddress(w http.ResponseWriter, r *http.Request, service service) {
	run(w, r, service.SearchByAddress)
}

// ByPhone answers the phone-fragment autocomplete lookup.
func ByPhone(w http.ResponseWriter, r *http.Request, service service) {
	run(w, r, service.SearchByPhone)
}

func run(w http.ResponseWriter, r *http.Request, query func(context.Context, string, int) (map[string]order.Order, error)) {
	decoder := schema.NewDecoder()
	req := &searchRequest{}
	if err := decoder.Decode(req, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding search request", "error", err)

		return
	}

	results, err := query(r.Context(), req.Q, req.Limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error searching orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		slog.Error("Error sending search response", "error", err)
	}
}
