package listproducts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aquavenda/pos/internal/service/models/product"
)

type service interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
}

// ListProducts returns the product catalog for the order-entry form.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	products, err := service.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing products", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		slog.Error("Error sending response for list products", "error", err)
	}
}
