package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aquavenda/pos/internal/service/models/order"
	"github.com/aquavenda/pos/internal/service/models/orderitem"
)

// service is an interface for the service layer.
type service interface {
	Save(ctx context.Context, o *order.Order) (string, error)
}

// itemInCreateOrderRequest represents a line item in a create order request.
type itemInCreateOrderRequest struct {
	ProductID   int     `json:"product_id"  validate:"gt=0"`
	Description string  `json:"description" validate:"required"`
	Cash        float64 `json:"cash"        validate:"gte=0"`
	Card        float64 `json:"card"        validate:"gte=0"`
	Quantity    int     `json:"quantity"    validate:"gt=0"`
}

func (r *itemInCreateOrderRequest) toModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		ProductID:   r.ProductID,
		Description: r.Description,
		Cash:        r.Cash,
		Card:        r.Card,
		Quantity:    r.Quantity,
	}
}

// createOrderRequest represents a create order request. The total is
// computed by the caller per payment mode; the core stores it as given.
type createOrderRequest struct {
	Address     string                     `json:"address"      validate:"required"`
	Complement  string                     `json:"complement"`
	Phonenumber string                     `json:"phonenumber"`
	Notes       string                     `json:"notes"`
	ChangeTo    string                     `json:"change_to"`
	Products    []itemInCreateOrderRequest `json:"products"     validate:"omitempty,dive"`
	TotalAmount float64                    `json:"total_amount"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *createOrderRequest) toModel() order.Order {
	items := make([]orderitem.OrderItem, len(r.Products))
	for i := range r.Products {
		items[i] = r.Products[i].toModel()
	}

	return order.Order{
		Address:     r.Address,
		Complement:  r.Complement,
		Phonenumber: r.Phonenumber,
		Notes:       r.Notes,
		ChangeTo:    r.ChangeTo,
		Products:    items,
		TotalAmount: r.TotalAmount,
	}
}

// createOrderResponse carries the id and timestamp assigned at save time.
type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	model := orderReq.toModel()
	id, err := service.Save(r.Context(), &model)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error saving order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(createOrderResponse{ID: id}); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
