package order

import (
	"time"

	"github.com/aquavenda/pos/internal/service/models/orderitem"
)

// Status is the lifecycle state of an order. An absent status means the
// order is still waiting in the queue.
type Status string

const (
	StatusQueue     Status = "QUEUE"
	StatusShipped   Status = "SHIPPED"
	StatusCanceled  Status = "CANCELED"
	StatusDelivered Status = "DELIVERED"
)

// InQueue reports whether the status counts as still queued.
func (s Status) InQueue() bool {
	return s == "" || s == StatusQueue
}

// Order represents a placed order. The core fields are immutable after
// Save; only the status and its date stamps change afterwards.
type Order struct {
	ID            string                `json:"id,omitempty"`
	Created       time.Time             `json:"created,omitzero"`
	Address       string                `json:"address,omitempty"`
	Complement    string                `json:"complement,omitempty"`
	Phonenumber   string                `json:"phonenumber,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	ChangeTo      string                `json:"change_to,omitempty"`
	Products      []orderitem.OrderItem `json:"products,omitempty"`
	TotalAmount   float64               `json:"total_amount,omitempty"`
	Status        Status                `json:"status,omitempty"`
	ShippedDate   *time.Time            `json:"shipped_date,omitempty"`
	CanceledDate  *time.Time            `json:"canceled_date,omitempty"`
	DeliveredDate *time.Time            `json:"delivered_date,omitempty"`
}
