package lastorder

import "time"

// Entry is one row of the client-last-order index: the most recent order
// seen for a distinct (address, complement, phonenumber) combination. It
// references the order, it never owns it.
type Entry struct {
	ID          string     `json:"id"`
	Address     string     `json:"address,omitempty"`
	Complement  string     `json:"complement,omitempty"`
	Phonenumber string     `json:"phonenumber,omitempty"`
	LastOrderID string     `json:"last_order_id"`
	Created     time.Time  `json:"created,omitzero"`
	Updated     *time.Time `json:"updated,omitempty"`
}

// SameSlot reports whether the entry belongs to the given customer slot.
// All three fields must match exactly; a different phone number at the
// same address is a different slot.
func (e Entry) SameSlot(address, complement, phonenumber string) bool {
	return e.Address == address && e.Complement == complement && e.Phonenumber == phonenumber
}
