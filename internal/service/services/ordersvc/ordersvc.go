package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aquavenda/pos/internal/dal/recordstore"
	"github.com/aquavenda/pos/internal/idgen"
	"github.com/aquavenda/pos/internal/search"
	"github.com/aquavenda/pos/internal/service/models/lastorder"
	"github.com/aquavenda/pos/internal/service/models/order"
	"github.com/aquavenda/pos/internal/service/models/outbox"
	"github.com/aquavenda/pos/internal/service/models/product"
)

// Collection names inside the record store.
const (
	OrdersCollection     = "orders"
	LastOrdersCollection = "client_last_orders"
	OutboxCollection     = "outbox"
	ProductsCollection   = "products"
)

// Collections lists every collection the service uses, for eager store
// initialization.
func Collections() []string {
	return []string{OrdersCollection, LastOrdersCollection, OutboxCollection, ProductsCollection}
}

// MirrorConfig describes the remote sink mirror. A nil config disables
// mirroring entirely.
type MirrorConfig struct {
	Exchange   string
	RoutingKey string
	MaxRetries int
}

// OrderService owns the order table, the client-last-order index, and
// the search operations over them. One writer lock keeps the index
// upsert observably atomic with the order append.
type OrderService struct {
	mu         sync.RWMutex
	store      recordstore.Store
	orders     recordstore.Typed[order.Order]
	lastOrders recordstore.Typed[lastorder.Entry]
	outbox     recordstore.Typed[outbox.Message]
	products   recordstore.Typed[product.Product]
	newID      func() string
	now        func() time.Time
	mirror     *MirrorConfig
}

// Option is a function that configures the OrderService.
type Option func(*OrderService)

// MustNewOrderService creates a new OrderService and seeds the product
// catalog when the store is empty.
func MustNewOrderService(opts ...Option) *OrderService {
	s := &OrderService{
		newID: idgen.New,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		panic("ordersvc: no record store configured")
	}

	s.orders = recordstore.NewTyped[order.Order](s.store.Collection(OrdersCollection))
	s.lastOrders = recordstore.NewTyped[lastorder.Entry](s.store.Collection(LastOrdersCollection))
	s.outbox = recordstore.NewTyped[outbox.Message](s.store.Collection(OutboxCollection))
	s.products = recordstore.NewTyped[product.Product](s.store.Collection(ProductsCollection))

	if err := s.seedProducts(context.Background()); err != nil {
		panic(err)
	}

	return s
}

// WithStore sets the record store for the OrderService.
func WithStore(store recordstore.Store) Option {
	return func(s *OrderService) {
		s.store = store
	}
}

// WithMirror enables outbox mirroring to the remote sink.
func WithMirror(cfg MirrorConfig) Option {
	return func(s *OrderService) {
		s.mirror = &cfg
	}
}

// WithIDFunc overrides id generation, used by tests.
func WithIDFunc(newID func() string) Option {
	return func(s *OrderService) {
		s.newID = newID
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) {
		s.now = now
	}
}

// Save assigns a fresh id and created timestamp to the order, appends it
// to the order table, and upserts the client-last-order index before
// returning. A nil order is a silent no-op returning an empty id, not an
// error; callers detect it by the sentinel.
func (s *OrderService) Save(ctx context.Context, o *order.Order) (string, error) {
	if o == nil {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.newID()
	o.Created = s.now()

	if err := s.orders.Append(ctx, o.ID, *o); err != nil {
		return "", fmt.Errorf("failed to append order: %w", err)
	}

	if err := s.saveClientLastOrder(ctx, *o); err != nil {
		return "", fmt.Errorf("failed to upsert client last order: %w", err)
	}

	// Mirroring is fire-and-forget: a full outbox must never fail the
	// save itself.
	if s.mirror != nil {
		if err := s.enqueueMirror(ctx, *o); err != nil {
			slog.Warn("Failed to enqueue order mirror message", "order_id", o.ID, "error", err)
		}
	}

	return o.ID, nil
}

// saveClientLastOrder keeps at most one index entry per distinct
// (address, complement, phonenumber) slot: update in place when the slot
// exists, insert otherwise. Callers hold the writer lock.
func (s *OrderService) saveClientLastOrder(ctx context.Context, o order.Order) error {
	matches, err := s.lastOrders.Scan(ctx, func(e lastorder.Entry) bool {
		return e.SameSlot(o.Address, o.Complement, o.Phonenumber)
	})
	if err != nil {
		return err
	}

	if len(matches) > 0 {
		updated := s.now()
		for _, m := range matches {
			_, err := s.lastOrders.UpdateByID(ctx, m.ID, func(e *lastorder.Entry) {
				e.LastOrderID = o.ID
				e.Updated = &updated
			})
			if err != nil {
				return err
			}
		}

		return nil
	}

	entry := lastorder.Entry{
		ID:          s.newID(),
		Address:     o.Address,
		Complement:  o.Complement,
		Phonenumber: o.Phonenumber,
		LastOrderID: o.ID,
		Created:     s.now(),
	}

	return s.lastOrders.Append(ctx, entry.ID, entry)
}

// MarkAsShipped stamps the shipped date and status on the order.
func (s *OrderService) MarkAsShipped(ctx context.Context, id string) error {
	return s.markAs(ctx, id, order.StatusShipped)
}

// MarkAsCanceled stamps the canceled date and status on the order.
func (s *OrderService) MarkAsCanceled(ctx context.Context, id string) error {
	return s.markAs(ctx, id, order.StatusCanceled)
}

// MarkAsDelivered stamps the delivered date and status on the order.
func (s *OrderService) MarkAsDelivered(ctx context.Context, id string) error {
	return s.markAs(ctx, id, order.StatusDelivered)
}

func (s *OrderService) markAs(ctx context.Context, id string, status order.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now()
	_, err := s.orders.UpdateByID(ctx, id, func(o *order.Order) {
		o.Status = status
		switch status {
		case order.StatusShipped:
			o.ShippedDate = &stamp
		case order.StatusCanceled:
			o.CanceledDate = &stamp
		case order.StatusDelivered:
			o.DeliveredDate = &stamp
		}
	})
	if err != nil {
		return err
	}

	return nil
}

// AllInTheQueue returns every order still waiting for a status
// transition, ascending by creation time.
func (s *OrderService) AllInTheQueue(ctx context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, err := s.orders.Scan(ctx, func(o order.Order) bool {
		return o.Status.InQueue()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan queue: %w", err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Created.Before(orders[j].Created)
	})

	return orders, nil
}

// SearchByAddress finds the most recent order per customer slot whose
// address contains the fragment, keyed by the slot address.
func (s *OrderService) SearchByAddress(ctx context.Context, fragment string, limit int) (map[string]order.Order, error) {
	if fragment == "" {
		return map[string]order.Order{}, nil
	}

	field := func(e lastorder.Entry) string { return e.Address }

	return s.search(ctx, fragment, limit, field, field)
}

// SearchByPhone finds the most recent order per customer slot whose
// phone number contains the digits of the fragment. Fragments shorter
// than MinPhoneDigits after normalization return nothing.
func (s *OrderService) SearchByPhone(ctx context.Context, fragment string, limit int) (map[string]order.Order, error) {
	digits := search.NormalizePhoneFragment(fragment)
	if len(digits) < search.MinPhoneDigits {
		return map[string]order.Order{}, nil
	}

	field := func(e lastorder.Entry) string { return e.Phonenumber }
	label := func(e lastorder.Entry) string {
		l := e.Phonenumber + " / " + e.Address
		if e.Complement != "" {
			l += " " + e.Complement
		}

		return l
	}

	return s.search(ctx, digits, limit, field, label)
}

// search runs the shared query pipeline: filter the index by substring,
// rank and bound, resolve each entry to its full order, and fold into a
// label-keyed mapping where later entries overwrite earlier ones.
func (s *OrderService) search(
	ctx context.Context,
	fragment string,
	limit int,
	field func(lastorder.Entry) string,
	label func(lastorder.Entry) string,
) (map[string]order.Order, error) {
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.lastOrders.Scan(ctx, func(e lastorder.Entry) bool {
		return search.Match(field(e), fragment)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan index: %w", err)
	}

	result := make(map[string]order.Order, len(entries))
	for _, e := range search.Rank(entries, field, limit) {
		o, err := s.orders.GetByID(ctx, e.LastOrderID)
		if errors.Is(err, recordstore.ErrNotFound) {
			// The index may reference a record removed out of band.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve order %s: %w", e.LastOrderID, err)
		}
		result[label(e)] = o
	}

	return result, nil
}

// ListProducts returns the product catalog in seed order.
func (s *OrderService) ListProducts(ctx context.Context) ([]product.Product, error) {
	return s.products.Scan(ctx, nil)
}

func (s *OrderService) seedProducts(ctx context.Context) error {
	existing, err := s.products.Scan(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to scan products: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, p := range product.Catalog() {
		if err := s.products.Append(ctx, p.Key(), p); err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}

	return nil
}

// enqueueMirror records the saved order for the outbox worker. Callers
// hold the writer lock.
func (s *OrderService) enqueueMirror(ctx context.Context, o order.Order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	now := s.now()
	msg := outbox.Message{
		ID:           s.newID(),
		ExchangeName: s.mirror.Exchange,
		RoutingKey:   s.mirror.RoutingKey,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   s.mirror.MaxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}

	return s.outbox.Append(ctx, msg.ID, msg)
}

// PendingMirrorMessages returns unpublished outbox messages due for a
// publish attempt, bounded by limit.
func (s *OrderService) PendingMirrorMessages(ctx context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	msgs, err := s.outbox.Scan(ctx, func(m outbox.Message) bool {
		return !m.Published && m.RetryCount < m.MaxRetries && !m.NextRetryAt.After(now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan outbox: %w", err)
	}

	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}

	return msgs, nil
}

// MarkMirrorPublished flags the message so it is never published again.
func (s *OrderService) MarkMirrorPublished(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	published := s.now()
	_, err := s.outbox.UpdateByID(ctx, id, func(m *outbox.Message) {
		m.Published = true
		m.PublishedAt = &published
		m.UpdatedAt = published
	})

	return err
}

// UpdateMirrorRetry records a failed publish attempt and its backoff.
func (s *OrderService) UpdateMirrorRetry(ctx context.Context, id string, retryCount int, lastError string, nextRetryAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.outbox.UpdateByID(ctx, id, func(m *outbox.Message) {
		m.RetryCount = retryCount
		m.LastError = lastError
		m.NextRetryAt = nextRetryAt
		m.UpdatedAt = s.now()
	})

	return err
}
