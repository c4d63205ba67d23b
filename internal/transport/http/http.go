package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	createorder "github.com/aquavenda/pos/internal/transport/http/create_order"
	listproducts "github.com/aquavenda/pos/internal/transport/http/list_products"
	listqueue "github.com/aquavenda/pos/internal/transport/http/list_queue"
	searchorders "github.com/aquavenda/pos/internal/transport/http/search_orders"
	updatestatus "github.com/aquavenda/pos/internal/transport/http/update_status"

	"github.com/aquavenda/pos/internal/service/models/order"
	"github.com/aquavenda/pos/internal/service/models/product"
	"github.com/aquavenda/pos/pkg/http/middleware/trace"
	"github.com/aquavenda/pos/pkg/logger"
)

type service interface {
	Save(ctx context.Context, o *order.Order) (string, error)
	MarkAsShipped(ctx context.Context, id string) error
	MarkAsCanceled(ctx context.Context, id string) error
	MarkAsDelivered(ctx context.Context, id string) error
	AllInTheQueue(ctx context.Context) ([]order.Order, error)
	SearchByAddress(ctx context.Context, fragment string, limit int) (map[string]order.Order, error)
	SearchByPhone(ctx context.Context, fragment string, limit int) (map[string]order.Order, error)
	ListProducts(ctx context.Context) ([]product.Product, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.createOrder)
		r.Get("/orders/queue", h.listQueue)
		r.Post("/orders/{id}/shipped", h.markAsShipped)
		r.Post("/orders/{id}/canceled", h.markAsCanceled)
		r.Post("/orders/{id}/delivered", h.markAsDelivered)
		r.Get("/search/address", h.searchByAddress)
		r.Get("/search/phone", h.searchByPhone)
		r.Get("/products", h.listProducts)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listQueue(w http.ResponseWriter, r *http.Request) {
	listqueue.ListQueue(w, r, h.service)
}

func (h *HTTPTransport) markAsShipped(w http.ResponseWriter, r *http.Request) {
	updatestatus.MarkAsShipped(w, r, h.service)
}

func (h *HTTPTransport) markAsCanceled(w http.ResponseWriter, r *http.Request) {
	updatestatus.MarkAsCanceled(w, r, h.service)
}

func (h *HTTPTransport) markAsDelivered(w http.ResponseWriter, r *http.Request) {
	updatestatus.MarkAsDelivered(w, r, h.service)
}

func (h *HTTPTransport) searchByAddress(w http.ResponseWriter, r *http.Request) {
	searchorders.ByAddress(w, r, h.service)
}

func (h *HTTPTransport) searchByPhone(w http.ResponseWriter, r *http.Request) {
	searchorders.ByPhone(w, r, h.service)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
