package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/powdercoat/erp-backend/api/controllers"
	"github.com/powdercoat/erp-backend/api/middleware"
	clientsvc "github.com/powdercoat/erp-backend/internal/clients"
	ordersvc "github.com/powdercoat/erp-backend/internal/orders"
	paymentsvc "github.com/powdercoat/erp-backend/internal/payments"
	productsvc "github.com/powdercoat/erp-backend/internal/products"
	reportsvc "github.com/powdercoat/erp-backend/internal/reports"
	"github.com/powdercoat/erp-backend/pkg/config"
	"github.com/powdercoat/erp-backend/pkg/db"
	"github.com/powdercoat/erp-backend/pkg/logger"
	"github.com/powdercoat/erp-backend/pkg/metrics"
	"github.com/powdercoat/erp-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Clients  clientsvc.Service
	Products productsvc.Service
	Orders   ordersvc.Service
	Payments paymentsvc.Service
	Reports  reportsvc.Service
}

// NewRouter assembles the HTTP surface: middleware chain, API routes, the
// metrics endpoint, and the optional static frontend mount.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(registry)
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Get("/health", controllers.Health(cfg, dbClient))

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ListClients(svcs.Clients, logg))
			r.Post("/", controllers.CreateClient(svcs.Clients, logg))
			r.Get("/{id}", controllers.GetClient(svcs.Clients, logg))
			r.Put("/{id}", controllers.UpdateClient(svcs.Clients, logg))
			r.Delete("/{id}", controllers.DeleteClient(svcs.Clients, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Post("/adjust", controllers.AdjustProductStock(svcs.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.Put("/{id}", controllers.UpdateOrder(svcs.Orders, logg))
			r.Delete("/{id}", controllers.DeleteOrder(svcs.Orders, logg))
			r.Get("/{id}/payments", controllers.ListOrderPayments(svcs.Payments, logg))
		})

		r.Post("/payments", controllers.CreatePayment(svcs.Payments, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/outstanding", controllers.OutstandingReport(svcs.Reports, logg))
			r.Get("/profit", controllers.ProfitReport(svcs.Reports, logg))
			r.Get("/payment-methods", controllers.PaymentMethodsReport(svcs.Reports, logg))
			r.Get("/orders", controllers.SearchOrdersReport(svcs.Orders, logg))
		})
	})

	if cfg.App.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.App.StaticDir)))
	}

	return r
}
