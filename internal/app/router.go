package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-dms/meridian/internal/ap"
	"github.com/meridian-dms/meridian/internal/ar"
	"github.com/meridian-dms/meridian/internal/delivery"
	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/observability"
	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/procurement"
	"github.com/meridian-dms/meridian/internal/retail"
	"github.com/meridian-dms/meridian/internal/sales"
	"github.com/meridian-dms/meridian/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	OrdersHandler      *orders.Handler
	ProcurementHandler *procurement.Handler
	SalesHandler       *sales.Handler
	RetailHandler      *retail.Handler
	APHandler          *ap.Handler
	ARHandler          *ar.Handler
	DeliveryHandler    *delivery.Handler
	MasterDataHandler  *masterdata.Handler
	UsersHandler       *users.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Get("/metrics", params.Metrics.Handler().ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		if params.OrdersHandler != nil {
			r.Route("/orders", params.OrdersHandler.MountRoutes)
		}
		if params.ProcurementHandler != nil {
			r.Route("/purchase-orders", params.ProcurementHandler.MountRoutes)
			r.Route("/shipments", params.ProcurementHandler.MountShipmentRoutes)
		}
		if params.SalesHandler != nil {
			r.Route("/sales-orders", params.SalesHandler.MountRoutes)
			r.Route("/payments", params.SalesHandler.MountPaymentRoutes)
		}
		if params.RetailHandler != nil {
			r.Route("/retail-orders", params.RetailHandler.MountRoutes)
			r.Route("/carts", params.RetailHandler.MountCartRoutes)
		}
		if params.APHandler != nil {
			r.Route("/purchase-invoices", params.APHandler.MountRoutes)
		}
		if params.ARHandler != nil {
			r.Route("/sales-invoices", params.ARHandler.MountRoutes)
		}
		if params.DeliveryHandler != nil {
			r.Route("/deliveries", params.DeliveryHandler.MountRoutes)
		}
		if params.MasterDataHandler != nil {
			r.Route("/suppliers", params.MasterDataHandler.MountSupplierRoutes)
			r.Route("/customers", params.MasterDataHandler.MountCustomerRoutes)
			r.Route("/drivers", params.MasterDataHandler.MountDriverRoutes)
			r.Route("/vehicles", params.MasterDataHandler.MountVehicleRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
	})

	return r
}
