package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/wealth-manager-backend/internal/address"
	"github.com/ndewijer/wealth-manager-backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/wealth-manager-backend/internal/api/middleware"
	"github.com/ndewijer/wealth-manager-backend/internal/config"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// Services groups the dependencies of the HTTP layer.
type Services struct {
	System     *service.SystemService
	Session    *service.SessionService
	Wealth     *service.WealthService
	Asset      *service.AssetService
	Ownership  *service.OwnershipService
	Search     *service.SearchService
	Customer   *service.CustomerService
	Conformity *service.ConformityService
	Address    *address.Client
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	wealthHandler := handlers.NewWealthHandler(svc.Wealth)
	assetHandler := handlers.NewAssetHandler(svc.Asset)
	ownershipHandler := handlers.NewOwnershipHandler(svc.Ownership)
	searchHandler := handlers.NewSearchHandler(svc.Search)
	customerHandler := handlers.NewCustomerHandler(svc.Customer)
	conformityHandler := handlers.NewConformityHandler(svc.Conformity)
	addressHandler := handlers.NewAddressHandler(svc.Address)

	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Everything else requires a session.
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Session(svc.Session))

			r.Get("/session", handlers.Session)
			r.Get("/address", addressHandler.Search)

			r.Route("/company/{companyId}/customer/{customerId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDParams("companyId", "customerId"))

				r.Put("/", customerHandler.UpdateCustomer)

				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.RequireFeature(model.FeatureWealth))
					r.Get("/wealth", wealthHandler.CustomerWealth)
					r.Get("/wealth/repartition", wealthHandler.Repartition)
				})

				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.RequireFeature(model.FeatureConformity))
					r.Get("/conformity/lcb", conformityHandler.LCB)
					r.Put("/conformity/lcb", conformityHandler.UpdateLCB)
				})
			})

			r.Route("/asset/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Use(custommiddleware.RequireFeature(model.FeatureWealth))

				r.Get("/", assetHandler.AssetDetail)
				r.Delete("/", assetHandler.DeleteAsset)
				r.Get("/ownership", ownershipHandler.Ownership)
				r.Put("/ownership", ownershipHandler.SaveOwnership)
			})

			r.With(custommiddleware.RequireFeature(model.FeatureSearch)).
				Get("/search/assets", searchHandler.SearchAssets)
		})
	})

	return r
}
