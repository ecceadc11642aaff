package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

// Deps are the long-lived collaborators the router hands to its handlers.
type Deps struct {
	Workspaces controllers.Workspaces
	Store      session.Store
	Cookies    sessions.Store
	Gatherer   prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.UI.AllowedCORSOrigin),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Store))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	cookies := deps.Cookies
	if cookies == nil {
		cookies = middleware.NewCookieStore(cfg.Session)
	}
	reg := deps.Workspaces

	r.Group(func(r chi.Router) {
		r.Use(middleware.ClientSession(cookies, cfg.Session.CookieName, deps.Store, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsView(reg, logg))
			r.Post("/filters", controllers.ProductsFilters(reg, logg))
			r.Post("/page/next", controllers.ProductsNextPage(reg, logg))
			r.Post("/page/prev", controllers.ProductsPrevPage(reg, logg))
			r.Post("/delete/confirm", controllers.ProductConfirmDelete(reg, logg))
			r.Post("/delete/cancel", controllers.ProductCancelDelete(reg, logg))

			r.Get("/new", controllers.ProductNewView(reg, logg))
			r.Post("/new", controllers.ProductNewSubmit(reg, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.ProductDetail(reg, logg))
				r.Post("/add", controllers.ProductDetailAdd(reg, logg))
				r.Post("/featured", controllers.ProductToggleFeatured(reg, logg))
				r.Post("/delete", controllers.ProductRequestDelete(reg, logg))
				r.Post("/cart", controllers.ProductAddToCart(reg, logg))
				r.Get("/edit", controllers.ProductEditView(reg, logg))
				r.Post("/edit", controllers.ProductEditSubmit(reg, logg))
			})
		})

		r.Route("/featured", func(r chi.Router) {
			r.Get("/", controllers.FeaturedView(reg, logg))
			r.Post("/{id}/unfeature", controllers.FeaturedUnfeature(reg, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(reg, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(reg, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(reg, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationsList(reg, logg))
			r.Delete("/{id}", controllers.NotificationsDismiss(reg, logg))
		})
	})

	r.Get("/", controllers.Navigate(cfg.UI.AssignmentPath))
	r.NotFound(controllers.Navigate(cfg.UI.AssignmentPath))

	return r
}
