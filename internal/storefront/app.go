// Package storefront composes the catalog, cart, checkout, session and toast
// surfaces into the single handler the binary serves.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"AspectoStore/internal/cart"
	"AspectoStore/internal/catalog"
	"AspectoStore/internal/checkout"
	"AspectoStore/internal/event"
	"AspectoStore/internal/notify"
	"AspectoStore/internal/session"
	"AspectoStore/pkg/kit"
)

type Deps struct {
	Log      *zap.Logger
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	Catalog catalog.Store
	Carts   cart.Store
	Orders  checkout.Store
	Mailer  checkout.Mailer
	Events  event.Producer
	Notify  *notify.Center

	JWT        *session.TokenMaker
	SessionTTL time.Duration

	PIX          checkout.PIXConfig
	ChatPhone    string
	OrderEmailTo string
}

const (
	serviceName = "storefront"

	checkoutLimitPerMin = 10
	sessionLimitPerMin  = 20
	limitWindowSeconds  = 60
)

func NewHandler(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(d.Log))

	if d.Registry != nil {
		metrics := kit.NewMetrics(d.Registry)
		r.Use(metrics.Middleware(serviceName, kit.ChiRoutePatternOrPath))

		if d.MetricsEnabled {
			r.With(kit.MetricsAuth(d.MetricsToken)).
				Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
		}
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(d))

	sessionSrv := &session.Server{JWT: d.JWT, TTL: d.SessionTTL, Log: d.Log}
	sessionLimiter := kit.NewIPRateLimiter(sessionLimitPerMin, limitWindowSeconds)
	r.With(sessionLimiter.Middleware).Post("/session", sessionSrv.IssueHandler())

	catalogSrv := &catalog.Server{Store: d.Catalog, Log: d.Log}
	r.Mount("/", catalogSrv.Routes())

	cartSrv := cart.NewServer(d.Carts, d.Catalog, d.Notify, d.Log)
	checkoutSrv := checkout.NewServer(checkout.Deps{
		Carts:        d.Carts,
		Orders:       d.Orders,
		Mailer:       d.Mailer,
		Events:       d.Events,
		Notify:       d.Notify,
		Log:          d.Log,
		PIX:          d.PIX,
		ChatPhone:    d.ChatPhone,
		OrderEmailTo: d.OrderEmailTo,
	})
	checkoutLimiter := kit.NewIPRateLimiter(checkoutLimitPerMin, limitWindowSeconds)

	r.Group(func(pr chi.Router) {
		pr.Use(session.Require(d.JWT))

		pr.Get("/cart", cartSrv.ViewHandler())
		pr.Post("/cart/items", cartSrv.AddHandler())
		pr.Post("/cart/items/{key}/increment", cartSrv.IncrementHandler())
		pr.Post("/cart/items/{key}/decrement", cartSrv.DecrementHandler())
		pr.Post("/cart/items/{key}/removal", cartSrv.OpenRemovalHandler())
		pr.Post("/cart/removals/{id}/confirm", cartSrv.ConfirmRemovalHandler())
		pr.Post("/cart/removals/{id}/cancel", cartSrv.CancelRemovalHandler())

		pr.With(checkoutLimiter.Middleware).Post("/checkout", checkoutSrv.BeginHandler())
		pr.Post("/checkout/{id}/confirm", checkoutSrv.ConfirmHandler())
		pr.Post("/checkout/{id}/cancel", checkoutSrv.CancelHandler())
		pr.Get("/orders/{id}", checkoutSrv.GetOrderHandler())

		pr.Get("/toast", toastGet(d.Notify))
		pr.Delete("/toast", toastDismiss(d.Notify))
	})

	return r
}

func readyz(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := d.Carts.Ping(ctx); err != nil {
			if d.Log != nil {
				d.Log.Warn("readyz cart store failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		if err := d.Catalog.Ping(ctx); err != nil {
			if d.Log != nil {
				d.Log.Warn("readyz catalog failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func toastGet(n *notify.Center) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, ok := n.Current()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		kit.WriteJSON(w, http.StatusOK, cur)
	}
}

func toastDismiss(n *notify.Center) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n.Dismiss()
		w.WriteHeader(http.StatusNoContent)
	}
}
