package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/luxethreads/storefront-web/internal/api"
	"github.com/luxethreads/storefront-web/internal/checkout"
	"github.com/luxethreads/storefront-web/internal/i18n"
	"github.com/luxethreads/storefront-web/internal/lookbook"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	localesDir   = "locales"
	lookbookDir  = "lookbook"
	// devMode is set in main() based on env: LUXE_WEB_DEV (preferred) or DEV (fallback)
	devMode bool

	apiClient   *api.Client
	i18nBundle  *i18n.Bundle
	flowStore   *checkout.FlowStore
	lookbookLib *lookbook.Library
)

func main() {
	var (
		addr     string
		tmplPath string
		pubPath  string
		locPath  string
		lbPath   string
	)
	// Port resolution: prefer LUXE_WEB_PORT, then Cloud Run's PORT, else 8080
	port := os.Getenv("LUXE_WEB_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}
	flag.StringVar(&addr, "addr", ":"+port, "HTTP listen address")
	flag.StringVar(&tmplPath, "templates", templatesDir, "templates directory")
	flag.StringVar(&pubPath, "public", publicDir, "public assets directory")
	flag.StringVar(&locPath, "locales", localesDir, "locale bundles directory")
	flag.StringVar(&lbPath, "lookbook", lookbookDir, "lookbook content directory")
	flag.Parse()

	templatesDir = tmplPath
	publicDir = pubPath
	localesDir = locPath
	lookbookDir = lbPath

	// Dev mode: prefer LUXE_WEB_DEV, fallback to DEV
	devMode = os.Getenv("LUXE_WEB_DEV") != "" || os.Getenv("DEV") != ""

	var err error
	apiClient, err = api.NewClient(envOrDefault("LUXE_WEB_API_BASE_URL", "http://localhost:8000"), nil)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}
	i18nBundle, err = i18n.Load(localesDir, "en", []string{"en", "hi"})
	if err != nil {
		log.Fatalf("load locales: %v", err)
	}
	flowStore = checkout.NewFlowStore(0)
	lookbookLib = lookbook.NewLibrary(lookbookDir)

	if !devMode {
		// Parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			log.Fatalf("parse templates: %v", err)
		}
		tmplCache = tc
	}

	r := newRouter()

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("storefront listening on %s (devMode=%v)", addr, devMode)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %v", err)
	}
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.Locale(i18nBundle))
	r.Use(mw.CSRF)
	r.Use(mw.VaryLocale)
	r.Use(mw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Static assets under /assets/
	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets")))
	r.Handle("/assets/*", assets)

	r.Get("/", HomeHandler)
	r.Get("/lookbook", LookbookHandler)
	r.Get("/lookbook/{slug}", LookbookEntryHandler)

	r.Get("/shop", ShopHandler)
	r.Get("/shop/grid", ShopGridFrag)
	r.Get("/shop/{productID}", ProductDetailHandler)

	r.Get("/login", LoginHandler)
	r.Post("/login", LoginSubmitHandler)
	r.Get("/register", RegisterHandler)
	r.Post("/register", RegisterSubmitHandler)
	r.Post("/logout", LogoutHandler)

	r.Get("/wishlist", WishlistHandler)
	r.Post("/wishlist/{productID}/toggle", WishlistToggleHandler)

	r.Get("/chat/log", ChatLogFrag)
	r.Post("/chat/messages", ChatMessageHandler)
	r.Post("/chat/reset", ChatResetHandler)

	// Shopper-only surfaces
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)

		r.Get("/cart", CartHandler)
		r.Post("/cart/items", CartAddHandler)
		r.Post("/cart/items/{itemID}", CartUpdateHandler)
		r.Post("/cart/items/{itemID}/delete", CartRemoveHandler)
		r.Post("/cart/clear", CartClearHandler)

		r.Get("/checkout", CheckoutEntryHandler)
		r.Get("/checkout/address", CheckoutAddressHandler)
		r.Post("/checkout/address", CheckoutAddressSubmitHandler)
		r.Get("/checkout/payment", CheckoutPaymentHandler)
		r.Post("/checkout/payment", CheckoutPaymentSubmitHandler)
		r.Get("/checkout/review", CheckoutReviewHandler)
		r.Post("/checkout/back", CheckoutBackHandler)
		r.Post("/checkout/confirm", CheckoutConfirmHandler)
		r.Get("/checkout/success", CheckoutSuccessHandler)
		r.Get("/checkout/error", CheckoutErrorHandler)
		r.Post("/checkout/retry", CheckoutRetryHandler)

		r.Get("/orders", OrdersHandler)
		r.Get("/orders/{orderID}", OrderDetailHandler)
		r.Post("/orders/{orderID}/pay", OrderPayHandler)
		r.Post("/orders/{orderID}/cancel", OrderCancelHandler)
	})

	return r
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
