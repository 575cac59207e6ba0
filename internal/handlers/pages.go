package handlers

import (
	"github.com/luxethreads/storefront-web/internal/nav"
)

// PageData is a generic view model for simple pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       SEOData
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	// Layout chrome shared across pages
	UserName  string
	CartCount int

	// Optional per-page view model payloads
	Shop     any
	Product  any
	Cart     any
	Wishlist any
	Checkout any
	Orders   any
	Order    any
	Auth     any
	Chat     any
	Lookbook any
}
