package main

import (
	"net/http"

	mw "github.com/luxethreads/storefront-web/internal/middleware"
	"github.com/luxethreads/storefront-web/internal/seo"
)

// ShopHandler renders the catalog page with the filter rail and grid.
func ShopHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)

	page, err := apiClient.Products(r.Context(), parseShopFilter(r.URL.Query()))
	if err != nil {
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	view := buildShopView(lang, r.URL.Query(), page, sess)

	title := i18nOrDefault(lang, "shop.title", "Shop Dresses")
	desc := i18nOrDefault(lang, "shop.desc", "Browse lehengas, sarees, gowns and more, filtered by occasion and budget.")
	vm := basePageData(r, lang, title, desc)
	vm.Shop = view
	renderPage(w, r, "shop", vm)
}

// ShopGridFrag re-renders only the product grid for htmx filter
// changes, pushing the canonical URL.
func ShopGridFrag(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)

	page, err := apiClient.Products(r.Context(), parseShopFilter(r.URL.Query()))
	if err != nil {
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	view := buildShopView(lang, r.URL.Query(), page, sess)

	if mw.IsHTMX(r.Context()) {
		push := "/shop"
		if q := r.URL.Query().Encode(); q != "" {
			push += "?" + q
		}
		w.Header().Set("HX-Push-Url", push)
	}
	renderTemplate(w, r, "frag_shop_grid", view)
}

// ProductDetailHandler renders one dress with size, color, and stock
// information.
func ProductDetailHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)

	id, ok := pathParamInt(r, "productID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	product, err := apiClient.Product(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	view := buildProductView(lang, product, sess)

	vm := basePageData(r, lang, product.Name, product.Description)
	vm.Product = view
	vm.SEO.JSONLD = []string{
		seo.JSON(seo.Product(product.Name, product.Description, absoluteURL(r), product.ImageURL, product.Price, product.Stock > 0)),
		seo.JSON(seo.BreadcrumbList([]seo.BreadcrumbItem{
			{Name: i18nOrDefault(lang, "nav.home", "Home"), Item: siteBaseURL(r) + "/"},
			{Name: i18nOrDefault(lang, "nav.shop", "Shop"), Item: siteBaseURL(r) + "/shop"},
			{Name: product.Name, Item: absoluteURL(r)},
		})),
	}
	renderPage(w, r, "product", vm)
}
