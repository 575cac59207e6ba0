package main

import (
	"net/http"
	"strconv"
	"strings"

	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

// CartHandler renders the cart page.
func CartHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	token := mw.Token(r.Context())

	items, err := apiClient.CartItems(r.Context(), token)
	if err != nil {
		http.Error(w, "cart unavailable", http.StatusBadGateway)
		return
	}
	view := buildCartView(lang, items)

	title := i18nOrDefault(lang, "cart.title", "Shopping Bag")
	desc := i18nOrDefault(lang, "cart.desc", "Review your selected dresses before checkout.")
	vm := basePageData(r, lang, title, desc)
	vm.Cart = view
	vm.CartCount = view.ItemCount
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, "cart", vm)
}

// CartAddHandler adds a product from the shop or detail page, then
// refreshes the cart fragment or redirects.
func CartAddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	productID, err := strconv.Atoi(strings.TrimSpace(r.FormValue("product_id")))
	if err != nil || productID <= 0 {
		http.Error(w, "invalid product", http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity <= 0 {
		quantity = 1
	}

	token := mw.Token(r.Context())
	if _, err := apiClient.AddToCart(r.Context(), token, productID, quantity); err != nil {
		renderCartAlert(w, r, "error", i18nOrDefault(mw.Lang(r), "cart.add.failed", "Could not add this item. Please try again."))
		return
	}
	hxRedirect(w, r, "/cart")
}

// CartUpdateHandler replaces a line quantity and re-renders the cart
// fragment.
func CartUpdateHandler(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathParamInt(r, "itemID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity <= 0 {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}

	token := mw.Token(r.Context())
	if err := apiClient.UpdateCartItem(r.Context(), token, itemID, quantity); err != nil {
		renderCartAlert(w, r, "error", i18nOrDefault(mw.Lang(r), "cart.update.failed", "Could not update the quantity."))
		return
	}
	renderCartFragment(w, r)
}

// CartRemoveHandler deletes one line.
func CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathParamInt(r, "itemID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	token := mw.Token(r.Context())
	if err := apiClient.RemoveCartItem(r.Context(), token, itemID); err != nil {
		renderCartAlert(w, r, "error", i18nOrDefault(mw.Lang(r), "cart.remove.failed", "Could not remove the item."))
		return
	}
	renderCartFragment(w, r)
}

// CartClearHandler empties the bag.
func CartClearHandler(w http.ResponseWriter, r *http.Request) {
	token := mw.Token(r.Context())
	if err := apiClient.ClearCart(r.Context(), token); err != nil {
		renderCartAlert(w, r, "error", i18nOrDefault(mw.Lang(r), "cart.clear.failed", "Could not clear the bag."))
		return
	}
	renderCartFragment(w, r)
}

func renderCartFragment(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	items, err := apiClient.CartItems(r.Context(), mw.Token(r.Context()))
	if err != nil {
		renderCartAlert(w, r, "error", i18nOrDefault(lang, "cart.load.failed", "Could not reload the bag."))
		return
	}
	renderTemplate(w, r, "frag_cart", buildCartView(lang, items))
}

func renderCartAlert(w http.ResponseWriter, r *http.Request, tone, body string) {
	data := map[string]any{
		"Tone": tone,
		"Body": body,
		"Icon": "information-circle",
	}
	if tone == "error" {
		data["Icon"] = "exclamation-triangle"
	}
	w.WriteHeader(http.StatusOK)
	renderTemplate(w, r, "c_inline_alert", data)
}
