package main

import (
	"log"
	"net/http"

	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

// WishlistView lists the session-saved dresses.
type WishlistView struct {
	Lang  string
	Items []ProductCard
	Empty bool
}

// WishlistHandler renders the saved-items page. The wishlist lives in
// the session cookie; product details are hydrated from the catalog on
// each view, and entries that disappeared from the catalog are pruned.
func WishlistHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)

	view := WishlistView{Lang: lang}
	var kept []int
	for _, id := range sess.Wishlist {
		product, err := apiClient.Product(r.Context(), id)
		if err != nil {
			log.Printf("wishlist: product %d: %v", id, err)
			continue
		}
		kept = append(kept, id)
		view.Items = append(view.Items, productCard(product, sess))
	}
	if len(kept) != len(sess.Wishlist) {
		sess.Wishlist = kept
		sess.MarkDirty()
	}
	view.Empty = len(view.Items) == 0

	title := i18nOrDefault(lang, "wishlist.title", "Wishlist")
	vm := basePageData(r, lang, title, i18nOrDefault(lang, "wishlist.desc", "Dresses you saved for later."))
	vm.Wishlist = view
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, "wishlist", vm)
}

// WishlistToggleHandler flips a product in or out of the wishlist and
// re-renders the heart button fragment.
func WishlistToggleHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathParamInt(r, "productID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	sess := mw.GetSession(r)
	saved := sess.ToggleWishlist(productID)

	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "frag_wishlist_toggle", map[string]any{
		"Lang":      mw.Lang(r),
		"ProductID": productID,
		"Saved":     saved,
	})
}
