package main

import (
	"log"
	"net/http"

	"github.com/luxethreads/storefront-web/internal/api"
	"github.com/luxethreads/storefront-web/internal/lookbook"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
	"github.com/luxethreads/storefront-web/internal/seo"
)

// HomeView is the landing page view model.
type HomeView struct {
	Lang     string
	Featured []ProductCard
	Stories  []lookbook.Entry
}

// HomeHandler renders the landing page: featured dresses plus the
// latest lookbook stories.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)

	featured := true
	page, err := apiClient.Products(r.Context(), api.ProductFilter{Featured: &featured, Limit: 8})
	if err != nil {
		// The landing page still renders without the catalog strip.
		log.Printf("home: featured products: %v", err)
	}

	stories, err := lookbookLib.List(lang)
	if err != nil {
		log.Printf("home: lookbook: %v", err)
	}
	if len(stories) > 3 {
		stories = stories[:3]
	}

	sess := mw.GetSession(r)
	view := HomeView{
		Lang:     lang,
		Featured: productCards(page.Products, sess),
		Stories:  stories,
	}

	title := i18nOrDefault(lang, "home.title", "Designer Dresses for Every Occasion")
	desc := i18nOrDefault(lang, "home.desc", "Shop curated ethnic and western wear with loyalty pricing and doorstep delivery.")
	vm := basePageData(r, lang, title, desc)
	vm.Lookbook = view
	vm.SEO.JSONLD = []string{
		seo.JSON(seo.Organization(i18nOrDefault(lang, "brand.name", "Luxe Threads"), siteBaseURL(r), "")),
		seo.JSON(seo.WebSite(i18nOrDefault(lang, "brand.name", "Luxe Threads"), siteBaseURL(r), siteBaseURL(r)+"/shop?search=")),
	}
	renderPage(w, r, "home", vm)
}

// LookbookHandler lists every published story for the locale.
func LookbookHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	stories, err := lookbookLib.List(lang)
	if err != nil {
		http.Error(w, "lookbook unavailable", http.StatusInternalServerError)
		return
	}

	title := i18nOrDefault(lang, "lookbook.title", "Lookbook")
	desc := i18nOrDefault(lang, "lookbook.desc", "Editorial stories and styling notes from the Luxe Threads studio.")
	vm := basePageData(r, lang, title, desc)
	vm.Lookbook = HomeView{Lang: lang, Stories: stories}
	renderPage(w, r, "lookbook", vm)
}

// LookbookEntryHandler renders a single story.
func LookbookEntryHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	slug := pathParam(r, "slug")
	entry, err := lookbookLib.Get(slug, lang)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	vm := basePageData(r, lang, entry.Title, entry.Summary)
	vm.Lookbook = entry
	vm.SEO.JSONLD = []string{
		seo.JSON(seo.Article(entry.Title, absoluteURL(r), entry.HeroImageURL, "", entry.PublishAt.Format("2006-01-02"))),
	}
	renderPage(w, r, "lookbook_entry", vm)
}
