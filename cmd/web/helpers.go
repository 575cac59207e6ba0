package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luxethreads/storefront-web/internal/format"
	handlersPkg "github.com/luxethreads/storefront-web/internal/handlers"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
	"github.com/luxethreads/storefront-web/internal/nav"
)

var tmplCache *template.Template

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
		"t": func(lang, key string) string {
			return i18nBundle.T(lang, key)
		},
		"currency": func(amount float64) string {
			return format.FmtCurrency(amount, "INR", "")
		},
		"date": format.FmtDate,
		"jsonld": func(s string) template.JS {
			return template.JS(s)
		},
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func templates(w http.ResponseWriter) *template.Template {
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return nil
		}
		return tc
	}
	if tmplCache == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return nil
	}
	return tmplCache
}

// renderPage executes a full page: the named content template wrapped
// in the base layout.
func renderPage(w http.ResponseWriter, r *http.Request, name string, vm handlersPkg.PageData) {
	t := templates(w)
	if t == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	vm.Path = r.URL.Path
	if err := t.ExecuteTemplate(w, name, vm); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}

// renderTemplate executes a named fragment template without the layout.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	t := templates(w)
	if t == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}

// i18nOrDefault translates key, falling back to def when no bundle
// entry exists.
func i18nOrDefault(lang, key, def string) string {
	if i18nBundle == nil {
		return def
	}
	if v := i18nBundle.T(lang, key); v != key {
		return v
	}
	return def
}

// basePageData assembles the layout chrome every page shares.
func basePageData(r *http.Request, lang, title, desc string) handlersPkg.PageData {
	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
	}
	if u := mw.UserFromContext(r.Context()); u != nil {
		vm.UserName = u.Name
	}

	brand := i18nOrDefault(lang, "brand.name", "Luxe Threads")
	vm.SEO.Title = title + " | " + brand
	vm.SEO.Description = desc
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brand
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "website"
	vm.SEO.Twitter.Card = "summary_large_image"
	vm.SEO.Alternates = buildAlternates(r)
	return vm
}

// siteBaseURL derives the external base URL for the current request,
// honoring proxy headers.
func siteBaseURL(r *http.Request) string {
	if v := envOrDefault("LUXE_WEB_BASE_URL", ""); v != "" {
		return strings.TrimRight(v, "/")
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	host := r.Host
	if fh := r.Header.Get("X-Forwarded-Host"); fh != "" {
		host = fh
	}
	return scheme + "://" + host
}

func absoluteURL(r *http.Request) string {
	u := url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery}
	return siteBaseURL(r) + u.String()
}

// buildAlternates lists hreflang alternates for every supported locale.
func buildAlternates(r *http.Request) []struct{ Href, Hreflang string } {
	if i18nBundle == nil {
		return nil
	}
	base := siteBaseURL(r)
	var out []struct{ Href, Hreflang string }
	for _, lang := range i18nBundle.Supported() {
		q := r.URL.Query()
		q.Set("hl", lang)
		out = append(out, struct{ Href, Hreflang string }{
			Href:     base + r.URL.Path + "?" + q.Encode(),
			Hreflang: lang,
		})
	}
	return out
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func pathParamInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// hxRedirect navigates the browser whether or not the request came
// through htmx.
func hxRedirect(w http.ResponseWriter, r *http.Request, target string) {
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
