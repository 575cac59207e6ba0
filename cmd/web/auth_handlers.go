package main

import (
	"net/http"
	"strings"

	"github.com/luxethreads/storefront-web/internal/api"
	mw "github.com/luxethreads/storefront-web/internal/middleware"
)

// AuthView backs the login and register forms.
type AuthView struct {
	Lang   string
	Next   string
	Email  string
	Errors map[string]string
}

// LoginHandler renders the login form.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	title := i18nOrDefault(lang, "auth.login.title", "Sign In")
	vm := basePageData(r, lang, title, i18nOrDefault(lang, "auth.login.desc", "Sign in to shop, track orders, and check out faster."))
	vm.Auth = AuthView{Lang: lang, Next: safeNext(r.URL.Query().Get("next"))}
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, "login", vm)
}

// LoginSubmitHandler exchanges credentials for a token and stores it
// in the session.
func LoginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	view := AuthView{Lang: lang, Next: next, Email: email, Errors: map[string]string{}}
	if email == "" {
		view.Errors["email"] = i18nOrDefault(lang, "auth.error.email", "Email is required.")
	}
	if password == "" {
		view.Errors["password"] = i18nOrDefault(lang, "auth.error.password", "Password is required.")
	}
	if len(view.Errors) > 0 {
		renderAuthForm(w, r, "login", view)
		return
	}

	tok, err := apiClient.Login(r.Context(), email, password)
	if err != nil {
		view.Errors["form"] = i18nOrDefault(lang, "auth.error.credentials", "Invalid email or password.")
		renderAuthForm(w, r, "login", view)
		return
	}

	sess := mw.GetSession(r)
	sess.Token = tok.AccessToken
	sess.RegenerateID()
	if me, err := apiClient.Me(r.Context(), tok.AccessToken); err == nil {
		sess.UserID = me.ID
		sess.UserName = strings.TrimSpace(me.FirstName + " " + me.LastName)
		sess.MarkDirty()
	}
	// a fresh login invalidates any parked checkout flow
	flowStore.Delete(sess.ID)

	if next == "" {
		next = "/"
	}
	hxRedirect(w, r, next)
}

// RegisterHandler renders the account creation form.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	title := i18nOrDefault(lang, "auth.register.title", "Create Account")
	vm := basePageData(r, lang, title, i18nOrDefault(lang, "auth.register.desc", "Create an account to earn loyalty discounts on every order."))
	vm.Auth = AuthView{Lang: lang}
	vm.SEO.Robots = "noindex, nofollow"
	renderPage(w, r, "register", vm)
}

// RegisterSubmitHandler creates the account, then signs the shopper in.
func RegisterSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	view := AuthView{Lang: lang, Email: email, Errors: map[string]string{}}
	if email == "" {
		view.Errors["email"] = i18nOrDefault(lang, "auth.error.email", "Email is required.")
	}
	if len(password) < 8 {
		view.Errors["password"] = i18nOrDefault(lang, "auth.error.password.short", "Password must be at least 8 characters.")
	}
	if len(view.Errors) > 0 {
		renderAuthForm(w, r, "register", view)
		return
	}

	reg := api.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		Address:   strings.TrimSpace(r.FormValue("address")),
		City:      strings.TrimSpace(r.FormValue("city")),
		State:     strings.TrimSpace(r.FormValue("state")),
		Country:   strings.TrimSpace(r.FormValue("country")),
		Postal:    strings.TrimSpace(r.FormValue("postal_code")),
	}
	if _, err := apiClient.Register(r.Context(), reg); err != nil {
		view.Errors["form"] = i18nOrDefault(lang, "auth.error.register", "Could not create the account. The email may already be in use.")
		renderAuthForm(w, r, "register", view)
		return
	}

	tok, err := apiClient.Login(r.Context(), email, password)
	if err != nil {
		hxRedirect(w, r, "/login")
		return
	}
	sess := mw.GetSession(r)
	sess.Token = tok.AccessToken
	sess.RegenerateID()
	if me, err := apiClient.Me(r.Context(), tok.AccessToken); err == nil {
		sess.UserID = me.ID
		sess.UserName = strings.TrimSpace(me.FirstName + " " + me.LastName)
		sess.MarkDirty()
	}
	hxRedirect(w, r, "/")
}

// LogoutHandler drops credentials and any in-progress checkout.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	flowStore.Delete(sess.ID)
	sess.Token = ""
	sess.UserID = 0
	sess.UserName = ""
	sess.ChatSessionID = ""
	sess.RegenerateID()
	hxRedirect(w, r, "/")
}

func renderAuthForm(w http.ResponseWriter, r *http.Request, page string, view AuthView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if mw.IsHTMX(r.Context()) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "frag_"+page+"_form", view)
		return
	}
	lang := view.Lang
	title := i18nOrDefault(lang, "auth."+page+".title", "Sign In")
	vm := basePageData(r, lang, title, "")
	vm.Auth = view
	vm.SEO.Robots = "noindex, nofollow"
	w.WriteHeader(http.StatusUnprocessableEntity)
	renderPage(w, r, page, vm)
}

// safeNext only allows same-site relative redirect targets.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
