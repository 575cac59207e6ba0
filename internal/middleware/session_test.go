package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookieName)
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd := GetSession(r)
		if r.URL.Query().Get("save") == "1" {
			sd.Token = "tok-abc"
			sd.UserName = "Priya Sharma"
			sd.Wishlist = []int{7, 12}
			sd.MarkDirty()
		}
		io.WriteString(w, sd.UserName)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?save=1", nil))
	c := sessionCookie(t, rec.Result())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, "Priya Sharma", rec2.Body.String())
}

func TestTamperedCookieGetsFreshSession(t *testing.T) {
	var ids []string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd := GetSession(r)
		ids = append(ids, sd.ID)
		io.WriteString(w, "ok")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := sessionCookie(t, rec.Result())

	// corrupt the signature segment
	parts := strings.Split(c.Value, ".")
	require.Len(t, parts, 2)
	c.Value = parts[0] + "." + strings.Repeat("A", len(parts[1]))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)

	require.Len(t, ids, 2)
	require.NotEqual(t, ids[0], ids[1])
}

func TestToggleWishlist(t *testing.T) {
	sd := &SessionData{}
	require.True(t, sd.ToggleWishlist(5))
	require.True(t, sd.InWishlist(5))
	require.True(t, sd.ToggleWishlist(9))
	require.False(t, sd.ToggleWishlist(5))
	require.False(t, sd.InWishlist(5))
	require.Equal(t, []int{9}, sd.Wishlist)
}

func TestRegenerateIDRotatesCSRFToken(t *testing.T) {
	sd := &SessionData{ID: "old", CSRFToken: "old-token"}
	sd.RegenerateID()
	require.NotEqual(t, "old", sd.ID)
	require.NotEqual(t, "old-token", sd.CSRFToken)
	require.NotEmpty(t, sd.CSRFToken)
}
