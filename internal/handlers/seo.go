package handlers

// SEOData carries the head metadata rendered by the shared layout.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          struct{
		Title       string
		Description string
		Image       string
		Type        string
		URL         string
		SiteName    string
	}
	Twitter     struct{
		Card  string
		Site  string
		Image string
	}
	Alternates []struct{ Href, Hreflang string }
	JSONLD     []string
}
