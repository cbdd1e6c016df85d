package model

// ResourceView identifies the configured view a page is rendering. Only the
// two ids matter to URL resolution; anything else the host sends is kept in
// Extra so it round-trips.
type ResourceView struct {
	PackageID  string         `json:"package_id"`
	ResourceID string         `json:"resource_id"`
	Extra      map[string]any `json:"-"`
}

// ViewConfig is the page-embedded configuration for one resource view. Fields
// may arrive JSON-encoded (sometimes twice) and are decoded defensively by
// resolver.DecodeViewConfig; a ViewConfig in hand is always plain values.
type ViewConfig struct {
	ProxyURL        string
	ProxyServiceURL string
	SiteURL         string
	RawURL          string
	ResourceView    *ResourceView
	MapConfig       map[string]any
	OLConfig        map[string]any
}

// FetchPlan is the resolved URL set for one resource load: computed once,
// never mutated afterwards.
type FetchPlan struct {
	// ProxyURL is the effective fetch URL for the resource bytes. Empty
	// means no proxying applies and the raw resource URL is used directly.
	ProxyURL string `json:"proxy_url,omitempty"`
	// ProxyServiceURL is the generic same-origin relay, used by service
	// formats for capability requests.
	ProxyServiceURL string `json:"proxy_service_url,omitempty"`
}

// EffectiveURL picks the URL a layer should actually fetch: the resolved
// proxy when one exists, the raw URL otherwise.
func (p FetchPlan) EffectiveURL(rawURL string) string {
	if p.ProxyURL != "" {
		return p.ProxyURL
	}

	return rawURL
}
