package resolver

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/opendatagr/geoview/pkg/model"
)

var kmlFileRe = regexp.MustCompile(`(?i)\.km[lz](\?.*)?$`)

// ResolveFetchPlan computes the URL set for one resource load. Deterministic
// and total: decode or construction failures fall back to the next best URL
// rather than failing, so a plan always comes back.
//
// KML/KMZ files prefer the dedicated file proxy over the generic query-param
// relay; the generic relay redirects, and cross-origin redirects break the
// browser's KML fetch.
func ResolveFetchPlan(res *model.Resource, cfg model.ViewConfig) model.FetchPlan {
	plan := model.FetchPlan{
		ProxyURL:        cfg.ProxyURL,
		ProxyServiceURL: cfg.ProxyServiceURL,
	}

	rawURL := cfg.RawURL
	if rawURL == "" && res != nil {
		rawURL = res.URL
	}

	if plan.ProxyServiceURL == "" {
		plan.ProxyServiceURL = synthesizeProxyServiceURL(cfg)
	}

	if kmlFileRe.MatchString(rawURL) {
		if u := fileProxyURL(res, cfg, rawURL); u != "" {
			plan.ProxyURL = u
		} else if plan.ProxyServiceURL != "" {
			plan.ProxyURL = plan.ProxyServiceURL + "?url=" + url.QueryEscape(rawURL)
		}
	}

	return plan
}

// synthesizeProxyServiceURL derives the generic relay endpoint from the view
// identity when the host did not pass one explicitly.
func synthesizeProxyServiceURL(cfg model.ViewConfig) string {
	rv := cfg.ResourceView
	if rv == nil || rv.PackageID == "" || rv.ResourceID == "" || cfg.SiteURL == "" {
		return ""
	}

	site := cfg.SiteURL
	if !strings.HasSuffix(site, "/") {
		site += "/"
	}

	return site + "dataset/" + rv.PackageID + "/resource/" + rv.ResourceID + "/resource_proxy"
}

// fileProxyURL builds the dedicated same-origin file proxy URL for an
// uploaded file, or "" when it cannot be constructed from the available
// pieces (the caller then falls back to the generic relay).
func fileProxyURL(res *model.Resource, cfg model.ViewConfig, rawURL string) string {
	if cfg.SiteURL == "" {
		return ""
	}

	resourceID := ""
	if res != nil {
		resourceID = res.ID
	}
	if resourceID == "" && cfg.ResourceView != nil {
		resourceID = cfg.ResourceView.ResourceID
	}
	if resourceID == "" {
		return ""
	}

	filename := FilenameFromURL(rawURL)
	if filename == "" {
		return ""
	}

	return strings.TrimSuffix(cfg.SiteURL, "/") + "/geoview_file_proxy/" + resourceID + "/" + filename
}

// FilenameFromURL recovers the uploaded file's name from its download URL:
// the segment after the last "/download/" marker when present, else the final
// path segment, percent-decoded. Tolerates unparseable URLs by working on the
// raw string. Empty result means no usable filename.
func FilenameFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.EscapedPath()
	} else if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}

	const marker = "/download/"
	if i := strings.LastIndex(p, marker); i >= 0 {
		p = p[i+len(marker):]
	} else if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}

	if p == "" {
		return ""
	}

	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}

	return p
}

// SplitServiceURL separates a service endpoint from the optional layer or
// feature-type name appended after a "#".
func SplitServiceURL(rawURL string) (serviceURL, layerName string) {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i], rawURL[i+1:]
	}

	return rawURL, ""
}
