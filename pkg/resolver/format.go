package resolver

import (
	"net/url"
	"path"
	"strings"

	"github.com/opendatagr/geoview/pkg/model"
)

// GuessFormat derives a format tag from a URL's file extension. Used when a
// resource carries no declared format. Empty string when nothing usable.
func GuessFormat(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	ext := strings.TrimPrefix(path.Ext(u.Path), ".")

	return strings.ToLower(ext)
}

var geojsonParamKeys = []string{"format", "f", "type", "outputformat", "outputFormat"}

// LooksLikeGeoJSON applies lightweight heuristics for GeoJSON served with a
// generic json format tag: mimetype, URL path, common query parameters, and
// the resource name. Avoids fetching content.
func LooksLikeGeoJSON(res *model.Resource) bool {
	if res == nil {
		return false
	}

	if strings.Contains(strings.ToLower(res.Mimetype), "geo+json") {
		return true
	}

	if res.URL != "" {
		if u, err := url.Parse(res.URL); err == nil {
			if strings.Contains(strings.ToLower(u.Path), "geojson") {
				return true
			}

			q := u.Query()
			for _, key := range geojsonParamKeys {
				for _, v := range append(q[key], q[strings.ToLower(key)]...) {
					if strings.Contains(strings.ToLower(v), "geojson") {
						return true
					}
				}
			}
		}
	}

	return strings.Contains(strings.ToLower(res.Name), "geojson")
}
