package resolver

import (
	"encoding/json"

	"github.com/opendatagr/geoview/pkg/model"
)

// ParseConfigValue decodes a page-embedded option that may be a plain string,
// a JSON-encoded value, or a JSON string that itself contains JSON (the host
// template double-encodes some attributes). One parse is attempted; if the
// result is still a string, a second one. A failed parse at either stage
// keeps the best value seen so far, so the function never fails.
func ParseConfigValue(raw string) (value any, wasJSON bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw, false
	}

	if s, ok := v.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return inner, true
		}

		return s, true
	}

	return v, true
}

// DecodeViewConfig builds a ViewConfig from the raw key/value options of a
// page. Keys are accepted in both snake_case and camelCase, values in plain
// or (double-)JSON-encoded form. Never fails: undecodable values degrade to
// their string form or to absence.
func DecodeViewConfig(raw map[string]any) model.ViewConfig {
	cfg := model.ViewConfig{
		ProxyURL:        stringOption(raw, "proxy_url", "proxyUrl"),
		ProxyServiceURL: stringOption(raw, "proxy_service_url", "proxyServiceUrl"),
		SiteURL:         stringOption(raw, "site_url", "siteUrl"),
		RawURL:          stringOption(raw, "raw_url", "rawUrl"),
		MapConfig:       mapOption(raw, "map_config", "mapConfig"),
		OLConfig:        mapOption(raw, "ol_config", "olConfig"),
	}

	if v, ok := lookup(raw, "resource_view", "resourceView"); ok {
		cfg.ResourceView = decodeResourceView(v)
	}

	return cfg
}

func lookup(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}

	return nil, false
}

func stringOption(raw map[string]any, keys ...string) string {
	v, ok := lookup(raw, keys...)
	if !ok {
		return ""
	}

	if s, ok := v.(string); ok {
		parsed, _ := ParseConfigValue(s)
		if ps, ok := parsed.(string); ok {
			return ps
		}

		// JSON that decoded to a non-string (eg a quoted number): the
		// original string is the best value for a URL-ish field.
		return s
	}

	return ""
}

func mapOption(raw map[string]any, keys ...string) map[string]any {
	v, ok := lookup(raw, keys...)
	if !ok {
		return nil
	}

	return toMap(v)
}

func toMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case string:
		parsed, wasJSON := ParseConfigValue(t)
		if !wasJSON {
			return nil
		}
		if m, ok := parsed.(map[string]any); ok {
			return m
		}
	}

	return nil
}

func decodeResourceView(v any) *model.ResourceView {
	m := toMap(v)
	if m == nil {
		return nil
	}

	rv := &model.ResourceView{Extra: make(map[string]any)}

	for k, val := range m {
		switch k {
		case "package_id":
			rv.PackageID, _ = val.(string)
		case "resource_id":
			rv.ResourceID, _ = val.(string)
		default:
			rv.Extra[k] = val
		}
	}

	return rv
}
