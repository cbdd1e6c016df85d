package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigValue(t *testing.T) {
	v, wasJSON := ParseConfigValue(`{"a": 1}`)
	require.True(t, wasJSON)
	assert.Equal(t, map[string]any{"a": float64(1)}, v)

	// invalid JSON keeps the original string
	v, wasJSON = ParseConfigValue(`{not json`)
	assert.False(t, wasJSON)
	assert.Equal(t, `{not json`, v)

	// plain quoted string decodes one level
	v, wasJSON = ParseConfigValue(`"hello"`)
	assert.True(t, wasJSON)
	assert.Equal(t, "hello", v)
}

func TestParseConfigValueDoubleEncoded(t *testing.T) {
	single, _ := ParseConfigValue(`{"resource_id": "abc", "package_id": "pkg"}`)
	double, _ := ParseConfigValue(`"{\"resource_id\": \"abc\", \"package_id\": \"pkg\"}"`)

	assert.Equal(t, single, double)
}

func TestParseConfigValueInnerGarbage(t *testing.T) {
	// a valid JSON string whose content is not JSON stays a string
	v, wasJSON := ParseConfigValue(`"not {json"`)
	assert.True(t, wasJSON)
	assert.Equal(t, "not {json", v)
}

func TestDecodeViewConfig(t *testing.T) {
	cfg := DecodeViewConfig(map[string]any{
		"proxy_service_url": "/proxy",
		"siteUrl":           `"https://x.test/"`,
		"resource_view":     `{"resource_id": "abc", "package_id": "pkg", "title": "My view"}`,
		"map_config":        map[string]any{"type": "osm"},
	})

	assert.Equal(t, "/proxy", cfg.ProxyServiceURL)
	assert.Equal(t, "https://x.test/", cfg.SiteURL)
	require.NotNil(t, cfg.ResourceView)
	assert.Equal(t, "abc", cfg.ResourceView.ResourceID)
	assert.Equal(t, "pkg", cfg.ResourceView.PackageID)
	assert.Equal(t, "My view", cfg.ResourceView.Extra["title"])
	assert.Equal(t, map[string]any{"type": "osm"}, cfg.MapConfig)
}

func TestDecodeViewConfigDoubleEncodedView(t *testing.T) {
	single := DecodeViewConfig(map[string]any{
		"resource_view": `{"resource_id": "abc", "package_id": "pkg"}`,
	})
	double := DecodeViewConfig(map[string]any{
		"resource_view": `"{\"resource_id\": \"abc\", \"package_id\": \"pkg\"}"`,
	})

	require.NotNil(t, single.ResourceView)
	require.NotNil(t, double.ResourceView)
	assert.Equal(t, single.ResourceView.ResourceID, double.ResourceView.ResourceID)
	assert.Equal(t, single.ResourceView.PackageID, double.ResourceView.PackageID)
}

func TestDecodeViewConfigMalformed(t *testing.T) {
	// nothing here should panic or error out
	cfg := DecodeViewConfig(map[string]any{
		"proxy_url":     `{broken`,
		"resource_view": `{broken too`,
		"ol_config":     42,
	})

	assert.Equal(t, `{broken`, cfg.ProxyURL)
	assert.Nil(t, cfg.ResourceView)
	assert.Nil(t, cfg.OLConfig)
}
