package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opendatagr/geoview/pkg/model"
)

func TestGuessFormat(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://h.test/files/data.GeoJSON", "geojson"},
		{"https://h.test/files/data.kml?v=1", "kml"},
		{"https://h.test/files/data", ""},
		{"://broken", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, GuessFormat(c.url), c.url)
	}
}

func TestLooksLikeGeoJSON(t *testing.T) {
	assert.True(t, LooksLikeGeoJSON(&model.Resource{Mimetype: "application/geo+json"}))
	assert.True(t, LooksLikeGeoJSON(&model.Resource{URL: "https://h.test/data/lakes.geojson.gz"}))
	assert.True(t, LooksLikeGeoJSON(&model.Resource{URL: "https://h.test/wfs?outputFormat=GeoJSON"}))
	assert.True(t, LooksLikeGeoJSON(&model.Resource{URL: "https://h.test/svc?f=geojson"}))
	assert.True(t, LooksLikeGeoJSON(&model.Resource{Name: "Boundaries (GeoJSON)"}))

	assert.False(t, LooksLikeGeoJSON(nil))
	assert.False(t, LooksLikeGeoJSON(&model.Resource{URL: "https://h.test/data.json", Name: "plain json"}))
}
