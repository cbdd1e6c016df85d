package resolver

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opendatagr/geoview/pkg/model"
)

func TestResolveFetchPlanKMLFileProxy(t *testing.T) {
	res := &model.Resource{
		ID:     "abc",
		URL:    "https://files.example.org/dataset/pkg/resource/abc/download/My%20File.kml",
		Format: "kml",
	}

	cfg := model.ViewConfig{
		SiteURL:      "https://x.test/",
		ResourceView: &model.ResourceView{PackageID: "pkg", ResourceID: "abc"},
	}

	plan := ResolveFetchPlan(res, cfg)

	assert.Equal(t, "https://x.test/geoview_file_proxy/abc/My File.kml", plan.ProxyURL)
}

func TestResolveFetchPlanKMLFallbackToServiceProxy(t *testing.T) {
	raw := "https://files.example.org/download/data.kml"

	res := &model.Resource{ID: "abc", URL: raw, Format: "kml"}

	// no site url: the file proxy cannot be built
	cfg := model.ViewConfig{ProxyServiceURL: "/resource_proxy"}

	plan := ResolveFetchPlan(res, cfg)

	assert.Equal(t, "/resource_proxy?url="+url.QueryEscape(raw), plan.ProxyURL)
}

func TestResolveFetchPlanKMLFallbackToRawURL(t *testing.T) {
	raw := "https://files.example.org/download/data.kml"

	res := &model.Resource{URL: raw, Format: "kml"}

	plan := ResolveFetchPlan(res, model.ViewConfig{})

	assert.Empty(t, plan.ProxyURL)
	assert.Equal(t, raw, plan.EffectiveURL(raw))
}

func TestResolveFetchPlanKMZWithQueryString(t *testing.T) {
	res := &model.Resource{
		ID:     "r1",
		URL:    "https://host.test/files/area.KMZ?version=2",
		Format: "kml",
	}

	cfg := model.ViewConfig{SiteURL: "https://x.test"}

	plan := ResolveFetchPlan(res, cfg)

	assert.Equal(t, "https://x.test/geoview_file_proxy/r1/area.KMZ", plan.ProxyURL)
}

func TestResolveFetchPlanSynthesizesServiceURL(t *testing.T) {
	cfg := model.ViewConfig{
		SiteURL:      "https://x.test",
		ResourceView: &model.ResourceView{PackageID: "pkg", ResourceID: "abc"},
	}

	plan := ResolveFetchPlan(&model.Resource{URL: "http://svc/wms", Format: "wms"}, cfg)

	assert.Equal(t, "https://x.test/dataset/pkg/resource/abc/resource_proxy", plan.ProxyServiceURL)
}

func TestResolveFetchPlanKeepsExplicitServiceURL(t *testing.T) {
	cfg := model.ViewConfig{
		ProxyServiceURL: "/my_proxy",
		SiteURL:         "https://x.test",
		ResourceView:    &model.ResourceView{PackageID: "pkg", ResourceID: "abc"},
	}

	plan := ResolveFetchPlan(&model.Resource{URL: "http://svc/wms", Format: "wms"}, cfg)

	assert.Equal(t, "/my_proxy", plan.ProxyServiceURL)
}

func TestResolveFetchPlanDeterministic(t *testing.T) {
	res := &model.Resource{ID: "abc", URL: "https://h.test/download/a.kml", Format: "kml"}
	cfg := model.ViewConfig{
		SiteURL:      "https://x.test/",
		ResourceView: &model.ResourceView{PackageID: "pkg", ResourceID: "abc"},
	}

	p1 := ResolveFetchPlan(res, cfg)
	p2 := ResolveFetchPlan(res, cfg)

	assert.Equal(t, p1, p2)
}

func TestFilenameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://h.test/dataset/p/resource/r/download/My%20File.kml", "My File.kml"},
		{"https://h.test/files/plain.kmz", "plain.kmz"},
		{"https://h.test/a/download/b/download/last.kml", "last.kml"},
		{"https://h.test/files/data.kml?v=3", "data.kml"},
		{"://bad url/download/x.kml", "x.kml"},
		{"https://h.test/download/", ""},
		{"https://h.test/files/bad%zz.kml", "bad%zz.kml"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, FilenameFromURL(c.url), c.url)
	}
}

func TestSplitServiceURL(t *testing.T) {
	u, name := SplitServiceURL("http://svc/wms#layerA")
	assert.Equal(t, "http://svc/wms", u)
	assert.Equal(t, "layerA", name)

	u, name = SplitServiceURL("http://svc/wms")
	assert.Equal(t, "http://svc/wms", u)
	assert.Empty(t, name)
}
