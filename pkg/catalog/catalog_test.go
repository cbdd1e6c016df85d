package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatagr/geoview/pkg/model"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c
}

func TestCatalogUpsertGet(t *testing.T) {
	c := openTestCatalog(t)

	res := &model.Resource{ID: "abc", PackageID: "pkg", Name: "borders", URL: "http://h/b.kml", Format: "kml"}
	require.NoError(t, c.Upsert(res))

	got, err := c.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, res, got)

	// upsert overwrites
	res.Format = "geojson"
	require.NoError(t, c.Upsert(res))

	got, err = c.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "geojson", got.Format)

	got, err = c.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalogRemoveUploads(t *testing.T) {
	c := openTestCatalog(t)

	require.NoError(t, c.Upsert(&model.Resource{ID: "a", URLType: "upload"}))
	require.NoError(t, c.Upsert(&model.Resource{ID: "b"}))

	require.NoError(t, c.RemoveUploads())

	all, err := c.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
}

func TestLoadSeedGuessesFormat(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "resources.yml")

	require.NoError(t, os.WriteFile(seed, []byte(`
- id: r1
  package_id: pkg
  name: borders
  url: http://h.test/files/borders.KML
- id: r2
  name: declared
  url: http://h.test/svc/wms
  format: WMS
- id: r3
  name: lakes
  url: http://h.test/files/lakes.json?outputFormat=geojson
  format: json
`), 0644))

	res, err := LoadSeed(seed)
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, "kml", res[0].Format)
	assert.Equal(t, "WMS", res[1].Format)
	assert.Equal(t, "geojson", res[2].Format)
}

func TestImportSeed(t *testing.T) {
	c := openTestCatalog(t)

	seed := filepath.Join(t.TempDir(), "resources.yml")
	require.NoError(t, os.WriteFile(seed, []byte(`
- id: r1
  url: http://h.test/a.kml
- id: r2
  url: http://h.test/b.geojson
`), 0644))

	n, err := ImportSeed(c, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := c.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestScanUploads(t *testing.T) {
	c := openTestCatalog(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "res1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "res1", "area.kml"), []byte("<kml/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))

	require.NoError(t, ScanUploads(c, dir, slog.Default()))

	got, err := c.Get("res1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "kml", got.Format)
	assert.Equal(t, "upload", got.URLType)
	assert.Equal(t, "/geoview_file_proxy/res1/area.kml", got.URL)

	// re-scan after file removal drops the resource
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "res1")))
	require.NoError(t, ScanUploads(c, dir, slog.Default()))

	got, err = c.Get("res1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
