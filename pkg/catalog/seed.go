package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/opendatagr/geoview/pkg/model"
	"github.com/opendatagr/geoview/pkg/resolver"
)

// LoadSeed reads a yaml resource list. Resources without a declared format
// get one guessed from their URL extension.
func LoadSeed(path string) ([]*model.Resource, error) {
	d, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var res []*model.Resource

	if err := yaml.Unmarshal(d, &res); err != nil {
		return nil, err
	}

	for _, r := range res {
		if r.Format == "" {
			r.Format = resolver.GuessFormat(r.URL)
		}

		if r.Format != "geojson" && resolver.LooksLikeGeoJSON(r) {
			r.Format = "geojson"
		}
	}

	return res, nil
}

// ImportSeed loads a yaml resource list into the catalog and returns how many
// resources were written.
func ImportSeed(c *Catalog, path string) (int, error) {
	res, err := LoadSeed(path)
	if err != nil {
		return 0, err
	}

	for i, r := range res {
		if err := c.Upsert(r); err != nil {
			return i, fmt.Errorf("import %s: %w", r.ID, err)
		}
	}

	return len(res), nil
}

// ScanUploads registers the files under dir ({dir}/{resource_id}/{filename})
// as upload resources, replacing previously scanned ones. Files that cannot
// be read are skipped with a log line, not an error.
func ScanUploads(c *Catalog, dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	if err := c.RemoveUploads(); err != nil {
		return err
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		resourceID := e.Name()

		files, err := os.ReadDir(filepath.Join(dir, resourceID))
		if err != nil {
			logger.Error("unreadable upload dir "+resourceID, "error", err)
			continue
		}

		for _, f := range files {
			if f.IsDir() {
				continue
			}

			name := f.Name()

			res := &model.Resource{
				ID:      resourceID,
				Name:    name,
				URL:     "/geoview_file_proxy/" + resourceID + "/" + name,
				Format:  resolver.GuessFormat(name),
				URLType: "upload",
			}

			if err := c.Upsert(res); err != nil {
				logger.Error("upload register error", "error", err)
				continue
			}

			logger.Info(fmt.Sprintf("registered upload %s/%s", resourceID, name))
			break
		}
	}

	return nil
}
