package catalog

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opendatagr/geoview/pkg/model"
)

// LoadBasemaps reads the basemaps config file. Order is preserved: base
// layers are emitted to clients before any overlay so the base map is in
// place when overlays are added.
func LoadBasemaps(path string) ([]model.Basemap, error) {
	d, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var res []model.Basemap

	if err := yaml.Unmarshal(d, &res); err != nil {
		return nil, err
	}

	return res, nil
}
