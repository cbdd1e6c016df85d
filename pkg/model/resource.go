package model

import "strings"

// Format is a resource format tag as declared in the catalog. Matching is
// case-insensitive; unknown tags are kept as-is and simply never dispatch.
type Format string

const (
	FormatKML         Format = "kml"
	FormatGML         Format = "gml"
	FormatGeoJSON     Format = "geojson"
	FormatWFS         Format = "wfs"
	FormatWMS         Format = "wms"
	FormatWMTS        Format = "wmts"
	FormatEsriGeoJSON Format = "esrigeojson"
	FormatArcGISRest  Format = "arcgis_rest"
	FormatEsriRest    Format = "esri rest"
	FormatGFT         Format = "gft"
)

var knownFormats = map[Format]struct{}{
	FormatKML:         {},
	FormatGML:         {},
	FormatGeoJSON:     {},
	FormatWFS:         {},
	FormatWMS:         {},
	FormatWMTS:        {},
	FormatEsriGeoJSON: {},
	FormatArcGISRest:  {},
	FormatEsriRest:    {},
	FormatGFT:         {},
}

// ParseFormat normalizes a declared format tag. ok is false for tags outside
// the viewer's format table; that is not an error, such resources just render
// no layer.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	_, ok := knownFormats[f]

	return f, ok
}

// IsService reports whether the format needs capability discovery against a
// remote service before layers can be built.
func (f Format) IsService() bool {
	switch f {
	case FormatWFS, FormatWMS, FormatWMTS, FormatArcGISRest, FormatEsriRest:
		return true
	}

	return false
}

type Resource struct {
	ID        string `yaml:"id" json:"id"`
	PackageID string `yaml:"package_id" json:"package_id"`
	Name      string `yaml:"name" json:"name"`
	URL       string `yaml:"url" json:"url"`
	Format    string `yaml:"format" json:"format"`
	Mimetype  string `yaml:"mimetype,omitempty" json:"mimetype,omitempty"`
	URLType   string `yaml:"url_type,omitempty" json:"url_type,omitempty"`
}

// IsUpload reports whether the resource bytes live in our own file store
// rather than behind a remote URL.
func (r *Resource) IsUpload() bool {
	return r.URLType == "upload"
}
