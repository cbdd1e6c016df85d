package model

// LayerSpec describes one renderable map layer. The service emits specs; the
// client map turns each into a concrete library layer.
type LayerSpec struct {
	Type      Format            `json:"type"`
	Title     string            `json:"title,omitempty"`
	URL       string            `json:"url"`
	LayerName string            `json:"layer_name,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	Basemap   bool              `json:"basemap,omitempty"`
}

// Basemap is a background layer entry from the basemaps config file. Base
// layers are always listed before overlays so the client can finish building
// the base map before overlay placement.
type Basemap struct {
	Name    string `yaml:"name" json:"name"`
	Title   string `yaml:"title" json:"title"`
	Type    string `yaml:"type" json:"type"`
	URL     string `yaml:"url" json:"url"`
	Default bool   `yaml:"default,omitempty" json:"default,omitempty"`
}
