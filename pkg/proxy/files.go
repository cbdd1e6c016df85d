package proxy

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// FileStore streams previously uploaded files by resource id and filename.
// Layout on disk is {dir}/{resource_id}/{filename}.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path resolves and validates the on-disk location for a stored file.
// Rejects ids and filenames that would escape the store directory.
func (s *FileStore) Path(resourceID, filename string) (string, error) {
	if resourceID == "" || filename == "" {
		return "", fmt.Errorf("missing resource id or filename")
	}

	if filepath.Base(resourceID) != resourceID || filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid path element")
	}

	return filepath.Join(s.dir, resourceID, filename), nil
}

// Read returns the file bytes and content type for a stored file.
func (s *FileStore) Read(resourceID, filename string) (string, []byte, error) {
	p, err := s.Path(resourceID, filename)
	if err != nil {
		return "", nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return "", nil, err
	}

	return ContentTypeFor(filename), data, nil
}

// ContentTypeFor maps a filename to its MIME type. KML/KMZ get their Google
// Earth types; everything else falls through to the extension table.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".kml":
		return "application/vnd.google-earth.kml+xml"
	case ".kmz":
		return "application/vnd.google-earth.kmz"
	case ".geojson":
		return "application/geo+json"
	}

	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
