package assets

import "embed"

//go:embed catalog.yaml
var FS embed.FS

// DefaultCatalog returns the embedded default body catalog, so the server
// runs even when no catalog file is configured.
func DefaultCatalog() ([]byte, error) {
	return FS.ReadFile("catalog.yaml")
}
