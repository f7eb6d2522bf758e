package ports

import "cargo-repin/internal/manifest"

// ManifestStorePort loads and persists manifests with their formatting intact.
type ManifestStorePort interface {
	Load(path string) (*manifest.Document, error)

	// Save writes the document back to its own path atomically: the new
	// content is never observable half-written and the original survives
	// any failure.
	Save(doc *manifest.Document) error
}
