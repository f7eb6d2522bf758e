package adapters

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-repin/internal/manifest"
	"cargo-repin/internal/ports"
)

type ManifestStoreAdapter struct{}

func NewManifestStoreAdapter() ManifestStoreAdapter {
	return ManifestStoreAdapter{}
}

func (a ManifestStoreAdapter) Load(path string) (*manifest.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("manifest not found: " + path).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read manifest: " + path).
			WithCause(err)
	}
	return manifest.Parse(path, data)
}

// Save writes the document over its own path via a temporary file in the
// same directory so a crash never leaves a half-written manifest behind.
func (a ManifestStoreAdapter) Save(doc *manifest.Document) error {
	target := doc.Path()
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*")
	if err != nil {
		return saveError(target, err)
	}
	if info, statErr := os.Stat(target); statErr == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			return abortSave(tmp, target, err)
		}
	}
	if _, err := tmp.Write(doc.Bytes()); err != nil {
		return abortSave(tmp, target, err)
	}
	if err := tmp.Sync(); err != nil {
		return abortSave(tmp, target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return saveError(target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return saveError(target, err)
	}
	return nil
}

func abortSave(tmp *os.File, target string, err error) error {
	_ = tmp.Close()
	_ = os.Remove(tmp.Name())
	return saveError(target, err)
}

func saveError(target string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to write manifest: " + target).
		WithCause(err)
}

var _ ports.ManifestStorePort = ManifestStoreAdapter{}
