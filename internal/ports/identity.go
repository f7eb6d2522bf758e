package ports

import "cargo-repin/internal/types"

type IdentitySourcePort interface {
	// LoadIdentities reads extra upstream identities from a YAML file.
	LoadIdentities(path string) ([]types.Identity, error)
}
