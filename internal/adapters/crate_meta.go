package adapters

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-repin/internal/ports"
)

type CrateMetaAdapter struct{}

func NewCrateMetaAdapter() CrateMetaAdapter {
	return CrateMetaAdapter{}
}

type crateManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// PackageName decodes the declared [package] name. Virtual workspace
// manifests have none and yield "".
func (a CrateMetaAdapter) PackageName(manifestPath string) (string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read manifest: " + manifestPath).
			WithCause(err)
	}
	var m crateManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + manifestPath).
			WithCause(err)
	}
	return m.Package.Name, nil
}

var _ ports.CrateMetaPort = CrateMetaAdapter{}
