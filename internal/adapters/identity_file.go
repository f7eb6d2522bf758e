package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"cargo-repin/internal/ports"
	"cargo-repin/internal/types"
)

type IdentityFileAdapter struct{}

func NewIdentityFileAdapter() IdentityFileAdapter {
	return IdentityFileAdapter{}
}

type identityFile struct {
	Identities []types.Identity `yaml:"identities"`
}

func (a IdentityFileAdapter) LoadIdentities(path string) ([]types.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("identities file not found: " + path).
			WithCause(err)
	}
	var file identityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + path).
			WithCause(err)
	}
	for i, identity := range file.Identities {
		if identity.Name == "" || identity.Repo == "" || identity.Locator == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse " + path).
				WithCause(fmt.Errorf("identity %d: name, repo and locator are all required", i+1))
		}
	}
	return file.Identities, nil
}

var _ ports.IdentitySourcePort = IdentityFileAdapter{}
