package adapters

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-repin/internal/ports"
)

type ExcludeFileAdapter struct{}

func NewExcludeFileAdapter() ExcludeFileAdapter {
	return ExcludeFileAdapter{}
}

type excludeFile struct {
	Exclude map[string]struct {
		Package string `toml:"package"`
	} `toml:"exclude"`
}

// LoadExcludes reads an [exclude] table whose keys name crates to skip. An
// entry's package key overrides the crate name, mirroring renamed
// dependencies (`foo = { package = "sp-io" }`).
func (a ExcludeFileAdapter) LoadExcludes(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("exclude file not found: " + path).
			WithCause(err)
	}
	var file excludeFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + path).
			WithCause(err)
	}
	names := make([]string, 0, len(file.Exclude))
	for name, entry := range file.Exclude {
		if entry.Package != "" {
			name = entry.Package
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

var _ ports.ExcludeSourcePort = ExcludeFileAdapter{}
