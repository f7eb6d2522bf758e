package adapters

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-repin/internal/ports"
)

type LockfileAdapter struct{}

func NewLockfileAdapter() LockfileAdapter {
	return LockfileAdapter{}
}

type lockFile struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// Versions reads a Cargo.lock and maps each package name to its pinned
// version. A lockfile can record the same package several times under
// different sources; the highest version wins.
func (a LockfileAdapter) Versions(lockPath string) (map[string]string, error) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("lockfile not found: " + lockPath).
			WithCause(err)
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + lockPath).
			WithCause(err)
	}
	versions := make(map[string]string, len(lock.Package))
	for _, pkg := range lock.Package {
		if pkg.Name == "" || pkg.Version == "" {
			continue
		}
		current, ok := versions[pkg.Name]
		if !ok || newerVersion(pkg.Version, current) {
			versions[pkg.Name] = pkg.Version
		}
	}
	return versions, nil
}

// newerVersion reports whether a is a higher semantic version than b.
// A version that does not parse never wins over one that does.
func newerVersion(a, b string) bool {
	av, errA := semver.NewVersion(a)
	bv, errB := semver.NewVersion(b)
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}
	return av.GreaterThan(bv)
}

var _ ports.LockfilePort = LockfileAdapter{}
