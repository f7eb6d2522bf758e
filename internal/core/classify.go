package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-repin/internal/types"
)

// RepoName extracts the trailing path segment of a git locator and strips a
// trailing .git. Handles https, ssh and scp-like (git@host:org/repo) forms.
func RepoName(locator string) string {
	s := strings.TrimSpace(locator)
	s = strings.TrimRight(s, "/")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	} else if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".git")
}

// classifyEntry reports whether a dependency entry belongs to one of the
// identities: the entry is git-sourced and its locator's trailing segment
// equals an identity repo name (case-sensitive). Excluded package names never
// match.
func classifyEntry(entry *depEntry, identities types.IdentitySet, excludes map[string]struct{}) bool {
	if len(excludes) > 0 {
		if _, skip := excludes[entry.packageName()]; skip {
			return false
		}
	}
	locator, ok := entry.getString("git")
	if !ok {
		return false
	}
	repo := RepoName(locator)
	for _, id := range identities {
		if id.Repo == repo {
			return true
		}
	}
	return false
}

// FilterIdentities resolves user-supplied identity names against the
// configured set. No names selects the whole set.
func FilterIdentities(set types.IdentitySet, names []string) (types.IdentitySet, error) {
	if len(names) == 0 {
		return set, nil
	}
	filtered := make(types.IdentitySet, 0, len(names))
	for _, name := range names {
		id, ok := set.ByName(name)
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown identity %q (configured: %s)", name, strings.Join(set.Names(), ", ")))
		}
		filtered = append(filtered, id)
	}
	return filtered, nil
}
