package types

type SelectorKind string

const (
	SelectorNone    SelectorKind = ""
	SelectorBranch  SelectorKind = "branch"
	SelectorTag     SelectorKind = "tag"
	SelectorRev     SelectorKind = "rev"
	SelectorPath    SelectorKind = "path"
	SelectorVersion SelectorKind = "version"
)

// Selector is a single pinning target for matched dependency entries.
// Value holds the branch name, tag, commit hash, local directory, or the
// resolved registry version depending on Kind.
type Selector struct {
	Kind  SelectorKind
	Value string
}

func (s Selector) IsZero() bool {
	return s.Kind == SelectorNone
}
