package types

// DefaultPatchTarget is the patch table key used when neither an identity nor
// an explicit target is given.
const DefaultPatchTarget = "https://github.com/paritytech/polkadot-sdk"

// CratesIOTarget selects the registry patch table ([patch.crates-io]).
const CratesIOTarget = "crates-io"

type PointToKind string

const (
	PointToPath PointToKind = "path"
	PointToGit  PointToKind = "git"
)

// PointTo describes what patch entries resolve to: a local path (default) or
// a git repository pinned to an optional branch or commit.
type PointTo struct {
	Kind   PointToKind
	Git    string
	Branch string
	Commit string
}

// PatchCrate is one member crate of the source workspace, with its manifest
// directory resolved relative to the target manifest.
type PatchCrate struct {
	Name    string
	Dir     string
	RelPath string
}
