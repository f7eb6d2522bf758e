package app

import "cargo-repin/internal/types"

type UpdateRequest struct {
	Root           string
	Identities     []string
	IdentitiesFile string
	Branch         string
	Tag            string
	Rev            string
	Path           string
	VersionFrom    string
	Git            string
	ExcludeFile    string
	DryRun         bool
}

type UpdateResult struct {
	Scanned int
	Changed []string
}

type PatchRequest struct {
	Source         string
	TargetManifest string
	Identity       string
	Target         string
	PointToGit     string
	PointToBranch  string
	PointToCommit  string
	DryRun         bool
}

type PatchResult struct {
	Key     string
	Crates  int
	Changed bool
}

type WorkspacifyRequest struct {
	Root   string
	DryRun bool
}

type WorkspacifyResult struct {
	Scanned int
	Changed []string
}

type CheckFeaturesRequest struct {
	Root string
}

type CheckFeaturesResult struct {
	Scanned    int
	Violations []types.FeatureViolation
}
