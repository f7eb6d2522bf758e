package ports

// CrateMetaPort reads crate metadata where formatting does not matter.
type CrateMetaPort interface {
	// PackageName returns the [package] name declared in a manifest, or ""
	// for virtual manifests that only declare a workspace.
	PackageName(manifestPath string) (string, error)
}
