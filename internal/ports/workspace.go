package ports

// WorkspacePort discovers Cargo.toml manifests within a directory tree.
type WorkspacePort interface {
	FindManifests(root string) ([]string, error)
}
