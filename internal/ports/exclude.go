package ports

type ExcludeSourcePort interface {
	// LoadExcludes returns the package names listed in an exclude file.
	LoadExcludes(path string) ([]string, error)
}
