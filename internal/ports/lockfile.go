package ports

// LockfilePort reads pinned versions out of a Cargo.lock.
type LockfilePort interface {
	// Versions maps each package recorded in the lockfile to its version,
	// picking the highest when several versions of one package coexist.
	Versions(lockPath string) (map[string]string, error)
}
