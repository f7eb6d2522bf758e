package types

// FeatureViolation reports a dependency built with default-features = false
// whose std feature is not propagated by the declaring manifest.
type FeatureViolation struct {
	ManifestPath string
	Dependency   string
	Missing      string
}
