package app

import (
	"cargo-repin/internal/adapters"
	"cargo-repin/internal/ports"
)

type Service struct {
	Workspace      ports.WorkspacePort
	Manifests      ports.ManifestStorePort
	CrateMeta      ports.CrateMetaPort
	Lockfile       ports.LockfilePort
	ExcludeSource  ports.ExcludeSourcePort
	IdentitySource ports.IdentitySourcePort
}

func NewService() Service {
	return Service{
		Workspace:      adapters.NewWorkspaceAdapter(),
		Manifests:      adapters.NewManifestStoreAdapter(),
		CrateMeta:      adapters.NewCrateMetaAdapter(),
		Lockfile:       adapters.NewLockfileAdapter(),
		ExcludeSource:  adapters.NewExcludeFileAdapter(),
		IdentitySource: adapters.NewIdentityFileAdapter(),
	}
}
