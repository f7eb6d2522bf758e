package types

// Identity names one upstream repository that dependency entries can be
// classified against. Name is the user-facing handle, Repo the trailing path
// segment of the repository URL, Locator the canonical git URL used as the
// patch table key.
type Identity struct {
	Name    string `yaml:"name"`
	Repo    string `yaml:"repo"`
	Locator string `yaml:"locator"`
}

type IdentitySet []Identity

// DefaultIdentities is the project family matched when no explicit filter is
// given.
func DefaultIdentities() IdentitySet {
	return IdentitySet{
		{Name: "substrate", Repo: "substrate", Locator: "https://github.com/paritytech/substrate"},
		{Name: "polkadot", Repo: "polkadot", Locator: "https://github.com/paritytech/polkadot"},
		{Name: "cumulus", Repo: "cumulus", Locator: "https://github.com/paritytech/cumulus"},
		{Name: "beefy", Repo: "grandpa-bridge-gadget", Locator: "https://github.com/paritytech/grandpa-bridge-gadget"},
	}
}

func (s IdentitySet) ByName(name string) (Identity, bool) {
	for _, id := range s {
		if id.Name == name {
			return id, true
		}
	}
	return Identity{}, false
}

func (s IdentitySet) Names() []string {
	names := make([]string, 0, len(s))
	for _, id := range s {
		names = append(names, id.Name)
	}
	return names
}

// Merge returns a set where entries of other replace entries of s with the
// same name and new names are appended in order.
func (s IdentitySet) Merge(other IdentitySet) IdentitySet {
	merged := append(IdentitySet(nil), s...)
	for _, id := range other {
		replaced := false
		for i := range merged {
			if merged[i].Name == id.Name {
				merged[i] = id
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, id)
		}
	}
	return merged
}
