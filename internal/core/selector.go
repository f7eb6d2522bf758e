package core

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-repin/internal/types"
)

// NewSelector builds the pinning selector from the per-kind values the caller
// collected. At most one kind may be set; the CLI enforces this before the
// engine, and the engine re-validates here.
func NewSelector(branch, tag, rev, path, versionFrom string) (types.Selector, error) {
	selector := types.Selector{}
	count := 0
	for _, candidate := range []types.Selector{
		{Kind: types.SelectorBranch, Value: branch},
		{Kind: types.SelectorTag, Value: tag},
		{Kind: types.SelectorRev, Value: rev},
		{Kind: types.SelectorPath, Value: path},
		{Kind: types.SelectorVersion, Value: versionFrom},
	} {
		if candidate.Value == "" {
			continue
		}
		selector = candidate
		count++
	}
	if count > 1 {
		return types.Selector{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at most one of branch, tag, rev, path or version-from may be given")
	}
	return selector, nil
}
