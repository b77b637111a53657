package reconciler

import (
	"github.com/agentstation/refimport/internal/matcher"
	"github.com/agentstation/refimport/pkg/project"
	"github.com/agentstation/refimport/pkg/scan"
)

// index holds the names a descriptor already references: one set from
// Include attributes and one from HintPath base names. Both ignore case.
type index struct {
	includes matcher.Set
	hints    matcher.Set
}

func newIndex(refs []project.Reference) *index {
	idx := &index{includes: matcher.NewSet(), hints: matcher.NewSet()}
	for _, ref := range refs {
		idx.includes.Add(ref.Include)
		if ref.HintPath != "" {
			idx.hints.Add(scan.BaseName(ref.HintPath))
		}
	}
	return idx
}

func (i *index) has(name string) bool {
	return i.includes.Has(name) || i.hints.Has(name)
}

// add records name in both sets so it is never added twice.
func (i *index) add(name string) {
	i.includes.Add(name)
	i.hints.Add(name)
}
