package reduce

import (
	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
)

// MergedGraphName is the name given to the compartment graph produced by
// [MergeCompartments].
const MergedGraphName = "kernel"

// MergeCompartments builds a new strict digraph holding one compartment
// node per distinct non-empty file attribute observed among the nodes of
// the reduced graph. Compartment nodes carry both their label and file
// attributes set to the file name. Nodes with an empty file attribute
// contribute no compartment and are dropped.
//
// Compartments are created lazily on first sighting of a file name, so the
// output enumeration order follows the input traversal order. The input
// graph is only read; ownership of the result transfers to the caller and
// the input should be treated as superseded.
//
// The compartment graph carries no edges. Inter-file edges are not copied
// onto compartments and no weight aggregation rule is defined for them, so
// serializing a merged graph yields an empty links array. The strict graph
// leaves room for an edge-copy step without a dedupe rewrite.
func MergeCompartments(g cpg.Graph) (cpg.Graph, error) {
	h := cpg.NewStrict(MergedGraphName)
	compartments := make(map[string]*cpg.Node)

	for _, n := range g.Nodes() {
		file, err := fileOf(n)
		if err != nil {
			return nil, err
		}
		if file == "" {
			continue
		}
		if _, ok := compartments[file]; ok {
			continue
		}
		compartment, err := h.AddNode(file)
		if err != nil {
			return nil, err
		}
		compartment.SetAttr(cpg.AttrLabel, file)
		compartment.SetAttr(cpg.AttrFile, file)
		compartments[file] = compartment
	}

	return h, nil
}
