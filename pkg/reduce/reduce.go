// Package reduce collapses a Code Property Graph to its cross-file
// structure.
//
// The package implements the two transformation passes of the pipeline:
//
//   - [RemoveIntraFileEdges] strips every edge whose endpoints live in the
//     same source file, along with nodes left disconnected by that pass.
//   - [MergeCompartments] folds the surviving per-function nodes into one
//     compartment node per source file.
//
// Both passes require every visited node to carry a "file" attribute; a
// missing attribute is a precondition violation that aborts the run rather
// than being skipped, since continuing would silently corrupt the reduction.
package reduce

import (
	"github.com/kwitaszczyk/cpg-reducer/pkg/cpg"
	"github.com/kwitaszczyk/cpg-reducer/pkg/errors"
)

// Stats summarizes what a reduction pass removed.
type Stats struct {
	EdgesRemoved int
	NodesRemoved int
}

// RemoveIntraFileEdges deletes, in place, every edge whose endpoints share
// the same non-empty file attribute. A node that loses all of its edges to
// this pass is deleted as well; nodes that had no edges to begin with are
// deliberately kept, as a visible signal of anomalous input.
//
// Traversal uses node and edge snapshots, so deletions never invalidate the
// walk; entities removed as a side effect of an earlier deletion are
// detected via liveness checks and skipped.
func RemoveIntraFileEdges(g cpg.Graph) (Stats, error) {
	var stats Stats

	for _, n := range g.Nodes() {
		if !g.HasNode(n) {
			// Already deleted as the head of an earlier intra-file edge.
			continue
		}

		fileN, err := fileOf(n)
		if err != nil {
			return stats, err
		}

		reduced := false
		for _, e := range g.Out(n) {
			if !g.HasEdge(e) {
				// A parallel edge removed together with its head node.
				continue
			}
			m := e.To()

			fileM, err := fileOf(m)
			if err != nil {
				return stats, err
			}

			if fileN == "" || fileM == "" || fileN != fileM {
				// Keep edges with at least one endpoint unassociated with
				// any file, or with endpoints in different files.
				continue
			}

			g.RemoveEdge(e)
			stats.EdgesRemoved++
			reduced = true

			if g.Degree(m, true, true) == 0 {
				g.RemoveNode(m)
				stats.NodesRemoved++
			}
		}

		if reduced && g.HasNode(n) && g.Degree(n, true, true) == 0 {
			g.RemoveNode(n)
			stats.NodesRemoved++
		}
	}

	return stats, nil
}

// fileOf reads the node's file attribute, treating absence as a fatal
// precondition violation.
func fileOf(n *cpg.Node) (string, error) {
	file, ok := n.Attr(cpg.AttrFile)
	if !ok {
		return "", errors.New(errors.ErrCodeMissingAttribute,
			"node %q has no %q attribute", n.Name(), cpg.AttrFile)
	}
	return file, nil
}
