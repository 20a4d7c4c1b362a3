// Package privacygraph derives the reduced privacy graph from a raw
// communication graph: sanitizers, mundane transmitters, disallowed/unknown
// edges, non-source-descendants, and dangling transmitters are pruned,
// either in the original's literal two passes or iterated to a true
// fixpoint.
package privacygraph

import (
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// Options controls the pruning behavior.
type Options struct {
	// Fixpoint, when true, iterates the dangling-transmitter/descendant
	// passes until a full pass removes nothing. When false, it reproduces
	// the original's literal two-pass algorithm, recoverable for
	// bug-compat comparisons.
	Fixpoint bool
}

// Build clones g and reduces the clone to the privacy graph per the
// algorithm in spec.md §4.4. The input graph is never mutated (I5: the
// privacy graph is a derived value, recomputed fresh on every call).
func Build(g *graph.Graph, opts Options) *graph.Graph {
	pg := g.Clone()

	sources := principalsWithLabel(pg, types.PrincipalSource)

	filterToSourceDescendants(pg, sources)
	removeLabeledVertices(pg)
	removeDisallowedEdges(pg)

	if opts.Fixpoint {
		pruneToFixpoint(pg, sources)
	} else {
		pruneTwoPass(pg, sources)
	}

	return pg
}

func principalsWithLabel(pg *graph.Graph, label types.PrincipalLabel) []string {
	var out []string
	for _, v := range pg.Vertices() {
		if v.Kind == types.KindPrincipal && v.PrincipalLabel == label {
			out = append(out, v.Name)
		}
	}
	return out
}

// removeLabeledVertices drops Sanitizer principals and Mundane transmitters
// along with their incident edges (step 4, label portion).
func removeLabeledVertices(pg *graph.Graph) {
	for _, v := range pg.Vertices() {
		if v.Kind == types.KindPrincipal && v.PrincipalLabel == types.PrincipalSanitizer {
			pg.RemoveVertex(v.Name)
			continue
		}
		if v.Kind.IsTransmitter() && v.TransmitterLabel == types.TransmitterMundane {
			pg.RemoveVertex(v.Name)
		}
	}
}

// removeDisallowedEdges drops every edge whose allowed state is Deny or
// Unknown (step 5) — Unknown is treated as denied in the privacy graph,
// though not in the raw graph.
func removeDisallowedEdges(pg *graph.Graph) {
	for _, e := range pg.Edges() {
		if e.Allowed != types.Allow {
			pg.RemoveEdge(e.From, e.To)
		}
	}
}

// filterToSourceDescendants removes every vertex not in S ∪ descendants(S).
// If S is empty the filter is skipped entirely (step 3/7).
func filterToSourceDescendants(pg *graph.Graph, sources []string) {
	if len(sources) == 0 {
		return
	}

	keep := make(map[string]bool, len(sources))
	for _, s := range sources {
		keep[s] = true
	}
	for _, s := range sources {
		for _, d := range pg.Descendants(s) {
			keep[d] = true
		}
	}

	for _, v := range pg.Vertices() {
		if !keep[v.Name] {
			pg.RemoveVertex(v.Name)
		}
	}
}

// removeDanglingTransmitters implements step 6 (and, with strengthened
// set, step 8): a transmitter with no incident edges is removed; a
// transmitter with exactly one predecessor and one successor that are the
// same vertex (a pure self-bounce, carrying no cross-principal
// information) is removed; when strengthened, a transmitter missing either
// predecessors or successors entirely is also removed (it cannot carry
// information through in either direction).
func removeDanglingTransmitters(pg *graph.Graph, strengthened bool) int {
	removed := 0
	for _, v := range pg.Vertices() {
		if !v.Kind.IsTransmitter() {
			continue
		}
		preds := pg.Predecessors(v.Name)
		succs := pg.Successors(v.Name)

		switch {
		case len(preds) == 0 && len(succs) == 0:
			pg.RemoveVertex(v.Name)
			removed++
		case len(preds) == 1 && len(succs) == 1 && preds[0] == succs[0]:
			pg.RemoveVertex(v.Name)
			removed++
		case strengthened && (len(preds) == 0 || len(succs) == 0):
			pg.RemoveVertex(v.Name)
			removed++
		}
	}
	return removed
}

// pruneTwoPass reproduces the original's literal two-pass algorithm: a
// plain dangling-transmitter pass, then a second descendant filter and a
// strengthened dangling-transmitter pass, each run once. Preserved for
// bug-compat via --legacy-two-pass.
func pruneTwoPass(pg *graph.Graph, sources []string) {
	removeDanglingTransmitters(pg, false)
	filterToSourceDescendants(pg, sources)
	removeDanglingTransmitters(pg, true)
}

// pruneToFixpoint iterates the dangling-transmitter and descendant filters
// until a full pass removes nothing, guaranteeing the I4 closure property
// for chains the two-pass version can miss (design notes §9). The loop is
// bounded by the vertex count, which is a safe termination bound since each
// iteration that changes anything strictly shrinks the graph.
func pruneToFixpoint(pg *graph.Graph, sources []string) {
	bound := pg.VertexCount() + 1
	for i := 0; i < bound; i++ {
		before := pg.VertexCount()

		removeDanglingTransmitters(pg, true)
		filterToSourceDescendants(pg, sources)

		if pg.VertexCount() == before {
			return
		}
	}
}
