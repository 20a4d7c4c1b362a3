// Package vuln implements the vulnerability analyzer: source-to-leak
// reachability over the privacy graph and edge-disjoint witness path
// extraction.
package vuln

import (
	"log"
	"sort"
	"sync"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/privacygraph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// Result is the analyzer's output: whether any source can reach any leak,
// every witness path found, and the edges (both directions, where present
// in the raw graph) belonging to those witnesses.
type Result struct {
	IsVulnerable    bool
	WitnessPaths    [][]string
	VulnerableEdges []types.EdgeRef
}

// Options controls privacy-graph reduction ahead of the analysis.
type Options struct {
	PrivacyGraph privacygraph.Options
}

// Analyze rebuilds the privacy graph from raw and computes, for every
// ordered (source, leak) pair, whether a path exists and which edge-disjoint
// paths are genuine witnesses (exactly one leak-set vertex, the terminal).
// Pair evaluation is parallelized (spec.md §5 permits this for C5) but
// results are accumulated and returned in deterministic lexicographic
// (source, leak) order regardless of goroutine completion order.
func Analyze(raw *graph.Graph, opts Options) Result {
	pg := privacygraph.Build(raw, opts.PrivacyGraph)

	sources := labeledPrincipals(pg, types.PrincipalSource)
	leaks := leakSet(pg)

	pairs := make([]pair, 0, len(sources)*len(leaks))
	for _, s := range sources {
		for _, l := range leaks {
			if s == l {
				continue
			}
			pairs = append(pairs, pair{source: s, leak: l})
		}
	}

	results := make([]pairResult, len(pairs))

	const maxWorkers = 8
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p pair) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = evaluatePair(pg, p)
		}(i, p)
	}
	wg.Wait()

	var out Result
	var witnessVertices = map[string]bool{}
	var edgeSet = map[types.EdgeRef]bool{}

	for _, r := range results {
		for range r.violations {
			log.Printf("internal invariant violation: path from %s to %s in privacy graph has no leak vertex", r.pair.source, r.pair.leak)
		}
		for _, path := range r.witnesses {
			log.Printf("Privacy Endangered: %s can reach %s", r.pair.source, r.pair.leak)
			out.IsVulnerable = true
			out.WitnessPaths = append(out.WitnessPaths, path)
			for _, v := range path {
				witnessVertices[v] = true
			}
			for i := 0; i < len(path)-1; i++ {
				a, b := path[i], path[i+1]
				recordEdgeRef(raw, edgeSet, a, b)
				recordEdgeRef(raw, edgeSet, b, a)
			}
		}
	}

	for e := range edgeSet {
		out.VulnerableEdges = append(out.VulnerableEdges, e)
	}
	sort.Slice(out.VulnerableEdges, func(i, j int) bool {
		if out.VulnerableEdges[i].From != out.VulnerableEdges[j].From {
			return out.VulnerableEdges[i].From < out.VulnerableEdges[j].From
		}
		return out.VulnerableEdges[i].To < out.VulnerableEdges[j].To
	})
	sort.Slice(out.WitnessPaths, func(i, j int) bool {
		a, b := out.WitnessPaths[i], out.WitnessPaths[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[len(a)-1] != b[len(b)-1] {
			return a[len(a)-1] < b[len(b)-1]
		}
		return pathLess(a, b)
	})

	return out
}

type pair struct {
	source, leak string
}

type pairResult struct {
	pair       pair
	witnesses  [][]string
	violations [][]string
}

// evaluatePair computes the edge-disjoint paths from p.source to p.leak and
// classifies each as a witness, a discarded already-captured prefix, or (if
// it should never happen) an invariant violation.
func evaluatePair(pg *graph.Graph, p pair) pairResult {
	r := pairResult{pair: p}
	if !pg.PathExists(p.source, p.leak) {
		return r
	}

	leaks := leakSet(pg)
	leakIndex := make(map[string]bool, len(leaks))
	for _, l := range leaks {
		leakIndex[l] = true
	}

	for _, path := range pg.EdgeDisjointPaths(p.source, p.leak) {
		count := 0
		for _, v := range path {
			if leakIndex[v] {
				count++
			}
		}
		switch count {
		case 1:
			r.witnesses = append(r.witnesses, path)
		case 0:
			r.violations = append(r.violations, path)
		default:
			// More than one leak vertex on the path: a prefix of it is
			// already captured by an earlier (source, leak') pair.
		}
	}
	return r
}

func recordEdgeRef(raw *graph.Graph, set map[types.EdgeRef]bool, from, to string) {
	if _, ok := raw.Edge(from, to); ok {
		set[types.EdgeRef{From: from, To: to}] = true
	}
}

func labeledPrincipals(pg *graph.Graph, label types.PrincipalLabel) []string {
	var out []string
	for _, v := range pg.Vertices() {
		if v.Kind == types.KindPrincipal && v.PrincipalLabel == label {
			out = append(out, v.Name)
		}
	}
	sort.Strings(out)
	return out
}

// leakSet is Leak ∪ Default-labeled principals, per spec.md §4.5's
// deliberately conservative "default principals treated as leaks" rule.
func leakSet(pg *graph.Graph) []string {
	var out []string
	for _, v := range pg.Vertices() {
		if v.Kind != types.KindPrincipal {
			continue
		}
		if v.PrincipalLabel == types.PrincipalLeak || v.PrincipalLabel == types.PrincipalDefault {
			out = append(out, v.Name)
		}
	}
	sort.Strings(out)
	return out
}

func pathLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
