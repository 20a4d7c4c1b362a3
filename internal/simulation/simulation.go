// Package simulation compares vulnerability verdicts produced by two
// categorizations applied to the same underlying communication graph, for
// "does this categorization change introduce a leak" workflows. Both runs
// use one raw graph; two different raw graphs cannot be compared.
package simulation

import (
	"fmt"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/categorize"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/privacygraph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/vuln"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// Diff is the result of comparing two analysis runs by (source, leak) pair.
type Diff struct {
	Granted   []Pair // vulnerable under "after" but not "before"
	Fixed     []Pair // vulnerable under "before" but not "after"
	Unchanged []Pair // vulnerable under both
}

// Pair is a witnessed (source, leak) relationship, identified by its
// endpoints (a witness path's terminal vertices).
type Pair struct {
	Source string
	Leak   string
}

// CompareCategorizations clones raw twice, applies before to one clone and
// after to the other, analyzes each, and diffs the resulting
// vulnerable-pair sets.
func CompareCategorizations(raw *graph.Graph, before, after *types.Categorization, opts privacygraph.Options) (*Diff, error) {
	if raw == nil {
		return nil, fmt.Errorf("raw graph cannot be nil")
	}

	beforeGraph := raw.Clone()
	categorize.Apply(beforeGraph, before)
	beforeResult := vuln.Analyze(beforeGraph, vuln.Options{PrivacyGraph: opts})

	afterGraph := raw.Clone()
	categorize.Apply(afterGraph, after)
	afterResult := vuln.Analyze(afterGraph, vuln.Options{PrivacyGraph: opts})

	beforePairs := pairSet(beforeResult)
	afterPairs := pairSet(afterResult)

	diff := &Diff{}
	for p := range afterPairs {
		if beforePairs[p] {
			diff.Unchanged = append(diff.Unchanged, p)
		} else {
			diff.Granted = append(diff.Granted, p)
		}
	}
	for p := range beforePairs {
		if !afterPairs[p] {
			diff.Fixed = append(diff.Fixed, p)
		}
	}

	return diff, nil
}

// pairSet extracts the (source, leak) pair for every witness path — the
// path's first and last vertex.
func pairSet(r vuln.Result) map[Pair]bool {
	out := make(map[Pair]bool, len(r.WitnessPaths))
	for _, path := range r.WitnessPaths {
		if len(path) == 0 {
			continue
		}
		out[Pair{Source: path[0], Leak: path[len(path)-1]}] = true
	}
	return out
}
