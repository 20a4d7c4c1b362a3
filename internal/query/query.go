// Package query provides read-only convenience queries over a built graph:
// reachability, descendant sets, and "which sources can reach this leak" —
// a thin façade so the CLI and tests share one BFS implementation instead
// of re-deriving it by hand.
package query

import (
	"fmt"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// Engine answers queries against a fixed graph.
type Engine struct {
	graph *graph.Graph
}

// New wraps g in a query Engine.
func New(g *graph.Graph) *Engine {
	return &Engine{graph: g}
}

// Reachable reports whether to is reachable from from.
func (e *Engine) Reachable(from, to string) (bool, error) {
	if _, ok := e.graph.Vertex(from); !ok {
		return false, fmt.Errorf("reachable: %w: %s", graph.ErrUnknownVertex, from)
	}
	if _, ok := e.graph.Vertex(to); !ok {
		return false, fmt.Errorf("reachable: %w: %s", graph.ErrUnknownVertex, to)
	}
	return e.graph.PathExists(from, to), nil
}

// DescendantsOf returns every vertex reachable from from.
func (e *Engine) DescendantsOf(from string) ([]string, error) {
	if _, ok := e.graph.Vertex(from); !ok {
		return nil, fmt.Errorf("descendantsOf: %w: %s", graph.ErrUnknownVertex, from)
	}
	return e.graph.Descendants(from), nil
}

// WhoCanReach returns every Source-labeled principal with a path to leak.
func (e *Engine) WhoCanReach(leak string) ([]string, error) {
	if _, ok := e.graph.Vertex(leak); !ok {
		return nil, fmt.Errorf("whoCanReach: %w: %s", graph.ErrUnknownVertex, leak)
	}

	var out []string
	for _, v := range e.graph.Vertices() {
		if v.Kind != types.KindPrincipal || v.PrincipalLabel != types.PrincipalSource {
			continue
		}
		if v.Name == leak {
			continue
		}
		if e.graph.PathExists(v.Name, leak) {
			out = append(out, v.Name)
		}
	}
	return out, nil
}
