// Package output formats analysis results for the CLI, in either
// human-readable text or JSON, and exports the raw graph as a multi-line
// adjacency list for the visualizer collaborator.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/internal/vuln"
)

// AnalyzeOutput is the JSON shape of an analyze result.
type AnalyzeOutput struct {
	IsVulnerable    bool       `json:"isVulnerable"`
	WitnessPaths    [][]string `json:"witnessPaths"`
	VulnerableEdges []EdgeJSON `json:"vulnerableEdges"`
}

// EdgeJSON is the JSON shape of a vulnerable edge.
type EdgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PrintAnalyze prints an analyze result in the given format ("json" or
// text, the default).
func PrintAnalyze(format string, result vuln.Result) error {
	if format == "json" {
		return printAnalyzeJSON(result)
	}
	return printAnalyzeText(result)
}

func printAnalyzeJSON(result vuln.Result) error {
	out := AnalyzeOutput{
		IsVulnerable: result.IsVulnerable,
		WitnessPaths: result.WitnessPaths,
	}
	for _, e := range result.VulnerableEdges {
		out.VulnerableEdges = append(out.VulnerableEdges, EdgeJSON{From: e.From, To: e.To})
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func printAnalyzeText(result vuln.Result) error {
	if !result.IsVulnerable {
		fmt.Println("Privacy Safe")
		return nil
	}

	fmt.Println("Privacy Vulnerable")
	for _, path := range result.WitnessPaths {
		if len(path) == 0 {
			continue
		}
		fmt.Printf("Privacy Endangered: %s can reach %s\n", path[0], path[len(path)-1])
		fmt.Printf("  path: %s\n", joinPath(path))
	}
	return nil
}

func joinPath(path []string) string {
	out := ""
	for i, v := range path {
		if i > 0 {
			out += " -> "
		}
		out += v
	}
	return out
}

// PrintReachable prints a reachability result.
func PrintReachable(format, from, to string, reachable bool) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"from":      from,
			"to":        to,
			"reachable": reachable,
		})
	}
	if reachable {
		fmt.Printf("%s can reach %s\n", from, to)
	} else {
		fmt.Printf("%s cannot reach %s\n", from, to)
	}
	return nil
}

// PrintWhoCanReach prints the set of sources that can reach a leak.
func PrintWhoCanReach(format, leak string, sources []string) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"leak":    leak,
			"sources": sources,
		})
	}
	if len(sources) == 0 {
		fmt.Printf("No source can reach %s.\n", leak)
		return nil
	}
	fmt.Printf("%d source(s) can reach %s:\n", len(sources), leak)
	for _, s := range sources {
		fmt.Printf("  %s\n", s)
	}
	return nil
}

// WriteAdjacencyList emits the graph in the same multi-line adjacency
// format as networkx.write_multiline_adjlist: one vertex per line,
// followed by its out-degree, followed by one "target weight" line per
// outgoing edge. This format is not part of the core contract (spec.md
// §6); it exists for parity with the original tool's save_graph output
// expected by a downstream visualizer.
func WriteAdjacencyList(g *graph.Graph, w io.Writer) error {
	for _, v := range g.Vertices() {
		successors := g.Successors(v.Name)
		if _, err := fmt.Fprintf(w, "%s %d\n", v.Name, len(successors)); err != nil {
			return err
		}
		for _, s := range successors {
			if _, err := fmt.Fprintf(w, "%s %s\n", s, weightFor(g, v.Name, s)); err != nil {
				return err
			}
		}
	}
	return nil
}

func weightFor(g *graph.Graph, from, to string) string {
	e, ok := g.Edge(from, to)
	if !ok {
		return "{}"
	}
	return fmt.Sprintf("{'role': '%s', 'allowed': '%s'}", e.Role, e.Allowed)
}
