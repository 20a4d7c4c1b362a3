// Package categorize applies a loaded taint categorization to an existing
// graph, invoking the graph's label setters for each of the six lists.
package categorize

import (
	"log"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// Apply sets principal labels from Source/Leak/Conduit/Sanitizer and
// transmitter labels from Sensitive/Mundane. Missing vertices are logged
// and skipped, never fatal. If a name appears in more than one list, the
// last application made by this function wins — callers that need a
// different precedence should pre-merge their lists before calling Apply.
func Apply(g *graph.Graph, c *types.Categorization) {
	if c == nil {
		return
	}

	applyPrincipal(g, c.Source, types.PrincipalSource)
	applyPrincipal(g, c.Leak, types.PrincipalLeak)
	applyPrincipal(g, c.Conduit, types.PrincipalConduit)
	applyPrincipal(g, c.Sanitizer, types.PrincipalSanitizer)
	applyTransmitter(g, c.Sensitive, types.TransmitterSensitive)
	applyTransmitter(g, c.Mundane, types.TransmitterMundane)
}

func applyPrincipal(g *graph.Graph, names []string, label types.PrincipalLabel) {
	for _, name := range names {
		if err := g.SetPrincipalLabel(name, label); err != nil {
			log.Printf("categorize: %v", err)
		}
	}
}

func applyTransmitter(g *graph.Graph, names []string, label types.TransmitterLabel) {
	for _, name := range names {
		if err := g.SetTransmitterLabel(name, label); err != nil {
			log.Printf("categorize: %v", err)
		}
	}
}
