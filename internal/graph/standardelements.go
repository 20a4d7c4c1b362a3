package graph

import "strings"

// standardElementSuffixes lists the well-known ROS infrastructure
// transmitters that are stripped from the raw graph before privacy
// analysis, unless includeStandardElements is set.
var standardElementSuffixes = []string{
	"/rosout",
	"/parameter_events",
	"/describe_parameters",
	"/get_parameters",
	"/get_parameter_types",
	"/list_parameters",
	"/set_parameters",
	"/set_parameters_atomically",
	"/clock",
}

// FilterStandardElements removes every transmitter vertex whose name ends
// with one of the well-known ROS infrastructure suffixes, along with all
// edges incident to it, and returns the number of vertices removed.
func FilterStandardElements(g *Graph) int {
	removed := 0
	for _, v := range g.Vertices() {
		if !v.Kind.IsTransmitter() {
			continue
		}
		if hasStandardSuffix(v.Name) {
			g.RemoveVertex(v.Name)
			removed++
		}
	}
	return removed
}

func hasStandardSuffix(name string) bool {
	for _, suffix := range standardElementSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
