// Package compiler translates parsed policy records (types.Enclave trees)
// into graph.Graph mutations: name normalization, vertex creation, and the
// kind/permission-to-role dispatch table.
package compiler

import (
	"log"
	"strings"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// roleFor maps (kind, permission) to the role materialized on the graph, per
// the dispatch table. RoleUnspecified with ok=false marks an unrecognized
// combination, which the caller reports and skips.
func roleFor(kind, permission string) (types.Role, bool) {
	switch kind {
	case "topics":
		switch permission {
		case "publish":
			return types.RolePublisher, true
		case "subscribe":
			return types.RoleSubscriber, true
		}
	case "services":
		switch permission {
		case "reply":
			return types.RoleServer, true
		case "request":
			return types.RoleClient, true
		}
	case "actions":
		switch permission {
		case "execute":
			return types.RoleExecutor, true
		case "call":
			return types.RoleCaller, true
		}
	}
	return types.RoleUnspecified, false
}

// transmitterKindFor maps an expression's "topics"/"services"/"actions"
// discriminator to the vertex kind stored on the transmitter.
func transmitterKindFor(kind string) (types.VertexKind, bool) {
	switch kind {
	case "topics":
		return types.KindTopic, true
	case "services":
		return types.KindService, true
	case "actions":
		return types.KindAction, true
	}
	return "", false
}

// normalize collapses repeated "/" into a single one, matching the
// original's `.replace('//', '/')` name normalization.
func normalize(name string) string {
	for strings.Contains(name, "//") {
		name = strings.ReplaceAll(name, "//", "/")
	}
	return name
}

// qualify resolves an element name relative to a namespace: already
// fully-qualified names (leading "/") pass through, everything else is
// prefixed with the namespace.
func qualify(namespace, name string) string {
	if strings.HasPrefix(name, "/") {
		return normalize(name)
	}
	return normalize(namespace + "/" + name)
}

// decisionToAllowed maps the XML decision string to the tri-state Allowed
// value. The ok result is false for any string other than ALLOW/DENY.
func decisionToAllowed(decision string) (types.Allowed, bool) {
	switch decision {
	case "ALLOW":
		return types.Allow, true
	case "DENY":
		return types.Deny, true
	default:
		return types.Unknown, false
	}
}

// Compile applies every enclave/profile/expression in enclaves to g,
// skipping and logging any tuple with an unrecognized decision, permission,
// or kind (InputMalformed, per the error taxonomy) rather than failing the
// whole batch.
func Compile(g *graph.Graph, enclaves []types.Enclave) {
	for _, enclave := range enclaves {
		for _, profile := range enclave.Profiles {
			compileProfile(g, enclave.Path, profile)
		}
	}
}

func compileProfile(g *graph.Graph, enclavePath string, profile types.Profile) {
	principal := qualify(profile.Namespace, profile.Node)
	g.AddPrincipal(principal, enclavePath)

	for _, expr := range profile.Expressions {
		compileExpression(g, enclavePath, profile.Namespace, principal, expr)
	}
}

func compileExpression(g *graph.Graph, enclavePath, namespace, principal string, expr types.Expression) {
	vKind, ok := transmitterKindFor(expr.Kind)
	if !ok {
		log.Printf("compiler: skipping expression with unrecognized kind %q", expr.Kind)
		return
	}
	role, ok := roleFor(expr.Kind, expr.Permission)
	if !ok {
		log.Printf("compiler: skipping expression with unrecognized permission %q for kind %q", expr.Permission, expr.Kind)
		return
	}
	allowed, ok := decisionToAllowed(expr.Decision)
	if !ok {
		log.Printf("compiler: skipping expression with unrecognized decision %q", expr.Decision)
		return
	}

	for _, element := range expr.Elements {
		transmitter := qualify(namespace, element)
		g.AddTransmitter(transmitter, vKind, enclavePath, "")
		g.AddRelation(principal, transmitter, role, allowed)
	}
}
