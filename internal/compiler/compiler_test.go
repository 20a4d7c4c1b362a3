package compiler

import (
	"testing"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

func TestCompileMinimalVulnerablePath(t *testing.T) {
	// Mirrors scenario S1: /a/src publishes /t (ALLOW), /b/sink subscribes
	// /t (ALLOW).
	enclaves := []types.Enclave{
		{
			Path: "/enclave",
			Profiles: []types.Profile{
				{
					Namespace: "/a", Node: "src",
					Expressions: []types.Expression{
						{Kind: "topics", Permission: "publish", Decision: "ALLOW", Elements: []string{"/t"}},
					},
				},
				{
					Namespace: "/b", Node: "sink",
					Expressions: []types.Expression{
						{Kind: "topics", Permission: "subscribe", Decision: "ALLOW", Elements: []string{"/t"}},
					},
				},
			},
		},
	}

	g := graph.New()
	Compile(g, enclaves)

	if _, ok := g.Vertex("/a/src"); !ok {
		t.Fatal("expected /a/src to exist")
	}
	if _, ok := g.Vertex("/t"); !ok {
		t.Fatal("expected /t to exist")
	}
	e, ok := g.Edge("/a/src", "/t")
	if !ok || e.Allowed != types.Allow {
		t.Fatalf("expected allowed publish edge /a/src->/t, got %v ok=%v", e, ok)
	}
	e2, ok := g.Edge("/t", "/b/sink")
	if !ok || e2.Allowed != types.Allow {
		t.Fatalf("expected allowed subscribe edge /t->/b/sink, got %v ok=%v", e2, ok)
	}
}

func TestCompileNameNormalization(t *testing.T) {
	enclaves := []types.Enclave{
		{
			Path: "/e",
			Profiles: []types.Profile{
				{
					Namespace: "/a/", Node: "src",
					Expressions: []types.Expression{
						{Kind: "topics", Permission: "publish", Decision: "ALLOW", Elements: []string{"t"}},
					},
				},
			},
		},
	}
	g := graph.New()
	Compile(g, enclaves)

	if _, ok := g.Vertex("/a/t"); !ok {
		t.Error("expected collapsed double-slash name /a/t")
	}
}

func TestCompileBidirectionalServiceRole(t *testing.T) {
	enclaves := []types.Enclave{
		{
			Path: "/e",
			Profiles: []types.Profile{
				{
					Namespace: "/a", Node: "server",
					Expressions: []types.Expression{
						{Kind: "services", Permission: "reply", Decision: "ALLOW", Elements: []string{"/svc"}},
					},
				},
			},
		},
	}
	g := graph.New()
	Compile(g, enclaves)

	if _, ok := g.Edge("/a/server", "/svc"); !ok {
		t.Error("missing principal->transmitter edge")
	}
	if _, ok := g.Edge("/svc", "/a/server"); !ok {
		t.Error("missing transmitter->principal edge")
	}
}

func TestCompileSkipsUnrecognizedDecision(t *testing.T) {
	enclaves := []types.Enclave{
		{
			Path: "/e",
			Profiles: []types.Profile{
				{
					Namespace: "/a", Node: "src",
					Expressions: []types.Expression{
						{Kind: "topics", Permission: "publish", Decision: "MAYBE", Elements: []string{"/t"}},
					},
				},
			},
		},
	}
	g := graph.New()
	Compile(g, enclaves)

	if _, ok := g.Vertex("/t"); ok {
		t.Error("malformed decision should be skipped, not create a transmitter")
	}
}
