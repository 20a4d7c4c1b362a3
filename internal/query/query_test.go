package query

import (
	"errors"
	"testing"

	"github.com/JonasWoh/ROS2PrivacyGraph/internal/graph"
	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddPrincipal("/a/src", "e")
	g.AddTransmitter("/t", types.KindTopic, "e", "")
	g.AddPrincipal("/b/sink", "e")
	g.AddPrincipal("/c/other", "e")
	g.AddRelation("/a/src", "/t", types.RolePublisher, types.Allow)
	g.AddRelation("/b/sink", "/t", types.RoleSubscriber, types.Allow)
	if err := g.SetPrincipalLabel("/a/src", types.PrincipalSource); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestReachable(t *testing.T) {
	e := New(buildTestGraph(t))

	ok, err := e.Reachable("/a/src", "/b/sink")
	if err != nil || !ok {
		t.Errorf("Reachable(/a/src, /b/sink) = %v, %v; want true, nil", ok, err)
	}

	ok, err = e.Reachable("/c/other", "/b/sink")
	if err != nil || ok {
		t.Errorf("Reachable(/c/other, /b/sink) = %v, %v; want false, nil", ok, err)
	}
}

func TestReachableUnknownVertex(t *testing.T) {
	e := New(buildTestGraph(t))
	_, err := e.Reachable("/does/not/exist", "/b/sink")
	if !errors.Is(err, graph.ErrUnknownVertex) {
		t.Errorf("got %v, want ErrUnknownVertex", err)
	}
}

func TestDescendantsOf(t *testing.T) {
	e := New(buildTestGraph(t))
	desc, err := e.DescendantsOf("/a/src")
	if err != nil {
		t.Fatalf("DescendantsOf: %v", err)
	}
	want := map[string]bool{"/t": true, "/b/sink": true}
	if len(desc) != len(want) {
		t.Fatalf("got %v, want %v", desc, want)
	}
}

func TestWhoCanReach(t *testing.T) {
	e := New(buildTestGraph(t))
	who, err := e.WhoCanReach("/b/sink")
	if err != nil {
		t.Fatalf("WhoCanReach: %v", err)
	}
	if len(who) != 1 || who[0] != "/a/src" {
		t.Errorf("got %v, want [/a/src]", who)
	}
}
