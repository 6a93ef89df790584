package graph

import (
	"reflect"
	"strings"
	"testing"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/plan"
)

func testDoc(nodes ...plan.Node) *plan.Document {
	return &plan.Document{
		Goal:          "g",
		SchemaVersion: plan.SchemaVersion,
		Nodes:         nodes,
	}
}

func testNode(name string, deps ...plan.Ref) plan.Node {
	return plan.Node{Name: name, Status: plan.StatusPending, Dependencies: deps}
}

func TestBuild_ResolvesNameAndIndexRefs(t *testing.T) {
	doc := testDoc(
		testNode("schema"),
		testNode("db", plan.NameRef("schema")),
		testNode("api", plan.IndexRef(0), plan.NameRef("db")),
	)

	g, issues := Build(doc, Permissive)
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none", issues)
	}

	if got := g.Dependencies(1); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Dependencies(1) = %v, want [0]", got)
	}
	if got := g.Dependencies(2); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Dependencies(2) = %v, want [0 1]", got)
	}
}

func TestBuild_Dependents(t *testing.T) {
	doc := testDoc(
		testNode("a"),
		testNode("b", plan.NameRef("a")),
		testNode("c", plan.NameRef("a")),
	)

	g, _ := Build(doc, Permissive)
	if got := g.Dependents(0); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Dependents(0) = %v, want [1 2]", got)
	}
	if got := g.Dependents(1); len(got) != 0 {
		t.Errorf("Dependents(1) = %v, want none", got)
	}
}

func TestBuild_UnknownName(t *testing.T) {
	doc := testDoc(
		testNode("a"),
		testNode("b", plan.NameRef("ghost")),
	)

	g, issues := Build(doc, Permissive)
	if g == nil {
		t.Fatal("Permissive build returned nil graph")
	}
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want 1", issues)
	}
	issue := issues[0]
	if !issue.IsError() || issue.Node != "b" || issue.Field != "dependencies" {
		t.Errorf("issue = %+v, want dependencies error on b", issue)
	}
	if !strings.Contains(issue.Message, `"ghost"`) {
		t.Errorf("Message = %q, want the unknown name", issue.Message)
	}
	if len(g.Dependencies(1)) != 0 {
		t.Errorf("unresolved edge kept: %v", g.Dependencies(1))
	}
}

func TestBuild_OutOfRangeIndex(t *testing.T) {
	doc := testDoc(
		testNode("a", plan.IndexRef(5)),
		testNode("b", plan.IndexRef(-1)),
	)

	g, issues := Build(doc, Permissive)
	if len(issues) != 2 {
		t.Fatalf("issues = %+v, want 2", issues)
	}
	for _, issue := range issues {
		if !issue.IsError() {
			t.Errorf("issue %+v not an error", issue)
		}
	}
	if len(g.Dependencies(0)) != 0 || len(g.Dependencies(1)) != 0 {
		t.Error("out-of-range edges kept")
	}
}

func TestBuild_SelfDependency(t *testing.T) {
	doc := testDoc(
		testNode("a", plan.NameRef("a")),
		testNode("b", plan.IndexRef(1)),
	)

	g, issues := Build(doc, Permissive)
	if len(issues) != 2 {
		t.Fatalf("issues = %+v, want 2", issues)
	}
	for _, issue := range issues {
		if issue.Message != "Node depends on itself" {
			t.Errorf("Message = %q, want self-dependency", issue.Message)
		}
	}
	if len(g.Dependencies(0)) != 0 || len(g.Dependencies(1)) != 0 {
		t.Error("self edges kept")
	}
}

func TestBuild_DeduplicatesEdges(t *testing.T) {
	doc := testDoc(
		testNode("a"),
		testNode("b", plan.IndexRef(0), plan.NameRef("a")),
	)

	g, issues := Build(doc, Permissive)
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none", issues)
	}
	if got := g.Dependencies(1); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Dependencies(1) = %v, want [0] after dedup", got)
	}
	if got := g.Dependents(0); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Dependents(0) = %v, want [1] after dedup", got)
	}
}

func TestBuild_Strict(t *testing.T) {
	bad := testDoc(
		testNode("a", plan.NameRef("ghost")),
	)
	g, issues := Build(bad, Strict)
	if g != nil {
		t.Error("Strict build returned a graph despite errors")
	}
	if len(issues) == 0 {
		t.Error("Strict build returned no issues")
	}

	good := testDoc(
		testNode("a"),
		testNode("b", plan.NameRef("a")),
	)
	g, issues = Build(good, Strict)
	if g == nil {
		t.Fatal("Strict build of a clean plan returned nil")
	}
	if len(issues) != 0 {
		t.Errorf("issues = %+v, want none", issues)
	}
}

func TestGraph_Identity(t *testing.T) {
	doc := testDoc(
		testNode("a"),
		plan.Node{Status: plan.StatusPending},
	)

	g, _ := Build(doc, Permissive)
	if got := g.Identity(0); got != "a" {
		t.Errorf("Identity(0) = %q, want a", got)
	}
	if got := g.Identity(1); got != "1" {
		t.Errorf("Identity(1) = %q, want 1", got)
	}
}

func TestGraph_Resolve(t *testing.T) {
	doc := testDoc(
		testNode("a"),
		testNode("b"),
		plan.Node{Status: plan.StatusPending},
	)
	g, _ := Build(doc, Permissive)

	tests := []struct {
		target  string
		want    int
		wantErr bool
	}{
		{target: "a", want: 0},
		{target: "b", want: 1},
		{target: "2", want: 2},
		{target: "0", want: 0},
		{target: "ghost", wantErr: true},
		{target: "3", wantErr: true},
		{target: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := g.Resolve(tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) succeeded, want error", tt.target)
				}
				if !errors.Is(err, errors.ErrNodeNotFound) {
					t.Errorf("error does not match ErrNodeNotFound: %v", err)
				}
				if token := errors.Token(err); token != "invalid_update" {
					t.Errorf("Token = %q, want invalid_update", token)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.target, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestGraph_Resolve_NameShadowsIndex(t *testing.T) {
	doc := testDoc(
		testNode("2"),
		testNode("b"),
		testNode("c"),
	)
	g, _ := Build(doc, Permissive)

	// The node literally named "2" wins over the node at position 2.
	got, err := g.Resolve("2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 0 {
		t.Errorf("Resolve(2) = %d, want 0 (name wins)", got)
	}
}
