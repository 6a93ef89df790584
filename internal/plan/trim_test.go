package plan

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestTrimForCompletion(t *testing.T) {
	node := Node{
		Name:         "api",
		Summary:      "Build the API",
		Description:  "Long instructions that are no longer needed",
		Role:         "backend",
		Model:        "default",
		Status:       StatusCompleted,
		Attempts:     2,
		Result:       "merged in #42",
		Dependencies: []Ref{NameRef("schema")},
		Scope:        &Scope{Directories: []string{"internal/api"}},
		Depth:        2,
		Overlaps:     []int{0},
		Extra:        map[string]json.RawMessage{"owner": json.RawMessage(`"backend-team"`)},
	}

	TrimForCompletion(&node)

	if node.Description != "" {
		t.Error("Description not cleared")
	}
	if node.Scope != nil {
		t.Error("Scope not cleared")
	}
	if node.Depth != 0 {
		t.Error("Depth not cleared")
	}
	if node.Overlaps != nil {
		t.Error("Overlaps not cleared")
	}
	if node.Extra != nil {
		t.Error("Extra not cleared")
	}

	if node.Name != "api" || node.Summary != "Build the API" {
		t.Error("identity fields must survive trimming")
	}
	if node.Role != "backend" || node.Model != "default" {
		t.Error("role and model must survive trimming")
	}
	if node.Status != StatusCompleted || node.Attempts != 2 {
		t.Error("status and attempts must survive trimming")
	}
	if node.Result != "merged in #42" {
		t.Error("result must survive trimming")
	}
	if len(node.Dependencies) != 1 {
		t.Error("dependencies must survive trimming")
	}
}

func TestTrimForCompletion_Idempotent(t *testing.T) {
	node := Node{
		Name:        "api",
		Description: "details",
		Status:      StatusCompleted,
		Depth:       3,
	}

	TrimForCompletion(&node)
	once := node
	TrimForCompletion(&node)

	if !reflect.DeepEqual(once, node) {
		t.Errorf("second trim changed the node: %+v vs %+v", once, node)
	}
}

func TestTrimCompleted_OnlyCompletedNodes(t *testing.T) {
	doc := &Document{
		Nodes: []Node{
			{Name: "done", Status: StatusCompleted, Description: "d", Depth: 1},
			{Name: "open", Status: StatusPending, Description: "keep", Depth: 1},
			{Name: "failed", Status: StatusFailed, Description: "keep too", Depth: 2},
		},
	}

	TrimCompleted(doc)

	if doc.Nodes[0].Description != "" || doc.Nodes[0].Depth != 0 {
		t.Error("completed node not trimmed")
	}
	if doc.Nodes[1].Description != "keep" || doc.Nodes[1].Depth != 1 {
		t.Error("pending node must not be trimmed")
	}
	if doc.Nodes[2].Description != "keep too" || doc.Nodes[2].Depth != 2 {
		t.Error("failed node must not be trimmed")
	}
}

func TestTrimForCompletion_SerializedForm(t *testing.T) {
	node := Node{
		Name:        "api",
		Summary:     "Build the API",
		Description: "details",
		Status:      StatusCompleted,
		Result:      "ok",
		Scope:       &Scope{Patterns: []string{"*.go"}},
		Depth:       2,
		Overlaps:    []int{1},
	}

	TrimForCompletion(&node)

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	for _, gone := range []string{"description", "scope", "depth", "overlaps"} {
		if strings.Contains(s, gone) {
			t.Errorf("trimmed node still serializes %q: %s", gone, s)
		}
	}
	for _, kept := range []string{`"name"`, `"summary"`, `"status"`, `"result"`} {
		if !strings.Contains(s, kept) {
			t.Errorf("trimmed node lost %q: %s", kept, s)
		}
	}
}
