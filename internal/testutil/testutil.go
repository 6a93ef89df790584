// Package testutil provides plan-document fixtures for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/planwright/planwright/internal/plan"
)

// WritePlan marshals a document into dir as plan.json and returns the path.
func WritePlan(t *testing.T, dir string, doc *plan.Document) string {
	t.Helper()

	path := filepath.Join(dir, "plan.json")
	if err := plan.Save(path, doc); err != nil {
		t.Fatalf("failed to write plan fixture: %v", err)
	}
	return path
}

// WritePlanJSON writes raw content into dir as plan.json and returns the
// path. Use this to plant malformed or hand-crafted documents.
func WritePlanJSON(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "plan.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write plan fixture: %v", err)
	}
	return path
}

// ReadPlan loads the document back from path, failing the test on any load
// error.
func ReadPlan(t *testing.T, path string) *plan.Document {
	t.Helper()

	doc, err := plan.Load(path)
	if err != nil {
		t.Fatalf("failed to read plan fixture back: %v", err)
	}
	return doc
}

// Document builds a valid plan document around the given nodes.
func Document(goal string, nodes ...plan.Node) *plan.Document {
	return &plan.Document{
		Goal:          goal,
		SchemaVersion: plan.SchemaVersion,
		Nodes:         nodes,
	}
}

// Node builds a node with the given name, status, and dependencies.
func Node(name string, status plan.Status, deps ...plan.Ref) plan.Node {
	return plan.Node{
		Name:         name,
		Summary:      "summary of " + name,
		Role:         "builder",
		Model:        "standard",
		Status:       status,
		Dependencies: deps,
	}
}

// DecodeResult unmarshals an operation's JSON output into a generic map,
// failing the test on malformed output.
func DecodeResult(t *testing.T, data []byte) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to decode result JSON: %v\noutput: %s", err, data)
	}
	return out
}
