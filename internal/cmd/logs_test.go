package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planwright/planwright/internal/testutil"
)

// writeLogFixture writes a three-entry JSON-lines log file and returns its
// path. Lines are deliberately out of order; aggregation sorts by time.
func writeLogFixture(t *testing.T) string {
	t.Helper()

	lines := []string{
		`{"time":"2026-08-23T10:00:02Z","level":"ERROR","msg":"update rejected","op":"update","plan":"plan.json","error":"invalid status transition"}`,
		`{"time":"2026-08-23T10:00:01Z","level":"INFO","msg":"plan updated","op":"update","plan":"plan.json","updated":2}`,
		`{"time":"2026-08-23T10:00:00Z","level":"INFO","msg":"validation finished","op":"validate","plan":"plan.json"}`,
		`not json at all`,
	}
	path := filepath.Join(t.TempDir(), "planwright.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLogsCommand_NoFileConfigured(t *testing.T) {
	out, err := executeCommand(t, "logs", "--json")
	if err == nil {
		t.Fatal("logs ran without a log file")
	}
	if !strings.Contains(out, "no log file configured") {
		t.Errorf("message missing:\n%s", out)
	}
}

func TestLogsCommand_ReadsAndSorts(t *testing.T) {
	path := writeLogFixture(t)

	out, err := executeCommand(t, "logs", "--file", path, "--json")
	if err != nil {
		t.Fatalf("logs failed: %v\n%s", err, out)
	}

	result := testutil.DecodeResult(t, []byte(out))
	if result["count"] != float64(3) {
		t.Errorf("count = %v, want 3 with the garbage line skipped", result["count"])
	}
	entries := result["entries"].([]any)
	first := entries[0].(map[string]any)
	if first["msg"] != "validation finished" {
		t.Errorf("first entry = %v, want the oldest", first)
	}
}

func TestLogsCommand_Filters(t *testing.T) {
	path := writeLogFixture(t)

	out, err := executeCommand(t, "logs", "--file", path, "--level", "error", "--json")
	if err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	result := testutil.DecodeResult(t, []byte(out))
	if result["count"] != float64(1) {
		t.Errorf("level filter count = %v, want 1", result["count"])
	}

	out, err = executeCommand(t, "logs", "--file", path, "--op", "validate", "--json")
	if err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	result = testutil.DecodeResult(t, []byte(out))
	if result["count"] != float64(1) {
		t.Errorf("op filter count = %v, want 1", result["count"])
	}

	out, err = executeCommand(t, "logs", "--file", path, "--grep", "rejected", "--json")
	if err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	result = testutil.DecodeResult(t, []byte(out))
	entries := result["entries"].([]any)
	if len(entries) != 1 || entries[0].(map[string]any)["msg"] != "update rejected" {
		t.Errorf("grep filter = %v", entries)
	}
}

func TestLogsCommand_Tail(t *testing.T) {
	path := writeLogFixture(t)

	out, err := executeCommand(t, "logs", "--file", path, "--tail", "1", "--json")
	if err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	result := testutil.DecodeResult(t, []byte(out))
	entries := result["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("entries = %v, want the newest only", entries)
	}
	if entries[0].(map[string]any)["msg"] != "update rejected" {
		t.Errorf("tail kept %v, want the newest entry", entries[0])
	}
}

func TestLogsCommand_InvalidSince(t *testing.T) {
	path := writeLogFixture(t)

	out, err := executeCommand(t, "logs", "--file", path, "--since", "yesterday", "--json")
	if err == nil {
		t.Fatal("bad duration accepted")
	}
	if !strings.Contains(out, "invalid --since duration") {
		t.Errorf("message missing:\n%s", out)
	}
}

func TestLogsCommand_ExportCSV(t *testing.T) {
	path := writeLogFixture(t)
	dest := filepath.Join(t.TempDir(), "out.csv")

	out, err := executeCommand(t, "logs", "--file", path,
		"--export", dest, "--format", "csv", "--json")
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}

	result := testutil.DecodeResult(t, []byte(out))
	if result["exported"] != float64(3) || result["format"] != "csv" {
		t.Errorf("payload = %v", result)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "timestamp,level,message,plan,op,attrs") {
		t.Errorf("csv header wrong:\n%s", text)
	}
	if !strings.Contains(text, "update rejected") {
		t.Errorf("csv missing entries:\n%s", text)
	}
}
