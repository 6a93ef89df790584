package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/plan"
	"github.com/planwright/planwright/internal/testutil"
)

// resetFlags returns every package-level flag variable to its default so
// command invocations stay independent of each other.
func resetFlags() {
	flagJSON = false
	flagLogLevel = ""
	updateSets = nil
	updateFile = ""
	workersWidth = 0
	retryMaxAttempts = 0
	watchDebounce = 0
	logsFile = ""
	logsLevel = ""
	logsOp = ""
	logsPlan = ""
	logsGrep = ""
	logsSince = ""
	logsTail = 50
	logsExport = ""
	logsFormat = "json"
}

// executeCommand runs the root command with args and returns captured stdout.
// Logging is disabled and config lookup pinned to empty directories so the
// run is hermetic.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Setenv("PLANWRIGHT_LOGGING_ENABLED", "false")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))
	t.Setenv("HOME", t.TempDir())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "planwright" {
		t.Errorf("rootCmd.Use = %q, want planwright", rootCmd.Use)
	}

	expected := []string{
		"validate", "finalize", "status", "update", "overlap",
		"workers", "breaker", "retry", "reset", "watch", "top", "logs",
	}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range expected {
		if !names[want] {
			t.Errorf("subcommand %q not registered", want)
		}
	}
}

func TestExecuteCommand_FailurePayloadIsSilenced(t *testing.T) {
	out, err := executeCommand(t, "validate", filepath.Join(t.TempDir(), "absent.json"), "--json")
	if err == nil {
		t.Fatal("expected error for a missing plan")
	}

	// The payload already reports the failure; Execute must not print the
	// error a second time.
	var silent *silentError
	if !errors.As(err, &silent) {
		t.Errorf("err = %T, want silenced", err)
	}
	if !errors.Is(err, errors.ErrPlanNotFound) {
		t.Errorf("err = %v, want ErrPlanNotFound in the chain", err)
	}

	result := testutil.DecodeResult(t, []byte(out))
	if result["ok"] != false {
		t.Errorf("ok = %v, want false", result["ok"])
	}
	if result["error"] != "not_found" {
		t.Errorf("error = %v, want not_found", result["error"])
	}
}

func TestExecuteCommand_HumanModeWithoutJSONFlag(t *testing.T) {
	doc := testutil.Document("build it", testutil.Node("solo", plan.StatusPending))
	path := testutil.WritePlan(t, t.TempDir(), doc)

	// A captured buffer is not a terminal file, so without --json the
	// command renders the human view.
	out, err := executeCommand(t, "validate", path)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if strings.Contains(out, `"ok"`) {
		t.Errorf("human mode emitted JSON:\n%s", out)
	}
	if !strings.Contains(out, "plan is valid") {
		t.Errorf("human output missing the verdict:\n%s", out)
	}
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Setenv("PLANWRIGHT_LOGGING_ENABLED", "false")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))
	t.Setenv("HOME", t.TempDir())

	doc := testutil.Document("build it", testutil.Node("solo", plan.StatusPending))
	path := testutil.WritePlan(t, t.TempDir(), doc)

	run := func(args ...string) int {
		resetFlags()
		rootCmd.SetOut(new(bytes.Buffer))
		rootCmd.SetErr(new(bytes.Buffer))
		rootCmd.SetArgs(args)
		return Execute()
	}

	if code := run("status", path, "--json"); code != 0 {
		t.Errorf("status on a valid plan exited %d, want 0", code)
	}
	if code := run("status", filepath.Join(t.TempDir(), "absent.json"), "--json"); code != 1 {
		t.Errorf("status on a missing plan exited %d, want 1", code)
	}
}
