package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// StoreError Tests
// -----------------------------------------------------------------------------

func TestNewStoreError(t *testing.T) {
	cause := ErrPlanNotFound
	err := NewStoreError("failed to load plan", cause)

	if err.message != "failed to load plan" {
		t.Errorf("message = %q, want %q", err.message, "failed to load plan")
	}
	if err.cause != cause {
		t.Errorf("cause = %v, want %v", err.cause, cause)
	}
	if err.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityError)
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
}

func TestStoreError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StoreError
		want string
	}{
		{
			name: "basic error",
			err:  NewStoreError("write failed", nil),
			want: "store error: write failed",
		},
		{
			name: "with cause",
			err:  NewStoreError("load failed", ErrPlanNotFound),
			want: "store error: load failed: plan not found",
		},
		{
			name: "with path",
			err:  NewStoreError("write failed", nil).WithPath("/tmp/plan.json"),
			want: "store error [path=/tmp/plan.json]: write failed",
		},
		{
			name: "with path and op",
			err:  NewStoreError("rename failed", ErrOperationFailed).WithPath("/tmp/plan.json").WithOp("write"),
			want: "store error [path=/tmp/plan.json, op=write]: rename failed: operation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoreError_Is(t *testing.T) {
	err := NewStoreError("test", ErrPlanNotFound).WithPath("/tmp/p.json")

	if !Is(err, &StoreError{}) {
		t.Error("Is(StoreError{}) = false, want true")
	}
	if !Is(err, ErrPlanNotFound) {
		t.Error("Is(ErrPlanNotFound) = false, want true")
	}
	if Is(err, ErrInvalidTransition) {
		t.Error("Is(ErrInvalidTransition) = true, want false")
	}
}

func TestStoreError_Unwrap(t *testing.T) {
	cause := ErrPlanNotFound
	err := NewStoreError("test", cause)

	if unwrapped := Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

// -----------------------------------------------------------------------------
// CycleError Tests
// -----------------------------------------------------------------------------

func TestNewCycleError(t *testing.T) {
	err := NewCycleError([]string{"a", "b", "a"})

	if !Is(err, ErrDependencyCycle) {
		t.Error("Is(ErrDependencyCycle) = false, want true")
	}
	if err.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityError)
	}
	want := "dependency cycle detected: a -> b -> a"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCycleError_EmptyPath(t *testing.T) {
	err := NewCycleError(nil)

	want := "dependency cycle detected"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrDependencyCycle) {
		t.Error("Is(ErrDependencyCycle) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// TransitionError Tests
// -----------------------------------------------------------------------------

func TestNewTransitionError(t *testing.T) {
	err := NewTransitionError(3, "api-server", "pending", "completed", []string{"in_progress"})

	if !Is(err, ErrInvalidTransition) {
		t.Error("Is(ErrInvalidTransition) = false, want true")
	}
	want := `invalid transition for node 3 ("api-server"): pending -> completed (allowed: in_progress)`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTransitionError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TransitionError
		want string
	}{
		{
			name: "unnamed node",
			err:  NewTransitionError(0, "", "in_progress", "pending", []string{"completed", "failed"}),
			want: "invalid transition for node 0: in_progress -> pending (allowed: completed, failed)",
		},
		{
			name: "terminal status",
			err:  NewTransitionError(2, "db", "completed", "failed", nil),
			want: `invalid transition for node 2 ("db"): completed -> failed (allowed: none)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransitionError_As(t *testing.T) {
	var err error = NewTransitionError(1, "", "pending", "skipped", nil)
	wrapped := fmt.Errorf("applying batch: %w", err)

	var transitionErr *TransitionError
	if !As(wrapped, &transitionErr) {
		t.Fatal("As(TransitionError) = false, want true")
	}
	if transitionErr.Node != 1 {
		t.Errorf("Node = %d, want 1", transitionErr.Node)
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("plan", "/tmp/plan.json")

	want := "plan '/tmp/plan.json' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrPlanNotFound) {
		t.Error("Is(ErrPlanNotFound) = false, want true")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestNewParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewParseError("/tmp/plan.json", cause)

	want := "parse error [path=/tmp/plan.json]: plan is not valid JSON: unexpected end of JSON input"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrMalformedPlan) {
		t.Error("Is(ErrMalformedPlan) = false, want true")
	}
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("schemaVersion 2 is not supported", ErrSchemaMismatch)

	if !Is(err, ErrSchemaMismatch) {
		t.Error("Is(ErrSchemaMismatch) = false, want true")
	}
	if Is(err, ErrEmptyPlan) {
		t.Error("Is(ErrEmptyPlan) = true, want false")
	}

	empty := NewSchemaError("plan contains no nodes", ErrEmptyPlan)
	if !Is(empty, ErrEmptyPlan) {
		t.Error("Is(ErrEmptyPlan) = false, want true")
	}
}

func TestValidationError_WithMethods(t *testing.T) {
	err := NewValidationError("bad update target").
		WithField("node").
		WithValue("ghost")

	want := "validation error [field=node, value=ghost]: bad update target"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestToken(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", NewNotFoundError("plan", "p.json"), "not_found"},
		{"parse", NewParseError("p.json", errors.New("bad byte")), "invalid_json"},
		{"schema mismatch", NewSchemaError("v2", ErrSchemaMismatch), "bad_schema"},
		{"empty plan", NewSchemaError("no nodes", ErrEmptyPlan), "empty_plan"},
		{"validation failed", ErrValidationFailed, "validation_failed"},
		{"transition", NewTransitionError(0, "", "pending", "completed", nil), "invalid_transition"},
		{"cycle", NewCycleError([]string{"a", "a"}), "cycle_detected"},
		{"bad input", NewValidationError("nope"), "invalid_update"},
		{"store", NewStoreError("disk full", errors.New("ENOSPC")), "io_error"},
		{"unknown", errors.New("mystery"), "internal"},
		{"wrapped cycle", fmt.Errorf("computing depths: %w", ErrDependencyCycle), "cycle_detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Token(tt.err); got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(NewNotFoundError("plan", "x")) {
		t.Error("IsUserFacing(NotFoundError) = false, want true")
	}
	if !IsUserFacing(NewTransitionError(0, "", "a", "b", nil)) {
		t.Error("IsUserFacing(TransitionError) = false, want true")
	}
	if IsUserFacing(errors.New("internal detail")) {
		t.Error("IsUserFacing(plain error) = true, want false")
	}
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true, want false")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want %v", got, SeverityDebug)
	}
	if got := GetSeverity(NewNotFoundError("plan", "x")); got != SeverityWarning {
		t.Errorf("GetSeverity(NotFoundError) = %v, want %v", got, SeverityWarning)
	}
	if got := GetSeverity(errors.New("plain")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want %v", got, SeverityError)
	}
}

func TestIsDomainError(t *testing.T) {
	if !IsDomainError(NewStoreError("x", nil)) {
		t.Error("IsDomainError(StoreError) = false, want true")
	}
	if !IsDomainError(NewCycleError(nil)) {
		t.Error("IsDomainError(CycleError) = false, want true")
	}
	if IsDomainError(NewNotFoundError("plan", "x")) {
		t.Error("IsDomainError(NotFoundError) = true, want false")
	}
}

func TestIsSemanticError(t *testing.T) {
	if !IsSemanticError(NewParseError("p", nil)) {
		t.Error("IsSemanticError(ParseError) = false, want true")
	}
	if !IsSemanticError(NewSchemaError("x", ErrEmptyPlan)) {
		t.Error("IsSemanticError(SchemaError) = false, want true")
	}
	if IsSemanticError(NewCycleError(nil)) {
		t.Error("IsSemanticError(CycleError) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// Wrap Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	base := ErrDependencyCycle
	err := Wrap(base, "building graph")

	want := "building graph: dependency cycle detected"
	if got := err.Error(); got != want {
		t.Errorf("Wrap().Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrDependencyCycle) {
		t.Error("wrapped error lost its sentinel")
	}
	if Wrap(nil, "anything") != nil {
		t.Error("Wrap(nil) != nil")
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrNodeNotFound, "resolving update %d", 2)

	want := "resolving update 2: node not found"
	if got := err.Error(); got != want {
		t.Errorf("Wrapf().Error() = %q, want %q", got, want)
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) != nil")
	}
}
