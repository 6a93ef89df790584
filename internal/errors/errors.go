// Package errors provides centralized error definitions and error handling
// utilities for the planwright codebase. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and error
// classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - StoreError: errors loading or persisting the plan document
//   - CycleError: a dependency cycle in the plan graph
//   - TransitionError: a status update that violates the state machine
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ParseError: malformed document content
//   - SchemaError: structurally unusable document (wrong version, no nodes)
//   - ValidationError: invalid input or state
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewStoreError("atomic write failed", cause).WithPath(path).WithOp("write")
//
//	// Semantic error
//	err := errors.NewNotFoundError("plan", "/tmp/plan.json")
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrDependencyCycle) { ... }
//
//	// Check for error types
//	var transitionErr *errors.TransitionError
//	if errors.As(err, &transitionErr) { ... }
//
//	// Use classification helpers
//	if errors.IsUserFacing(err) { ... }
//	token := errors.Token(err)
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - UserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
//   - Token: the stable machine-readable identifier reported in JSON results
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Document-related sentinel errors
var (
	// ErrPlanNotFound indicates that the plan document could not be found.
	ErrPlanNotFound = New("plan not found")
	// ErrMalformedPlan indicates that the plan document is not valid JSON.
	ErrMalformedPlan = New("plan is not valid JSON")
	// ErrSchemaMismatch indicates that the document's schemaVersion is not supported.
	ErrSchemaMismatch = New("unsupported schema version")
	// ErrEmptyPlan indicates that the document contains no nodes.
	ErrEmptyPlan = New("plan contains no nodes")
	// ErrValidationFailed indicates that structural validation found blocking issues.
	ErrValidationFailed = New("plan validation failed")
)

// Graph-related sentinel errors
var (
	// ErrDependencyCycle indicates a circular dependency between nodes.
	ErrDependencyCycle = New("dependency cycle detected")
	// ErrUnresolvedReference indicates a dependency reference to no known node.
	ErrUnresolvedReference = New("unresolved dependency reference")
	// ErrNodeNotFound indicates that a node reference matched nothing.
	ErrNodeNotFound = New("node not found")
)

// Status-related sentinel errors
var (
	// ErrInvalidTransition indicates a status update the state machine forbids.
	ErrInvalidTransition = New("invalid status transition")
	// ErrTerminalStatus indicates an update against a terminal node status.
	ErrTerminalStatus = New("status is terminal")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrOperationFailed indicates a general operation failure.
	ErrOperationFailed = New("operation failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PlanwrightError is the base interface for all planwright errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type PlanwrightError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// StoreError represents errors loading or persisting the plan document.
//
// Example:
//
//	err := errors.NewStoreError("atomic write failed", cause)
//	err = err.WithPath("/tmp/plan.json").WithOp("write")
//	fmt.Println(err) // "store error [path=/tmp/plan.json, op=write]: atomic write failed: ..."
type StoreError struct {
	baseError
	Path string
	Op   string
}

// NewStoreError creates a new StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the document path to the error context.
func (e *StoreError) WithPath(path string) *StoreError {
	e.Path = path
	return e
}

// WithOp adds the store operation name (load, write) to the error context.
func (e *StoreError) WithOp(op string) *StoreError {
	e.Op = op
	return e
}

// WithSeverity sets the error severity.
func (e *StoreError) WithSeverity(s Severity) *StoreError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *StoreError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	prefix := "store error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("store error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *StoreError) Is(target error) bool {
	if _, ok := target.(*StoreError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// CycleError represents a dependency cycle in the plan graph. Path holds one
// deterministic cycle witness as node labels, first node repeated at the end.
//
// Example:
//
//	err := errors.NewCycleError([]string{"a", "b", "a"})
//	fmt.Println(err) // "dependency cycle detected: a -> b -> a"
type CycleError struct {
	baseError
	Path []string
}

// NewCycleError creates a new CycleError from a cycle witness path.
func NewCycleError(path []string) *CycleError {
	return &CycleError{
		baseError: baseError{
			message:    "dependency cycle detected",
			cause:      ErrDependencyCycle,
			severity:   SeverityError,
			userFacing: true,
		},
		Path: path,
	}
}

// Error returns the formatted error message.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, strings.Join(e.Path, " -> "))
}

// Is checks if this error matches the target.
func (e *CycleError) Is(target error) bool {
	if _, ok := target.(*CycleError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TransitionError represents a status update that violates the state machine.
//
// Example:
//
//	err := errors.NewTransitionError(3, "api-server", "pending", "completed", []string{"in_progress"})
//	fmt.Println(err) // `invalid transition for node 3 ("api-server"): pending -> completed (allowed: in_progress)`
type TransitionError struct {
	baseError
	Node    int
	Name    string
	From    string
	To      string
	Allowed []string
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(node int, name, from, to string, allowed []string) *TransitionError {
	return &TransitionError{
		baseError: baseError{
			message:    "invalid status transition",
			cause:      ErrInvalidTransition,
			severity:   SeverityError,
			userFacing: true,
		},
		Node:    node,
		Name:    name,
		From:    from,
		To:      to,
		Allowed: allowed,
	}
}

// Error returns the formatted error message.
func (e *TransitionError) Error() string {
	subject := fmt.Sprintf("node %d", e.Node)
	if e.Name != "" {
		subject = fmt.Sprintf("node %d (%q)", e.Node, e.Name)
	}
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("invalid transition for %s: %s -> %s (allowed: %s)", subject, e.From, e.To, allowed)
}

// Is checks if this error matches the target.
func (e *TransitionError) Is(target error) bool {
	if _, ok := target.(*TransitionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("plan", "/tmp/plan.json")
//	fmt.Println(err) // "plan '/tmp/plan.json' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			cause:      ErrPlanNotFound,
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ParseError represents malformed document content.
//
// Example:
//
//	err := errors.NewParseError("/tmp/plan.json", cause)
//	fmt.Println(err) // "parse error [path=/tmp/plan.json]: plan is not valid JSON: ..."
type ParseError struct {
	baseError
	Path string
}

// NewParseError creates a new ParseError.
func NewParseError(path string, cause error) *ParseError {
	return &ParseError{
		baseError: baseError{
			message:    "plan is not valid JSON",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Path: path,
	}
}

// Error returns the formatted error message.
func (e *ParseError) Error() string {
	prefix := "parse error"
	if e.Path != "" {
		prefix = fmt.Sprintf("parse error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ParseError) Is(target error) bool {
	if _, ok := target.(*ParseError); ok {
		return true
	}
	if errors.Is(target, ErrMalformedPlan) {
		return true
	}
	return e.baseError.Is(target)
}

// SchemaError represents a document that parsed but is structurally unusable:
// wrong schema version, or no nodes at all. Finer-grained structural problems
// are collected as validation issues, not raised as errors.
//
// Example:
//
//	err := errors.NewSchemaError("schemaVersion 2 is not supported", errors.ErrSchemaMismatch)
type SchemaError struct {
	baseError
	Detail string
}

// NewSchemaError creates a new SchemaError. The cause should be one of
// ErrSchemaMismatch or ErrEmptyPlan so callers can distinguish the two.
func NewSchemaError(detail string, cause error) *SchemaError {
	return &SchemaError{
		baseError: baseError{
			message:    detail,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Detail: detail,
	}
}

// Error returns the formatted error message.
func (e *SchemaError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Detail, e.cause)
	}
	return fmt.Sprintf("schema error: %s", e.Detail)
}

// Is checks if this error matches the target.
func (e *SchemaError) Is(target error) bool {
	if _, ok := target.(*SchemaError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("update target cannot be empty")
//	err = err.WithField("node").WithValue("")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// Token returns the stable machine-readable identifier for an error, used as
// the "error" field of JSON results. Returns "" for nil and "internal" for
// errors outside the taxonomy.
//
// Example:
//
//	result.Error = errors.Token(err) // "not_found", "invalid_json", ...
func Token(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrPlanNotFound):
		return "not_found"
	case Is(err, ErrMalformedPlan):
		return "invalid_json"
	case Is(err, ErrSchemaMismatch):
		return "bad_schema"
	case Is(err, ErrEmptyPlan):
		return "empty_plan"
	case Is(err, ErrValidationFailed):
		return "validation_failed"
	case Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case Is(err, ErrDependencyCycle):
		return "cycle_detected"
	case Is(err, ErrUnresolvedReference), Is(err, ErrNodeNotFound), Is(err, ErrInvalidInput):
		return "invalid_update"
	}

	var storeErr *StoreError
	if As(err, &storeErr) {
		return "io_error"
	}
	return "internal"
}

// IsUserFacing returns true if the error message is safe to display to end users.
// This checks for:
//   - Errors implementing PlanwrightError with IsUserFacing() returning true
//   - Semantic errors (NotFoundError, ParseError, SchemaError, ValidationError)
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    displayToUser(err.Error())
//	} else {
//	    displayToUser("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	// Check if error implements PlanwrightError
	var pwErr PlanwrightError
	if As(err, &pwErr) {
		return pwErr.IsUserFacing()
	}

	// Semantic errors are always user-facing
	var notFound *NotFoundError
	var parse *ParseError
	var schema *SchemaError
	var validation *ValidationError

	if As(err, &notFound) || As(err, &parse) ||
		As(err, &schema) || As(err, &validation) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PlanwrightError.
//
// Example:
//
//	switch errors.GetSeverity(err) {
//	case errors.SeverityCritical:
//	    log.Error("critical failure", "err", err)
//	case errors.SeverityWarning:
//	    log.Warn("warning", "err", err)
//	}
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	// Check if error implements PlanwrightError
	var pwErr PlanwrightError
	if As(err, &pwErr) {
		return pwErr.Severity()
	}

	// Default to Error severity for unknown errors
	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error
// (StoreError, CycleError, or TransitionError).
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var storeErr *StoreError
	var cycleErr *CycleError
	var transitionErr *TransitionError

	return As(err, &storeErr) || As(err, &cycleErr) || As(err, &transitionErr)
}

// IsSemanticError returns true if the error is a semantic error
// (NotFoundError, ParseError, SchemaError, or ValidationError).
func IsSemanticError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *NotFoundError
	var parse *ParseError
	var schema *SchemaError
	var validation *ValidationError

	return As(err, &notFound) || As(err, &parse) ||
		As(err, &schema) || As(err, &validation)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to enrich plan")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to update node %d", index)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
