// Package plan provides the plan document model and its persistence layer.
//
// A plan document is a JSON file describing a goal decomposed into nodes with
// dependencies, execution scopes, and per-node status. This package defines
// the document types, loads and saves documents atomically, validates their
// structure, and applies the serialization policy for completed nodes.
//
// The core types are:
//   - Document: the root plan object (goal, nodes, auxiliary nodes, progress)
//   - Node: a unit of work with status, attempts, dependencies, and scope
//   - Ref: a dependency reference by index or by name
//   - Issue, Result: structural validation findings
//
// Graph construction, status transitions, and scheduling live in sibling
// packages; this package owns only the document itself.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// SchemaVersion is the plan document schema version this build reads and
// writes. Documents with a different version are rejected on load.
const SchemaVersion = 1

// -----------------------------------------------------------------------------
// Node Status
// -----------------------------------------------------------------------------

// Status represents the lifecycle state of a plan node.
//
// Nodes move pending -> in_progress -> completed or failed. Failed nodes may
// be retried back to pending. Completed, skipped, and blocked are terminal.
type Status string

const (
	// StatusPending indicates the node has not started.
	// Pending is the default for nodes that omit a status on disk.
	StatusPending Status = "pending"

	// StatusInProgress indicates the node is currently being worked.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the node finished successfully.
	// Completed nodes are trimmed for serialization (see TrimForCompletion).
	StatusCompleted Status = "completed"

	// StatusFailed indicates the node finished unsuccessfully.
	// Failed nodes may transition back to pending for a retry.
	StatusFailed Status = "failed"

	// StatusBlocked indicates the node cannot proceed for an external reason.
	StatusBlocked Status = "blocked"

	// StatusSkipped indicates the node was skipped, usually because a
	// dependency failed. The Result field records the cause.
	StatusSkipped Status = "skipped"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if this is a recognized status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed,
		StatusBlocked, StatusSkipped:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are allowed from this
// status. Failed is not terminal: it can be retried back to pending.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusBlocked
}

// ValidStatuses returns all recognized status values in canonical order.
func ValidStatuses() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusCompleted,
		StatusFailed,
		StatusBlocked,
		StatusSkipped,
	}
}

// -----------------------------------------------------------------------------
// Dependency References
// -----------------------------------------------------------------------------

// Ref is a dependency reference as written in the plan document.
//
// A reference is either a zero-based node index (JSON number) or a node name
// (JSON string). References are resolved to indices once, during graph
// construction; the document layer preserves them exactly as authored so a
// load/save round trip does not rewrite the author's choice.
type Ref struct {
	name   string
	index  int
	byName bool
}

// IndexRef returns a reference to the node at the given zero-based index.
func IndexRef(i int) Ref {
	return Ref{index: i}
}

// NameRef returns a reference to the node with the given name.
func NameRef(name string) Ref {
	return Ref{name: name, byName: true}
}

// ByName returns true if this reference targets a node by name.
func (r Ref) ByName() bool {
	return r.byName
}

// Name returns the referenced node name. Only meaningful when ByName is true.
func (r Ref) Name() string {
	return r.name
}

// Index returns the referenced node index. Only meaningful when ByName is false.
func (r Ref) Index() int {
	return r.index
}

// String returns the reference as it would appear in a message: the name for
// name references, the decimal index otherwise.
func (r Ref) String() string {
	if r.byName {
		return r.name
	}
	return strconv.Itoa(r.index)
}

// UnmarshalJSON accepts either a JSON string (name reference) or a JSON
// integer (index reference). Floats and other JSON values are rejected.
func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return fmt.Errorf("empty dependency reference")
	}
	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*r = Ref{name: name, byName: true}
		return nil
	}
	var idx int
	if err := json.Unmarshal(trimmed, &idx); err != nil {
		return fmt.Errorf("dependency reference must be a node name or an integer index: %w", err)
	}
	*r = Ref{index: idx}
	return nil
}

// MarshalJSON writes the reference back in its authored form.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.byName {
		return json.Marshal(r.name)
	}
	return json.Marshal(r.index)
}

// -----------------------------------------------------------------------------
// Node Scope
// -----------------------------------------------------------------------------

// Scope declares the filesystem footprint a node expects to touch.
//
// Directories are path prefixes; Patterns are glob expressions. The overlap
// analyzer compares scopes pairwise to flag nodes that may collide when run
// concurrently.
type Scope struct {
	// Directories lists directory paths this node will modify.
	// A trailing slash is not significant; "internal/api" and
	// "internal/api/" describe the same directory.
	Directories []string `json:"directories,omitempty"`

	// Patterns lists glob expressions for files this node will modify.
	// Examples: "internal/api/*.go", "docs/**/*.md".
	Patterns []string `json:"patterns,omitempty"`
}

// IsEmpty returns true if the scope declares no directories or patterns.
func (s *Scope) IsEmpty() bool {
	return s == nil || (len(s.Directories) == 0 && len(s.Patterns) == 0)
}

// -----------------------------------------------------------------------------
// Plan Nodes
// -----------------------------------------------------------------------------

// nodeFields lists the JSON keys owned by Node. Any other key found on a node
// object is preserved verbatim in Extra across a load/save round trip.
var nodeFields = []string{
	"name", "summary", "description", "role", "model", "status", "attempts",
	"result", "dependencies", "scope", "depth", "overlaps",
}

// Node represents a single unit of work in the plan.
//
// Nodes are identified by name when one is set, otherwise by their decimal
// index in the document's node list. Dependencies reference other nodes by
// index or name and are resolved during graph construction.
type Node struct {
	// Name identifies this node within the plan. Optional; unnamed nodes
	// are addressed by index. Names must be unique when present.
	Name string `json:"name,omitempty"`

	// Summary is a short, human-readable description of the work.
	Summary string `json:"summary,omitempty"`

	// Description contains detailed instructions for executing the node.
	// Cleared when the node completes (see TrimForCompletion).
	Description string `json:"description,omitempty"`

	// Role names the kind of worker suited to this node.
	// Examples: "backend", "frontend", "docs".
	Role string `json:"role,omitempty"`

	// Model names the model or tool configuration to execute with.
	Model string `json:"model,omitempty"`

	// Status is the node's lifecycle state. Always serialized; nodes that
	// omit it on disk default to pending.
	Status Status `json:"status"`

	// Attempts counts consumed runs. It increments when a failed node is
	// retried back to pending and when an interrupted node is reset.
	Attempts int `json:"attempts,omitempty"`

	// Result records the outcome of the last attempt. For skipped nodes it
	// holds the human-readable skip reason.
	Result string `json:"result,omitempty"`

	// Dependencies lists the nodes that must complete before this one can
	// start, each by index or name.
	Dependencies []Ref `json:"dependencies,omitempty"`

	// Scope declares the filesystem footprint of this node.
	// Cleared when the node completes.
	Scope *Scope `json:"scope,omitempty"`

	// Depth is the computed dependency depth: 1 for nodes with no
	// dependencies, otherwise one more than the deepest dependency.
	// Zero means not yet computed. Cleared when the node completes.
	Depth int `json:"depth,omitempty"`

	// Overlaps lists indices of earlier nodes whose scopes overlap this
	// one's. Only indices smaller than this node's own are recorded.
	// Cleared when the node completes.
	Overlaps []int `json:"overlaps,omitempty"`

	// Extra preserves unrecognized JSON keys so external annotations
	// survive a load/save round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known node fields and collects any remaining
// keys into Extra.
func (n *Node) UnmarshalJSON(data []byte) error {
	type alias Node
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range nodeFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	*n = Node(a)
	return nil
}

// MarshalJSON encodes the known node fields followed by any Extra keys in
// sorted order.
func (n Node) MarshalJSON() ([]byte, error) {
	type alias Node
	base, err := json.Marshal(alias(n))
	if err != nil {
		return nil, err
	}
	if len(n.Extra) == 0 {
		return base, nil
	}
	keys := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Status is never omitted, so base always has at least one member and
	// extras can be appended with a leading comma.
	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		buf.WriteByte(',')
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(n.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// HasDependencies returns true if this node depends on other nodes.
func (n *Node) HasDependencies() bool {
	return len(n.Dependencies) > 0
}

// -----------------------------------------------------------------------------
// Auxiliary Nodes
// -----------------------------------------------------------------------------

// AuxiliaryType classifies when an auxiliary node runs relative to the plan.
type AuxiliaryType string

const (
	// AuxPreExecution runs once before any plan node starts.
	AuxPreExecution AuxiliaryType = "pre-execution"

	// AuxPostExecution runs once after all plan nodes finish.
	AuxPostExecution AuxiliaryType = "post-execution"

	// AuxPerNode runs once for each plan node.
	AuxPerNode AuxiliaryType = "per-node"
)

// String returns the string representation of the auxiliary type.
func (t AuxiliaryType) String() string {
	return string(t)
}

// IsValid returns true if this is a recognized auxiliary type.
func (t AuxiliaryType) IsValid() bool {
	switch t {
	case AuxPreExecution, AuxPostExecution, AuxPerNode:
		return true
	default:
		return false
	}
}

// ValidAuxiliaryTypes returns all recognized auxiliary types.
func ValidAuxiliaryTypes() []AuxiliaryType {
	return []AuxiliaryType{AuxPreExecution, AuxPostExecution, AuxPerNode}
}

// AuxiliaryTrigger pins an auxiliary node to a specific point in the plan
// lifecycle.
type AuxiliaryTrigger string

const (
	// TriggerAfterDesign fires once the plan document is finalized.
	TriggerAfterDesign AuxiliaryTrigger = "after-design"

	// TriggerBeforeExecution fires immediately before the first node starts.
	TriggerBeforeExecution AuxiliaryTrigger = "before-execution"

	// TriggerAfterNodeComplete fires each time a node completes.
	TriggerAfterNodeComplete AuxiliaryTrigger = "after-node-complete"

	// TriggerAfterAllNodes fires once every node has reached a terminal
	// status.
	TriggerAfterAllNodes AuxiliaryTrigger = "after-all-nodes-complete"
)

// String returns the string representation of the trigger.
func (t AuxiliaryTrigger) String() string {
	return string(t)
}

// IsValid returns true if this is a recognized trigger value.
func (t AuxiliaryTrigger) IsValid() bool {
	switch t {
	case TriggerAfterDesign, TriggerBeforeExecution,
		TriggerAfterNodeComplete, TriggerAfterAllNodes:
		return true
	default:
		return false
	}
}

// ValidAuxiliaryTriggers returns all recognized trigger values.
func ValidAuxiliaryTriggers() []AuxiliaryTrigger {
	return []AuxiliaryTrigger{
		TriggerAfterDesign,
		TriggerBeforeExecution,
		TriggerAfterNodeComplete,
		TriggerAfterAllNodes,
	}
}

// Auxiliary is a supporting action attached to the plan rather than to its
// dependency graph. Auxiliary nodes carry no status and are never scheduled;
// they describe hooks such as setup, verification, or reporting steps.
type Auxiliary struct {
	// Name identifies the auxiliary node.
	Name string `json:"name"`

	// Type classifies when the node runs (pre-execution, post-execution,
	// per-node).
	Type AuxiliaryType `json:"type"`

	// Trigger pins the node to a lifecycle point. Optional.
	Trigger AuxiliaryTrigger `json:"trigger,omitempty"`

	// Summary is a short description of what the node does.
	Summary string `json:"summary,omitempty"`
}

// -----------------------------------------------------------------------------
// Progress Log
// -----------------------------------------------------------------------------

// Progress is the append-only completion log kept inside the document.
//
// Each entry is a node identity (name, or decimal index for unnamed nodes)
// recorded at most once, in completion order. The log survives trimming and
// lets a reader reconstruct the completion history after detail fields have
// been cleared.
type Progress struct {
	// Completed lists node identities in the order they completed.
	Completed []string `json:"completed"`
}

// Contains returns true if the given node identity is already recorded.
func (p *Progress) Contains(id string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.Completed {
		if c == id {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Plan Document
// -----------------------------------------------------------------------------

// Document is the root plan object as stored on disk.
type Document struct {
	// Goal is the objective this plan decomposes.
	Goal string `json:"goal"`

	// SchemaVersion is the document schema version. Must equal
	// SchemaVersion for this build to accept the document.
	SchemaVersion int `json:"schemaVersion"`

	// Nodes contains the plan's units of work. Order is significant:
	// indices into this slice are node identities and reference targets.
	Nodes []Node `json:"nodes"`

	// Auxiliary lists supporting actions outside the dependency graph.
	Auxiliary []Auxiliary `json:"auxiliary,omitempty"`

	// Progress is the append-only completion log. Nil until the first
	// node completes.
	Progress *Progress `json:"progress,omitempty"`
}

// NodeCount returns the number of plan nodes.
func (d *Document) NodeCount() int {
	return len(d.Nodes)
}

// NodeIdentity returns the identity of the node at index i: its name when
// set, otherwise the decimal index.
func (d *Document) NodeIdentity(i int) string {
	if i >= 0 && i < len(d.Nodes) && d.Nodes[i].Name != "" {
		return d.Nodes[i].Name
	}
	return strconv.Itoa(i)
}

// Normalize fills defaults for fields the on-disk format may omit. Nodes
// without a status become pending.
func (d *Document) Normalize() {
	for i := range d.Nodes {
		if d.Nodes[i].Status == "" {
			d.Nodes[i].Status = StatusPending
		}
	}
}

// EnsureProgress returns the document's progress log, creating it if absent.
func (d *Document) EnsureProgress() *Progress {
	if d.Progress == nil {
		d.Progress = &Progress{}
	}
	return d.Progress
}

// MarkCompleted records the node identity in the progress log. Recording is
// idempotent: an identity already present is not appended again.
func (d *Document) MarkCompleted(id string) {
	p := d.EnsureProgress()
	if p.Contains(id) {
		return
	}
	p.Completed = append(p.Completed, id)
}

// CountByStatus returns the number of nodes in each status.
func (d *Document) CountByStatus() map[Status]int {
	counts := make(map[Status]int)
	for i := range d.Nodes {
		counts[d.Nodes[i].Status]++
	}
	return counts
}
