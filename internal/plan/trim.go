package plan

// TrimForCompletion applies the serialization policy for completed nodes.
//
// Once a node completes, the fields that only matter while it is runnable
// are cleared: description, scope, depth, overlaps, and any preserved extra
// keys. Identity and outcome fields survive: name, summary, role, model,
// status, attempts, result, and dependencies. Trimming an already trimmed
// node is a no-op.
func TrimForCompletion(n *Node) {
	n.Description = ""
	n.Scope = nil
	n.Depth = 0
	n.Overlaps = nil
	n.Extra = nil
}

// TrimCompleted applies TrimForCompletion to every completed node in the
// document. Used when finalizing so that nodes completed by hand-edits are
// trimmed the same way as nodes completed through a transition.
func TrimCompleted(doc *Document) {
	for i := range doc.Nodes {
		if doc.Nodes[i].Status == StatusCompleted {
			TrimForCompletion(&doc.Nodes[i])
		}
	}
}
