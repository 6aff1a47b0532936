package cfg

import "fmt"

// Branch labels an edge leaving a decision block.
type Branch int

const (
	// BranchNone marks an unconditional edge.
	BranchNone Branch = iota
	// BranchTrue marks the edge taken when the decision holds.
	BranchTrue
	// BranchFalse marks the edge taken when the decision fails.
	BranchFalse
)

func (br Branch) String() string {
	switch br {
	case BranchTrue:
		return "true"
	case BranchFalse:
		return "false"
	default:
		return ""
	}
}

// Edge is a directed control-flow edge between two basic blocks.
type Edge struct {
	source *BasicBlock
	target *BasicBlock
	branch Branch
}

// Source returns the block the edge leaves.
func (e *Edge) Source() *BasicBlock { return e.source }

// Target returns the block the edge enters.
func (e *Edge) Target() *BasicBlock { return e.target }

// Branch returns the edge's condition label, BranchNone when unconditional.
func (e *Edge) Branch() Branch { return e.branch }

func (e *Edge) String() string {
	if e.branch == BranchNone {
		return fmt.Sprintf("B%d -> B%d", e.source.id, e.target.id)
	}
	return fmt.Sprintf("B%d -[%s]-> B%d", e.source.id, e.branch, e.target.id)
}

// edgeBuilder is a pending edge: its source and branch label are fixed at
// creation, its target is supplied later by buildTo. An edge builder fires
// at most once.
type edgeBuilder struct {
	source *BasicBlock
	branch Branch
	built  bool
}

func newEdgeBuilder(source *BasicBlock) *edgeBuilder {
	return &edgeBuilder{source: source}
}

func newBranchEdgeBuilder(source *BasicBlock, branch Branch) *edgeBuilder {
	return &edgeBuilder{source: source, branch: branch}
}

// buildTo materializes the edge into target and links it on both blocks.
// A second call is a no-op so a pending edge resolved through the deferred
// registry cannot be built twice.
func (eb *edgeBuilder) buildTo(g *Graph, target *BasicBlock) *Edge {
	if eb.built {
		return nil
	}
	eb.built = true
	edge := &Edge{source: eb.source, target: target, branch: eb.branch}
	eb.source.outgoing = append(eb.source.outgoing, edge)
	target.incoming = append(target.incoming, edge)
	g.edges = append(g.edges, edge)
	return edge
}
