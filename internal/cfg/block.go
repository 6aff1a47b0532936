package cfg

import (
	"fmt"

	"github.com/jflow-dev/jflow/internal/parser"
)

// AccessFlags describe how a basic block touches a variable.
type AccessFlags int

const (
	// Read marks a use of the variable's value.
	Read AccessFlags = 1 << iota
	// Write marks an assignment to the variable.
	Write
	// DeclUninit marks a declaration without an initializer.
	DeclUninit
	// DeclInit marks a declaration with an initializer.
	DeclInit
)

// Has reports whether all bits in mask are set.
func (f AccessFlags) Has(mask AccessFlags) bool {
	return f&mask == mask
}

func (f AccessFlags) String() string {
	if f == 0 {
		return "none"
	}
	var s string
	appendFlag := func(set AccessFlags, name string) {
		if f&set == 0 {
			return
		}
		if s != "" {
			s += "|"
		}
		s += name
	}
	appendFlag(Read, "read")
	appendFlag(Write, "write")
	appendFlag(DeclUninit, "decl")
	appendFlag(DeclInit, "decl+init")
	return s
}

// VariableAccess records one variable touched by a basic block.
type VariableAccess struct {
	Node  *parser.Node
	Name  string
	Flags AccessFlags
}

// BasicBlock is a straight-line run of statements with a single entry and a
// single exit. Blocks are immutable once the graph they belong to has been
// assembled; consumers only see accessor methods.
type BasicBlock struct {
	id       int
	node     *parser.Node
	excerpt  string
	file     string
	line     int
	column   int
	decision bool
	entry    bool
	exit     bool
	accesses []VariableAccess
	outgoing []*Edge
	incoming []*Edge
}

// ID returns the block's creation-order identifier, unique within its graph.
func (b *BasicBlock) ID() int { return b.id }

// Node returns the first statement anchored to the block, nil for the
// synthetic entry and exit blocks.
func (b *BasicBlock) Node() *parser.Node { return b.node }

// Excerpt returns a short source snippet describing the block.
func (b *BasicBlock) Excerpt() string { return b.excerpt }

// File returns the source file the block was built from.
func (b *BasicBlock) File() string { return b.file }

// Line returns the 1-based source line of the block's first statement.
func (b *BasicBlock) Line() int { return b.line }

// Column returns the source column of the block's first statement.
func (b *BasicBlock) Column() int { return b.column }

// IsDecision reports whether the block ends in a branch condition and labels
// its outgoing edges with true/false.
func (b *BasicBlock) IsDecision() bool { return b.decision }

// IsEntry reports whether this is the method's synthetic entry block.
func (b *BasicBlock) IsEntry() bool { return b.entry }

// IsExit reports whether this is the method's synthetic exit block.
func (b *BasicBlock) IsExit() bool { return b.exit }

// Accesses returns the variable accesses recorded for the block, in the
// order they appear in the source.
func (b *BasicBlock) Accesses() []VariableAccess { return b.accesses }

// Outgoing returns the edges leaving the block in creation order.
func (b *BasicBlock) Outgoing() []*Edge { return b.outgoing }

// Incoming returns the edges entering the block in creation order.
func (b *BasicBlock) Incoming() []*Edge { return b.incoming }

func (b *BasicBlock) String() string {
	switch {
	case b.entry:
		return fmt.Sprintf("B%d <entry>", b.id)
	case b.exit:
		return fmt.Sprintf("B%d <exit>", b.id)
	case b.decision:
		return fmt.Sprintf("B%d ? %s", b.id, b.excerpt)
	default:
		return fmt.Sprintf("B%d %s", b.id, b.excerpt)
	}
}

func (b *BasicBlock) addAccess(node *parser.Node, name string, flags AccessFlags) {
	// One entry per reference, in recording order. `x = x + 1` yields two
	// entries for x, write before read.
	b.accesses = append(b.accesses, VariableAccess{Node: node, Name: name, Flags: flags})
}
