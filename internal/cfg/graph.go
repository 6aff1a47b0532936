package cfg

import (
	"strings"

	"github.com/jflow-dev/jflow/internal/parser"
)

// Graph is the control-flow graph of one method or constructor.
type Graph struct {
	// Name is the method name, qualified with the class name when known.
	Name string
	// FunctionNode is the method declaration the graph was built from.
	FunctionNode *parser.Node

	entry  *BasicBlock
	exit   *BasicBlock
	blocks []*BasicBlock
	edges  []*Edge
}

// Entry returns the synthetic entry block.
func (g *Graph) Entry() *BasicBlock { return g.entry }

// Exit returns the synthetic exit block.
func (g *Graph) Exit() *BasicBlock { return g.exit }

// Blocks returns every block in creation order, entry first.
func (g *Graph) Blocks() []*BasicBlock { return g.blocks }

// Edges returns every edge in creation order.
func (g *Graph) Edges() []*Edge { return g.edges }

// BlockCount returns the number of blocks, synthetic blocks included.
func (g *Graph) BlockCount() int { return len(g.blocks) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) String() string {
	var sb strings.Builder
	sb.WriteString(g.Name)
	sb.WriteString("\n")
	for _, block := range g.blocks {
		sb.WriteString("  ")
		sb.WriteString(block.String())
		sb.WriteString("\n")
		for _, edge := range block.outgoing {
			sb.WriteString("    ")
			sb.WriteString(edge.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// newBlock appends a fresh block anchored to node, nil for synthetic blocks.
func (g *Graph) newBlock(node *parser.Node, decision bool) *BasicBlock {
	block := &BasicBlock{
		id:       len(g.blocks),
		node:     node,
		decision: decision,
	}
	if node != nil {
		block.excerpt = node.Text
		block.file = node.Location.File
		block.line = node.Location.StartLine
		block.column = node.Location.StartCol
	}
	g.blocks = append(g.blocks, block)
	return block
}
