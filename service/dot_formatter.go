package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/jflow-dev/jflow/internal/cfg"
)

// DOTFormatterConfig configures the DOT formatter behavior
type DOTFormatterConfig struct {
	// ShowLineNumbers includes source line numbers in block labels
	ShowLineNumbers bool

	// ShowAccesses includes recorded variable accesses in block labels
	ShowAccesses bool

	// RankDir is the layout direction: TB, LR, BT, RL
	RankDir string
}

// DefaultDOTFormatterConfig returns a DOTFormatterConfig with sensible defaults
func DefaultDOTFormatterConfig() *DOTFormatterConfig {
	return &DOTFormatterConfig{
		ShowLineNumbers: true,
		ShowAccesses:    false,
		RankDir:         "TB",
	}
}

// DOTFormatter formats control-flow graphs as DOT for Graphviz
type DOTFormatter struct {
	config *DOTFormatterConfig
}

// NewDOTFormatter creates a new DOT formatter with the given configuration
func NewDOTFormatter(config *DOTFormatterConfig) *DOTFormatter {
	if config == nil {
		config = DefaultDOTFormatterConfig()
	}
	return &DOTFormatter{config: config}
}

// blockShapes maps block kinds to Graphviz shapes.
// This is effectively a constant map and should not be modified at runtime.
var blockShapes = struct {
	entry    string
	exit     string
	decision string
	plain    string
}{
	entry:    "oval",
	exit:     "oval",
	decision: "diamond",
	plain:    "box",
}

// validRankDirs contains the valid Graphviz rank directions
var validRankDirs = map[string]bool{
	"TB": true, // Top to Bottom
	"LR": true, // Left to Right
	"BT": true, // Bottom to Top
	"RL": true, // Right to Left
}

// FormatGraph formats a control-flow graph as DOT and returns the string
func (f *DOTFormatter) FormatGraph(graph *cfg.Graph) (string, error) {
	var sb strings.Builder
	if err := f.WriteGraph(graph, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteGraph writes a control-flow graph as DOT to the writer
func (f *DOTFormatter) WriteGraph(graph *cfg.Graph, writer io.Writer) error {
	if graph == nil {
		return fmt.Errorf("nil graph")
	}
	if !validRankDirs[f.config.RankDir] {
		return fmt.Errorf("invalid rank direction %q: must be one of TB, LR, BT, RL", f.config.RankDir)
	}

	fmt.Fprintf(writer, "digraph %q {\n", graph.Name)
	fmt.Fprintf(writer, "    label=%q;\n", graph.Name)
	fmt.Fprintf(writer, "    rankdir=%s;\n", f.config.RankDir)
	fmt.Fprintln(writer, "    node [fontname=\"Helvetica\"];")
	fmt.Fprintln(writer, "    edge [fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(writer)

	for _, block := range graph.Blocks() {
		fmt.Fprintf(writer, "    b%d [shape=%s, label=%q];\n",
			block.ID(), f.blockShape(block), f.blockLabel(block))
	}
	fmt.Fprintln(writer)

	for _, edge := range graph.Edges() {
		attrs := f.edgeAttrs(edge)
		if attrs != "" {
			fmt.Fprintf(writer, "    b%d -> b%d [%s];\n", edge.Source().ID(), edge.Target().ID(), attrs)
		} else {
			fmt.Fprintf(writer, "    b%d -> b%d;\n", edge.Source().ID(), edge.Target().ID())
		}
	}

	fmt.Fprintln(writer, "}")
	return nil
}

func (f *DOTFormatter) blockShape(block *cfg.BasicBlock) string {
	switch {
	case block.IsEntry():
		return blockShapes.entry
	case block.IsExit():
		return blockShapes.exit
	case block.IsDecision():
		return blockShapes.decision
	default:
		return blockShapes.plain
	}
}

func (f *DOTFormatter) blockLabel(block *cfg.BasicBlock) string {
	switch {
	case block.IsEntry():
		return "ENTRY"
	case block.IsExit():
		return "EXIT"
	}

	var sb strings.Builder
	sb.WriteString(block.Excerpt())
	if f.config.ShowLineNumbers && block.Line() > 0 {
		fmt.Fprintf(&sb, "\nline %d", block.Line())
	}
	if f.config.ShowAccesses {
		for _, access := range block.Accesses() {
			fmt.Fprintf(&sb, "\n%s [%s]", access.Name, access.Flags)
		}
	}
	return sb.String()
}

func (f *DOTFormatter) edgeAttrs(edge *cfg.Edge) string {
	switch edge.Branch() {
	case cfg.BranchTrue:
		return `label="true", color="#228B22"`
	case cfg.BranchFalse:
		return `label="false", color="#DC143C"`
	default:
		return ""
	}
}
