package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/jflow-dev/jflow/internal/cfg"
	"github.com/jflow-dev/jflow/internal/parser"
)

type SeverityLevel string

const (
	SeverityLevelCritical SeverityLevel = "critical"
	SeverityLevelWarning  SeverityLevel = "warning"
	SeverityLevelInfo     SeverityLevel = "info"
)

type DeadCodeReason string

const (
	ReasonUnreachableAfterReturn   DeadCodeReason = "unreachable_after_return"
	ReasonUnreachableAfterBreak    DeadCodeReason = "unreachable_after_break"
	ReasonUnreachableAfterContinue DeadCodeReason = "unreachable_after_continue"
	ReasonUnreachableBranch        DeadCodeReason = "unreachable_branch"
)

type DeadCodeFinding struct {
	FunctionName string         `json:"function_name"`
	FilePath     string         `json:"file_path"`
	StartLine    int            `json:"start_line"`
	BlockID      int            `json:"block_id"`
	Code         string         `json:"code"`
	Reason       DeadCodeReason `json:"reason"`
	Severity     SeverityLevel  `json:"severity"`
	Description  string         `json:"description"`
}

type DeadCodeResult struct {
	FunctionName   string             `json:"function_name"`
	FilePath       string             `json:"file_path"`
	Findings       []*DeadCodeFinding `json:"findings"`
	TotalBlocks    int                `json:"total_blocks"`
	DeadBlocks     int                `json:"dead_blocks"`
	ReachableRatio float64            `json:"reachable_ratio"`
	AnalysisTime   time.Duration      `json:"analysis_time"`
}

// DeadCodeDetector reports statement blocks a method graph can never reach.
type DeadCodeDetector struct {
	graph *cfg.Graph
}

func NewDeadCodeDetector(graph *cfg.Graph) *DeadCodeDetector {
	return &DeadCodeDetector{graph: graph}
}

func (dcd *DeadCodeDetector) Detect() *DeadCodeResult {
	startTime := time.Now()

	result := &DeadCodeResult{
		Findings: make([]*DeadCodeFinding, 0),
	}
	if dcd.graph == nil {
		result.AnalysisTime = time.Since(startTime)
		return result
	}

	result.FunctionName = dcd.graph.Name
	if dcd.graph.FunctionNode != nil {
		result.FilePath = dcd.graph.FunctionNode.Location.File
	}
	result.TotalBlocks = dcd.graph.BlockCount()

	reachResult := NewReachabilityAnalyzer(dcd.graph).AnalyzeReachability()
	result.ReachableRatio = reachResult.GetReachabilityRatio()

	deadBlocks := reachResult.GetUnreachableStatementBlocks()
	result.DeadBlocks = len(deadBlocks)

	for _, block := range deadBlocks {
		result.Findings = append(result.Findings, dcd.analyzeDeadBlock(block))
	}
	sort.Slice(result.Findings, func(i, j int) bool {
		if result.Findings[i].StartLine != result.Findings[j].StartLine {
			return result.Findings[i].StartLine < result.Findings[j].StartLine
		}
		return result.Findings[i].BlockID < result.Findings[j].BlockID
	})

	result.AnalysisTime = time.Since(startTime)
	return result
}

func (dcd *DeadCodeDetector) analyzeDeadBlock(block *cfg.BasicBlock) *DeadCodeFinding {
	reason, severity := dcd.classify(block)
	return &DeadCodeFinding{
		FunctionName: dcd.graph.Name,
		FilePath:     block.File(),
		StartLine:    block.Line(),
		BlockID:      block.ID(),
		Code:         block.Excerpt(),
		Reason:       reason,
		Severity:     severity,
		Description:  describeReason(reason),
	}
}

// classify inspects the dead block's predecessors in source order to guess
// why flow never arrives.
func (dcd *DeadCodeDetector) classify(block *cfg.BasicBlock) (DeadCodeReason, SeverityLevel) {
	node := block.Node()
	if node == nil {
		return ReasonUnreachableBranch, SeverityLevelInfo
	}

	prev := precedingSibling(node)
	if prev != nil {
		switch prev.Type {
		case parser.NodeReturnStatement:
			return ReasonUnreachableAfterReturn, SeverityLevelWarning
		case parser.NodeBreakStatement:
			return ReasonUnreachableAfterBreak, SeverityLevelWarning
		case parser.NodeContinueStatement:
			return ReasonUnreachableAfterContinue, SeverityLevelWarning
		}
	}
	return ReasonUnreachableBranch, SeverityLevelInfo
}

func precedingSibling(node *parser.Node) *parser.Node {
	parent := node.Parent
	if parent == nil {
		return nil
	}
	var prev *parser.Node
	for _, sibling := range parent.Body {
		if sibling == node {
			return prev
		}
		prev = sibling
	}
	return nil
}

func describeReason(reason DeadCodeReason) string {
	switch reason {
	case ReasonUnreachableAfterReturn:
		return "code after a return statement can never execute"
	case ReasonUnreachableAfterBreak:
		return "code after a break statement can never execute"
	case ReasonUnreachableAfterContinue:
		return "code after a continue statement can never execute"
	default:
		return fmt.Sprintf("block is not reachable from the method entry (%s)", reason)
	}
}
