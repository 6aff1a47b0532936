package analyzer

import (
	"time"

	"github.com/jflow-dev/jflow/internal/cfg"
)

// ReachabilityResult contains the results of reachability analysis
type ReachabilityResult struct {
	ReachableBlocks   map[int]*cfg.BasicBlock
	UnreachableBlocks map[int]*cfg.BasicBlock
	TotalBlocks       int
	ReachableCount    int
	UnreachableCount  int
	AnalysisTime      time.Duration
}

// ReachabilityAnalyzer performs reachability analysis on a method graph
type ReachabilityAnalyzer struct {
	graph *cfg.Graph
}

func NewReachabilityAnalyzer(graph *cfg.Graph) *ReachabilityAnalyzer {
	return &ReachabilityAnalyzer{graph: graph}
}

// AnalyzeReachability walks forward from the entry block and partitions the
// graph's blocks into reachable and unreachable sets.
func (ra *ReachabilityAnalyzer) AnalyzeReachability() *ReachabilityResult {
	startTime := time.Now()

	result := &ReachabilityResult{
		ReachableBlocks:   make(map[int]*cfg.BasicBlock),
		UnreachableBlocks: make(map[int]*cfg.BasicBlock),
	}

	if ra.graph == nil || ra.graph.Entry() == nil {
		result.AnalysisTime = time.Since(startTime)
		return result
	}

	result.TotalBlocks = ra.graph.BlockCount()
	ra.traverseFrom(ra.graph.Entry(), result.ReachableBlocks)

	for _, block := range ra.graph.Blocks() {
		if _, ok := result.ReachableBlocks[block.ID()]; !ok {
			result.UnreachableBlocks[block.ID()] = block
		}
	}

	result.ReachableCount = len(result.ReachableBlocks)
	result.UnreachableCount = len(result.UnreachableBlocks)
	result.AnalysisTime = time.Since(startTime)
	return result
}

// AnalyzeReachabilityFrom partitions blocks by reachability from an
// arbitrary starting block instead of the entry.
func (ra *ReachabilityAnalyzer) AnalyzeReachabilityFrom(start *cfg.BasicBlock) *ReachabilityResult {
	startTime := time.Now()

	result := &ReachabilityResult{
		ReachableBlocks:   make(map[int]*cfg.BasicBlock),
		UnreachableBlocks: make(map[int]*cfg.BasicBlock),
	}

	if ra.graph == nil || start == nil {
		result.AnalysisTime = time.Since(startTime)
		return result
	}

	result.TotalBlocks = ra.graph.BlockCount()
	ra.traverseFrom(start, result.ReachableBlocks)

	for _, block := range ra.graph.Blocks() {
		if _, ok := result.ReachableBlocks[block.ID()]; !ok {
			result.UnreachableBlocks[block.ID()] = block
		}
	}

	result.ReachableCount = len(result.ReachableBlocks)
	result.UnreachableCount = len(result.UnreachableBlocks)
	result.AnalysisTime = time.Since(startTime)
	return result
}

func (ra *ReachabilityAnalyzer) traverseFrom(block *cfg.BasicBlock, reachable map[int]*cfg.BasicBlock) {
	if block == nil {
		return
	}
	if _, ok := reachable[block.ID()]; ok {
		return
	}
	reachable[block.ID()] = block

	for _, edge := range block.Outgoing() {
		ra.traverseFrom(edge.Target(), reachable)
	}
}

// GetUnreachableStatementBlocks filters out synthetic blocks, keeping only
// unreachable blocks anchored to real statements.
func (result *ReachabilityResult) GetUnreachableStatementBlocks() map[int]*cfg.BasicBlock {
	blocks := make(map[int]*cfg.BasicBlock)
	for id, block := range result.UnreachableBlocks {
		if block.Node() != nil && !block.IsEntry() && !block.IsExit() {
			blocks[id] = block
		}
	}
	return blocks
}

func (result *ReachabilityResult) GetReachabilityRatio() float64 {
	if result.TotalBlocks == 0 {
		return 1.0
	}
	return float64(result.ReachableCount) / float64(result.TotalBlocks)
}

func (result *ReachabilityResult) HasUnreachableCode() bool {
	return len(result.GetUnreachableStatementBlocks()) > 0
}
