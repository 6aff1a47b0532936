package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jflow-dev/jflow/domain"
	"github.com/jflow-dev/jflow/internal/analyzer"
	"github.com/jflow-dev/jflow/internal/cfg"
	"github.com/jflow-dev/jflow/internal/parser"
	"github.com/jflow-dev/jflow/internal/version"
)

// AnalyzeServiceImpl implements the AnalyzeService interface
type AnalyzeServiceImpl struct {
	dotFormatter *DOTFormatter
}

// NewAnalyzeService creates a new analyze service implementation
func NewAnalyzeService() *AnalyzeServiceImpl {
	return &AnalyzeServiceImpl{
		dotFormatter: NewDOTFormatter(nil),
	}
}

// Analyze builds control-flow graphs for all methods in the requested files
func (s *AnalyzeServiceImpl) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	var allFunctions []domain.FunctionGraph
	var warnings []string
	filesProcessed := 0

	for _, filePath := range req.Paths {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
		default:
		}

		functions, fileWarnings := s.analyzeFile(filePath, req)
		warnings = append(warnings, fileWarnings...)
		if functions == nil {
			continue
		}
		allFunctions = append(allFunctions, functions...)
		filesProcessed++
	}

	sortedFunctions := s.sortFunctions(allFunctions, req.SortBy)
	summary := s.generateSummary(sortedFunctions, filesProcessed)

	return &domain.AnalyzeResponse{
		Functions:   sortedFunctions,
		Summary:     summary,
		Warnings:    warnings,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}, nil
}

// AnalyzeFile analyzes a single Java file
func (s *AnalyzeServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	req.Paths = []string{filePath}
	return s.Analyze(ctx, req)
}

// analyzeFile builds graphs for one file. Failures are reported as warnings
// so one broken file does not abort a multi-file run.
func (s *AnalyzeServiceImpl) analyzeFile(filePath string, req domain.AnalyzeRequest) ([]domain.FunctionGraph, []string) {
	var warnings []string

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, []string{fmt.Sprintf("[%s] failed to read file: %v", filePath, err)}
	}

	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseFile(filePath, content)
	if err != nil {
		return nil, []string{fmt.Sprintf("[%s] parse error: %v", filePath, err)}
	}

	// methods are built one by one so a failing method only costs its own
	// graph, not its siblings'
	builder := cfg.NewBuilder()
	var graphs []*cfg.Graph
	methodsSeen := 0
	ast.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeMethodDeclaration, parser.NodeConstructorDeclaration:
			if n.Stmt == nil {
				return true
			}
			methodsSeen++
			graph, err := builder.BuildMethod(n)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("[%s] %s: %v", filePath, n.Name, err))
				return true
			}
			graphs = append(graphs, graph)
		}
		return true
	})
	if methodsSeen == 0 {
		warnings = append(warnings, fmt.Sprintf("[%s] no methods found in file", filePath))
		return []domain.FunctionGraph{}, warnings
	}

	functions := make([]domain.FunctionGraph, 0, len(graphs))
	for _, graph := range graphs {
		fn, err := s.convertGraph(graph, req)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("[%s] %s: %v", filePath, graph.Name, err))
			continue
		}
		functions = append(functions, fn)
	}
	return functions, warnings
}

// convertGraph turns a built graph into its response representation
func (s *AnalyzeServiceImpl) convertGraph(graph *cfg.Graph, req domain.AnalyzeRequest) (domain.FunctionGraph, error) {
	fn := domain.FunctionGraph{
		Name:       graph.Name,
		BlockCount: graph.BlockCount(),
		EdgeCount:  graph.EdgeCount(),
	}
	if graph.FunctionNode != nil {
		fn.FilePath = graph.FunctionNode.Location.File
		fn.StartLine = graph.FunctionNode.Location.StartLine
		fn.EndLine = graph.FunctionNode.Location.EndLine
	}

	for _, block := range graph.Blocks() {
		if block.IsDecision() {
			fn.DecisionCount++
		}
	}

	result := analyzer.NewDeadCodeDetector(graph).Detect()
	fn.ReachableRatio = result.ReachableRatio
	if req.DeadCode {
		fn.DeadFindings = s.convertFindings(result, req)
	}

	if req.OutputFormat == domain.OutputFormatDOT {
		formatter := s.dotFormatter
		if req.ShowDetails {
			formatter = NewDOTFormatter(&DOTFormatterConfig{
				ShowLineNumbers: true,
				ShowAccesses:    true,
				RankDir:         "TB",
			})
		}
		dot, err := formatter.FormatGraph(graph)
		if err != nil {
			return fn, err
		}
		fn.DOT = dot
	}
	return fn, nil
}

// severityRank orders severity levels for threshold filtering
var severityRank = map[string]int{
	string(analyzer.SeverityLevelInfo):     0,
	string(analyzer.SeverityLevelWarning):  1,
	string(analyzer.SeverityLevelCritical): 2,
}

func (s *AnalyzeServiceImpl) convertFindings(result *analyzer.DeadCodeResult, req domain.AnalyzeRequest) []domain.DeadCodeFinding {
	threshold, ok := severityRank[req.MinSeverity]
	if !ok {
		threshold = 0
	}

	findings := make([]domain.DeadCodeFinding, 0, len(result.Findings))
	for _, f := range result.Findings {
		if severityRank[string(f.Severity)] < threshold {
			continue
		}
		finding := domain.DeadCodeFinding{
			Line:     f.StartLine,
			Code:     f.Code,
			Reason:   string(f.Reason),
			Severity: string(f.Severity),
		}
		// long-form explanations are opt-in
		if req.ShowDetails {
			finding.Description = f.Description
		}
		findings = append(findings, finding)
	}
	return findings
}

func (s *AnalyzeServiceImpl) sortFunctions(functions []domain.FunctionGraph, sortBy domain.SortCriteria) []domain.FunctionGraph {
	sorted := make([]domain.FunctionGraph, len(functions))
	copy(sorted, functions)

	switch sortBy {
	case domain.SortByLocation:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].FilePath != sorted[j].FilePath {
				return sorted[i].FilePath < sorted[j].FilePath
			}
			return sorted[i].StartLine < sorted[j].StartLine
		})
	case domain.SortByFindings:
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i].DeadFindings) > len(sorted[j].DeadFindings)
		})
	default: // SortByName
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})
	}
	return sorted
}

func (s *AnalyzeServiceImpl) generateSummary(functions []domain.FunctionGraph, filesProcessed int) domain.AnalyzeSummary {
	summary := domain.AnalyzeSummary{
		FilesAnalyzed:  filesProcessed,
		TotalFunctions: len(functions),
	}
	for _, fn := range functions {
		summary.TotalBlocks += fn.BlockCount
		summary.TotalEdges += fn.EdgeCount
		if len(fn.DeadFindings) > 0 {
			summary.FunctionsWithDeadCode++
		}
	}
	if len(functions) > 0 {
		summary.AverageBlocks = float64(summary.TotalBlocks) / float64(len(functions))
	}
	return summary
}
