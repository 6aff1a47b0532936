package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/jflow-dev/jflow/domain"
	"github.com/jflow-dev/jflow/internal/version"
)

// AnalyzeUseCase orchestrates file collection, parallel per-file analysis
// and result formatting
type AnalyzeUseCase struct {
	service    domain.AnalyzeService
	formatter  domain.OutputFormatter
	executor   domain.ParallelExecutor
	fileHelper *FileHelper
}

// NewAnalyzeUseCase creates a new analyze use case
func NewAnalyzeUseCase(
	service domain.AnalyzeService,
	formatter domain.OutputFormatter,
	executor domain.ParallelExecutor,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		service:    service,
		formatter:  formatter,
		executor:   executor,
		fileHelper: NewFileHelper(),
	}
}

// SetFileHelper replaces the default file helper
func (uc *AnalyzeUseCase) SetFileHelper(fh *FileHelper) {
	if fh != nil {
		uc.fileHelper = fh
	}
}

// fileAnalysisTask analyzes one file; results land in the shared slot so the
// executor can run tasks in any order
type fileAnalysisTask struct {
	filePath string
	req      domain.AnalyzeRequest
	service  domain.AnalyzeService

	mu       *sync.Mutex
	response **domain.AnalyzeResponse
}

func (t *fileAnalysisTask) Name() string {
	return t.filePath
}

func (t *fileAnalysisTask) IsEnabled() bool {
	return true
}

func (t *fileAnalysisTask) Execute(ctx context.Context) (interface{}, error) {
	resp, err := t.service.AnalyzeFile(ctx, t.filePath, t.req)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	*t.response = resp
	t.mu.Unlock()
	return resp, nil
}

// Execute runs the analysis and writes the formatted result to the
// request's output writer
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req domain.AnalyzeRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return fmt.Errorf("failed to collect Java files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no Java files found in the specified paths")
	}

	response, err := uc.analyzeFiles(ctx, files, req)
	if err != nil {
		return err
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	return uc.formatter.Write(response, req.OutputFormat, writer)
}

// analyzeFiles fans the files out over the executor and merges the per-file
// responses into one
func (uc *AnalyzeUseCase) analyzeFiles(ctx context.Context, files []string, req domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	var mu sync.Mutex
	responses := make([]*domain.AnalyzeResponse, len(files))
	tasks := make([]domain.ExecutableTask, len(files))
	for i, file := range files {
		tasks[i] = &fileAnalysisTask{
			filePath: file,
			req:      req,
			service:  uc.service,
			mu:       &mu,
			response: &responses[i],
		}
	}

	var warnings []string
	if err := uc.executor.Execute(ctx, tasks); err != nil {
		// per-file failures degrade to warnings; cancellation aborts the run
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		warnings = append(warnings, err.Error())
	}

	return uc.mergeResponses(responses, warnings, req), nil
}

func (uc *AnalyzeUseCase) mergeResponses(responses []*domain.AnalyzeResponse, warnings []string, req domain.AnalyzeRequest) *domain.AnalyzeResponse {
	merged := &domain.AnalyzeResponse{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Warnings:    warnings,
	}

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		merged.Functions = append(merged.Functions, resp.Functions...)
		merged.Warnings = append(merged.Warnings, resp.Warnings...)
		merged.Summary.FilesAnalyzed += resp.Summary.FilesAnalyzed
	}

	uc.sortFunctions(merged.Functions, req.SortBy)

	merged.Summary.TotalFunctions = len(merged.Functions)
	for _, fn := range merged.Functions {
		merged.Summary.TotalBlocks += fn.BlockCount
		merged.Summary.TotalEdges += fn.EdgeCount
		if len(fn.DeadFindings) > 0 {
			merged.Summary.FunctionsWithDeadCode++
		}
	}
	if len(merged.Functions) > 0 {
		merged.Summary.AverageBlocks = float64(merged.Summary.TotalBlocks) / float64(len(merged.Functions))
	}
	return merged
}

func (uc *AnalyzeUseCase) sortFunctions(functions []domain.FunctionGraph, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortByLocation:
		sort.SliceStable(functions, func(i, j int) bool {
			if functions[i].FilePath != functions[j].FilePath {
				return functions[i].FilePath < functions[j].FilePath
			}
			return functions[i].StartLine < functions[j].StartLine
		})
	case domain.SortByFindings:
		sort.SliceStable(functions, func(i, j int) bool {
			return len(functions[i].DeadFindings) > len(functions[j].DeadFindings)
		})
	default:
		sort.SliceStable(functions, func(i, j int) bool {
			return functions[i].Name < functions[j].Name
		})
	}
}
