package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatDOT  OutputFormat = "dot"
)

// SortCriteria represents the criteria for sorting results
type SortCriteria string

const (
	SortByName     SortCriteria = "name"
	SortByLocation SortCriteria = "location"
	SortByFindings SortCriteria = "findings"
)

// AnalyzeRequest represents a request for control-flow analysis
type AnalyzeRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Sorting
	SortBy SortCriteria

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Dead code reporting
	DeadCode    bool
	MinSeverity string

	// Progress reporting
	NoProgress bool
}

// DeadCodeFinding is one unreachable statement block inside a function
type DeadCodeFinding struct {
	Line        int    `json:"line" yaml:"line"`
	Code        string `json:"code" yaml:"code"`
	Reason      string `json:"reason" yaml:"reason"`
	Severity    string `json:"severity" yaml:"severity"`
	Description string `json:"description" yaml:"description"`
}

// FunctionGraph summarizes the control-flow graph built for one function
type FunctionGraph struct {
	Name      string `json:"name" yaml:"name"`
	FilePath  string `json:"file_path" yaml:"file_path"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`

	BlockCount     int     `json:"blocks" yaml:"blocks"`
	EdgeCount      int     `json:"edges" yaml:"edges"`
	DecisionCount  int     `json:"decisions" yaml:"decisions"`
	ReachableRatio float64 `json:"reachable_ratio" yaml:"reachable_ratio"`

	DeadFindings []DeadCodeFinding `json:"dead_findings,omitempty" yaml:"dead_findings,omitempty"`

	// DOT is populated only for the dot output format
	DOT string `json:"-" yaml:"-"`
}

// AnalyzeSummary represents aggregate statistics
type AnalyzeSummary struct {
	FilesAnalyzed         int     `json:"files_analyzed" yaml:"files_analyzed"`
	TotalFunctions        int     `json:"total_functions" yaml:"total_functions"`
	TotalBlocks           int     `json:"total_blocks" yaml:"total_blocks"`
	TotalEdges            int     `json:"total_edges" yaml:"total_edges"`
	FunctionsWithDeadCode int     `json:"functions_with_dead_code" yaml:"functions_with_dead_code"`
	AverageBlocks         float64 `json:"average_blocks" yaml:"average_blocks"`
}

// AnalyzeResponse represents the complete analysis result
type AnalyzeResponse struct {
	Functions []FunctionGraph `json:"functions" yaml:"functions"`
	Summary   AnalyzeSummary  `json:"summary" yaml:"summary"`

	// Warnings carry per-file failures that did not abort the run
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// AnalyzeService defines the core business logic for control-flow analysis
type AnalyzeService interface {
	// Analyze performs CFG construction and analysis on the given request
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)

	// AnalyzeFile analyzes a single Java file
	AnalyzeFile(ctx context.Context, filePath string, req AnalyzeRequest) (*AnalyzeResponse, error)
}

// JavaFileReader defines Java-specific file operations
type JavaFileReader interface {
	CollectJavaFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	IsValidJavaFile(path string) bool
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting analysis results
type OutputFormatter interface {
	// Format formats the analysis response according to the specified format
	Format(response *AnalyzeResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *AnalyzeResponse, format OutputFormat, writer io.Writer) error
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	// StartTask creates a new progress task with a description and total count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress output is visible to a user
	IsInteractive() bool

	// Close cleans up all tasks
	Close()
}

// TaskProgress tracks one long-running task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}

// ExecutableTask is a unit of work the parallel executor can run
type ExecutableTask interface {
	// Name identifies the task in error reports
	Name() string

	// IsEnabled reports whether the task should run at all
	IsEnabled() bool

	// Execute runs the task
	Execute(ctx context.Context) (interface{}, error)
}

// ParallelExecutor runs tasks concurrently with bounded parallelism
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
