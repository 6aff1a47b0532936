package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jflow-dev/jflow/app"
	"github.com/jflow-dev/jflow/domain"
	"github.com/jflow-dev/jflow/internal/config"
	"github.com/jflow-dev/jflow/service"
)

var (
	outputFormat string
	outputPath   string
	configPath   string
	sortBy       string
	minSeverity  string
	showDetails  bool
	noDeadCode   bool
	noRecursive  bool
	noProgress   bool
	jsonOutput   bool
	dotOutput    bool
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Analyze Java files",
		Long: `Build control-flow graphs for every method in the given Java files and
report unreachable code.

Examples:
  jflow analyze src/
  jflow analyze --format json src/
  jflow analyze --dot -o graphs.dot Main.java
  jflow analyze --min-severity info src/`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format: text, json, yaml, dot")
	cmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&dotOutput, "dot", false,
		"Output graphs as Graphviz DOT (shorthand for --format dot)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&sortBy, "sort", "",
		"Sort functions by: name, location, findings")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "",
		"Minimum dead code severity to report: info, warning, critical")
	cmd.Flags().BoolVar(&showDetails, "details", false,
		"Include per-block detail in reports")
	cmd.Flags().BoolVar(&noDeadCode, "no-dead-code", false,
		"Skip dead code detection")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false,
		"Do not walk directories recursively")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false,
		"Disable progress output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	cfg, err := config.LoadConfigWithTarget(configPath, target)
	if err != nil {
		return err
	}

	req, err := buildAnalyzeRequest(cfg, args)
	if err != nil {
		return err
	}

	var out *os.File
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
		req.OutputWriter = out
	} else {
		req.OutputWriter = os.Stdout
	}

	// progress bars make no sense when the report goes to stdout as data
	progressEnabled := !req.NoProgress &&
		(outputPath != "" || req.OutputFormat == domain.OutputFormatText)
	pm := service.NewProgressManager(progressEnabled)
	defer pm.Close()

	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, pm)
	usecase := app.NewAnalyzeUseCase(
		service.NewAnalyzeService(),
		service.NewOutputFormatter(),
		executor,
	)

	fileHelper := app.NewFileHelper()
	fileHelper.SetRespectGitignore(cfg.Analysis.RespectGitignore)
	usecase.SetFileHelper(fileHelper)

	if err := usecase.Execute(context.Background(), req); err != nil {
		return err
	}

	if outputPath != "" {
		if absPath, err := filepath.Abs(outputPath); err == nil {
			fmt.Printf("Report saved to: %s\n", absPath)
		}
	}
	return nil
}

// buildAnalyzeRequest merges config file settings with command line flags;
// flags win where both are set
func buildAnalyzeRequest(cfg *config.Config, paths []string) (domain.AnalyzeRequest, error) {
	format := cfg.Output.Format
	switch {
	case jsonOutput:
		format = "json"
	case dotOutput:
		format = "dot"
	case outputFormat != "":
		format = outputFormat
	}
	switch format {
	case "text", "json", "yaml", "dot":
	default:
		return domain.AnalyzeRequest{}, fmt.Errorf("invalid output format: %s", format)
	}

	sort := cfg.Output.SortBy
	if sortBy != "" {
		sort = sortBy
	}

	severity := cfg.DeadCode.MinSeverity
	if minSeverity != "" {
		severity = minSeverity
	}

	return domain.AnalyzeRequest{
		Paths:           paths,
		OutputFormat:    domain.OutputFormat(format),
		ShowDetails:     showDetails || cfg.Output.ShowDetails,
		SortBy:          domain.SortCriteria(sort),
		ConfigPath:      configPath,
		Recursive:       cfg.Analysis.Recursive && !noRecursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		DeadCode:        cfg.DeadCode.Enabled && !noDeadCode,
		MinSeverity:     severity,
		NoProgress:      noProgress,
	}, nil
}
