package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jflow-dev/jflow/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Format formats the analysis response and returns the string
func (f *OutputFormatterImpl) Format(response *domain.AnalyzeResponse, format domain.OutputFormat) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, format, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the analysis response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.AnalyzeResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return f.writeYAML(response, writer)
	case domain.OutputFormatDOT:
		return f.writeDOT(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatterImpl) writeYAML(response *domain.AnalyzeResponse, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(response)
}

// writeDOT concatenates the per-function digraphs, one per analyzed method
func (f *OutputFormatterImpl) writeDOT(response *domain.AnalyzeResponse, writer io.Writer) error {
	for i, fn := range response.Functions {
		if fn.DOT == "" {
			continue
		}
		if i > 0 {
			fmt.Fprintln(writer)
		}
		if _, err := io.WriteString(writer, fn.DOT); err != nil {
			return err
		}
	}
	return nil
}

func (f *OutputFormatterImpl) writeText(response *domain.AnalyzeResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Control Flow Analysis ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", response.Summary.FilesAnalyzed)
	fmt.Fprintf(writer, "  Total functions: %d\n", response.Summary.TotalFunctions)
	fmt.Fprintf(writer, "  Total blocks: %d\n", response.Summary.TotalBlocks)
	fmt.Fprintf(writer, "  Total edges: %d\n", response.Summary.TotalEdges)
	fmt.Fprintf(writer, "  Average blocks per function: %.2f\n", response.Summary.AverageBlocks)
	fmt.Fprintf(writer, "  Functions with dead code: %d\n", response.Summary.FunctionsWithDeadCode)
	fmt.Fprintf(writer, "\n")

	if len(response.Functions) > 0 {
		fmt.Fprintf(writer, "Functions:\n")
		for _, fn := range response.Functions {
			deadIndicator := ""
			if len(fn.DeadFindings) > 0 {
				deadIndicator = fmt.Sprintf(" [%d DEAD]", len(fn.DeadFindings))
			}
			fmt.Fprintf(writer, "  %s: %d blocks, %d edges, %d decisions%s\n",
				fn.Name, fn.BlockCount, fn.EdgeCount, fn.DecisionCount, deadIndicator)
			fmt.Fprintf(writer, "    File: %s:%d-%d\n", fn.FilePath, fn.StartLine, fn.EndLine)
			for _, finding := range fn.DeadFindings {
				fmt.Fprintf(writer, "    Line %d: %s [%s]\n",
					finding.Line, finding.Reason, strings.ToUpper(finding.Severity))
				if finding.Description != "" {
					fmt.Fprintf(writer, "      %s\n", finding.Description)
				}
			}
		}
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	if response.Summary.FunctionsWithDeadCode == 0 && response.Summary.TotalFunctions > 0 {
		fmt.Fprintf(writer, "\nNo dead code found.\n")
	}

	return nil
}
