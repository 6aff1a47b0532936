package service

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jflow-dev/jflow/domain"
)

func sampleResponse() *domain.AnalyzeResponse {
	return &domain.AnalyzeResponse{
		Functions: []domain.FunctionGraph{
			{
				Name:           "A.m",
				FilePath:       "A.java",
				StartLine:      3,
				EndLine:        8,
				BlockCount:     5,
				EdgeCount:      4,
				DecisionCount:  1,
				ReachableRatio: 0.8,
				DeadFindings: []domain.DeadCodeFinding{
					{
						Line:        6,
						Code:        "x = 2;",
						Reason:      "unreachable_after_return",
						Severity:    "warning",
						Description: "This code appears after a return statement",
					},
				},
				DOT: "digraph \"A.m\" {\n}\n",
			},
		},
		Summary: domain.AnalyzeSummary{
			FilesAnalyzed:         1,
			TotalFunctions:        1,
			TotalBlocks:           5,
			TotalEdges:            4,
			FunctionsWithDeadCode: 1,
			AverageBlocks:         5,
		},
		GeneratedAt: "2026-01-02T15:04:05Z",
		Version:     "dev",
	}
}

func TestFormatText(t *testing.T) {
	out, err := NewOutputFormatter().Format(sampleResponse(), domain.OutputFormatText)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	for _, want := range []string{
		"Control Flow Analysis",
		"Files analyzed: 1",
		"A.m: 5 blocks, 4 edges, 1 decisions [1 DEAD]",
		"File: A.java:3-8",
		"Line 6: unreachable_after_return [WARNING]",
		"This code appears after a return statement",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output should contain %q\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := NewOutputFormatter().Format(sampleResponse(), domain.OutputFormatJSON)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded domain.AnalyzeResponse
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Functions[0].Name != "A.m" {
		t.Errorf("round-tripped name = %q", decoded.Functions[0].Name)
	}
	// DOT payload is internal and must not leak into JSON
	if strings.Contains(out, "digraph") {
		t.Error("JSON output should not contain DOT payload")
	}
}

func TestFormatYAML(t *testing.T) {
	out, err := NewOutputFormatter().Format(sampleResponse(), domain.OutputFormatYAML)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded domain.AnalyzeResponse
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Summary.TotalBlocks != 5 {
		t.Errorf("round-tripped total blocks = %d", decoded.Summary.TotalBlocks)
	}
}

func TestFormatDOT(t *testing.T) {
	out, err := NewOutputFormatter().Format(sampleResponse(), domain.OutputFormatDOT)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, `digraph "A.m"`) {
		t.Errorf("dot output should contain the function digraph\n%s", out)
	}
}

func TestFormatUnsupported(t *testing.T) {
	if _, err := NewOutputFormatter().Format(sampleResponse(), domain.OutputFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatTextNoDeadCode(t *testing.T) {
	resp := sampleResponse()
	resp.Functions[0].DeadFindings = nil
	resp.Summary.FunctionsWithDeadCode = 0

	out, err := NewOutputFormatter().Format(resp, domain.OutputFormatText)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "No dead code found.") {
		t.Errorf("expected clean report marker\n%s", out)
	}
}
