package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeCmdFlagsExist(t *testing.T) {
	cmd := analyzeCmd()

	expectedFlags := []string{
		"format", "json", "dot", "output", "config", "sort",
		"min-severity", "details", "no-dead-code", "no-recursive", "no-progress",
	}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("missing expected flag: --%s", flagName)
		}
	}
}

func TestAnalyzeCmdShortFlags(t *testing.T) {
	cmd := analyzeCmd()

	shortFlags := map[string]string{
		"f": "format",
		"o": "output",
		"c": "config",
	}
	for short, long := range shortFlags {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("missing short flag -%s for --%s", short, long)
		}
	}
}

func TestAnalyzeCmdNoPathsError(t *testing.T) {
	cmd := analyzeCmd()
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when no paths are given")
	}
}

func TestAnalyzeCmdEndToEnd(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Sample.java")
	if err := os.WriteFile(source, []byte(`
class Sample {
	void m() {
		return;
		int x = 1;
	}
}
`), 0o644); err != nil {
		t.Fatal(err)
	}
	report := filepath.Join(dir, "report.json")

	cmd := analyzeCmd()
	cmd.SetArgs([]string{"--json", "--no-progress", "-o", report, dir})
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		t.Fatalf("analyze command failed: %v", err)
	}

	content, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	for _, want := range []string{"Sample.m", "unreachable_after_return"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("report missing %q\n%s", want, content)
		}
	}
}

func TestInitCmdCreatesConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "jflow.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	for _, section := range []string{"analysis", "dead_code", "output", "performance", "min_severity"} {
		if !strings.Contains(string(content), section) {
			t.Errorf("config file missing expected section: %s", section)
		}
	}
}

func TestInitCmdRefusesOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "jflow.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err == nil {
		t.Error("expected error without --force")
	}

	cmd = initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--force"})
	if err := cmd.Execute(); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestInitCmdMinimalTemplate(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "jflow.yaml")

	cmd := initCmd()
	cmd.SetArgs([]string{"--config", configPath, "--minimal"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), "performance") {
		t.Error("minimal template should not include the performance section")
	}
}
