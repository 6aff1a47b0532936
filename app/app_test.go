package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jflow-dev/jflow/domain"
	"github.com/jflow-dev/jflow/service"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleClass = `
class Sample {
	void m(int x) {
		if (x > 0) {
			x = 1;
		}
	}
}
`

func TestCollectJavaFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.java", sampleClass)
	writeFile(t, dir, filepath.Join("sub", "B.java"), sampleClass)
	writeFile(t, dir, "notes.txt", "not java")

	helper := NewFileHelper()
	files, err := helper.CollectJavaFiles([]string{dir}, true, nil, nil)
	if err != nil {
		t.Fatalf("CollectJavaFiles: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("collected %d files, want 2: %v", len(files), files)
	}
}

func TestCollectJavaFilesNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.java", sampleClass)
	writeFile(t, dir, filepath.Join("sub", "B.java"), sampleClass)

	helper := NewFileHelper()
	files, err := helper.CollectJavaFiles([]string{dir}, false, nil, nil)
	if err != nil {
		t.Fatalf("CollectJavaFiles: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("collected %d files, want 1: %v", len(files), files)
	}
}

func TestCollectJavaFilesExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.java", sampleClass)
	writeFile(t, dir, filepath.Join("generated", "G.java"), sampleClass)

	helper := NewFileHelper()
	files, err := helper.CollectJavaFiles([]string{dir}, true, nil, []string{"generated"})
	if err != nil {
		t.Fatalf("CollectJavaFiles: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "A.java" {
		t.Errorf("exclude pattern should drop generated dir, got %v", files)
	}
}

func TestCollectJavaFilesRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.java", sampleClass)
	writeFile(t, dir, filepath.Join("build", "Gen.java"), sampleClass)
	writeFile(t, dir, ".gitignore", "build/\n")

	helper := NewFileHelper()
	files, err := helper.CollectJavaFiles([]string{dir}, true, nil, nil)
	if err != nil {
		t.Fatalf("CollectJavaFiles: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "A.java" {
		t.Errorf("gitignored build dir should be skipped, got %v", files)
	}

	helper.SetRespectGitignore(false)
	files, err = helper.CollectJavaFiles([]string{dir}, true, nil, nil)
	if err != nil {
		t.Fatalf("CollectJavaFiles: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("without gitignore both files should be found, got %v", files)
	}
}

func TestResolveFilePathsPassesFilesThrough(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "A.java", sampleClass)

	files, err := ResolveFilePaths(NewFileHelper(), []string{path}, true, nil, nil)
	if err != nil {
		t.Fatalf("ResolveFilePaths: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("explicit file should pass through, got %v", files)
	}
}

func newTestUseCase() *AnalyzeUseCase {
	return NewAnalyzeUseCase(
		service.NewAnalyzeService(),
		service.NewOutputFormatter(),
		service.NewParallelExecutor(),
	)
}

func TestAnalyzeUseCaseEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.java", sampleClass)
	writeFile(t, dir, "B.java", `
class B {
	void dead() {
		return;
		int x = 1;
	}
}
`)

	var out strings.Builder
	err := newTestUseCase().Execute(context.Background(), domain.AnalyzeRequest{
		Paths:        []string{dir},
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &out,
		Recursive:    true,
		DeadCode:     true,
		MinSeverity:  "warning",
		SortBy:       domain.SortByName,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"Files analyzed: 2",
		"B.dead",
		"Sample.m",
		"unreachable_after_return",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report should contain %q\n%s", want, report)
		}
	}
	// name order puts B.dead before Sample.m
	if strings.Index(report, "B.dead") > strings.Index(report, "Sample.m") {
		t.Error("functions should be sorted by name")
	}
}

func TestAnalyzeUseCaseNoJavaFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "nothing")

	err := newTestUseCase().Execute(context.Background(), domain.AnalyzeRequest{
		Paths:        []string{dir},
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &strings.Builder{},
		Recursive:    true,
	})
	if err == nil || !strings.Contains(err.Error(), "no Java files") {
		t.Errorf("expected no-files error, got %v", err)
	}
}

func TestAnalyzeUseCaseEmptyPaths(t *testing.T) {
	err := newTestUseCase().Execute(context.Background(), domain.AnalyzeRequest{})
	if err == nil {
		t.Error("expected error for empty paths")
	}
}
