package analyzer

import (
	"testing"

	"github.com/jflow-dev/jflow/internal/cfg"
	"github.com/jflow-dev/jflow/internal/parser"
)

func buildGraph(t *testing.T, code string) *cfg.Graph {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseFile("test.java", []byte(code))
	if err != nil {
		t.Fatalf("failed to parse source: %v", err)
	}

	var method *parser.Node
	ast.Walk(func(n *parser.Node) bool {
		if method == nil && n.IsMethodLike() {
			method = n
			return false
		}
		return true
	})
	if method == nil {
		t.Fatal("no method found")
	}

	graph, err := cfg.NewBuilder().BuildMethod(method)
	if err != nil {
		t.Fatalf("failed to build CFG: %v", err)
	}
	return graph
}

func TestReachabilityFullyConnected(t *testing.T) {
	graph := buildGraph(t, `
class C {
    void m(boolean c) {
        if (c) {
            a();
        }
        b();
    }
}`)

	result := NewReachabilityAnalyzer(graph).AnalyzeReachability()
	if result.UnreachableCount != 0 {
		t.Errorf("expected no unreachable blocks, got %d", result.UnreachableCount)
	}
	if result.GetReachabilityRatio() != 1.0 {
		t.Errorf("expected ratio 1.0, got %f", result.GetReachabilityRatio())
	}
	if result.HasUnreachableCode() {
		t.Error("expected no unreachable code")
	}
}

func TestReachabilityDeadCodeAfterReturn(t *testing.T) {
	graph := buildGraph(t, `
class C {
    void m(int x) {
        x = 1;
        return;
        x = 2;
    }
}`)

	result := NewReachabilityAnalyzer(graph).AnalyzeReachability()
	dead := result.GetUnreachableStatementBlocks()
	if len(dead) != 1 {
		t.Fatalf("expected 1 dead statement block, got %d", len(dead))
	}
	for _, block := range dead {
		if block.Excerpt() != "x = 2;" {
			t.Errorf("unexpected dead block %s", block)
		}
	}
	if !result.HasUnreachableCode() {
		t.Error("expected unreachable code to be reported")
	}
}

func TestReachabilityFromArbitraryBlock(t *testing.T) {
	graph := buildGraph(t, `
class C {
    void m() {
        a();
        b();
    }
}`)

	// starting mid-graph leaves the entry unreachable
	var start *cfg.BasicBlock
	for _, block := range graph.Blocks() {
		if block.Node() != nil && !block.IsEntry() && block.Excerpt() == "b();" {
			start = block
		}
	}
	if start == nil {
		t.Fatal("block for b() not found")
	}

	result := NewReachabilityAnalyzer(graph).AnalyzeReachabilityFrom(start)
	if _, ok := result.ReachableBlocks[graph.Entry().ID()]; ok {
		t.Error("entry should not be reachable from a later block")
	}
	if _, ok := result.ReachableBlocks[graph.Exit().ID()]; !ok {
		t.Error("exit should be reachable from b()")
	}
}

func TestDeadCodeDetectorFindings(t *testing.T) {
	graph := buildGraph(t, `
class C {
    int m(int x) {
        return x;
        x = 2;
        return x;
    }
}`)

	result := NewDeadCodeDetector(graph).Detect()
	if result.FunctionName != "C.m" {
		t.Errorf("expected function C.m, got %q", result.FunctionName)
	}
	if len(result.Findings) == 0 {
		t.Fatal("expected dead code findings")
	}

	first := result.Findings[0]
	if first.Reason != ReasonUnreachableAfterReturn {
		t.Errorf("expected unreachable_after_return, got %s", first.Reason)
	}
	if first.Severity != SeverityLevelWarning {
		t.Errorf("expected warning severity, got %s", first.Severity)
	}
	if first.Code != "x = 2;" {
		t.Errorf("unexpected finding code %q", first.Code)
	}
	if first.FilePath != "test.java" {
		t.Errorf("unexpected file path %q", first.FilePath)
	}

	for i := 1; i < len(result.Findings); i++ {
		if result.Findings[i].StartLine < result.Findings[i-1].StartLine {
			t.Error("findings should be sorted by start line")
		}
	}
}

func TestDeadCodeDetectorCleanMethod(t *testing.T) {
	graph := buildGraph(t, `
class C {
    int m(int x) {
        return x + 1;
    }
}`)

	result := NewDeadCodeDetector(graph).Detect()
	if len(result.Findings) != 0 {
		t.Errorf("expected no findings, got %v", result.Findings)
	}
	if result.DeadBlocks != 0 {
		t.Errorf("expected 0 dead blocks, got %d", result.DeadBlocks)
	}
	if result.ReachableRatio != 1.0 {
		t.Errorf("expected ratio 1.0, got %f", result.ReachableRatio)
	}
}
