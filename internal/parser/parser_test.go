package parser

import (
	"strings"
	"testing"
)

func parseSource(t *testing.T, code string) *Node {
	t.Helper()
	p := NewParser()
	defer p.Close()

	ast, err := p.ParseFile("test.java", []byte(code))
	if err != nil {
		t.Fatalf("failed to parse source: %v", err)
	}
	if ast == nil {
		t.Fatal("expected non-nil AST")
	}
	return ast
}

// findMethod walks the AST for the first method or constructor with the name.
func findMethod(root *Node, name string) *Node {
	var found *Node
	root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.IsMethodLike() && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestParseClassAndMethod(t *testing.T) {
	ast := parseSource(t, `
class Greeter {
    String greet(String name) {
        return "hello " + name;
    }
}`)

	if len(ast.Body) != 1 || ast.Body[0].Type != NodeClassDeclaration {
		t.Fatalf("expected one class declaration, got %v", ast.Body)
	}
	cls := ast.Body[0]
	if cls.Name != "Greeter" {
		t.Errorf("expected class name Greeter, got %q", cls.Name)
	}

	method := findMethod(ast, "greet")
	if method == nil {
		t.Fatal("method greet not found")
	}
	if method.TypeName != "String" {
		t.Errorf("expected return type String, got %q", method.TypeName)
	}
	if len(method.Params) != 1 || method.Params[0].Name != "name" {
		t.Errorf("unexpected parameters: %v", method.Params)
	}
	if method.Stmt == nil || method.Stmt.Type != NodeBlockStatement {
		t.Error("expected method body block")
	}
}

func TestParseConstructorBody(t *testing.T) {
	ast := parseSource(t, `
class C {
    int x;
    C(int x) {
        this.x = x;
        init();
    }
}`)

	ctor := findMethod(ast, "C")
	if ctor == nil {
		t.Fatal("constructor C not found")
	}
	if ctor.Type != NodeConstructorDeclaration {
		t.Fatalf("expected constructor declaration, got %s", ctor.Type)
	}
	if ctor.Stmt == nil || ctor.Stmt.Type != NodeBlockStatement {
		t.Fatalf("expected constructor body block, got %v", ctor.Stmt)
	}
	if len(ctor.Stmt.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %v", ctor.Stmt.Body)
	}
	for i, stmt := range ctor.Stmt.Body {
		if stmt.Type != NodeExpressionStatement {
			t.Errorf("statement %d: expected expression statement, got %s", i, stmt.Type)
		}
	}
}

func TestParseControlFlowStatements(t *testing.T) {
	ast := parseSource(t, `
class C {
    void m(int n) {
        if (n > 0) {
            n--;
        } else {
            n++;
        }
        while (n < 10) { n++; }
        do { n--; } while (n > 0);
        for (int i = 0; i < n; i++) { n += i; }
        for (String s : names) { use(s); }
        switch (n) {
        case 0:
            n = 1;
            break;
        default:
            n = 2;
        }
    }
}`)

	body := findMethod(ast, "m").Stmt.Body
	wantTypes := []NodeType{
		NodeIfStatement,
		NodeWhileStatement,
		NodeDoWhileStatement,
		NodeForStatement,
		NodeEnhancedForStatement,
		NodeSwitchStatement,
	}
	if len(body) != len(wantTypes) {
		t.Fatalf("expected %d statements, got %d", len(wantTypes), len(body))
	}
	for i, want := range wantTypes {
		if body[i].Type != want {
			t.Errorf("statement %d: expected %s, got %s", i, want, body[i].Type)
		}
	}

	ifStmt := body[0]
	if ifStmt.Test == nil || ifStmt.Consequent == nil || ifStmt.Alternate == nil {
		t.Error("if statement missing condition or branches")
	}

	forStmt := body[3]
	if len(forStmt.Init) != 1 || forStmt.Init[0].Type != NodeVariableDeclarationExpression {
		t.Errorf("unexpected for initializers: %v", forStmt.Init)
	}
	if forStmt.Test == nil || len(forStmt.Update) != 1 {
		t.Error("for statement missing condition or updater")
	}

	forEach := body[4]
	if forEach.Param == nil || forEach.Param.Name != "s" {
		t.Errorf("unexpected foreach parameter: %v", forEach.Param)
	}
	if forEach.Expr == nil {
		t.Error("foreach missing iterable expression")
	}
}

func TestParseSwitchFlattening(t *testing.T) {
	ast := parseSource(t, `
class C {
    void m(int n) {
        switch (n) {
        case 1:
        case 2:
            n = 0;
            break;
        default:
            n = 9;
        }
    }
}`)

	sw := findMethod(ast, "m").Stmt.Body[0]
	if sw.Type != NodeSwitchStatement {
		t.Fatalf("expected switch, got %s", sw.Type)
	}

	var cases, defaults, stmts int
	for _, child := range sw.Body {
		switch {
		case child.Type == NodeSwitchCase && child.Default:
			defaults++
		case child.Type == NodeSwitchCase:
			cases++
			if child.Test == nil {
				t.Error("non-default case missing label expression")
			}
		default:
			stmts++
		}
	}
	if cases != 2 || defaults != 1 {
		t.Errorf("expected 2 cases and 1 default, got %d and %d", cases, defaults)
	}
	if stmts != 3 {
		t.Errorf("expected 3 flattened statements, got %d", stmts)
	}
}

func TestParseLabeledBreakContinue(t *testing.T) {
	ast := parseSource(t, `
class C {
    void m() {
        outer: while (true) {
            while (true) {
                if (done()) break outer;
                continue;
            }
        }
    }
}`)

	labeled := findMethod(ast, "m").Stmt.Body[0]
	if labeled.Type != NodeLabeledStatement || labeled.Label != "outer" {
		t.Fatalf("expected labeled statement outer, got %s %q", labeled.Type, labeled.Label)
	}
	if labeled.Stmt == nil || labeled.Stmt.Type != NodeWhileStatement {
		t.Fatal("labeled statement missing loop body")
	}

	var breaks, continues []*Node
	labeled.Walk(func(n *Node) bool {
		switch n.Type {
		case NodeBreakStatement:
			breaks = append(breaks, n)
		case NodeContinueStatement:
			continues = append(continues, n)
		}
		return true
	})
	if len(breaks) != 1 || breaks[0].Label != "outer" {
		t.Errorf("unexpected breaks: %v", breaks)
	}
	if len(continues) != 1 || continues[0].Label != "" {
		t.Errorf("unexpected continues: %v", continues)
	}
}

func TestParseVariableDeclarationFragments(t *testing.T) {
	ast := parseSource(t, `
class C {
    void m() {
        int a = 1, b;
    }
}`)

	decl := findMethod(ast, "m").Stmt.Body[0]
	if decl.Type != NodeVariableDeclaration {
		t.Fatalf("expected variable declaration, got %s", decl.Type)
	}
	if len(decl.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(decl.Fragments))
	}
	if decl.Fragments[0].Name != "a" || decl.Fragments[0].Initializer == nil {
		t.Errorf("fragment a malformed: %v", decl.Fragments[0])
	}
	if decl.Fragments[1].Name != "b" || decl.Fragments[1].Initializer != nil {
		t.Errorf("fragment b malformed: %v", decl.Fragments[1])
	}
	if decl.Fragments[0].TypeName != "int" {
		t.Errorf("expected fragment type int, got %q", decl.Fragments[0].TypeName)
	}
}

func TestParseLocationsAndExcerpts(t *testing.T) {
	ast := parseSource(t, `class C {
    void m() {
        int x = 0;
    }
}`)

	decl := findMethod(ast, "m").Stmt.Body[0]
	if decl.Location.StartLine != 3 {
		t.Errorf("expected declaration on line 3, got %d", decl.Location.StartLine)
	}
	if decl.Location.File != "test.java" {
		t.Errorf("expected file test.java, got %q", decl.Location.File)
	}
	if !strings.Contains(decl.Text, "int x = 0") {
		t.Errorf("unexpected excerpt %q", decl.Text)
	}
}

func TestParseAssignsUniqueIDs(t *testing.T) {
	ast := parseSource(t, `
class C {
    void m(int n) {
        while (n > 0) { n--; }
    }
}`)

	seen := make(map[int]bool)
	ast.Walk(func(n *Node) bool {
		if seen[n.ID] {
			t.Errorf("duplicate node ID %d", n.ID)
		}
		seen[n.ID] = true
		return true
	})
}

func TestParseLinksParents(t *testing.T) {
	ast := parseSource(t, `
class C {
    void m() {
        while (true) { break; }
    }
}`)

	var brk *Node
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeBreakStatement {
			brk = n
		}
		return true
	})
	if brk == nil {
		t.Fatal("break statement not found")
	}

	var loop *Node
	for n := brk.Parent; n != nil; n = n.Parent {
		if n.IsLoop() {
			loop = n
			break
		}
	}
	if loop == nil || loop.Type != NodeWhileStatement {
		t.Errorf("expected enclosing while loop, got %v", loop)
	}
}

func TestParseUnsupportedStatementKept(t *testing.T) {
	ast := parseSource(t, `
class C {
    void m() {
        try {
            risky();
        } catch (Exception e) {
        }
    }
}`)

	stmt := findMethod(ast, "m").Stmt.Body[0]
	if stmt.Type != NodeTryStatement {
		t.Errorf("expected try statement node, got %s", stmt.Type)
	}
}
