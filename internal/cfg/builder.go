package cfg

import (
	"log"

	"github.com/jflow-dev/jflow/internal/parser"
)

// Builder constructs one control-flow graph per method or constructor out of
// a parsed statement tree. Construction is a single recursive pass that
// threads a list of pending edges through the statement dispatcher; jumps
// (break, continue) park their edges in a per-method registry keyed by the
// target statement's node ID and are resolved when that statement finishes.
//
// A Builder is safe to reuse sequentially across methods; all mutable
// construction state lives in a per-invocation session.
type Builder struct {
	logger *log.Logger
}

// NewBuilder creates a new CFG builder
func NewBuilder() *Builder {
	return &Builder{}
}

// SetLogger sets an optional logger for diagnostics
func (b *Builder) SetLogger(logger *log.Logger) {
	b.logger = logger
}

func (b *Builder) logf(format string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Printf(format, args...)
	}
}

// methodState is one method's construction session: the graph under
// construction, its exit block, and the deferred-edge registry. It is
// discarded when BuildMethod returns, so a failed build publishes nothing.
type methodState struct {
	graph    *Graph
	exit     *BasicBlock
	deferred map[int][]deferredEdge
}

// deferredEdge is a pending jump edge parked until its target statement
// completes. Break edges join the statement's after-flow; continue edges are
// built to the statement's loop-back block.
type deferredEdge struct {
	edge    *edgeBuilder
	isBreak bool
}

func (st *methodState) addDeferred(targetID int, eb *edgeBuilder, isBreak bool) {
	st.deferred[targetID] = append(st.deferred[targetID], deferredEdge{edge: eb, isBreak: isBreak})
}

// blockFor returns current when set, otherwise opens a fresh block for node
// and builds every pending edge into it. A node must not already have
// deferred edges registered when its block is created.
func (st *methodState) blockFor(node *parser.Node, current *BasicBlock, live []*edgeBuilder, decision bool) (*BasicBlock, error) {
	if len(st.deferred[node.ID]) > 0 {
		return nil, invariantViolation("jump edges already registered for %s at %s before its block exists",
			node.Type, node.Location)
	}
	if current != nil {
		return current, nil
	}
	block := st.graph.newBlock(node, decision)
	for _, eb := range live {
		eb.buildTo(st.graph, block)
	}
	return block, nil
}

// mergeDeferred drains every edge registered against id into the live list.
// Used by statements whose after-flow is the jump target (blocks, labeled if).
func (st *methodState) mergeDeferred(id int, live []*edgeBuilder) []*edgeBuilder {
	for _, de := range st.deferred[id] {
		live = append(live, de.edge)
	}
	delete(st.deferred, id)
	return live
}

// resolveBranchable drains the edges registered against a loop or switch:
// breaks join liveAfter, continues are built to loopBack.
func (st *methodState) resolveBranchable(id int, liveAfter *[]*edgeBuilder, loopBack *BasicBlock) {
	for _, de := range st.deferred[id] {
		if de.isBreak {
			*liveAfter = append(*liveAfter, de.edge)
		} else {
			de.edge.buildTo(st.graph, loopBack)
		}
	}
	delete(st.deferred, id)
}

// BuildProgram builds a graph for every method of every top-level type in
// the file, in source order.
func (b *Builder) BuildProgram(root *parser.Node) ([]*Graph, error) {
	var graphs []*Graph
	for _, decl := range root.Body {
		switch decl.Type {
		case parser.NodeClassDeclaration, parser.NodeEnumDeclaration:
			classGraphs, err := b.BuildClass(decl)
			if err != nil {
				return nil, err
			}
			graphs = append(graphs, classGraphs...)
		case parser.NodeInterfaceDeclaration:
			// no executable bodies
		default:
			return nil, unsupportedConstruct(decl)
		}
	}
	return graphs, nil
}

// BuildClass builds a graph per method and constructor of the class,
// recursing into nested types, sequentially and in source order.
func (b *Builder) BuildClass(class *parser.Node) ([]*Graph, error) {
	var graphs []*Graph
	for _, member := range class.Body {
		switch member.Type {
		case parser.NodeMethodDeclaration, parser.NodeConstructorDeclaration:
			if member.Stmt == nil {
				b.logf("skipping %s without body at %s", member.Name, member.Location)
				continue
			}
			graph, err := b.BuildMethod(member)
			if err != nil {
				return nil, err
			}
			graphs = append(graphs, graph)
		case parser.NodeClassDeclaration, parser.NodeEnumDeclaration:
			nested, err := b.BuildClass(member)
			if err != nil {
				return nil, err
			}
			graphs = append(graphs, nested...)
		case parser.NodeFieldDeclaration, parser.NodeInterfaceDeclaration:
			// fields have no statement flow of their own
		}
	}
	return graphs, nil
}

// BuildMethod builds the control-flow graph of a single method or
// constructor. On failure no partial graph is returned.
func (b *Builder) BuildMethod(node *parser.Node) (*Graph, error) {
	if !node.IsMethodLike() {
		return nil, unsupportedConstruct(node)
	}

	st := &methodState{
		graph:    &Graph{Name: qualifiedName(node), FunctionNode: node},
		deferred: make(map[int][]deferredEdge),
	}

	entry := st.graph.newBlock(node, false)
	entry.entry = true
	for _, param := range node.Params {
		entry.addAccess(param, param.Name, DeclInit)
	}
	st.graph.entry = entry

	exit := st.graph.newBlock(nil, false)
	exit.exit = true
	exit.file = node.Location.File
	exit.line = node.Location.EndLine
	exit.column = node.Location.EndCol
	st.graph.exit = exit
	st.exit = exit

	live := []*edgeBuilder{newEdgeBuilder(entry)}
	if node.Stmt != nil {
		var err error
		live, err = b.buildStmt(st, node.Stmt, live, nil)
		if err != nil {
			return nil, err
		}
	}

	if len(live) > 0 {
		if !fallsThroughToExit(node) {
			return nil, invariantViolation("control reaches end of non-void method %s", st.graph.Name)
		}
		for _, eb := range live {
			eb.buildTo(st.graph, exit)
		}
	}
	if len(st.deferred) > 0 {
		return nil, invariantViolation("%d jump targets left unresolved in %s", len(st.deferred), st.graph.Name)
	}
	return st.graph, nil
}

// fallsThroughToExit reports whether running off the end of the body is
// legal: constructors and void methods only.
func fallsThroughToExit(node *parser.Node) bool {
	if node.Type == parser.NodeConstructorDeclaration {
		return true
	}
	return node.TypeName == "" || node.TypeName == "void"
}

func qualifiedName(node *parser.Node) string {
	for n := node.Parent; n != nil; n = n.Parent {
		switch n.Type {
		case parser.NodeClassDeclaration, parser.NodeEnumDeclaration, parser.NodeInterfaceDeclaration:
			return n.Name + "." + node.Name
		}
	}
	return node.Name
}

// buildStmt dispatches on the statement's variant. Every handler takes the
// pending edges live before the statement plus an optional current block the
// statement may extend, and returns the pending edges live after it.
func (b *Builder) buildStmt(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	if node == nil {
		return live, nil
	}
	switch node.Type {
	case parser.NodeBlockStatement:
		return b.buildBlock(st, node, live, current)
	case parser.NodeExpressionStatement:
		return b.buildExprStmt(st, node, live, current)
	case parser.NodeVariableDeclaration:
		return b.buildVarDecl(st, node, live, current)
	case parser.NodeIfStatement:
		return b.buildIf(st, node, live)
	case parser.NodeWhileStatement:
		return b.buildWhile(st, node, live)
	case parser.NodeDoWhileStatement:
		return b.buildDoWhile(st, node, live)
	case parser.NodeForStatement:
		return b.buildFor(st, node, live)
	case parser.NodeEnhancedForStatement:
		return b.buildForEach(st, node, live)
	case parser.NodeSwitchStatement:
		return b.buildSwitch(st, node, live, current)
	case parser.NodeLabeledStatement:
		// purely a registry key, no block of its own
		return b.buildStmt(st, node.Stmt, live, current)
	case parser.NodeBreakStatement:
		return b.buildBreak(st, node, live, current)
	case parser.NodeContinueStatement:
		return b.buildContinue(st, node, live, current)
	case parser.NodeReturnStatement:
		return b.buildReturn(st, node, live, current)
	case parser.NodeSynchronizedStatement:
		return b.buildSynchronized(st, node, live)
	case parser.NodeAssertStatement:
		return b.buildAssert(st, node, live, current)
	case parser.NodeConstructorInvocation:
		return b.buildConstructorInvocation(st, node, live, current)
	case parser.NodeEmptyStatement:
		block, err := st.blockFor(node, current, live, false)
		if err != nil {
			return nil, err
		}
		return inBlockResult(live, current, block), nil
	default:
		// throw, try and anything else outside the modeled set
		return nil, unsupportedConstruct(node)
	}
}

// inBlockResult is the after-flow of a simple statement: the prior pending
// list when the statement extended an existing block, otherwise a single
// pending edge out of its fresh block.
func inBlockResult(live []*edgeBuilder, current, block *BasicBlock) []*edgeBuilder {
	if current != nil {
		return live
	}
	return []*edgeBuilder{newEdgeBuilder(block)}
}

// buildBlock folds the dispatcher over the block's statements, threading the
// pending-edge list and the current-block hint. Deferred edges registered
// against the block itself (labeled break targeting it) join the after-flow.
func (b *Builder) buildBlock(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	live, err := b.buildStmtList(st, node.Body, current, live)
	if err != nil {
		return nil, err
	}
	return st.mergeDeferred(node.ID, live), nil
}

// buildStmtList runs a statement sequence. The current-block hint survives
// simple statements and jumps so consecutive plain statements started from a
// supplied block keep extending it; statements that build their own block
// structure reset the hint.
func (b *Builder) buildStmtList(st *methodState, stmts []*parser.Node, startBlock *BasicBlock, live []*edgeBuilder) ([]*edgeBuilder, error) {
	current := startBlock
	for _, stmt := range stmts {
		next := current
		cur := current
		switch stmt.Type {
		case parser.NodeSwitchCase:
			// case labels hang off the governing switch block
			cur = startBlock
			next = nil
		case parser.NodeIfStatement, parser.NodeForStatement, parser.NodeEnhancedForStatement,
			parser.NodeSwitchStatement, parser.NodeSynchronizedStatement, parser.NodeWhileStatement,
			parser.NodeDoWhileStatement, parser.NodeBlockStatement, parser.NodeLabeledStatement:
			next = nil
		}

		var err error
		if stmt.Type == parser.NodeSwitchCase {
			live, err = b.buildSwitchCase(st, stmt, live, startBlock)
		} else {
			live, err = b.buildStmt(st, stmt, live, cur)
		}
		if err != nil {
			return nil, err
		}
		current = next
	}
	return live, nil
}

func (b *Builder) buildExprStmt(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}
	if err := b.recordAccess(block, node.Expr, Read); err != nil {
		return nil, err
	}
	return inBlockResult(live, current, block), nil
}

func (b *Builder) buildVarDecl(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}
	b.recordDeclarations(block, node)
	return inBlockResult(live, current, block), nil
}

func (b *Builder) buildAssert(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}
	if err := b.recordAccess(block, node.Expr, Read); err != nil {
		return nil, err
	}
	if err := b.recordAccess(block, node.Message, Read); err != nil {
		return nil, err
	}
	return inBlockResult(live, current, block), nil
}

func (b *Builder) buildConstructorInvocation(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}
	for _, arg := range node.Args {
		if err := b.recordAccess(block, arg, Read); err != nil {
			return nil, err
		}
	}
	return inBlockResult(live, current, block), nil
}

func (b *Builder) buildReturn(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}
	if node.Expr != nil {
		if err := b.recordAccess(block, node.Expr, Read); err != nil {
			return nil, err
		}
	}
	newEdgeBuilder(block).buildTo(st.graph, st.exit)
	return nil, nil
}

func (b *Builder) buildIf(st *methodState, node *parser.Node, live []*edgeBuilder) ([]*edgeBuilder, error) {
	cond, err := st.blockFor(node, nil, live, true)
	if err != nil {
		return nil, err
	}
	if err := b.recordAccess(cond, node.Test, Read); err != nil {
		return nil, err
	}

	results, err := b.buildStmt(st, node.Consequent, []*edgeBuilder{newBranchEdgeBuilder(cond, BranchTrue)}, nil)
	if err != nil {
		return nil, err
	}

	falseEdge := newBranchEdgeBuilder(cond, BranchFalse)
	if node.Alternate != nil {
		elseLive, err := b.buildStmt(st, node.Alternate, []*edgeBuilder{falseEdge}, nil)
		if err != nil {
			return nil, err
		}
		results = append(results, elseLive...)
	} else {
		results = append(results, falseEdge)
	}
	return st.mergeDeferred(node.ID, results), nil
}

func (b *Builder) buildWhile(st *methodState, node *parser.Node, live []*edgeBuilder) ([]*edgeBuilder, error) {
	cond, err := st.blockFor(node.Test, nil, live, true)
	if err != nil {
		return nil, err
	}
	if err := b.recordAccess(cond, node.Test, Read); err != nil {
		return nil, err
	}

	bodyLive, err := b.buildStmt(st, node.Stmt, []*edgeBuilder{newBranchEdgeBuilder(cond, BranchTrue)}, nil)
	if err != nil {
		return nil, err
	}
	for _, eb := range bodyLive {
		eb.buildTo(st.graph, cond)
	}

	liveAfter := []*edgeBuilder{newBranchEdgeBuilder(cond, BranchFalse)}
	st.resolveBranchable(node.ID, &liveAfter, cond)
	return liveAfter, nil
}

func (b *Builder) buildDoWhile(st *methodState, node *parser.Node, live []*edgeBuilder) ([]*edgeBuilder, error) {
	top, err := st.blockFor(node, nil, live, false)
	if err != nil {
		return nil, err
	}
	bodyLive, err := b.buildStmt(st, node.Stmt, []*edgeBuilder{newEdgeBuilder(top)}, top)
	if err != nil {
		return nil, err
	}

	cond, err := st.blockFor(node.Test, nil, bodyLive, true)
	if err != nil {
		return nil, err
	}
	if err := b.recordAccess(cond, node.Test, Read); err != nil {
		return nil, err
	}
	newBranchEdgeBuilder(cond, BranchTrue).buildTo(st.graph, top)

	liveAfter := []*edgeBuilder{newBranchEdgeBuilder(cond, BranchFalse)}
	st.resolveBranchable(node.ID, &liveAfter, cond)
	return liveAfter, nil
}

func (b *Builder) buildFor(st *methodState, node *parser.Node, live []*edgeBuilder) ([]*edgeBuilder, error) {
	if len(node.Init) == 0 || len(node.Update) == 0 || node.Test == nil {
		return nil, unsupportedConstruct(node)
	}

	initBlock, err := st.blockFor(node.Init[0], nil, live, false)
	if err != nil {
		return nil, err
	}
	for _, init := range node.Init {
		if init.Type == parser.NodeVariableDeclarationExpression {
			b.recordDeclarations(initBlock, init)
		}
	}

	cond, err := st.blockFor(node.Test, nil, []*edgeBuilder{newEdgeBuilder(initBlock)}, true)
	if err != nil {
		return nil, err
	}
	if err := b.recordAccess(cond, node.Test, Read); err != nil {
		return nil, err
	}

	updaters, err := st.blockFor(node.Update[0], nil, nil, false)
	if err != nil {
		return nil, err
	}
	newEdgeBuilder(updaters).buildTo(st.graph, cond)
	for _, upd := range node.Update {
		if err := b.recordAccess(updaters, upd, Write); err != nil {
			return nil, err
		}
	}

	bodyLive, err := b.buildStmt(st, node.Stmt, []*edgeBuilder{newBranchEdgeBuilder(cond, BranchTrue)}, nil)
	if err != nil {
		return nil, err
	}
	for _, eb := range bodyLive {
		eb.buildTo(st.graph, updaters)
	}

	liveAfter := []*edgeBuilder{newBranchEdgeBuilder(cond, BranchFalse)}
	st.resolveBranchable(node.ID, &liveAfter, updaters)
	return liveAfter, nil
}

func (b *Builder) buildForEach(st *methodState, node *parser.Node, live []*edgeBuilder) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, nil, live, false)
	if err != nil {
		return nil, err
	}
	block.addAccess(node.Param, node.Param.Name, DeclInit|Write)

	bodyLive, err := b.buildStmt(st, node.Stmt, []*edgeBuilder{newEdgeBuilder(block)}, nil)
	if err != nil {
		return nil, err
	}
	for _, eb := range bodyLive {
		eb.buildTo(st.graph, block)
	}

	liveAfter := []*edgeBuilder{newEdgeBuilder(block)}
	st.resolveBranchable(node.ID, &liveAfter, block)
	return liveAfter, nil
}

func (b *Builder) buildSwitch(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}

	liveAfter, err := b.buildStmtList(st, node.Body, block, []*edgeBuilder{newEdgeBuilder(block)})
	if err != nil {
		return nil, err
	}
	// unmatched selector value leaves the switch directly
	liveAfter = append(liveAfter, newEdgeBuilder(block))

	st.resolveBranchable(node.ID, &liveAfter, block)
	return liveAfter, nil
}

// buildSwitchCase re-enters from the governing switch block. The incoming
// list is empty after a break, or carries the previous case's fall-through.
func (b *Builder) buildSwitchCase(st *methodState, node *parser.Node, live []*edgeBuilder, switchBlock *BasicBlock) ([]*edgeBuilder, error) {
	if switchBlock == nil {
		return nil, invariantViolation("case label outside a switch at %s", node.Location)
	}
	out := make([]*edgeBuilder, 0, len(live)+1)
	out = append(out, live...)
	out = append(out, newEdgeBuilder(switchBlock))
	return out, nil
}

func (b *Builder) buildSynchronized(st *methodState, node *parser.Node, live []*edgeBuilder) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, nil, live, false)
	if err != nil {
		return nil, err
	}
	if err := b.recordAccess(block, node.Expr, Read); err != nil {
		return nil, err
	}
	return b.buildStmt(st, node.Stmt, []*edgeBuilder{newEdgeBuilder(block)}, nil)
}

func (b *Builder) buildBreak(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}
	var target *parser.Node
	if node.Label != "" {
		target = findLabeledTarget(node, node.Label)
	} else {
		target = findBreakableTarget(node)
	}
	if target == nil {
		return nil, unresolvedJump(node, node.Label)
	}
	st.addDeferred(target.ID, newEdgeBuilder(block), true)
	return nil, nil
}

func (b *Builder) buildContinue(st *methodState, node *parser.Node, live []*edgeBuilder, current *BasicBlock) ([]*edgeBuilder, error) {
	block, err := st.blockFor(node, current, live, false)
	if err != nil {
		return nil, err
	}
	var target *parser.Node
	if node.Label != "" {
		target = findLabeledTarget(node, node.Label)
	} else {
		target = findContinuableTarget(node)
	}
	if target == nil {
		return nil, unresolvedJump(node, node.Label)
	}
	st.addDeferred(target.ID, newEdgeBuilder(block), false)
	return nil, nil
}

// findLabeledTarget walks ancestors for a labeled statement with a matching
// label and returns its body, the statement the deferred edge keys on.
func findLabeledTarget(node *parser.Node, label string) *parser.Node {
	for n := node.Parent; n != nil; n = n.Parent {
		if n.IsMethodLike() {
			return nil
		}
		if n.Type == parser.NodeLabeledStatement && n.Label == label {
			return n.Stmt
		}
	}
	return nil
}

func findBreakableTarget(node *parser.Node) *parser.Node {
	for n := node.Parent; n != nil; n = n.Parent {
		if n.IsMethodLike() {
			return nil
		}
		if n.IsBreakable() {
			return n
		}
	}
	return nil
}

func findContinuableTarget(node *parser.Node) *parser.Node {
	for n := node.Parent; n != nil; n = n.Parent {
		if n.IsMethodLike() {
			return nil
		}
		if n.IsLoop() {
			return n
		}
	}
	return nil
}
