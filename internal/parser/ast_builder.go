package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxExcerptLen caps the single-line excerpt stored on each node.
const maxExcerptLen = 80

// ASTBuilder builds our internal AST from the tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
	nextID   int
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildProgram(tsNode)
}

// newNode creates a node with location, excerpt and a creation-order ID.
func (b *ASTBuilder) newNode(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := NewNode(nodeType)
	node.ID = b.nextID
	b.nextID++
	if tsNode != nil {
		node.Location = b.getLocation(tsNode)
		node.Text = b.excerpt(tsNode)
	}
	return node
}

func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeProgram, tsNode)
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration":
			node.Body = append(node.Body, b.buildDeclaration(child))
		case "package_declaration", "import_declaration":
			// not executable, nothing for the CFG
		default:
			node.Body = append(node.Body, b.buildStatement(child))
		}
	}
	return node
}

func (b *ASTBuilder) buildDeclaration(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "class_declaration":
		return b.buildClassDeclaration(tsNode)
	case "interface_declaration":
		node := b.newNode(NodeInterfaceDeclaration, tsNode)
		node.Name = b.fieldText(tsNode, "name")
		return node
	case "enum_declaration":
		node := b.newNode(NodeEnumDeclaration, tsNode)
		node.Name = b.fieldText(tsNode, "name")
		return node
	case "method_declaration":
		return b.buildMethodDeclaration(tsNode)
	case "constructor_declaration":
		return b.buildConstructorDeclaration(tsNode)
	case "field_declaration":
		node := b.newNode(NodeFieldDeclaration, tsNode)
		node.TypeName = b.fieldText(tsNode, "type")
		return node
	default:
		return b.newNode(NodeType(tsNode.Type()), tsNode)
	}
}

func (b *ASTBuilder) buildClassDeclaration(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeClassDeclaration, tsNode)
	node.Name = b.fieldText(tsNode, "name")

	body := b.childByFieldName(tsNode, "body")
	if body == nil {
		return node
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member == nil || b.isTrivia(member) {
			continue
		}
		node.Body = append(node.Body, b.buildDeclaration(member))
	}
	return node
}

func (b *ASTBuilder) buildMethodDeclaration(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMethodDeclaration, tsNode)
	node.Name = b.fieldText(tsNode, "name")
	node.TypeName = b.fieldText(tsNode, "type")
	node.Params = b.buildFormalParameters(b.childByFieldName(tsNode, "parameters"))
	if body := b.childByFieldName(tsNode, "body"); body != nil {
		node.Stmt = b.buildStatement(body)
	}
	return node
}

func (b *ASTBuilder) buildConstructorDeclaration(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeConstructorDeclaration, tsNode)
	node.Name = b.fieldText(tsNode, "name")
	node.Params = b.buildFormalParameters(b.childByFieldName(tsNode, "parameters"))
	if body := b.childByFieldName(tsNode, "body"); body != nil {
		node.Stmt = b.buildStatement(body)
	}
	return node
}

func (b *ASTBuilder) buildFormalParameters(tsNode *sitter.Node) []*Node {
	if tsNode == nil {
		return nil
	}
	var params []*Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if child.Type() == "formal_parameter" || child.Type() == "spread_parameter" {
			param := b.newNode(NodeVariableDeclarator, child)
			param.TypeName = b.fieldText(child, "type")
			param.Name = b.fieldText(child, "name")
			if param.Name == "" {
				// spread_parameter keeps the declarator one level down
				if decl := b.firstNamedChildOfType(child, "variable_declarator"); decl != nil {
					param.Name = b.fieldText(decl, "name")
				}
			}
			params = append(params, param)
		}
	}
	return params
}

// buildStatement converts a statement CST node. Unknown statement kinds are
// kept as generic nodes carrying the raw grammar type so the CFG builder can
// report them as unsupported instead of skipping them.
func (b *ASTBuilder) buildStatement(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "block", "constructor_body":
		node := b.newNode(NodeBlockStatement, tsNode)
		node.Body = b.buildStatementList(tsNode)
		return node

	case "expression_statement":
		node := b.newNode(NodeExpressionStatement, tsNode)
		if expr := tsNode.NamedChild(0); expr != nil {
			node.Expr = b.buildExpression(expr)
		}
		return node

	case "local_variable_declaration":
		return b.buildVariableDeclaration(tsNode, NodeVariableDeclaration)

	case "if_statement":
		node := b.newNode(NodeIfStatement, tsNode)
		node.Test = b.buildCondition(tsNode)
		if cons := b.childByFieldName(tsNode, "consequence"); cons != nil {
			node.Consequent = b.buildStatement(cons)
		}
		if alt := b.childByFieldName(tsNode, "alternative"); alt != nil {
			node.Alternate = b.buildStatement(alt)
		}
		return node

	case "while_statement":
		node := b.newNode(NodeWhileStatement, tsNode)
		node.Test = b.buildCondition(tsNode)
		if body := b.childByFieldName(tsNode, "body"); body != nil {
			node.Stmt = b.buildStatement(body)
		}
		return node

	case "do_statement":
		node := b.newNode(NodeDoWhileStatement, tsNode)
		if body := b.childByFieldName(tsNode, "body"); body != nil {
			node.Stmt = b.buildStatement(body)
		}
		node.Test = b.buildCondition(tsNode)
		return node

	case "for_statement":
		return b.buildForStatement(tsNode)

	case "enhanced_for_statement":
		return b.buildEnhancedForStatement(tsNode)

	case "switch_statement", "switch_expression":
		return b.buildSwitchStatement(tsNode)

	case "labeled_statement":
		return b.buildLabeledStatement(tsNode)

	case "break_statement":
		node := b.newNode(NodeBreakStatement, tsNode)
		node.Label = b.optionalIdentifier(tsNode)
		return node

	case "continue_statement":
		node := b.newNode(NodeContinueStatement, tsNode)
		node.Label = b.optionalIdentifier(tsNode)
		return node

	case "return_statement":
		node := b.newNode(NodeReturnStatement, tsNode)
		if expr := tsNode.NamedChild(0); expr != nil && !b.isTrivia(expr) {
			node.Expr = b.buildExpression(expr)
		}
		return node

	case "synchronized_statement":
		node := b.newNode(NodeSynchronizedStatement, tsNode)
		if lock := b.firstNamedChildOfType(tsNode, "parenthesized_expression"); lock != nil {
			node.Expr = b.buildExpression(lock)
		}
		if body := b.firstNamedChildOfType(tsNode, "block"); body != nil {
			node.Stmt = b.buildStatement(body)
		}
		return node

	case "assert_statement":
		node := b.newNode(NodeAssertStatement, tsNode)
		exprs := b.namedChildren(tsNode)
		if len(exprs) > 0 {
			node.Expr = b.buildExpression(exprs[0])
		}
		if len(exprs) > 1 {
			node.Message = b.buildExpression(exprs[1])
		}
		return node

	case "explicit_constructor_invocation":
		node := b.newNode(NodeConstructorInvocation, tsNode)
		node.Name = b.fieldText(tsNode, "constructor")
		node.Args = b.buildArgumentList(b.childByFieldName(tsNode, "arguments"))
		return node

	case "throw_statement":
		node := b.newNode(NodeThrowStatement, tsNode)
		if expr := tsNode.NamedChild(0); expr != nil {
			node.Expr = b.buildExpression(expr)
		}
		return node

	case "try_statement", "try_with_resources_statement":
		// Parsed for completeness; the CFG builder rejects it explicitly.
		return b.newNode(NodeTryStatement, tsNode)

	case ";":
		return b.newNode(NodeEmptyStatement, tsNode)

	default:
		return b.newNode(NodeType(tsNode.Type()), tsNode)
	}
}

// buildStatementList collects the statements of a block-like node.
func (b *ASTBuilder) buildStatementList(tsNode *sitter.Node) []*Node {
	var stmts []*Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		stmts = append(stmts, b.buildStatement(child))
	}
	return stmts
}

func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.newNode(nodeType, tsNode)
	node.TypeName = b.fieldText(tsNode, "type")
	for _, decl := range b.childrenByFieldName(tsNode, "declarator") {
		frag := b.newNode(NodeVariableDeclarator, decl)
		frag.Name = b.fieldText(decl, "name")
		frag.TypeName = node.TypeName
		if value := b.childByFieldName(decl, "value"); value != nil {
			frag.Initializer = b.buildExpression(value)
		}
		node.Fragments = append(node.Fragments, frag)
	}
	return node
}

func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeForStatement, tsNode)
	for _, init := range b.childrenByFieldName(tsNode, "init") {
		if init.Type() == "local_variable_declaration" {
			node.Init = append(node.Init, b.buildVariableDeclaration(init, NodeVariableDeclarationExpression))
		} else {
			node.Init = append(node.Init, b.buildExpression(init))
		}
	}
	if cond := b.childByFieldName(tsNode, "condition"); cond != nil {
		node.Test = b.buildExpression(cond)
	}
	for _, upd := range b.childrenByFieldName(tsNode, "update") {
		node.Update = append(node.Update, b.buildExpression(upd))
	}
	if body := b.childByFieldName(tsNode, "body"); body != nil {
		node.Stmt = b.buildStatement(body)
	}
	return node
}

func (b *ASTBuilder) buildEnhancedForStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeEnhancedForStatement, tsNode)

	param := b.newNode(NodeVariableDeclarator, tsNode)
	param.TypeName = b.fieldText(tsNode, "type")
	param.Name = b.fieldText(tsNode, "name")
	param.Text = param.TypeName + " " + param.Name
	node.Param = param

	if value := b.childByFieldName(tsNode, "value"); value != nil {
		node.Expr = b.buildExpression(value)
	}
	if body := b.childByFieldName(tsNode, "body"); body != nil {
		node.Stmt = b.buildStatement(body)
	}
	return node
}

// buildSwitchStatement flattens the switch body into a statement run where
// each case label becomes a SwitchCase statement followed by the group's
// statements, preserving fall-through ordering.
func (b *ASTBuilder) buildSwitchStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchStatement, tsNode)
	node.Test = b.buildCondition(tsNode)

	body := b.childByFieldName(tsNode, "body")
	if body == nil {
		body = b.firstNamedChildOfType(tsNode, "switch_block")
	}
	if body == nil {
		return node
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "switch_block_statement_group", "switch_rule":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				member := child.NamedChild(j)
				if member == nil || b.isTrivia(member) {
					continue
				}
				if member.Type() == "switch_label" {
					node.Body = append(node.Body, b.buildSwitchLabel(member))
				} else {
					node.Body = append(node.Body, b.buildStatement(member))
				}
			}
		case "switch_label":
			node.Body = append(node.Body, b.buildSwitchLabel(child))
		default:
			node.Body = append(node.Body, b.buildStatement(child))
		}
	}
	return node
}

func (b *ASTBuilder) buildSwitchLabel(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSwitchCase, tsNode)
	if expr := tsNode.NamedChild(0); expr != nil && !b.isTrivia(expr) {
		node.Test = b.buildExpression(expr)
	} else {
		node.Default = true
	}
	return node
}

func (b *ASTBuilder) buildLabeledStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeLabeledStatement, tsNode)
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if child.Type() == "identifier" && node.Label == "" {
			node.Label = child.Content(b.source)
			continue
		}
		node.Stmt = b.buildStatement(child)
	}
	return node
}

// buildCondition resolves the "condition" field, unwrapping nothing: the
// parenthesized expression stays visible so block excerpts match the source.
func (b *ASTBuilder) buildCondition(tsNode *sitter.Node) *Node {
	cond := b.childByFieldName(tsNode, "condition")
	if cond == nil {
		return nil
	}
	return b.buildExpression(cond)
}

// buildExpression converts an expression CST node. Like statements, unknown
// expression kinds become generic nodes that the variable-access recorder
// rejects explicitly.
func (b *ASTBuilder) buildExpression(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "identifier":
		node := b.newNode(NodeIdentifier, tsNode)
		node.Name = tsNode.Content(b.source)
		return node

	case "scoped_identifier":
		node := b.newNode(NodeQualifiedName, tsNode)
		node.Name = tsNode.Content(b.source)
		return node

	case "field_access":
		node := b.newNode(NodeFieldAccess, tsNode)
		if obj := b.childByFieldName(tsNode, "object"); obj != nil {
			node.Object = b.buildExpression(obj)
		}
		node.Name = b.fieldText(tsNode, "field")
		return node

	case "array_access":
		node := b.newNode(NodeArrayAccess, tsNode)
		if arr := b.childByFieldName(tsNode, "array"); arr != nil {
			node.Object = b.buildExpression(arr)
		}
		if idx := b.childByFieldName(tsNode, "index"); idx != nil {
			node.Index = b.buildExpression(idx)
		}
		return node

	case "array_creation_expression":
		node := b.newNode(NodeArrayCreation, tsNode)
		node.TypeName = b.fieldText(tsNode, "type")
		for _, dims := range b.childrenByFieldName(tsNode, "dimensions") {
			for _, expr := range b.namedChildren(dims) {
				node.Elements = append(node.Elements, b.buildExpression(expr))
			}
		}
		if value := b.childByFieldName(tsNode, "value"); value != nil {
			node.Initializer = b.buildExpression(value)
		}
		return node

	case "array_initializer":
		node := b.newNode(NodeArrayInitializer, tsNode)
		for _, elem := range b.namedChildren(tsNode) {
			node.Elements = append(node.Elements, b.buildExpression(elem))
		}
		return node

	case "assignment_expression":
		node := b.newNode(NodeAssignment, tsNode)
		if left := b.childByFieldName(tsNode, "left"); left != nil {
			node.Left = b.buildExpression(left)
		}
		if right := b.childByFieldName(tsNode, "right"); right != nil {
			node.Right = b.buildExpression(right)
		}
		node.Operator = b.fieldText(tsNode, "operator")
		return node

	case "binary_expression":
		node := b.newNode(NodeBinaryExpression, tsNode)
		if left := b.childByFieldName(tsNode, "left"); left != nil {
			node.Left = b.buildExpression(left)
		}
		if right := b.childByFieldName(tsNode, "right"); right != nil {
			node.Right = b.buildExpression(right)
		}
		node.Operator = b.fieldText(tsNode, "operator")
		return node

	case "unary_expression":
		node := b.newNode(NodeUnaryExpression, tsNode)
		if operand := b.childByFieldName(tsNode, "operand"); operand != nil {
			node.Operand = b.buildExpression(operand)
		}
		node.Operator = b.fieldText(tsNode, "operator")
		return node

	case "update_expression":
		node := b.newNode(NodeUpdateExpression, tsNode)
		for i := 0; i < int(tsNode.ChildCount()); i++ {
			child := tsNode.Child(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "++", "--":
				node.Operator = child.Type()
			default:
				if child.IsNamed() && !b.isTrivia(child) {
					node.Operand = b.buildExpression(child)
				}
			}
		}
		return node

	case "cast_expression":
		node := b.newNode(NodeCastExpression, tsNode)
		node.TypeName = b.fieldText(tsNode, "type")
		if value := b.childByFieldName(tsNode, "value"); value != nil {
			node.Operand = b.buildExpression(value)
		}
		return node

	case "ternary_expression":
		node := b.newNode(NodeConditionalExpression, tsNode)
		if cond := b.childByFieldName(tsNode, "condition"); cond != nil {
			node.Test = b.buildExpression(cond)
		}
		if cons := b.childByFieldName(tsNode, "consequence"); cons != nil {
			node.Consequent = b.buildExpression(cons)
		}
		if alt := b.childByFieldName(tsNode, "alternative"); alt != nil {
			node.Alternate = b.buildExpression(alt)
		}
		return node

	case "instanceof_expression":
		node := b.newNode(NodeInstanceofExpression, tsNode)
		if left := b.childByFieldName(tsNode, "left"); left != nil {
			node.Left = b.buildExpression(left)
		}
		return node

	case "method_invocation":
		node := b.newNode(NodeMethodInvocation, tsNode)
		if obj := b.childByFieldName(tsNode, "object"); obj != nil {
			node.Object = b.buildExpression(obj)
		}
		node.Name = b.fieldText(tsNode, "name")
		node.Args = b.buildArgumentList(b.childByFieldName(tsNode, "arguments"))
		return node

	case "object_creation_expression":
		node := b.newNode(NodeObjectCreation, tsNode)
		node.TypeName = b.fieldText(tsNode, "type")
		node.Args = b.buildArgumentList(b.childByFieldName(tsNode, "arguments"))
		return node

	case "parenthesized_expression":
		node := b.newNode(NodeParenthesizedExpression, tsNode)
		if inner := tsNode.NamedChild(0); inner != nil {
			node.Operand = b.buildExpression(inner)
		}
		return node

	case "this":
		return b.newNode(NodeThisExpression, tsNode)

	case "super":
		return b.newNode(NodeSuperExpression, tsNode)

	case "lambda_expression":
		return b.newNode(NodeLambdaExpression, tsNode)

	case "method_reference":
		return b.newNode(NodeMethodReference, tsNode)

	case "class_literal":
		return b.newNode(NodeTypeLiteral, tsNode)

	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
		"binary_integer_literal", "decimal_floating_point_literal", "hex_floating_point_literal",
		"string_literal", "character_literal", "true", "false", "null_literal":
		return b.newNode(NodeLiteral, tsNode)

	default:
		return b.newNode(NodeType(tsNode.Type()), tsNode)
	}
}

func (b *ASTBuilder) buildArgumentList(tsNode *sitter.Node) []*Node {
	if tsNode == nil {
		return nil
	}
	var args []*Node
	for _, child := range b.namedChildren(tsNode) {
		args = append(args, b.buildExpression(child))
	}
	return args
}

// Helpers

func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// excerpt returns a trimmed single-line snippet of the node's source text.
func (b *ASTBuilder) excerpt(tsNode *sitter.Node) string {
	text := tsNode.Content(b.source)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i] + " ..."
	}
	text = strings.TrimSpace(text)
	if len(text) > maxExcerptLen {
		text = text[:maxExcerptLen-3] + "..."
	}
	return text
}

// childByFieldName gets a child node by field name
func (b *ASTBuilder) childByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// childrenByFieldName gets all children carrying the given field name
func (b *ASTBuilder) childrenByFieldName(tsNode *sitter.Node, fieldName string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			out = append(out, child)
		}
	}
	return out
}

func (b *ASTBuilder) firstNamedChildOfType(tsNode *sitter.Node, childType string) *sitter.Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && child.Type() == childType {
			return child
		}
	}
	return nil
}

func (b *ASTBuilder) namedChildren(tsNode *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			out = append(out, child)
		}
	}
	return out
}

func (b *ASTBuilder) fieldText(tsNode *sitter.Node, fieldName string) string {
	if child := b.childByFieldName(tsNode, fieldName); child != nil {
		return child.Content(b.source)
	}
	return ""
}

func (b *ASTBuilder) optionalIdentifier(tsNode *sitter.Node) string {
	if id := b.firstNamedChildOfType(tsNode, "identifier"); id != nil {
		return id.Content(b.source)
	}
	return ""
}

// isTrivia checks if a node is trivia (comments)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "block_comment" ||
		nodeType == ""
}
