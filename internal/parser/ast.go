package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// Java AST node types. Statement and expression kinds form closed sets:
// the CFG builder and its variable-access recorder switch exhaustively over
// them and fail on anything else.
const (
	// Program and declarations
	NodeProgram                NodeType = "Program"
	NodeClassDeclaration       NodeType = "ClassDeclaration"
	NodeInterfaceDeclaration   NodeType = "InterfaceDeclaration"
	NodeEnumDeclaration        NodeType = "EnumDeclaration"
	NodeMethodDeclaration      NodeType = "MethodDeclaration"
	NodeConstructorDeclaration NodeType = "ConstructorDeclaration"
	NodeFieldDeclaration       NodeType = "FieldDeclaration"

	// Statements
	NodeBlockStatement        NodeType = "BlockStatement"
	NodeExpressionStatement   NodeType = "ExpressionStatement"
	NodeVariableDeclaration   NodeType = "VariableDeclaration"
	NodeIfStatement           NodeType = "IfStatement"
	NodeWhileStatement        NodeType = "WhileStatement"
	NodeDoWhileStatement      NodeType = "DoWhileStatement"
	NodeForStatement          NodeType = "ForStatement"
	NodeEnhancedForStatement  NodeType = "EnhancedForStatement"
	NodeSwitchStatement       NodeType = "SwitchStatement"
	NodeSwitchCase            NodeType = "SwitchCase"
	NodeBreakStatement        NodeType = "BreakStatement"
	NodeContinueStatement     NodeType = "ContinueStatement"
	NodeReturnStatement       NodeType = "ReturnStatement"
	NodeLabeledStatement      NodeType = "LabeledStatement"
	NodeSynchronizedStatement NodeType = "SynchronizedStatement"
	NodeAssertStatement       NodeType = "AssertStatement"
	NodeEmptyStatement        NodeType = "EmptyStatement"
	NodeConstructorInvocation NodeType = "ConstructorInvocation"
	NodeThrowStatement        NodeType = "ThrowStatement"
	NodeTryStatement          NodeType = "TryStatement"

	// Expressions
	NodeIdentifier                    NodeType = "Identifier"
	NodeQualifiedName                 NodeType = "QualifiedName"
	NodeFieldAccess                   NodeType = "FieldAccess"
	NodeArrayAccess                   NodeType = "ArrayAccess"
	NodeArrayCreation                 NodeType = "ArrayCreation"
	NodeArrayInitializer              NodeType = "ArrayInitializer"
	NodeAssignment                    NodeType = "Assignment"
	NodeBinaryExpression              NodeType = "BinaryExpression"
	NodeUnaryExpression               NodeType = "UnaryExpression"
	NodeUpdateExpression              NodeType = "UpdateExpression"
	NodeCastExpression                NodeType = "CastExpression"
	NodeConditionalExpression         NodeType = "ConditionalExpression"
	NodeInstanceofExpression          NodeType = "InstanceofExpression"
	NodeMethodInvocation              NodeType = "MethodInvocation"
	NodeObjectCreation                NodeType = "ObjectCreation"
	NodeParenthesizedExpression       NodeType = "ParenthesizedExpression"
	NodeThisExpression                NodeType = "ThisExpression"
	NodeSuperExpression               NodeType = "SuperExpression"
	NodeLiteral                       NodeType = "Literal"
	NodeTypeLiteral                   NodeType = "TypeLiteral"
	NodeVariableDeclarationExpression NodeType = "VariableDeclarationExpression"
	NodeVariableDeclarator            NodeType = "VariableDeclarator"
	NodeLambdaExpression              NodeType = "LambdaExpression"
	NodeMethodReference               NodeType = "MethodReference"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents a Java AST node
type Node struct {
	Type     NodeType
	Location Location
	Parent   *Node

	// ID is a stable key assigned in creation order by the AST builder.
	// The CFG builder uses it to key its deferred-edge registry instead of
	// relying on pointer identity.
	ID int

	// Text is a single-line source excerpt for the node, used for block
	// labels and diagnostics.
	Text string

	Name     string // identifier text, declared name, invoked method name
	Label    string // label on labeled/break/continue statements
	TypeName string // declared type for declarations; return type for methods

	// Statement structure
	Body       []*Node // block statements, class members, flattened switch body
	Stmt       *Node   // single body: loops, labeled, synchronized, method body
	Test       *Node   // condition of if/while/do/for, switch discriminant, case expression
	Consequent *Node   // then branch
	Alternate  *Node   // else branch
	Init       []*Node // for-statement initializers
	Update     []*Node // for-statement updaters
	Param      *Node   // enhanced-for loop variable
	Params     []*Node // method/constructor parameters
	Expr       *Node   // expression of expr-stmt/return/throw/assert/synchronized lock/enhanced-for iterable
	Message    *Node   // assert message expression

	// Expression structure
	Left        *Node
	Right       *Node
	Operand     *Node
	Operator    string
	Object      *Node   // receiver or qualifier
	Index       *Node   // array access index
	Args        []*Node // call/constructor arguments
	Elements    []*Node // array initializer elements, array creation dimensions
	Initializer *Node   // declarator or array creation initializer
	Fragments   []*Node // variable declaration fragments
	Default     bool    // switch case is the default label
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsLoop returns true for statements that continue can target
func (n *Node) IsLoop() bool {
	switch n.Type {
	case NodeWhileStatement, NodeDoWhileStatement, NodeForStatement, NodeEnhancedForStatement:
		return true
	}
	return false
}

// IsBreakable returns true for statements that an unlabeled break can target
func (n *Node) IsBreakable() bool {
	return n.IsLoop() || n.Type == NodeSwitchStatement
}

// IsMethodLike returns true for method and constructor declarations
func (n *Node) IsMethodLike() bool {
	return n.Type == NodeMethodDeclaration || n.Type == NodeConstructorDeclaration
}

// children returns every direct child node.
func (n *Node) children() []*Node {
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addAll := func(cs []*Node) {
		for _, c := range cs {
			add(c)
		}
	}
	addAll(n.Params)
	add(n.Param)
	addAll(n.Init)
	add(n.Test)
	addAll(n.Update)
	add(n.Expr)
	add(n.Message)
	add(n.Consequent)
	add(n.Alternate)
	add(n.Stmt)
	addAll(n.Body)
	add(n.Left)
	add(n.Right)
	add(n.Operand)
	add(n.Object)
	add(n.Index)
	addAll(n.Args)
	addAll(n.Elements)
	add(n.Initializer)
	addAll(n.Fragments)
	return out
}

// Walk traverses the AST depth-first and calls the visitor function for each
// node. If the visitor returns false, traversal of that branch is stopped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}
	for _, child := range n.children() {
		child.Walk(visitor)
	}
}

// LinkParents sets Parent pointers for the whole subtree rooted at n.
// The CFG builder walks ancestors to resolve break/continue targets.
// The AST builder calls this once per parse; callers constructing trees
// by hand must call it themselves.
func (n *Node) LinkParents() {
	for _, child := range n.children() {
		child.Parent = n
		child.LinkParents()
	}
}
