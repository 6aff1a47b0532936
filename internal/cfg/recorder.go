package cfg

import "github.com/jflow-dev/jflow/internal/parser"

// recordAccess records the variables an expression touches onto block.
// flags is the access applied to names reached at this position; assignments
// override it with Write on their left side and Read on their right.
// Expression kinds outside the closed set are an explicit failure.
func (b *Builder) recordAccess(block *BasicBlock, node *parser.Node, flags AccessFlags) error {
	if node == nil {
		return nil
	}
	switch node.Type {
	case parser.NodeIdentifier, parser.NodeQualifiedName:
		block.addAccess(node, node.Name, flags)
		return nil

	case parser.NodeFieldAccess:
		block.addAccess(node, node.Text, flags)
		return nil

	case parser.NodeArrayAccess:
		if err := b.recordAccess(block, node.Object, flags); err != nil {
			return err
		}
		return b.recordAccess(block, node.Index, flags)

	case parser.NodeArrayCreation:
		if err := b.recordAccess(block, node.Initializer, flags); err != nil {
			return err
		}
		return b.recordAccesses(block, node.Elements, flags)

	case parser.NodeArrayInitializer:
		return b.recordAccesses(block, node.Elements, flags)

	case parser.NodeAssignment:
		if err := b.recordAccess(block, node.Left, Write); err != nil {
			return err
		}
		return b.recordAccess(block, node.Right, Read)

	case parser.NodeLiteral, parser.NodeTypeLiteral, parser.NodeThisExpression, parser.NodeSuperExpression:
		return nil

	case parser.NodeCastExpression:
		return b.recordAccess(block, node.Operand, flags)

	case parser.NodeObjectCreation:
		if err := b.recordAccess(block, node.Object, flags); err != nil {
			return err
		}
		return b.recordAccesses(block, node.Args, flags)

	case parser.NodeConditionalExpression:
		if err := b.recordAccess(block, node.Test, flags); err != nil {
			return err
		}
		if err := b.recordAccess(block, node.Consequent, flags); err != nil {
			return err
		}
		return b.recordAccess(block, node.Alternate, flags)

	case parser.NodeBinaryExpression:
		if err := b.recordAccess(block, node.Left, flags); err != nil {
			return err
		}
		return b.recordAccess(block, node.Right, flags)

	case parser.NodeInstanceofExpression:
		return b.recordAccess(block, node.Left, flags)

	case parser.NodeMethodInvocation:
		if err := b.recordAccess(block, node.Object, flags); err != nil {
			return err
		}
		return b.recordAccesses(block, node.Args, flags)

	case parser.NodeParenthesizedExpression:
		return b.recordAccess(block, node.Operand, flags)

	case parser.NodeUnaryExpression, parser.NodeUpdateExpression:
		return b.recordAccess(block, node.Operand, flags)

	case parser.NodeVariableDeclarationExpression:
		b.recordDeclarations(block, node)
		return nil

	default:
		return unsupportedConstruct(node)
	}
}

func (b *Builder) recordAccesses(block *BasicBlock, nodes []*parser.Node, flags AccessFlags) error {
	for _, n := range nodes {
		if err := b.recordAccess(block, n, flags); err != nil {
			return err
		}
	}
	return nil
}

// recordDeclarations records each declarator fragment: declared-uninitialized
// without an initializer, declared-initialized plus write with one.
func (b *Builder) recordDeclarations(block *BasicBlock, decl *parser.Node) {
	for _, frag := range decl.Fragments {
		flags := DeclUninit
		if frag.Initializer != nil {
			flags = DeclInit | Write
		}
		block.addAccess(frag, frag.Name, flags)
	}
}
