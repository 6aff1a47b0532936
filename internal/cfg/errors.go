package cfg

import (
	"errors"
	"fmt"

	"github.com/jflow-dev/jflow/internal/parser"
)

var (
	// ErrUnsupportedConstruct reports a statement or expression kind the
	// builder does not model, such as try/catch or throw.
	ErrUnsupportedConstruct = errors.New("unsupported construct")

	// ErrInvariantViolation reports an internal inconsistency detected
	// during construction, such as leftover pending edges after assembly.
	ErrInvariantViolation = errors.New("control flow invariant violated")

	// ErrUnresolvedJump reports a break or continue whose target could not
	// be resolved from the enclosing statements.
	ErrUnresolvedJump = errors.New("unresolved jump")
)

func unsupportedConstruct(node *parser.Node) error {
	return fmt.Errorf("%w: %s at %s", ErrUnsupportedConstruct, node.Type, node.Location)
}

func invariantViolation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

func unresolvedJump(node *parser.Node, label string) error {
	if label != "" {
		return fmt.Errorf("%w: no enclosing statement labeled %q for %s at %s",
			ErrUnresolvedJump, label, node.Type, node.Location)
	}
	return fmt.Errorf("%w: no enclosing target for %s at %s",
		ErrUnresolvedJump, node.Type, node.Location)
}
