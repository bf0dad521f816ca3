package formula

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every error returned for formula text that cannot
// be parsed
var ErrSyntax = errors.New("formula: syntax error")

// SyntaxError carries the rejected expression and the reason it was rejected
type SyntaxError struct {
	Expr   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula: syntax error in %q: %s", e.Expr, e.Reason)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
