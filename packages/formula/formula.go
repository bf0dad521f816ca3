// Package formula parses and evaluates the numeric spreadsheet formula
// language: arithmetic over numbers and cell references, parentheses and a
// small set of built-in functions.
package formula

import (
	"slices"
	"strings"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// CellReader supplies the current value of any cell a formula reads
type CellReader interface {
	Value(pos grid.Position) grid.Value
}

// Formula is a parsed, immutable formula expression
type Formula struct {
	root ASTNode
	refs []grid.Position
	expr string
}

// Parse parses expr, the formula text without its leading '='. the returned
// error is always a *SyntaxError.
func Parse(expr string) (*Formula, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, &SyntaxError{Expr: expr, Reason: "empty expression"}
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return nil, &SyntaxError{Expr: expr, Reason: err.Error()}
	}

	parser := NewParser(tokens)
	root, err := parser.Parse()
	if err != nil {
		return nil, &SyntaxError{Expr: expr, Reason: err.Error()}
	}

	return &Formula{
		root: root,
		refs: parser.ReferencedCells(),
		expr: root.ToString(),
	}, nil
}

// Evaluate computes the formula against r. the result is always a number or
// an error Value; evaluation problems are never reported as Go errors.
func (f *Formula) Evaluate(r CellReader) grid.Value {
	num, code := toNumber(f.root.Eval(r))
	if code != 0 {
		return grid.ErrorValue(code)
	}
	return grid.NumberValue(num)
}

// GetExpression returns the canonical text of the formula without the
// leading '='. it parses back to an identical formula.
func (f *Formula) GetExpression() string {
	return f.expr
}

// GetReferencedCells returns the cells the formula reads, duplicate-free in
// the order they first appear
func (f *Formula) GetReferencedCells() []grid.Position {
	return slices.Clone(f.refs)
}

// Root exposes the parsed tree
func (f *Formula) Root() ASTNode {
	return f.root
}
