package formula

import (
	"fmt"
	"math"
	"strings"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// binding strength of each node kind, used to print the fewest parentheses
// that still parse back to the same tree
const (
	precAdditive = iota + 1
	precMultiplicative
	precPower
	precUnary
	precPrimary
)

// ASTNode is a parsed formula expression. nodes are immutable after parsing
// so one tree can be shared by every cell holding the same formula.
type ASTNode interface {
	Eval(r CellReader) grid.Value
	ToString() string
	precedence() int
}

// NumberNode represents a numeric literal
type NumberNode struct {
	Value float64
}

func (n *NumberNode) Eval(r CellReader) grid.Value {
	return grid.NumberValue(n.Value)
}

func (n *NumberNode) ToString() string {
	return grid.FormatNumber(n.Value)
}

func (n *NumberNode) precedence() int { return precPrimary }

// CellRefNode represents a reference to a single cell. a reference outside
// the grid keeps the text it was written with and evaluates to #REF!.
type CellRefNode struct {
	Pos grid.Position
	Ref string
}

func (n *CellRefNode) Eval(r CellReader) grid.Value {
	if !n.Pos.IsValid() {
		return grid.ErrorValue(grid.ErrorCodeRef)
	}
	return r.Value(n.Pos)
}

func (n *CellRefNode) ToString() string {
	return n.Ref
}

func (n *CellRefNode) precedence() int { return precPrimary }

// RangeNode represents a rectangular block of cells. it only appears as a
// function argument.
type RangeNode struct {
	Start grid.Position
	End   grid.Position
	Ref   string
}

// Eval reports #VALUE! because a range has no single value
func (n *RangeNode) Eval(r CellReader) grid.Value {
	return grid.ErrorValue(grid.ErrorCodeValue)
}

// Values reads every cell of the range in row-major order
func (n *RangeNode) Values(r CellReader) ([]grid.Value, grid.ErrorCode) {
	if !n.Start.IsValid() || !n.End.IsValid() {
		return nil, grid.ErrorCodeRef
	}
	values := make([]grid.Value, 0, n.size())
	for row := n.Start.Row; row <= n.End.Row; row++ {
		for col := n.Start.Col; col <= n.End.Col; col++ {
			values = append(values, r.Value(grid.Position{Row: row, Col: col}))
		}
	}
	return values, 0
}

// Positions lists the cells covered by the range in row-major order
func (n *RangeNode) Positions() []grid.Position {
	if !n.Start.IsValid() || !n.End.IsValid() {
		return nil
	}
	positions := make([]grid.Position, 0, n.size())
	for row := n.Start.Row; row <= n.End.Row; row++ {
		for col := n.Start.Col; col <= n.End.Col; col++ {
			positions = append(positions, grid.Position{Row: row, Col: col})
		}
	}
	return positions
}

func (n *RangeNode) size() int {
	return (n.End.Row - n.Start.Row + 1) * (n.End.Col - n.Start.Col + 1)
}

func (n *RangeNode) ToString() string {
	return n.Ref
}

func (n *RangeNode) precedence() int { return precPrimary }

// BinaryOp is an arithmetic infix operator
type BinaryOp uint8

const (
	BinOpAdd BinaryOp = iota
	BinOpSubtract
	BinOpMultiply
	BinOpDivide
	BinOpPower
)

func (op BinaryOp) String() string {
	switch op {
	case BinOpAdd:
		return "+"
	case BinOpSubtract:
		return "-"
	case BinOpMultiply:
		return "*"
	case BinOpDivide:
		return "/"
	case BinOpPower:
		return "^"
	}
	return "?"
}

func (op BinaryOp) precedence() int {
	switch op {
	case BinOpMultiply, BinOpDivide:
		return precMultiplicative
	case BinOpPower:
		return precPower
	default:
		return precAdditive
	}
}

// BinaryOpNode represents a binary operation
type BinaryOpNode struct {
	Op    BinaryOp
	Left  ASTNode
	Right ASTNode
}

func (n *BinaryOpNode) Eval(r CellReader) grid.Value {
	// both sides are always read so every referenced formula gets evaluated
	leftValue, rightValue := n.Left.Eval(r), n.Right.Eval(r)
	left, code := toNumber(leftValue)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	right, code := toNumber(rightValue)
	if code != 0 {
		return grid.ErrorValue(code)
	}

	var result float64
	switch n.Op {
	case BinOpAdd:
		result = left + right
	case BinOpSubtract:
		result = left - right
	case BinOpMultiply:
		result = left * right
	case BinOpDivide:
		if right == 0 {
			return grid.ErrorValue(grid.ErrorCodeDiv0)
		}
		result = left / right
	case BinOpPower:
		result = math.Pow(left, right)
	}
	return finite(result)
}

func (n *BinaryOpNode) ToString() string {
	prec := n.Op.precedence()

	left := n.Left.ToString()
	// ^ is right-associative so a power on the left needs its parentheses
	if n.Left.precedence() < prec || (n.Op == BinOpPower && n.Left.precedence() == prec) {
		left = "(" + left + ")"
	}

	right := n.Right.ToString()
	rightPrec := n.Right.precedence()
	if rightPrec < prec || (rightPrec == prec && (n.Op == BinOpSubtract || n.Op == BinOpDivide)) {
		right = "(" + right + ")"
	}

	return left + n.Op.String() + right
}

func (n *BinaryOpNode) precedence() int { return n.Op.precedence() }

// UnaryOpNode represents negation
type UnaryOpNode struct {
	Operand ASTNode
}

func (n *UnaryOpNode) Eval(r CellReader) grid.Value {
	num, code := toNumber(n.Operand.Eval(r))
	if code != 0 {
		return grid.ErrorValue(code)
	}
	return grid.NumberValue(-num)
}

func (n *UnaryOpNode) ToString() string {
	operand := n.Operand.ToString()
	if n.Operand.precedence() < precUnary {
		operand = "(" + operand + ")"
	}
	return "-" + operand
}

func (n *UnaryOpNode) precedence() int { return precUnary }

// FunctionCallNode represents a call to one of the built-in functions
type FunctionCallNode struct {
	Name string
	Args []ASTNode
}

func (n *FunctionCallNode) Eval(r CellReader) grid.Value {
	fn, ok := builtins[n.Name]
	if !ok {
		// the parser only builds calls to known functions
		panic(fmt.Sprintf("formula: unknown function %s", n.Name))
	}

	args := make([]argument, len(n.Args))
	var rangeErr grid.ErrorCode
	for i, argNode := range n.Args {
		if rng, ok := argNode.(*RangeNode); ok {
			values, code := rng.Values(r)
			if code != 0 && rangeErr == 0 {
				rangeErr = code
			}
			args[i] = argument{values: values, isRange: true}
			continue
		}
		args[i] = argument{values: []grid.Value{argNode.Eval(r)}}
	}
	if rangeErr != 0 {
		return grid.ErrorValue(rangeErr)
	}
	return fn.call(args)
}

func (n *FunctionCallNode) ToString() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.ToString()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ","))
}

func (n *FunctionCallNode) precedence() int { return precPrimary }
