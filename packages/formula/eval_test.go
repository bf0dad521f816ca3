package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// mapReader serves cell values from a map keyed by A1 address
type mapReader map[string]grid.Value

func (m mapReader) Value(pos grid.Position) grid.Value {
	return m[pos.String()]
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1+2", 3},
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"10-4-3", 3},
		{"10-(4-3)", 9},
		{"8/2/2", 2},
		{"2^3^2", 512},
		{"-2^2", 4},
		{"-(2^2)", -4},
		{"--3", 3},
		{"7/2", 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := mustParse(t, tt.expr).Evaluate(mapReader{})
			assert.Equal(t, grid.NumberValue(tt.want), got)
		})
	}
}

func TestEvaluateReferences(t *testing.T) {
	cells := mapReader{
		"A1": grid.NumberValue(5),
		"A2": grid.TextValue("3"),
		"A3": grid.TextValue("abc"),
		"A4": grid.ErrorValue(grid.ErrorCodeDiv0),
		"A5": grid.TextValue(" 2.5 "),
	}

	tests := []struct {
		expr string
		want grid.Value
	}{
		{"A1+1", grid.NumberValue(6)},
		{"A1*A2", grid.NumberValue(15)},
		{"B9", grid.NumberValue(0)},
		{"B9+1", grid.NumberValue(1)},
		{"A3+1", grid.ErrorValue(grid.ErrorCodeValue)},
		{"A3", grid.ErrorValue(grid.ErrorCodeValue)},
		{"A4+1", grid.ErrorValue(grid.ErrorCodeDiv0)},
		{"-A4", grid.ErrorValue(grid.ErrorCodeDiv0)},
		{"A5*2", grid.NumberValue(5)},
		{"A20000", grid.ErrorValue(grid.ErrorCodeRef)},
		{"A20000+A3", grid.ErrorValue(grid.ErrorCodeRef)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.expr).Evaluate(cells))
		})
	}
}

func TestEvaluateDivisionErrors(t *testing.T) {
	cells := mapReader{"A1": grid.NumberValue(0)}

	assert.Equal(t, grid.ErrorValue(grid.ErrorCodeDiv0), mustParse(t, "1/0").Evaluate(cells))
	assert.Equal(t, grid.ErrorValue(grid.ErrorCodeDiv0), mustParse(t, "1/A1").Evaluate(cells))
	assert.Equal(t, grid.ErrorValue(grid.ErrorCodeDiv0), mustParse(t, "10^400").Evaluate(cells))
	assert.Equal(t, grid.ErrorValue(grid.ErrorCodeDiv0), mustParse(t, "MOD(5,0)").Evaluate(cells))
}

func TestEvaluateFunctions(t *testing.T) {
	cells := mapReader{
		"A1": grid.NumberValue(1),
		"A2": grid.NumberValue(2),
		"A3": grid.NumberValue(3),
		"B1": grid.TextValue("label"),
		"B2": grid.NumberValue(10),
		"C1": grid.ErrorValue(grid.ErrorCodeNum),
		"D1": grid.TextValue("4"),
	}

	tests := []struct {
		expr string
		want grid.Value
	}{
		{"SUM(A1:A3)", grid.NumberValue(6)},
		{"SUM(A1:A3,10)", grid.NumberValue(16)},
		{"SUM(A1:B3)", grid.NumberValue(16)},
		{"SUM(A1:A3,C1)", grid.ErrorValue(grid.ErrorCodeNum)},
		{"SUM(A1:C1)", grid.ErrorValue(grid.ErrorCodeNum)},
		{"SUM(B1)", grid.ErrorValue(grid.ErrorCodeValue)},
		{"SUM(D1)", grid.NumberValue(4)},
		{"SUM(D1:D1)", grid.NumberValue(0)},
		{"SUM(A1:A20000)", grid.ErrorValue(grid.ErrorCodeRef)},
		{"MIN(A1:B3)", grid.NumberValue(1)},
		{"MAX(A1:B3)", grid.NumberValue(10)},
		{"MAX(E1:E5)", grid.NumberValue(0)},
		{"AVERAGE(A1:A3)", grid.NumberValue(2)},
		{"AVERAGE(E1:E5)", grid.ErrorValue(grid.ErrorCodeDiv0)},
		{"COUNT(A1:B3)", grid.NumberValue(4)},
		{"COUNT(A1:C1,D1,B1,C1)", grid.NumberValue(2)},
		{"ABS(-4)", grid.NumberValue(4)},
		{"ROUND(2.5)", grid.NumberValue(3)},
		{"ROUND(-2.5)", grid.NumberValue(-3)},
		{"ROUND(3.14159,2)", grid.NumberValue(3.14)},
		{"ROUND(1234,-2)", grid.NumberValue(1200)},
		{"SQRT(16)", grid.NumberValue(4)},
		{"SQRT(-1)", grid.ErrorValue(grid.ErrorCodeNum)},
		{"POWER(2,10)", grid.NumberValue(1024)},
		{"MOD(7,3)", grid.NumberValue(1)},
		{"MOD(-7,3)", grid.NumberValue(2)},
		{"MOD(7,-3)", grid.NumberValue(-2)},
		{"SUM(A1,MAX(A2:A3))*2", grid.NumberValue(8)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.expr).Evaluate(cells))
		})
	}
}
