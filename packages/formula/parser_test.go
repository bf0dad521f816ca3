package formula

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

func mustParse(t *testing.T, expr string) *Formula {
	t.Helper()
	f, err := Parse(expr)
	require.NoError(t, err, expr)
	return f
}

func pos(t *testing.T, address string) grid.Position {
	t.Helper()
	p, err := grid.ParsePosition(address)
	require.NoError(t, err)
	return p
}

func TestParserBasicFormulas(t *testing.T) {
	validFormulas := []string{
		"1+2",
		"A1",
		"a1",
		"$B$2",
		"-A1",
		"--1",
		"+1",
		"1 + 2 * 3",
		"(1+2)*3",
		"2^3^2",
		"1.5E-07",
		"SUM(A1:A10)",
		"SUM(B2:A1)",
		"SUM(A1:A1)",
		"sum(A1, 2, B1:C3)",
		"MAX(1)",
		"ROUND(A1)",
		"ROUND(A1, 2)",
		"A20000",
		"SUM(A1:A20000)",
	}

	for _, formula := range validFormulas {
		t.Run(formula, func(t *testing.T) {
			_, err := Parse(formula)
			assert.NoError(t, err)
		})
	}
}

func TestParserInvalidFormulas(t *testing.T) {
	invalidFormulas := []string{
		"",
		"   ",
		"SUM(",
		"A1:",
		"1+",
		"(1+2",
		"1+2)",
		"=1",
		`"hello"`,
		"TRUE",
		"#REF!",
		"1%",
		"1&2",
		"1=2",
		"A1<B1",
		"A1 B1",
		"A1:B2",
		"A1:B2+1",
		"ABS(A1:B2)",
		"FOO(1)",
		"SUM()",
		"POWER(1)",
		"SQRT(1,2)",
		"Sheet2!A1",
		"hello",
		"inf",
		"NaN",
		"{1,2}",
		"SUM(A1:Z10000)",
	}

	for _, formula := range invalidFormulas {
		t.Run(formula, func(t *testing.T) {
			_, err := Parse(formula)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, formula, syntaxErr.Expr)
		})
	}
}

func TestCanonicalExpression(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "1+2"},
		{"(1+2)*3", "(1+2)*3"},
		{"((1))+(2)", "1+2"},
		{"1+(2+3)", "1+2+3"},
		{"1-(2-3)", "1-(2-3)"},
		{"1-(2+3)", "1-(2+3)"},
		{"(1-2)-3", "1-2-3"},
		{"1*(2*3)", "1*2*3"},
		{"1/(2*3)", "1/(2*3)"},
		{"(1/2)/3", "1/2/3"},
		{"1+2*3", "1+2*3"},
		{"(1+2)^2", "(1+2)^2"},
		{"2^3^2", "2^3^2"},
		{"(2^3)^2", "(2^3)^2"},
		{"-(1+2)", "-(1+2)"},
		{"-(2^2)", "-(2^2)"},
		{"(-2)^2", "-2^2"},
		{"2*-1", "2*-1"},
		{"a1+$b$2", "A1+B2"},
		{"sum(b3:a1, 1.50)", "SUM(A1:B3,1.5)"},
		{"0.1+.5", "0.1+0.5"},
		{"1000000000000000", "1E+15"},
		{"1.5E-7", "1.5E-07"},
		{"a20000+1", "A20000+1"},
		{"+3", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := mustParse(t, tt.input)
			assert.Equal(t, tt.want, f.GetExpression())
		})
	}
}

func TestCanonicalExpressionRoundTrip(t *testing.T) {
	inputs := []string{
		"1-(2-3)*4/(5/6)",
		"-(-A1)^-B2",
		"(2^3)^2+2^3^2",
		"SUM(A1:C3,MAX(B1,-C1),AVERAGE(D4:D1))/COUNT(A1:A3)",
		"MOD(ROUND(A1/3,2),POWER(2,-1))",
		"1234567.5*0.000012",
		"ZZZZ1+1",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := mustParse(t, input)
			second := mustParse(t, first.GetExpression())
			assert.Equal(t, first.GetExpression(), second.GetExpression())
			assert.Equal(t, first.GetReferencedCells(), second.GetReferencedCells())
		})
	}
}

func TestReferencedCells(t *testing.T) {
	f := mustParse(t, "B2+A1+B2+SUM(A1:B2)")
	assert.Equal(t, []grid.Position{
		pos(t, "B2"),
		pos(t, "A1"),
		pos(t, "B1"),
		pos(t, "A2"),
	}, f.GetReferencedCells())

	// out of range references are not reported
	f = mustParse(t, "A20000+C1+SUM(A1:A20000)")
	assert.Equal(t, []grid.Position{pos(t, "C1")}, f.GetReferencedCells())

	f = mustParse(t, "1+2")
	assert.Empty(t, f.GetReferencedCells())
}

func TestReferencedCellsIsCopy(t *testing.T) {
	f := mustParse(t, "A1+B1")
	refs := f.GetReferencedCells()
	refs[0] = grid.None
	assert.Equal(t, pos(t, "A1"), f.GetReferencedCells()[0])
}

func TestParseTree(t *testing.T) {
	f := mustParse(t, "1+2*A1")
	root, ok := f.Root().(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, BinOpAdd, root.Op)

	right, ok := root.Right.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, BinOpMultiply, right.Op)

	ref, ok := right.Right.(*CellRefNode)
	require.True(t, ok)
	assert.Equal(t, grid.Position{Row: 0, Col: 0}, ref.Pos)
}
