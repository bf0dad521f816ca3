package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionIsValid(t *testing.T) {
	tests := []struct {
		pos   Position
		valid bool
	}{
		{Position{0, 0}, true},
		{Position{MaxRows - 1, MaxCols - 1}, true},
		{Position{-1, 0}, false},
		{Position{0, -1}, false},
		{Position{MaxRows, 0}, false},
		{Position{0, MaxCols}, false},
		{None, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.pos.IsValid(), "%+v", tt.pos)
	}
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "A1", Position{0, 0}.String())
	assert.Equal(t, "B3", Position{2, 1}.String())
	assert.Equal(t, "Z1", Position{0, 25}.String())
	assert.Equal(t, "AA1", Position{0, 26}.String())
	assert.Equal(t, "XFD16384", Position{MaxRows - 1, MaxCols - 1}.String())
	assert.Equal(t, "#REF!", Position{-1, 4}.String())
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input string
		want  Position
	}{
		{"A1", Position{0, 0}},
		{"b3", Position{2, 1}},
		{"AA10", Position{9, 26}},
		{"$C$4", Position{3, 2}},
		{"XFD16384", Position{MaxRows - 1, MaxCols - 1}},
	}

	for _, tt := range tests {
		got, err := ParsePosition(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParsePositionOutOfBounds(t *testing.T) {
	pos, err := ParsePosition("A20000")
	require.NoError(t, err)
	assert.False(t, pos.IsValid())

	pos, err = ParsePosition("ZZZZ1")
	require.NoError(t, err)
	assert.False(t, pos.IsValid())
}

func TestParsePositionMalformed(t *testing.T) {
	for _, input := range []string{"", "1A", "A", "A0", "A1B", "hello world"} {
		_, err := ParsePosition(input)
		assert.Error(t, err, input)
	}
}

func TestParsePositionRoundTrip(t *testing.T) {
	for _, pos := range []Position{{0, 0}, {99, 51}, {1234, 701}, {MaxRows - 1, 0}} {
		parsed, err := ParsePosition(pos.String())
		require.NoError(t, err)
		assert.Equal(t, pos, parsed)
	}
}

func TestPositionLess(t *testing.T) {
	assert.True(t, Position{0, 5}.Less(Position{1, 0}))
	assert.True(t, Position{1, 0}.Less(Position{1, 1}))
	assert.False(t, Position{1, 1}.Less(Position{1, 1}))
}

func TestValueVariants(t *testing.T) {
	var zero Value
	assert.True(t, zero.IsEmpty())
	assert.Equal(t, KindText, zero.Kind())

	text := TextValue("hello")
	s, ok := text.Text()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)
	_, ok = text.Number()
	assert.False(t, ok)

	num := NumberValue(2.5)
	f, ok := num.Number()
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	errVal := ErrorValue(ErrorCodeDiv0)
	code, ok := errVal.Error()
	assert.True(t, ok)
	assert.Equal(t, ErrorCodeDiv0, code)
	assert.Equal(t, "#DIV/0!", errVal.String())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "6", FormatNumber(6))
	assert.Equal(t, "-3", FormatNumber(-3))
	assert.Equal(t, "0.5", FormatNumber(0.5))
	assert.Equal(t, "0.1", FormatNumber(0.1))
	assert.Equal(t, "1E+15", FormatNumber(1e15))
	assert.Equal(t, "1.5E-07", FormatNumber(1.5e-7))
	assert.Equal(t, "+Inf", FormatNumber(math.Inf(1)))
}

func TestCheckPosition(t *testing.T) {
	assert.NoError(t, CheckPosition("SetCell", Position{1, 1}))

	err := CheckPosition("SetCell", Position{-1, 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	var posErr *InvalidPositionError
	require.True(t, errors.As(err, &posErr))
	assert.Equal(t, "SetCell", posErr.Op)
}
