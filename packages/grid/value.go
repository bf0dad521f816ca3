package grid

import (
	"math"
	"strconv"
)

// ErrorCode represents the spreadsheet error categories a formula can
// evaluate to, following Excel conventions
type ErrorCode uint8

const (
	ErrorCodeRef   ErrorCode = 1 // #REF! - invalid or out-of-range cell reference
	ErrorCodeValue ErrorCode = 2 // #VALUE! - wrong type of argument or operand
	ErrorCodeDiv0  ErrorCode = 3 // #DIV/0! - division by zero or non-finite result
	ErrorCodeNum   ErrorCode = 4 // #NUM! - invalid numeric argument to a function
)

// ErrorMapper maps error codes to their string representations
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeRef:   "#REF!",
	ErrorCodeValue: "#VALUE!",
	ErrorCodeDiv0:  "#DIV/0!",
	ErrorCodeNum:   "#NUM!",
}

func (c ErrorCode) String() string {
	if s, ok := ErrorMapper[c]; ok {
		return s
	}
	return "#ERROR!"
}

// ValueKind tags the variant held by a Value
type ValueKind uint8

const (
	KindText ValueKind = iota
	KindNumber
	KindError
)

// Value is what a cell shows: text, a number, or a formula evaluation
// error. the zero Value is empty text.
type Value struct {
	kind   ValueKind
	text   string
	number float64
	code   ErrorCode
}

// TextValue builds a text Value
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// NumberValue builds a numeric Value
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// ErrorValue builds an evaluation error Value
func ErrorValue(code ErrorCode) Value {
	return Value{kind: KindError, code: code}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// Text returns the text and true when v holds text
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Number returns the number and true when v holds a number
func (v Value) Number() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// Error returns the error code and true when v holds an evaluation error
func (v Value) Error() (ErrorCode, bool) {
	return v.code, v.kind == KindError
}

// IsEmpty reports whether v is empty text
func (v Value) IsEmpty() bool {
	return v.kind == KindText && v.text == ""
}

// String renders v the way a sheet prints it
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.number)
	case KindError:
		return v.code.String()
	default:
		return v.text
	}
}

// FormatNumber formats a number without unnecessary decimals. integers print
// without a decimal point, everything else in the shortest form that parses
// back to the same float64.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'G', -1, 64)
}
