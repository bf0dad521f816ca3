package formula

import (
	"math"
	"strconv"
	"strings"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// argument is one evaluated function argument. a range argument carries
// every value of the range, a scalar argument exactly one.
type argument struct {
	values  []grid.Value
	isRange bool
}

type builtin struct {
	minArgs int
	maxArgs int // -1 for no limit
	ranges  bool
	call    func(args []argument) grid.Value
}

// builtins contains every function a formula may call, keyed by upper-case
// name
var builtins = map[string]builtin{
	"SUM":     {minArgs: 1, maxArgs: -1, ranges: true, call: sumFn},
	"MIN":     {minArgs: 1, maxArgs: -1, ranges: true, call: minFn},
	"MAX":     {minArgs: 1, maxArgs: -1, ranges: true, call: maxFn},
	"AVERAGE": {minArgs: 1, maxArgs: -1, ranges: true, call: averageFn},
	"COUNT":   {minArgs: 1, maxArgs: -1, ranges: true, call: countFn},
	"ABS":     {minArgs: 1, maxArgs: 1, call: absFn},
	"ROUND":   {minArgs: 1, maxArgs: 2, call: roundFn},
	"SQRT":    {minArgs: 1, maxArgs: 1, call: sqrtFn},
	"POWER":   {minArgs: 2, maxArgs: 2, call: powerFn},
	"MOD":     {minArgs: 2, maxArgs: 2, call: modFn},
}

// toNumber converts a cell value to a number for arithmetic. empty text is
// zero, other text must parse as a whole, and error values propagate. a
// non-zero ErrorCode reports failure.
func toNumber(v grid.Value) (float64, grid.ErrorCode) {
	switch v.Kind() {
	case grid.KindNumber:
		num, _ := v.Number()
		return num, 0
	case grid.KindError:
		code, _ := v.Error()
		return 0, code
	}

	text, _ := v.Text()
	if text == "" {
		return 0, 0
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, grid.ErrorCodeValue
	}
	return num, 0
}

// finite wraps a computed number, mapping NaN and infinities to #DIV/0!
func finite(num float64) grid.Value {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return grid.ErrorValue(grid.ErrorCodeDiv0)
	}
	return grid.NumberValue(num)
}

// collectNumbers flattens the arguments of an aggregate function. text and
// empty cells inside ranges are skipped; errors anywhere propagate.
func collectNumbers(args []argument) ([]float64, grid.ErrorCode) {
	var nums []float64
	for _, arg := range args {
		if !arg.isRange {
			num, code := toNumber(arg.values[0])
			if code != 0 {
				return nil, code
			}
			nums = append(nums, num)
			continue
		}

		for _, v := range arg.values {
			switch v.Kind() {
			case grid.KindError:
				code, _ := v.Error()
				return nil, code
			case grid.KindNumber:
				num, _ := v.Number()
				nums = append(nums, num)
			}
		}
	}
	return nums, 0
}

// scalars converts every argument of a fixed-arity function
func scalars(args []argument) ([]float64, grid.ErrorCode) {
	nums := make([]float64, len(args))
	for i, arg := range args {
		num, code := toNumber(arg.values[0])
		if code != 0 {
			return nil, code
		}
		nums[i] = num
	}
	return nums, 0
}

func sumFn(args []argument) grid.Value {
	nums, code := collectNumbers(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	sum := 0.0
	for _, num := range nums {
		sum += num
	}
	return finite(sum)
}

func minFn(args []argument) grid.Value {
	nums, code := collectNumbers(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	if len(nums) == 0 {
		return grid.NumberValue(0)
	}
	result := nums[0]
	for _, num := range nums[1:] {
		result = math.Min(result, num)
	}
	return grid.NumberValue(result)
}

func maxFn(args []argument) grid.Value {
	nums, code := collectNumbers(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	if len(nums) == 0 {
		return grid.NumberValue(0)
	}
	result := nums[0]
	for _, num := range nums[1:] {
		result = math.Max(result, num)
	}
	return grid.NumberValue(result)
}

func averageFn(args []argument) grid.Value {
	nums, code := collectNumbers(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	if len(nums) == 0 {
		return grid.ErrorValue(grid.ErrorCodeDiv0)
	}
	sum := 0.0
	for _, num := range nums {
		sum += num
	}
	return finite(sum / float64(len(nums)))
}

// countFn counts numeric values. unlike the other aggregates it never
// propagates errors, it just does not count them.
func countFn(args []argument) grid.Value {
	count := 0
	for _, arg := range args {
		for _, v := range arg.values {
			if v.Kind() == grid.KindNumber {
				count++
				continue
			}
			if arg.isRange || v.Kind() == grid.KindError || v.IsEmpty() {
				continue
			}
			if _, code := toNumber(v); code == 0 {
				count++
			}
		}
	}
	return grid.NumberValue(float64(count))
}

func absFn(args []argument) grid.Value {
	nums, code := scalars(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	return grid.NumberValue(math.Abs(nums[0]))
}

// roundFn rounds half away from zero to the given number of digits, which
// may be negative to round left of the decimal point
func roundFn(args []argument) grid.Value {
	nums, code := scalars(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	digits := 0.0
	if len(nums) > 1 {
		digits = math.Trunc(nums[1])
	}
	if digits < 0 {
		scale := math.Pow(10, -digits)
		return finite(math.Round(nums[0]/scale) * scale)
	}
	scale := math.Pow(10, digits)
	return finite(math.Round(nums[0]*scale) / scale)
}

func sqrtFn(args []argument) grid.Value {
	nums, code := scalars(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	if nums[0] < 0 {
		return grid.ErrorValue(grid.ErrorCodeNum)
	}
	return grid.NumberValue(math.Sqrt(nums[0]))
}

func powerFn(args []argument) grid.Value {
	nums, code := scalars(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	return finite(math.Pow(nums[0], nums[1]))
}

// modFn returns the remainder with the sign of the divisor
func modFn(args []argument) grid.Value {
	nums, code := scalars(args)
	if code != 0 {
		return grid.ErrorValue(code)
	}
	if nums[1] == 0 {
		return grid.ErrorValue(grid.ErrorCodeDiv0)
	}
	return finite(nums[0] - nums[1]*math.Floor(nums[0]/nums[1]))
}
