package grid

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// grid bounds, exclusive. both axes share the excelize column ceiling so
// every valid Position also has an A1 name.
const (
	MaxRows = 16384
	MaxCols = 16384
)

// Position is a zero-based (row, column) cell address
type Position struct {
	Row int
	Col int
}

// None is the canonical invalid position
var None = Position{Row: -1, Col: -1}

// IsValid reports whether the position lies inside the grid bounds
func (p Position) IsValid() bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < MaxRows && p.Col < MaxCols
}

// Less orders positions row-major
func (p Position) Less(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

// String renders the position in A1 notation. invalid positions render as
// the reference error code.
func (p Position) String() string {
	if !p.IsValid() {
		return ErrorMapper[ErrorCodeRef]
	}
	name, err := excelize.CoordinatesToCellName(p.Col+1, p.Row+1)
	if err != nil {
		return ErrorMapper[ErrorCodeRef]
	}
	return name
}

// ParsePosition parses an A1-style address ("B7", "aa10", "$C$3") into a
// Position. a well-formed address outside the grid bounds parses without
// error and yields a Position for which IsValid is false; callers decide
// whether that is a #REF! or a hard failure.
func ParsePosition(address string) (Position, error) {
	trimmed := strings.TrimSpace(address)
	colName, row, err := excelize.SplitCellName(trimmed)
	if err != nil {
		return None, fmt.Errorf("grid: invalid cell address %q", address)
	}

	col, err := excelize.ColumnNameToNumber(colName)
	if err != nil {
		// column letters are well-formed but past the excelize ceiling
		if isLetters(colName) {
			return Position{Row: row - 1, Col: MaxCols}, nil
		}
		return None, fmt.Errorf("grid: invalid cell address %q", address)
	}

	return Position{Row: row - 1, Col: col - 1}, nil
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !(ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z') {
			return false
		}
	}
	return true
}

// Size is a bounding box measured from the top-left corner of the grid
type Size struct {
	Rows int
	Cols int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}
