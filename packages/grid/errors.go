package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidPosition is matched by every error reporting a position outside
// the grid bounds
var ErrInvalidPosition = errors.New("grid: invalid position")

// InvalidPositionError reports which operation received an invalid position
type InvalidPositionError struct {
	Op  string
	Pos Position
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("grid: invalid position (row %d, col %d) passed to %s", e.Pos.Row, e.Pos.Col, e.Op)
}

func (e *InvalidPositionError) Is(target error) bool {
	return target == ErrInvalidPosition
}

// CheckPosition returns an *InvalidPositionError when pos is not valid
func CheckPosition(op string, pos Position) error {
	if !pos.IsValid() {
		return &InvalidPositionError{Op: op, Pos: pos}
	}
	return nil
}
