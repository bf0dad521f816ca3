package spreadsheet

import (
	"errors"
	"fmt"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

var (
	// ErrCircularDependency is matched by every *CircularDependencyError
	ErrCircularDependency = errors.New("spreadsheet: circular dependency")

	// ErrSheetClosed is returned by mutations on a sheet after Close
	ErrSheetClosed = errors.New("spreadsheet: sheet is closed")

	// ErrDetachedCell is returned when mutating a *Cell whose slot was
	// removed from the sheet after the caller obtained it
	ErrDetachedCell = errors.New("spreadsheet: cell is no longer part of the sheet")
)

// CircularDependencyError reports a rejected formula. Via is the referenced
// position that would have closed the cycle.
type CircularDependencyError struct {
	Pos grid.Position
	Via grid.Position
}

func (e *CircularDependencyError) Error() string {
	if e.Pos == e.Via {
		return fmt.Sprintf("spreadsheet: circular dependency: %s references itself", e.Pos)
	}
	return fmt.Sprintf("spreadsheet: circular dependency: %s would reference %s, which depends on it", e.Pos, e.Via)
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}
