package spreadsheet

import (
	"go.uber.org/zap"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// Cell is one slot of a Sheet. it is created the first time its position is
// written or referenced by a formula, and lives until it is empty and no
// formula reads it any more.
type Cell struct {
	sheet   *Sheet
	pos     grid.Position
	content content

	// dependency edges, resolved through the sheet. incoming holds the cells
	// whose formulas read this one, outgoing the cells this formula reads.
	incoming map[grid.Position]struct{}
	outgoing map[grid.Position]struct{}
}

func newCell(sheet *Sheet, pos grid.Position) *Cell {
	return &Cell{
		sheet:    sheet,
		pos:      pos,
		content:  emptyContent{},
		incoming: make(map[grid.Position]struct{}),
		outgoing: make(map[grid.Position]struct{}),
	}
}

// Set replaces the content of the cell. text starting with '=' and at least
// one more character is parsed as a formula, the empty string clears the cell
// and anything else is stored as text. on error the previous content and
// dependencies are left untouched.
func (c *Cell) Set(text string) error {
	err := c.set(text)
	c.sheet.metrics.observeMutation(opSet, err)
	return err
}

// Clear is equivalent to Set("")
func (c *Cell) Clear() error {
	err := c.set("")
	c.sheet.metrics.observeMutation(opClear, err)
	return err
}

func (c *Cell) set(text string) error {
	s := c.sheet
	if s.closed {
		return ErrSheetClosed
	}
	if s.cellAt(c.pos) != c {
		return ErrDetachedCell
	}

	next, err := s.newContent(text)
	if err != nil {
		s.logger.Debug("syntax rejected",
			zap.Stringer("cell", c.pos),
			zap.String("text", text),
			zap.Error(err))
		return err
	}

	refs := next.referencedCells()
	if via, found := c.wouldIntroduceCircularDependency(refs); found {
		s.releaseContent(next)
		s.logger.Debug("cycle rejected",
			zap.Stringer("cell", c.pos),
			zap.Stringer("via", via))
		return &CircularDependencyError{Pos: c.pos, Via: via}
	}

	hadCache := c.hasCache()
	prev := c.content
	c.content = next
	s.releaseContent(prev)

	c.updateEdges(refs)
	invalidated := c.invalidateCache()
	if hadCache {
		invalidated++
	}
	s.metrics.observeInvalidated(invalidated)

	s.logger.Debug("cell committed",
		zap.Stringer("cell", c.pos),
		zap.String("kind", kindOf(next)),
		zap.Int("refs", len(refs)),
		zap.Int("invalidated", invalidated))
	return nil
}

// GetValue returns the value of the cell, evaluating and caching a formula
// when no cached result is available
func (c *Cell) GetValue() grid.Value {
	if fc, ok := c.content.(*formulaContent); ok {
		c.sheet.metrics.observeCacheLookup(fc.cache != nil)
	}
	return c.content.value(c.sheet)
}

// GetText returns the canonical text of the cell: the raw text including any
// escape apostrophe, '=' followed by the normalized expression, or "" for an
// empty cell.
func (c *Cell) GetText() string {
	return c.content.text()
}

// GetReferencedCells returns the cells read by the formula in this cell, in
// the order they first appear. non-formula cells reference nothing.
func (c *Cell) GetReferencedCells() []grid.Position {
	return c.content.referencedCells()
}

// IsReferenced reports whether any formula reads this cell
func (c *Cell) IsReferenced() bool {
	return len(c.incoming) > 0
}

func (c *Cell) GetPosition() grid.Position {
	return c.pos
}

// GetDependents returns the cells whose formulas read this one, in row-major
// order
func (c *Cell) GetDependents() []grid.Position {
	return sortedPositions(c.incoming)
}

// hasCache reports whether the cell holds a cached formula result
func (c *Cell) hasCache() bool {
	fc, ok := c.content.(*formulaContent)
	return ok && fc.cache != nil
}

// dropCache forgets the cached formula result. returns false if there was
// nothing to drop.
func (c *Cell) dropCache() bool {
	fc, ok := c.content.(*formulaContent)
	if !ok || fc.cache == nil {
		return false
	}
	fc.cache = nil
	return true
}

// removable reports whether the cell can give up its grid slot
func (c *Cell) removable() bool {
	return isEmpty(c.content) && !c.IsReferenced()
}
