// Package spreadsheet implements a single sheet of cells holding text or
// formulas, with dependency tracking between formula cells, cycle rejection
// and cached formula values that are invalidated when their inputs change.
package spreadsheet

import (
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vogtb/go-sheetgraph/packages/formula"
	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// Sheet owns a sparse, row-major grid of cells. rows grow independently, so
// a short row has no cells past its length. a Sheet is not safe for
// concurrent use; see SyncSheet.
type Sheet struct {
	id     string
	cells  [][]*Cell
	parser FormulaParser

	// releaser is the parser when it also tracks formula lifetimes
	releaser formulaReleaser

	logger     *zap.Logger
	registerer prometheus.Registerer
	metrics    *metrics

	liveCells int
	closed    bool
}

// New creates an empty sheet
func New(opts ...Option) *Sheet {
	s := &Sheet{
		id:     uuid.New().String(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.parser == nil {
		s.parser = NewFormulaTable()
	}
	if releaser, ok := s.parser.(formulaReleaser); ok {
		s.releaser = releaser
	}
	s.logger = s.logger.With(zap.String("sheet", s.id))
	if s.registerer != nil {
		s.metrics = newMetrics(s.registerer, s.id)
	}

	return s
}

// ID returns the random identifier attached to the sheet's logs and metrics
func (s *Sheet) ID() string {
	return s.id
}

// SetCell sets the content of the cell at pos, creating it if needed. errors
// from the cell are returned unchanged. a cell created by a failed call is
// removed again.
func (s *Sheet) SetCell(pos grid.Position, text string) error {
	err := s.setCell(pos, text)
	s.metrics.observeMutation(opSet, err)
	return err
}

func (s *Sheet) setCell(pos grid.Position, text string) error {
	if err := grid.CheckPosition("SetCell", pos); err != nil {
		return err
	}
	if s.closed {
		return ErrSheetClosed
	}

	fresh := s.cellAt(pos) == nil
	cell := s.ensureCell(pos)
	err := cell.set(text)
	if err != nil && fresh && cell.removable() {
		s.removeCell(pos)
	}
	return err
}

// GetCell returns the cell at pos, or nil if there is none. an error is
// only returned for an invalid position.
func (s *Sheet) GetCell(pos grid.Position) (*Cell, error) {
	if err := grid.CheckPosition("GetCell", pos); err != nil {
		return nil, err
	}
	return s.cellAt(pos), nil
}

// ClearCell empties the cell at pos. the slot is released unless some
// formula still reads the cell.
func (s *Sheet) ClearCell(pos grid.Position) error {
	err := s.clearCell(pos)
	s.metrics.observeMutation(opClear, err)
	return err
}

func (s *Sheet) clearCell(pos grid.Position) error {
	if err := grid.CheckPosition("ClearCell", pos); err != nil {
		return err
	}
	if s.closed {
		return ErrSheetClosed
	}

	cell := s.cellAt(pos)
	if cell == nil {
		return nil
	}
	if err := cell.set(""); err != nil {
		return err
	}
	if cell.removable() {
		s.removeCell(pos)
	}
	return nil
}

// Value implements formula.CellReader. positions outside the grid read as
// #REF!, absent cells as empty text.
func (s *Sheet) Value(pos grid.Position) grid.Value {
	if !pos.IsValid() {
		return grid.ErrorValue(grid.ErrorCodeRef)
	}
	cell := s.cellAt(pos)
	if cell == nil {
		return grid.TextValue("")
	}
	return cell.GetValue()
}

// GetPrintableSize returns the smallest box anchored at A1 that covers every
// cell with non-empty text
func (s *Sheet) GetPrintableSize() grid.Size {
	return s.boundingBox(func(c *Cell) bool {
		return c.GetText() != ""
	})
}

// GetActualSize returns the smallest box anchored at A1 that covers every
// present cell, including empty placeholders
func (s *Sheet) GetActualSize() grid.Size {
	return s.boundingBox(func(*Cell) bool {
		return true
	})
}

func (s *Sheet) boundingBox(counts func(*Cell) bool) grid.Size {
	var size grid.Size
	for row, cells := range s.cells {
		for col := len(cells) - 1; col >= 0; col-- {
			if cells[col] == nil || !counts(cells[col]) {
				continue
			}
			size.Rows = row + 1
			size.Cols = max(size.Cols, col+1)
			break
		}
	}
	return size
}

// Close clears every cell and releases the grid. further mutations fail
// with ErrSheetClosed.
func (s *Sheet) Close() {
	if s.closed {
		return
	}

	// break every edge before any cell goes away
	for _, row := range s.cells {
		for _, cell := range row {
			if cell == nil {
				continue
			}
			cell.detachEdges()
			s.releaseContent(cell.content)
			cell.content = emptyContent{}
		}
	}

	s.cells = nil
	s.liveCells = 0
	s.closed = true
	s.metrics.setLiveCells(0)
	s.logger.Debug("sheet closed")
}

// newContent classifies text into the content it stands for
func (s *Sheet) newContent(text string) (content, error) {
	if text == "" {
		return emptyContent{}, nil
	}
	if len(text) > 1 && text[0] == formulaSign {
		expr := text[1:]
		f, err := s.parser.Parse(expr)
		if err != nil {
			if !errors.Is(err, formula.ErrSyntax) {
				err = &formula.SyntaxError{Expr: expr, Reason: err.Error()}
			}
			return nil, err
		}
		return &formulaContent{formula: f}, nil
	}
	return newTextContent(text), nil
}

// releaseContent tells the parser that a formula is no longer used
func (s *Sheet) releaseContent(c content) {
	fc, ok := c.(*formulaContent)
	if !ok || s.releaser == nil {
		return
	}
	s.releaser.Release(fc.formula)
}

// cellAt returns the cell at a valid pos, or nil
func (s *Sheet) cellAt(pos grid.Position) *Cell {
	if !pos.IsValid() || pos.Row >= len(s.cells) {
		return nil
	}
	row := s.cells[pos.Row]
	if pos.Col >= len(row) {
		return nil
	}
	return row[pos.Col]
}

// ensureCell returns the cell at a valid pos, growing the grid and creating
// an empty cell if needed
func (s *Sheet) ensureCell(pos grid.Position) *Cell {
	if cell := s.cellAt(pos); cell != nil {
		return cell
	}

	if pos.Row >= len(s.cells) {
		s.cells = append(s.cells, make([][]*Cell, pos.Row+1-len(s.cells))...)
	}
	if pos.Col >= len(s.cells[pos.Row]) {
		s.cells[pos.Row] = append(s.cells[pos.Row], make([]*Cell, pos.Col+1-len(s.cells[pos.Row]))...)
	}

	cell := newCell(s, pos)
	s.cells[pos.Row][pos.Col] = cell
	s.liveCells++
	s.metrics.setLiveCells(s.liveCells)
	return cell
}

// removeCell releases the slot at pos. the grid keeps its dimensions.
func (s *Sheet) removeCell(pos grid.Position) {
	if s.cellAt(pos) == nil {
		return
	}
	s.cells[pos.Row][pos.Col] = nil
	s.liveCells--
	s.metrics.setLiveCells(s.liveCells)
	s.logger.Debug("cell reclaimed", zap.Stringer("cell", pos))
}
