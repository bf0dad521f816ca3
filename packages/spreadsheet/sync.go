package spreadsheet

import (
	"io"
	"sync"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// SyncSheet serializes access to a Sheet. reading a formula value may fill
// its cache, so value reads take the write lock; text and size queries only
// take the read lock. no *Cell is handed out.
type SyncSheet struct {
	mu    sync.RWMutex
	sheet *Sheet
}

func NewSyncSheet(sheet *Sheet) *SyncSheet {
	return &SyncSheet{sheet: sheet}
}

func (s *SyncSheet) SetCell(pos grid.Position, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.SetCell(pos, text)
}

func (s *SyncSheet) ClearCell(pos grid.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.ClearCell(pos)
}

func (s *SyncSheet) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet.Close()
}

// GetValue returns the value of the cell at pos. absent cells read as empty
// text.
func (s *SyncSheet) GetValue(pos grid.Position) (grid.Value, error) {
	if err := grid.CheckPosition("GetValue", pos); err != nil {
		return grid.Value{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.Value(pos), nil
}

// GetText returns the canonical text of the cell at pos, "" if absent
func (s *SyncSheet) GetText(pos grid.Position) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cell, err := s.sheet.GetCell(pos)
	if err != nil || cell == nil {
		return "", err
	}
	return cell.GetText(), nil
}

func (s *SyncSheet) GetPrintableSize() grid.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet.GetPrintableSize()
}

func (s *SyncSheet) GetActualSize() grid.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet.GetActualSize()
}

func (s *SyncSheet) PrintValues(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.PrintValues(w)
}

func (s *SyncSheet) PrintTexts(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet.PrintTexts(w)
}
