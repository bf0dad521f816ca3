package spreadsheet

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

func TestSyncSheetConcurrentAccess(t *testing.T) {
	s := NewSyncSheet(New())
	require.NoError(t, s.SetCell(mustPos(t, "A1"), "1"))

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			for row := 1; row < 50; row++ {
				pos := grid.Position{Row: row, Col: col}
				above := grid.Position{Row: row - 1, Col: 0}
				assert.NoError(t, s.SetCell(pos, fmt.Sprintf("=%s+1", above)))
				_, err := s.GetValue(pos)
				assert.NoError(t, err)
				_, err = s.GetText(pos)
				assert.NoError(t, err)
				s.GetPrintableSize()
			}
		}(worker)
	}
	wg.Wait()

	value, err := s.GetValue(grid.Position{Row: 49, Col: 0})
	require.NoError(t, err)
	assert.Equal(t, grid.NumberValue(50), value)
	assert.Equal(t, grid.Size{Rows: 50, Cols: 8}, s.GetActualSize())
}

func TestSyncSheetAccessors(t *testing.T) {
	s := NewSyncSheet(New())
	require.NoError(t, s.SetCell(mustPos(t, "B2"), "=A1*2"))

	text, err := s.GetText(mustPos(t, "B2"))
	require.NoError(t, err)
	assert.Equal(t, "=A1*2", text)

	text, err = s.GetText(mustPos(t, "C9"))
	require.NoError(t, err)
	assert.Equal(t, "", text)

	value, err := s.GetValue(mustPos(t, "C9"))
	require.NoError(t, err)
	assert.True(t, value.IsEmpty())

	_, err = s.GetValue(grid.None)
	assert.ErrorIs(t, err, grid.ErrInvalidPosition)
	_, err = s.GetText(grid.None)
	assert.ErrorIs(t, err, grid.ErrInvalidPosition)

	var values, texts bytes.Buffer
	require.NoError(t, s.PrintValues(&values))
	require.NoError(t, s.PrintTexts(&texts))
	assert.Equal(t, "\t\n\t0\n", values.String())
	assert.Equal(t, "\t\n\t=A1*2\n", texts.String())
	assert.Equal(t, grid.Size{Rows: 2, Cols: 2}, s.GetPrintableSize())

	require.NoError(t, s.ClearCell(mustPos(t, "B2")))
	assert.Equal(t, grid.Size{}, s.GetActualSize())

	s.Close()
	assert.ErrorIs(t, s.SetCell(mustPos(t, "A1"), "1"), ErrSheetClosed)
}
