package spreadsheet

import (
	"bufio"
	"io"
)

// PrintValues writes the value of every cell in the printable area, one
// line per row with columns separated by tabs. absent cells print nothing.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printCells(w, func(c *Cell) string {
		return c.GetValue().String()
	})
}

// PrintTexts is like PrintValues but writes the canonical text of each cell
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printCells(w, (*Cell).GetText)
}

func (s *Sheet) printCells(w io.Writer, render func(*Cell) string) error {
	size := s.GetPrintableSize()
	out := bufio.NewWriter(w)

	for row := 0; row < size.Rows; row++ {
		var cells []*Cell
		if row < len(s.cells) {
			cells = s.cells[row]
		}
		for col := 0; col < size.Cols; col++ {
			if col > 0 {
				out.WriteByte('\t')
			}
			if col < len(cells) && cells[col] != nil {
				out.WriteString(render(cells[col]))
			}
		}
		out.WriteByte('\n')
	}

	return out.Flush()
}
