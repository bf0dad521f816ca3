package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vogtb/go-sheetgraph/packages/grid"
	"github.com/vogtb/go-sheetgraph/packages/spreadsheet"
)

// maxLineSize bounds a single script line
const maxLineSize = 1 << 20

var errUnknownCommand = errors.New("unknown command")

// scriptRunner executes script commands against one sheet
type scriptRunner struct {
	sheet  *spreadsheet.Sheet
	out    io.Writer
	errOut io.Writer

	keepGoing bool
	failures  int
}

// run executes every line of r. it stops at the first failing command
// unless keepGoing is set, in which case failures are reported to errOut
// and counted.
func (sr *scriptRunner) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := sr.exec(scanner.Text()); err != nil {
			err = fmt.Errorf("line %d: %w", lineNo, err)
			if !sr.keepGoing {
				return err
			}
			sr.failures++
			fmt.Fprintln(sr.errOut, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	if sr.failures > 0 {
		return fmt.Errorf("%d of the script commands failed", sr.failures)
	}
	return nil
}

// exec runs a single script line
func (sr *scriptRunner) exec(line string) error {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	command, rest, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
	switch command {
	case "set":
		// the text is everything after the address, verbatim
		address, text, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
		pos, err := parseAddress(address)
		if err != nil {
			return err
		}
		return sr.sheet.SetCell(pos, text)

	case "clear":
		pos, err := parseAddress(strings.TrimSpace(rest))
		if err != nil {
			return err
		}
		return sr.sheet.ClearCell(pos)

	case "print":
		return sr.print(strings.TrimSpace(rest))

	case "size":
		_, err := fmt.Fprintln(sr.out, sr.sheet.GetPrintableSize())
		return err
	}
	return fmt.Errorf("%w %q", errUnknownCommand, command)
}

func (sr *scriptRunner) print(mode string) error {
	switch mode {
	case printValues:
		return sr.sheet.PrintValues(sr.out)
	case printTexts:
		return sr.sheet.PrintTexts(sr.out)
	case printBoth:
		if err := sr.sheet.PrintValues(sr.out); err != nil {
			return err
		}
		return sr.sheet.PrintTexts(sr.out)
	case printNone:
		return nil
	}
	return fmt.Errorf("invalid print mode %q", mode)
}

func parseAddress(address string) (grid.Position, error) {
	if address == "" {
		return grid.None, errors.New("missing cell address")
	}
	return grid.ParsePosition(address)
}
