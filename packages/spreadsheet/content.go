package spreadsheet

import (
	"github.com/vogtb/go-sheetgraph/packages/formula"
	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// escapeSign marks text that would otherwise be read as a formula
const escapeSign = '\''

// formulaSign starts every formula cell
const formulaSign = '='

// content is what a cell holds. the set of implementations is closed:
// emptyContent, textContent and formulaContent.
type content interface {
	value(r formula.CellReader) grid.Value
	text() string
	referencedCells() []grid.Position
}

type emptyContent struct{}

func (emptyContent) value(formula.CellReader) grid.Value { return grid.TextValue("") }
func (emptyContent) text() string                        { return "" }
func (emptyContent) referencedCells() []grid.Position    { return nil }

type textContent struct {
	raw string
}

func newTextContent(raw string) *textContent {
	if raw == "" {
		panic("spreadsheet: text content cannot be empty")
	}
	return &textContent{raw: raw}
}

func (c *textContent) value(formula.CellReader) grid.Value {
	if c.raw[0] == escapeSign {
		return grid.TextValue(c.raw[1:])
	}
	return grid.TextValue(c.raw)
}

func (c *textContent) text() string                     { return c.raw }
func (c *textContent) referencedCells() []grid.Position { return nil }

// formulaContent holds a parsed formula and the value it last evaluated to.
// a nil cache means the value has to be recomputed.
type formulaContent struct {
	formula Formula
	cache   *grid.Value
}

func (c *formulaContent) value(r formula.CellReader) grid.Value {
	if c.cache != nil {
		return *c.cache
	}
	v := c.formula.Evaluate(r)
	c.cache = &v
	return v
}

func (c *formulaContent) text() string {
	return string(formulaSign) + c.formula.GetExpression()
}

func (c *formulaContent) referencedCells() []grid.Position {
	return c.formula.GetReferencedCells()
}

// kindOf names the variant of c for logging
func kindOf(c content) string {
	switch c.(type) {
	case *textContent:
		return "text"
	case *formulaContent:
		return "formula"
	}
	return "empty"
}

// isEmpty reports whether c is the empty variant
func isEmpty(c content) bool {
	_, ok := c.(emptyContent)
	return ok
}
