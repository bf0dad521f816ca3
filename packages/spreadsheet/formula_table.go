package spreadsheet

import (
	"github.com/vogtb/go-sheetgraph/packages/formula"
	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// Formula is a parsed expression as seen by a cell
type Formula interface {
	Evaluate(r formula.CellReader) grid.Value
	GetExpression() string
	GetReferencedCells() []grid.Position
}

// FormulaParser turns the text after '=' into a Formula. errors should match
// formula.ErrSyntax; anything else is wrapped into a *formula.SyntaxError.
type FormulaParser interface {
	Parse(expr string) (Formula, error)
}

// formulaReleaser is implemented by parsers that want to know when a cell
// stops using a formula
type formulaReleaser interface {
	Release(f Formula)
}

type formulaEntry struct {
	formula  *formula.Formula
	refCount int
}

// FormulaTable stores parsed formulas centrally. formulas with the same
// canonical expression share one parsed tree, reference counted by the cells
// using it.
type FormulaTable struct {
	index map[string]*formulaEntry // canonical expression -> entry
}

// NewFormulaTable creates a new formula table
func NewFormulaTable() *FormulaTable {
	return &FormulaTable{
		index: make(map[string]*formulaEntry),
	}
}

// Parse implements FormulaParser by interning expr
func (ft *FormulaTable) Parse(expr string) (Formula, error) {
	f, err := ft.Intern(expr)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Intern parses expr and returns the shared formula for its canonical form,
// incrementing its reference count
func (ft *FormulaTable) Intern(expr string) (*formula.Formula, error) {
	parsed, err := formula.Parse(expr)
	if err != nil {
		return nil, err
	}

	key := parsed.GetExpression()
	if entry, exists := ft.index[key]; exists {
		entry.refCount++
		return entry.formula, nil
	}

	ft.index[key] = &formulaEntry{formula: parsed, refCount: 1}
	return parsed, nil
}

// Release drops one reference to f. the entry is forgotten when its last
// reference goes away. formulas the table did not hand out are ignored.
func (ft *FormulaTable) Release(f Formula) {
	if f == nil {
		return
	}
	key := f.GetExpression()
	entry, exists := ft.index[key]
	if !exists || Formula(entry.formula) != f {
		return
	}

	entry.refCount--
	if entry.refCount <= 0 {
		delete(ft.index, key)
	}
}

// GetReferenceCount returns the number of cells using the formula with the
// given canonical expression
func (ft *FormulaTable) GetReferenceCount(expr string) int {
	if entry, exists := ft.index[expr]; exists {
		return entry.refCount
	}
	return 0
}

// Count returns the number of unique formulas
func (ft *FormulaTable) Count() int {
	return len(ft.index)
}

// TotalReferences returns the total number of references across all formulas
func (ft *FormulaTable) TotalReferences() int {
	total := 0
	for _, entry := range ft.index {
		total += entry.refCount
	}
	return total
}
