package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"

	"github.com/vogtb/go-sheetgraph/packages/grid"
)

// MaxRangeCells caps how many cells a single range argument may cover
const MaxRangeCells = 65536

var errUnexpectedEnd = errors.New("unexpected end of expression")

// Parser turns the token stream of one formula into an AST while collecting
// the cells it reads
type Parser struct {
	tokens []efp.Token
	pos    int
	refs   []grid.Position
	seen   map[grid.Position]struct{}
}

// tokenize runs the efp tokenizer over expr. efp always discards the first
// token of its input, so an '=' is prepended and any '=' typed by the user
// stays in the stream where the parser rejects it.
func tokenize(expr string) (tokens []efp.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed expression: %v", r)
		}
	}()

	ps := efp.ExcelParser()
	for _, tok := range ps.Parse("=" + expr) {
		switch tok.TType {
		case efp.TokenTypeNoop, efp.TokenTypeWhitespace:
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// NewParser creates a parser over already tokenized input
func NewParser(tokens []efp.Token) *Parser {
	return &Parser{
		tokens: tokens,
		seen:   make(map[grid.Position]struct{}),
	}
}

// Parse parses the tokens into an AST
func (p *Parser) Parse() (ASTNode, error) {
	if len(p.tokens) == 0 {
		return nil, errors.New("empty expression")
	}

	node, err := p.parseAddition()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected token after expression: %s", describe(p.tokens[p.pos]))
	}
	return node, nil
}

// ReferencedCells returns the in-bounds cells read by the parsed expression
// in the order they were first seen
func (p *Parser) ReferencedCells() []grid.Position {
	return p.refs
}

func (p *Parser) peek() (efp.Token, bool) {
	if p.pos >= len(p.tokens) {
		return efp.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) peekInfix(ops ...string) (string, bool) {
	tok, ok := p.peek()
	if !ok || tok.TType != efp.TokenTypeOperatorInfix {
		return "", false
	}
	for _, op := range ops {
		if tok.TValue == op {
			return op, true
		}
	}
	return "", false
}

func (p *Parser) addRef(pos grid.Position) {
	if !pos.IsValid() {
		return
	}
	if _, ok := p.seen[pos]; ok {
		return
	}
	p.seen[pos] = struct{}{}
	p.refs = append(p.refs, pos)
}

// parseAddition handles addition and subtraction (lowest precedence)
func (p *Parser) parseAddition() (ASTNode, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}

	for {
		opText, ok := p.peekInfix("+", "-")
		if !ok {
			return left, nil
		}
		op := BinOpAdd
		if opText == "-" {
			op = BinOpSubtract
		}

		p.pos++
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: op, Left: left, Right: right}
	}
}

// parseMultiplication handles multiplication and division
func (p *Parser) parseMultiplication() (ASTNode, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		opText, ok := p.peekInfix("*", "/")
		if !ok {
			return left, nil
		}
		op := BinOpMultiply
		if opText == "/" {
			op = BinOpDivide
		}

		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: op, Left: left, Right: right}
	}
}

// parsePower handles exponentiation
func (p *Parser) parsePower() (ASTNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	// right-associative
	if _, ok := p.peekInfix("^"); ok {
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &BinaryOpNode{Op: BinOpPower, Left: left, Right: right}, nil
	}

	return left, nil
}

// parseUnary handles prefix negation
func (p *Parser) parseUnary() (ASTNode, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errUnexpectedEnd
	}

	if tok.TType == efp.TokenTypeOperatorPrefix {
		if tok.TValue != "-" {
			return nil, fmt.Errorf("unsupported prefix operator %q", tok.TValue)
		}
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{Operand: operand}, nil
	}

	return p.parsePrimary()
}

// parsePrimary handles literals, references, functions and parentheses
func (p *Parser) parsePrimary() (ASTNode, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errUnexpectedEnd
	}

	switch tok.TType {
	case efp.TokenTypeOperand:
		p.pos++
		return p.parseOperand(tok)

	case efp.TokenTypeFunction:
		if tok.TSubType != efp.TokenSubTypeStart {
			return nil, fmt.Errorf("unexpected token: %s", describe(tok))
		}
		return p.parseFunctionCall()

	case efp.TokenTypeSubexpression:
		if tok.TSubType != efp.TokenSubTypeStart {
			return nil, fmt.Errorf("unexpected token: %s", describe(tok))
		}
		p.pos++
		node, err := p.parseAddition()
		if err != nil {
			return nil, err
		}

		closing, ok := p.peek()
		if !ok || closing.TType != efp.TokenTypeSubexpression || closing.TSubType != efp.TokenSubTypeStop {
			return nil, errors.New("expected closing parenthesis")
		}
		p.pos++
		return node, nil

	default:
		return nil, fmt.Errorf("unexpected token: %s", describe(tok))
	}
}

// parseOperand handles number literals and single cell references. ranges
// are rejected here, parseArgument accepts them.
func (p *Parser) parseOperand(tok efp.Token) (ASTNode, error) {
	switch tok.TSubType {
	case efp.TokenSubTypeNumber:
		return p.ParseNumber(tok.TValue)
	case efp.TokenSubTypeText:
		return nil, fmt.Errorf("text literals are not supported: %q", tok.TValue)
	case efp.TokenSubTypeLogical:
		return nil, fmt.Errorf("logical literals are not supported: %s", tok.TValue)
	case efp.TokenSubTypeError:
		return nil, fmt.Errorf("error literals are not supported: %s", tok.TValue)
	}

	if strings.Contains(tok.TValue, ":") {
		return nil, fmt.Errorf("range %s is only allowed as a function argument", tok.TValue)
	}
	return p.ParseRef(tok.TValue)
}

// parseFunctionCall parses a function call
func (p *Parser) parseFunctionCall() (ASTNode, error) {
	funcTok := p.tokens[p.pos]
	name := strings.ToUpper(funcTok.TValue)
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown function: %s", funcTok.TValue)
	}
	p.pos++

	args := []ASTNode{}
	if tok, ok := p.peek(); ok && isFunctionStop(tok) {
		p.pos++
	} else {
		for {
			arg, err := p.parseArgument(name, fn)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			tok, ok := p.peek()
			if !ok {
				return nil, errors.New("unexpected end in function arguments")
			}
			p.pos++
			if isFunctionStop(tok) {
				break
			}
			if tok.TType != efp.TokenTypeArgument {
				return nil, fmt.Errorf("expected ',' or ')' in function arguments, got %s", describe(tok))
			}
		}
	}

	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, fmt.Errorf("wrong number of arguments to %s: %d", name, len(args))
	}
	return &FunctionCallNode{Name: name, Args: args}, nil
}

// parseArgument parses one function argument, which may be a range when the
// function aggregates
func (p *Parser) parseArgument(name string, fn builtin) (ASTNode, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("unexpected end in function arguments")
	}

	if tok.TType == efp.TokenTypeOperand && strings.Contains(tok.TValue, ":") {
		if next := p.pos + 1; next < len(p.tokens) && p.tokens[next].TType == efp.TokenTypeOperatorInfix {
			return nil, fmt.Errorf("range %s cannot be used in arithmetic", tok.TValue)
		}
		if !fn.ranges {
			return nil, fmt.Errorf("%s does not accept ranges", name)
		}
		p.pos++
		return p.ParseRange(tok.TValue)
	}

	return p.parseAddition()
}

// ParseNumber parses a numeric literal
func (p *Parser) ParseNumber(input string) (ASTNode, error) {
	// strconv also accepts "Inf", "NaN" and hex floats, none of which are
	// spreadsheet numbers
	if input == "" || !(input[0] == '.' || (input[0] >= '0' && input[0] <= '9')) {
		return nil, fmt.Errorf("invalid number: %s", input)
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsInf(val, 0) || strings.ContainsAny(input, "xXpP") {
		return nil, fmt.Errorf("invalid number: %s", input)
	}
	return &NumberNode{Value: val}, nil
}

// ParseRef parses an A1-style reference to a single cell
func (p *Parser) ParseRef(input string) (ASTNode, error) {
	pos, ref, err := parseCellAddress(input)
	if err != nil {
		return nil, err
	}
	p.addRef(pos)
	return &CellRefNode{Pos: pos, Ref: ref}, nil
}

// ParseRange parses an A1:B2 style range, normalizing it so the start is the
// top-left corner
func (p *Parser) ParseRange(input string) (ASTNode, error) {
	parts := strings.Split(input, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range: %s", input)
	}

	start, startRef, err := parseCellAddress(parts[0])
	if err != nil {
		return nil, err
	}
	end, endRef, err := parseCellAddress(parts[1])
	if err != nil {
		return nil, err
	}

	if !start.IsValid() || !end.IsValid() {
		return &RangeNode{Start: start, End: end, Ref: startRef + ":" + endRef}, nil
	}

	node := &RangeNode{
		Start: grid.Position{Row: min(start.Row, end.Row), Col: min(start.Col, end.Col)},
		End:   grid.Position{Row: max(start.Row, end.Row), Col: max(start.Col, end.Col)},
	}
	if node.size() > MaxRangeCells {
		return nil, fmt.Errorf("range %s covers more than %d cells", input, MaxRangeCells)
	}
	node.Ref = node.Start.String() + ":" + node.End.String()

	for _, pos := range node.Positions() {
		p.addRef(pos)
	}
	return node, nil
}

// parseCellAddress parses one cell address and returns its canonical
// upper-case spelling. the spelling is kept separately because addresses
// beyond the grid have no Position to print from.
func parseCellAddress(input string) (grid.Position, string, error) {
	pos, err := grid.ParsePosition(input)
	if err != nil {
		return grid.None, "", fmt.Errorf("invalid cell reference: %s", input)
	}
	if pos.IsValid() {
		return pos, pos.String(), nil
	}

	colName, row, err := excelize.SplitCellName(input)
	if err != nil {
		return grid.None, "", fmt.Errorf("invalid cell reference: %s", input)
	}
	return pos, strings.ToUpper(colName) + strconv.Itoa(row), nil
}

func isFunctionStop(tok efp.Token) bool {
	return tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStop
}

func describe(tok efp.Token) string {
	switch {
	case tok.TType == efp.TokenTypeOperatorInfix && tok.TSubType == efp.TokenSubTypeIntersection:
		return "space between operands"
	case tok.TType == efp.TokenTypeSubexpression && tok.TSubType == efp.TokenSubTypeStop,
		isFunctionStop(tok):
		return "')'"
	case tok.TType == efp.TokenTypeArgument:
		return "','"
	}
	return fmt.Sprintf("%q", tok.TValue)
}
