package eqnorm

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ParseError reports where an expression string stopped making sense.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at column %d: %s", e.Pos+1, e.Msg)
}

// Parse reads an infix expression and returns it in evaluated form.
//
// Grammar (low to high precedence):
//  1. + - (binary)
//  2. * /
//  3. unary + -
//  4. ** or ^ (right associative; -x**2 is -(x**2))
//  5. primaries: numbers, identifiers, calls f(a, b), (...)
func Parse(s string) (Expr, error) {
	p := &Parser{src: s}
	p.skipSpaces()
	if p.pos >= len(p.src) {
		return nil, p.errorf("empty expression")
	}
	e, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected trailing input %q", p.remaining(20))
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// Parser is a recursive-descent parser over a single expression string.
type Parser struct {
	src string
	pos int
}

func (p *Parser) errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Input: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *Parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *Parser) hasPrefix(s string) bool { return strings.HasPrefix(p.src[p.pos:], s) }

func (p *Parser) remaining(max int) string {
	r := p.src[p.pos:]
	if len(r) > max {
		r = r[:max] + "..."
	}
	return r
}

func (p *Parser) skipSpaces() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *Parser) parseAddSub() (Expr, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}
			left = AddOf(left, right)
		case '-':
			p.pos++
			right, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}
			left = AddOf(left, MulOf(N(-1), right))
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseMulDiv() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		switch {
		case p.peek() == '*' && p.peekAt(1) != '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		case p.peek() == '/':
			if p.peekAt(1) == '/' {
				return nil, p.errorf("floor division is not supported")
			}
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, PowOf(right, N(-1)))
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	p.skipSpaces()
	switch p.peek() {
	case '+':
		p.pos++
		return p.parseUnary()
	case '-':
		p.pos++
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), child), nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	switch {
	case p.hasPrefix("**"):
		p.pos += 2
	case p.peek() == '^':
		p.pos++
	default:
		return base, nil
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	p.skipSpaces()
	c := p.peek()
	switch {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case isDigit(c) || (c == '.' && isDigit(p.peekAt(1))):
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseIdent()
	case c == '(':
		p.pos++
		e, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return e, nil
	}
	return nil, p.errorf("unexpected character %q", c)
}

func (p *Parser) parseNumber() (Expr, error) {
	start := p.pos
	inexact := false
	for isDigit(p.peek()) {
		p.pos++
	}
	if p.peek() == '.' {
		inexact = true
		p.pos++
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		off := 1
		if s := p.peekAt(1); s == '+' || s == '-' {
			off = 2
		}
		if isDigit(p.peekAt(off)) {
			inexact = true
			p.pos += off
			for isDigit(p.peek()) {
				p.pos++
			}
		}
	}
	lit := p.src[start:p.pos]
	if isIdentStart(p.peek()) {
		return nil, p.errorf("invalid number literal %q", lit+string(p.peek()))
	}
	if inexact {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil || math.IsInf(f, 0) {
			return nil, &ParseError{Input: p.src, Pos: start, Msg: fmt.Sprintf("number out of range %q", lit)}
		}
		return NFloat(f), nil
	}
	v, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return nil, &ParseError{Input: p.src, Pos: start, Msg: fmt.Sprintf("invalid integer %q", lit)}
	}
	return &Num{val: new(big.Rat).SetInt(v)}, nil
}

func (p *Parser) parseIdent() (Expr, error) {
	start := p.pos
	for isIdentStart(p.peek()) || isDigit(p.peek()) {
		p.pos++
	}
	name := p.src[start:p.pos]
	p.skipSpaces()
	if p.peek() != '(' {
		return S(name), nil
	}
	p.pos++
	var args []Expr
	p.skipSpaces()
	if p.peek() == ')' {
		return nil, p.errorf("function %s called without arguments", name)
	}
	for {
		arg, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpaces()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		if p.peek() != ')' {
			return nil, p.errorf("expected ',' or ')' in call to %s", name)
		}
		p.pos++
		break
	}
	e, err := call(name, args)
	if err != nil {
		return nil, &ParseError{Input: p.src, Pos: start, Msg: err.Error()}
	}
	return e, nil
}

// call maps the builtin spellings onto kernel constructors. Unknown names
// become opaque functions.
func call(name string, args []Expr) (Expr, error) {
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s takes %d argument(s), got %d", name, n, len(args))
		}
		return nil
	}
	switch name {
	case "sqrt":
		if err := arity(1); err != nil {
			return nil, err
		}
		return SqrtOf(args[0]), nil
	case "pow":
		if err := arity(2); err != nil {
			return nil, err
		}
		return PowOf(args[0], args[1]), nil
	case "exp":
		if err := arity(1); err != nil {
			return nil, err
		}
		return ExpOf(args[0]), nil
	case "log", "ln":
		switch len(args) {
		case 1:
			return LogOf(args[0]), nil
		case 2:
			return MulOf(LogOf(args[0]), PowOf(LogOf(args[1]), N(-1))), nil
		}
		return nil, fmt.Errorf("%s takes 1 or 2 arguments, got %d", name, len(args))
	case "Abs", "abs":
		if err := arity(1); err != nil {
			return nil, err
		}
		return AbsOf(args[0]), nil
	}
	return FuncOf(name, args...), nil
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
