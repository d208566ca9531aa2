// Package eqnorm provides a deterministic symbolic expression kernel used to
// canonicalize equation strings for deduplication.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Automatic evaluation on construction (flattening, like terms, powers)
//   - Deterministic ordering: commutative permutations print identically
//   - Output in the familiar "x**2 + 2*x" infix syntax
package eqnorm

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	Subs(old, repl Expr) Expr
	Equal(other Expr) bool
	exprType() string
	encode() *jsonNode
}

// ============================================================
// Num — exact rational or inexact float literal
// ============================================================

// Num is a numeric atom. Literals written with a decimal point or an
// exponent are inexact and stay inexact through arithmetic.
type Num struct {
	val     *big.Rat
	inexact bool
}

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("eqnorm: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat returns an inexact number. f must be finite.
func NFloat(f float64) *Num {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		panic("eqnorm: non-finite float")
	}
	return &Num{val: r, inexact: true}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Equal(other Expr) bool { return Compare(n, other) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return !n.inexact && n.val.IsInt() }
func (n *Num) IsRational() bool      { return !n.inexact }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) isExactOne() bool { return !n.inexact && n.IsOne() }

func (n *Num) Subs(old, repl Expr) Expr {
	if n.Equal(old) {
		return repl
	}
	return n
}

func (n *Num) String() string {
	if n.inexact {
		return formatFloat(n.Float64())
	}
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

// formatFloat keeps a decimal point so 2.0 never prints like the integer 2.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

func (n *Num) encode() *jsonNode {
	return &jsonNode{Type: n.exprType(), Value: n.String(), Inexact: n.inexact}
}

func numAdd(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Add(a.val, b.val), inexact: a.inexact || b.inexact}
}
func numMul(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Mul(a.val, b.val), inexact: a.inexact || b.inexact}
}
func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), inexact: a.inexact} }
func numAbs(a *Num) *Num { return &Num{val: new(big.Rat).Abs(a.val), inexact: a.inexact} }
func numCmp(a, b *Num) int {
	if c := a.val.Cmp(b.val); c != 0 {
		return c
	}
	switch {
	case a.inexact == b.inexact:
		return 0
	case a.inexact:
		return 1
	default:
		return -1
	}
}

// maxIntExponent is the largest |k| for which b**k is folded exactly.
const maxIntExponent = 1024

// numPow folds b**e when the result is representable; ok is false when the
// power must stay symbolic (irrational roots, negative bases under roots,
// division by zero, overflow).
func numPow(b, e *Num) (*Num, bool) {
	if b.inexact || e.inexact {
		r := math.Pow(b.Float64(), e.Float64())
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, false
		}
		return NFloat(r), true
	}
	if b.IsZero() && !e.IsPositive() {
		return nil, false
	}
	if e.val.IsInt() {
		return ratPowInt(b.val, e.val.Num())
	}
	if b.IsNegative() {
		return nil, false
	}
	q := e.val.Denom()
	if !q.IsInt64() || q.Int64() > 64 {
		return nil, false
	}
	num, ok1 := nthRootExact(b.val.Num(), q.Int64())
	den, ok2 := nthRootExact(b.val.Denom(), q.Int64())
	if !ok1 || !ok2 {
		return nil, false
	}
	return ratPowInt(new(big.Rat).SetFrac(num, den), e.val.Num())
}

func ratPowInt(b *big.Rat, k *big.Int) (*Num, bool) {
	if k.CmpAbs(big.NewInt(maxIntExponent)) > 0 {
		return nil, false
	}
	abs := new(big.Int).Abs(k)
	num := new(big.Int).Exp(b.Num(), abs, nil)
	den := new(big.Int).Exp(b.Denom(), abs, nil)
	if k.Sign() < 0 {
		if num.Sign() == 0 {
			return nil, false
		}
		num, den = den, num
	}
	return &Num{val: new(big.Rat).SetFrac(num, den)}, true
}

// nthRootExact returns the integer n-th root of x >= 0 when x is a perfect
// power, found by Newton iteration from above.
func nthRootExact(x *big.Int, n int64) (*big.Int, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	if x.BitLen() <= 1 {
		return new(big.Int).Set(x), true
	}
	if n == 2 {
		r := new(big.Int).Sqrt(x)
		return r, new(big.Int).Mul(r, r).Cmp(x) == 0
	}
	bn, bn1 := big.NewInt(n), big.NewInt(n-1)
	r := new(big.Int).Lsh(big.NewInt(1), uint((x.BitLen()+int(n)-1)/int(n)))
	for {
		next := new(big.Int).Exp(r, bn1, nil)
		next.Quo(x, next)
		next.Add(next, new(big.Int).Mul(bn1, r))
		next.Quo(next, bn)
		if next.Cmp(r) >= 0 {
			break
		}
		r = next
	}
	return r, new(big.Int).Exp(r, bn, nil).Cmp(x) == 0
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Equal(other Expr) bool { return Compare(s, other) == 0 }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) encode() *jsonNode     { return &jsonNode{Type: s.exprType(), Name: s.name} }
func (s *Sym) Subs(old, repl Expr) Expr {
	if s.Equal(old) {
		return repl
	}
	return s
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	type like struct {
		coeff *Num
		rest  Expr
	}
	numAccum := N(0)
	groups := []*like{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := splitCoeff(t)
		merged := false
		for _, g := range groups {
			if g.rest.Equal(rest) {
				g.coeff = numAdd(g.coeff, coeff)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, &like{coeff: coeff, rest: rest})
		}
	}

	result := make([]Expr, 0, len(groups)+1)
	for _, g := range groups {
		if g.coeff.IsZero() {
			continue
		}
		result = append(result, withCoeff(g.coeff, g.rest))
	}
	sort.SliceStable(result, func(i, j int) bool { return compareTerms(result[i], result[j]) < 0 })
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			b.WriteString(s)
		case strings.HasPrefix(s, "-"):
			b.WriteString(" - ")
			b.WriteString(s[1:])
		default:
			b.WriteString(" + ")
			b.WriteString(s)
		}
	}
	return b.String()
}

func (a *Add) Subs(old, repl Expr) Expr {
	if a.Equal(old) {
		return repl
	}
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Subs(old, repl)
	}
	return AddOf(newTerms...)
}

func (a *Add) Equal(other Expr) bool { return Compare(a, other) == 0 }
func (a *Add) exprType() string      { return "add" }
func (a *Add) encode() *jsonNode {
	return &jsonNode{Type: a.exprType(), Args: encodeAll(a.terms)}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// splitCoeff separates the leading numeric coefficient of a product.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) < 2 {
		return N(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 2 {
		return c, m.factors[1]
	}
	return c, &Mul{factors: m.factors[1:]}
}

// withCoeff rebuilds c*rest for an already canonical rest.
func withCoeff(c *Num, rest Expr) Expr {
	if c.isExactOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{c}, m.factors...)}
	}
	if _, ok := rest.(*Add); ok {
		return MulOf(c, rest)
	}
	return &Mul{factors: []Expr{c, rest}}
}

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		switch s := f.Simplify().(type) {
		case *Mul:
			flat = append(flat, s.factors...)
		case *Add:
			c, rest := primitive(s)
			flat = append(flat, c, rest)
		default:
			flat = append(flat, s)
		}
	}

	type power struct{ base, exp Expr }
	coeff := N(1)
	var expArgs []Expr
	powers := []*power{}
	for _, f := range flat {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
			continue
		case *Func:
			if v.name == "exp" && len(v.args) == 1 {
				expArgs = append(expArgs, v.args[0])
				continue
			}
		}
		base, exp := splitPow(f)
		merged := false
		for _, p := range powers {
			if p.base.Equal(base) {
				p.exp = AddOf(p.exp, exp)
				merged = true
				break
			}
		}
		if !merged {
			powers = append(powers, &power{base: base, exp: exp})
		}
	}

	others := make([]Expr, 0, len(powers)+1)
	var pending []Expr
	place := func(e Expr) {
		switch v := e.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			pending = append(pending, v.factors...)
		case *Add:
			c, rest := primitive(v)
			coeff = numMul(coeff, c)
			others = append(others, rest)
		case *Func:
			if v.name == "exp" && len(v.args) == 1 {
				expArgs = append(expArgs, v.args[0])
				return
			}
			others = append(others, v)
		default:
			others = append(others, v)
		}
	}
	for _, p := range powers {
		place(PowOf(p.base, p.exp))
	}
	if len(expArgs) > 0 {
		e := FuncOf("exp", AddOf(expArgs...))
		if f, ok := e.(*Func); ok && f.name == "exp" {
			others = append(others, f)
		} else {
			pending = append(pending, e)
		}
	}
	if len(pending) > 0 {
		return MulOf(append(append([]Expr{coeff}, others...), pending...)...)
	}

	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}
	sort.SliceStable(others, func(i, j int) bool { return Compare(others[i], others[j]) < 0 })

	if coeff.isExactOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	if len(others) == 1 && !coeff.inexact {
		if sum, ok := others[0].(*Add); ok {
			terms := make([]Expr, len(sum.terms))
			for i, t := range sum.terms {
				terms[i] = MulOf(coeff, t)
			}
			return AddOf(terms...)
		}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// primitive splits an exact sum into content*rest, where rest has coprime
// integer coefficients and a positive leading term. Sums holding a float
// are returned unchanged with content 1.
func primitive(a *Add) (*Num, Expr) {
	coeffs := make([]*big.Rat, len(a.terms))
	for i, t := range a.terms {
		c, ok := t.(*Num)
		if !ok {
			c, _ = splitCoeff(t)
		}
		if c.inexact {
			return N(1), a
		}
		coeffs[i] = c.val
	}

	g, l := new(big.Int), big.NewInt(1)
	for _, c := range coeffs {
		g.GCD(nil, nil, g, new(big.Int).Abs(c.Num()))
		d := c.Denom()
		lcm := new(big.Int).Mul(l, d)
		l = lcm.Quo(lcm, new(big.Int).GCD(nil, nil, l, d))
	}
	content := new(big.Rat).SetFrac(g, l)
	if coeffs[0].Sign() < 0 {
		content.Neg(content)
	}
	if content.Cmp(big.NewRat(1, 1)) == 0 {
		return N(1), a
	}

	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		c := &Num{val: new(big.Rat).Quo(coeffs[i], content)}
		if _, ok := t.(*Num); ok {
			terms[i] = c
			continue
		}
		_, rest := splitCoeff(t)
		terms[i] = withCoeff(c, rest)
	}
	return &Num{val: content}, AddOf(terms...)
}

func (m *Mul) String() string {
	coeff, rest := splitCoeff(m)
	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = numNeg(coeff)
	}
	var num, den []string
	switch {
	case coeff.inexact:
		num = append(num, coeff.String())
	case !coeff.IsOne():
		if c := coeff.val.Num(); c.Cmp(big.NewInt(1)) != 0 {
			num = append(num, c.String())
		}
		if !coeff.val.IsInt() {
			den = append(den, coeff.val.Denom().String())
		}
	}
	for _, f := range factorsOf(rest) {
		if p, ok := f.(*Pow); ok {
			if en, ok := p.exp.(*Num); ok && en.IsNegative() && !en.inexact {
				den = append(den, parenthesize(powRaw(p.base, numNeg(en)), precMul))
				continue
			}
		}
		num = append(num, parenthesize(f, precMul))
	}

	numStr := "1"
	if len(num) > 0 {
		numStr = strings.Join(num, "*")
	}
	switch len(den) {
	case 0:
		return sign + numStr
	case 1:
		return sign + numStr + "/" + den[0]
	default:
		return sign + numStr + "/(" + strings.Join(den, "*") + ")"
	}
}

func factorsOf(e Expr) []Expr {
	if m, ok := e.(*Mul); ok {
		return m.factors
	}
	return []Expr{e}
}

func (m *Mul) Subs(old, repl Expr) Expr {
	if m.Equal(old) {
		return repl
	}
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Subs(old, repl)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Equal(other Expr) bool { return Compare(m, other) == 0 }
func (m *Mul) exprType() string      { return "mul" }
func (m *Mul) encode() *jsonNode {
	return &jsonNode{Type: m.exprType(), Args: encodeAll(m.factors)}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// ============================================================
// Pow — base**exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// powRaw builds base**exp without evaluation (used by the printer).
func powRaw(base Expr, exp *Num) Expr {
	if exp.isExactOne() {
		return base
	}
	return &Pow{base: base, exp: exp}
}

func splitPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.isExactOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		if bn.isExactOne() {
			return N(1)
		}
		if expIsNum {
			if r, ok := numPow(bn, en); ok {
				return r
			}
		}
		return &Pow{base: base, exp: exp}
	}

	// Exponents only distribute over products and nested powers when the
	// outer exponent is an integer.
	if expIsNum && en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, en))
		case *Mul:
			fs := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				fs[i] = PowOf(f, en)
			}
			return MulOf(fs...)
		case *Func:
			if b.name == "exp" && len(b.args) == 1 {
				return FuncOf("exp", MulOf(en, b.args[0]))
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

var (
	ratHalf    = big.NewRat(1, 2)
	ratNegHalf = big.NewRat(-1, 2)
)

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok && !en.inexact {
		switch {
		case en.val.Cmp(ratHalf) == 0:
			return "sqrt(" + p.base.String() + ")"
		case en.val.Cmp(ratNegHalf) == 0 && !isZeroNum(p.base):
			return "1/sqrt(" + p.base.String() + ")"
		case en.IsNegOne():
			return "1/" + parenthesize(p.base, precMul)
		}
	}
	return parenthesize(p.base, precPow) + "**" + parenthesize(p.exp, precPow)
}

// isZeroNum reports a literal zero, whose root would re-read as 1/0.
func isZeroNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

func (p *Pow) Subs(old, repl Expr) Expr {
	if p.Equal(old) {
		return repl
	}
	return PowOf(p.base.Subs(old, repl), p.exp.Subs(old, repl))
}

func (p *Pow) Equal(other Expr) bool { return Compare(p, other) == 0 }
func (p *Pow) exprType() string      { return "pow" }
func (p *Pow) encode() *jsonNode {
	return &jsonNode{Type: p.exprType(), Args: encodeAll([]Expr{p.base, p.exp})}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func — named function applications
// ============================================================

type Func struct {
	name string
	args []Expr
}

func FuncOf(name string, args ...Expr) Expr { return (&Func{name: name, args: args}).Simplify() }

func ExpOf(arg Expr) Expr  { return FuncOf("exp", arg) }
func LogOf(arg Expr) Expr  { return FuncOf("log", arg) }
func AbsOf(arg Expr) Expr  { return FuncOf("Abs", arg) }
func SinOf(arg Expr) Expr  { return FuncOf("sin", arg) }
func CosOf(arg Expr) Expr  { return FuncOf("cos", arg) }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

// odd functions satisfy f(-x) = -f(x) and f(0) = 0.
var oddFuncs = map[string]bool{
	"sin": true, "tan": true, "asin": true, "atan": true,
	"sinh": true, "tanh": true, "asinh": true, "atanh": true,
}

// even functions satisfy f(-x) = f(x) and f(0) = 1.
var evenFuncs = map[string]bool{"cos": true, "cosh": true}

func (f *Func) Simplify() Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Simplify()
	}
	if len(args) != 1 {
		return &Func{name: f.name, args: args}
	}
	arg := args[0]
	switch {
	case f.name == "exp":
		if isNumEqual(arg, 0) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "log" && len(inner.args) == 1 {
			return inner.args[0]
		}
	case f.name == "log":
		if n, ok := arg.(*Num); ok && n.isExactOne() {
			return N(0)
		}
	case f.name == "Abs":
		if n, ok := arg.(*Num); ok {
			return numAbs(n)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "Abs" {
			return inner
		}
		if c, rest := splitCoeff(arg); !c.isExactOne() {
			return MulOf(numAbs(c), AbsOf(rest))
		}
	case oddFuncs[f.name]:
		if isNumEqual(arg, 0) {
			return N(0)
		}
		if isNegated(arg) {
			return MulOf(N(-1), FuncOf(f.name, MulOf(N(-1), arg)))
		}
	case evenFuncs[f.name]:
		if isNumEqual(arg, 0) {
			return N(1)
		}
		if isNegated(arg) {
			return FuncOf(f.name, MulOf(N(-1), arg))
		}
	}
	return &Func{name: f.name, args: args}
}

func isNegated(e Expr) bool {
	c, _ := splitCoeff(e)
	if n, ok := e.(*Num); ok {
		c = n
	}
	return c.IsNegative()
}

func (f *Func) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Func) Subs(old, repl Expr) Expr {
	if f.Equal(old) {
		return repl
	}
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Subs(old, repl)
	}
	return FuncOf(f.name, args...)
}

func (f *Func) Equal(other Expr) bool { return Compare(f, other) == 0 }
func (f *Func) exprType() string      { return "func" }
func (f *Func) encode() *jsonNode {
	return &jsonNode{Type: f.exprType(), Name: f.name, Args: encodeAll(f.args)}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Args() []Expr     { return append([]Expr(nil), f.args...) }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(big.NewRat(v, 1)) == 0
}

// ============================================================
// Printing precedence
// ============================================================

const (
	precAdd  = 40
	precMul  = 50
	precPow  = 60
	precAtom = 1000
)

func precedence(e Expr) int {
	switch v := e.(type) {
	case *Num:
		if v.IsNegative() {
			return precAdd
		}
		if !v.inexact && !v.val.IsInt() {
			return precMul
		}
		return precAtom
	case *Add:
		return precAdd
	case *Mul:
		if c, _ := splitCoeff(v); c.IsNegative() {
			return precAdd
		}
		return precMul
	case *Pow:
		return precPow
	}
	return precAtom
}

// parenthesize wraps e when it binds no tighter than level.
func parenthesize(e Expr, level int) string {
	if precedence(e) <= level {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// ============================================================
// Public helpers
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }

// Sub replaces the symbol varName with value.
func Sub(expr Expr, varName string, value Expr) Expr { return expr.Subs(S(varName), value) }
