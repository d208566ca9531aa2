package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"github.com/heal-research/eqnorm"
)

// TextRule rewrites a raw line before it is parsed.
type TextRule interface {
	ApplyText(line string) (string, error)
}

// ExprRule rewrites a parsed expression.
type ExprRule interface {
	ApplyExpr(e eqnorm.Expr) eqnorm.Expr
}

// Literal replaces every occurrence of Old with New.
type Literal struct {
	Old, New string
}

func (r Literal) ApplyText(line string) (string, error) {
	return strings.ReplaceAll(line, r.Old, r.New), nil
}

// Regex is a pattern rewrite. Patterns support lookaround, so
// ` \+ 1(?![\d./*])` drops a trailing "+ 1" without touching "+ 1/x".
type Regex struct {
	re   *regexp2.Regexp
	repl string
}

func NewRegex(pattern, repl string) (*Regex, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return &Regex{re: re, repl: repl}, nil
}

func (r *Regex) ApplyText(line string) (string, error) {
	out, err := r.re.Replace(line, r.repl, -1, -1)
	if err != nil {
		return "", fmt.Errorf("regex %q: %w", r.re.String(), err)
	}
	return out, nil
}

// NFKC folds compatibility characters (fullwidth digits, superscripts) to
// their plain forms.
type NFKC struct{}

func (NFKC) ApplyText(line string) (string, error) { return norm.NFKC.String(line), nil }

// Substitute applies its pairs one after another, re-evaluating after each.
type Substitute struct {
	Pairs []eqnorm.Pair
}

func (r Substitute) ApplyExpr(e eqnorm.Expr) eqnorm.Expr { return eqnorm.SubsAll(e, r.Pairs) }

// CollapseLiterals replaces exact numbers that act as free coefficients by
// Param: direct arguments of sums and products, and of powers whose
// exponent is neither an integer nor 1/2. Discrete exponents (x**2, 1/x)
// and square roots keep their numbers.
type CollapseLiterals struct {
	Param eqnorm.Expr
}

func (r CollapseLiterals) ApplyExpr(e eqnorm.Expr) eqnorm.Expr {
	for _, lit := range literalArgs(e) {
		e = eqnorm.Subs(e, lit, r.Param)
	}
	return e
}

func literalArgs(e eqnorm.Expr) []eqnorm.Expr {
	var found []eqnorm.Expr
	collect := func(args []eqnorm.Expr) {
		for _, a := range args {
			n, ok := a.(*eqnorm.Num)
			if !ok || !n.IsRational() {
				continue
			}
			dup := false
			for _, f := range found {
				if f.Equal(n) {
					dup = true
					break
				}
			}
			if !dup {
				found = append(found, n)
			}
		}
	}
	eqnorm.Walk(e, func(node eqnorm.Expr) bool {
		switch v := node.(type) {
		case *eqnorm.Add, *eqnorm.Mul:
			collect(eqnorm.Args(v))
		case *eqnorm.Pow:
			if !isDiscreteExponent(v.ExpExpr()) {
				collect(eqnorm.Args(v))
			}
		}
		return true
	})
	sort.Slice(found, func(i, j int) bool { return eqnorm.Compare(found[i], found[j]) < 0 })
	return found
}

func isDiscreteExponent(e eqnorm.Expr) bool {
	n, ok := e.(*eqnorm.Num)
	if !ok {
		return false
	}
	return n.IsInteger() || n.Equal(eqnorm.F(1, 2))
}

// Rename swaps one symbol for another without re-evaluating, so the
// placeholder can be a name that would not parse (such as "0").
type Rename struct {
	From, To string
}

func (r Rename) ApplyExpr(e eqnorm.Expr) eqnorm.Expr {
	return eqnorm.Replace(e, eqnorm.S(r.From), eqnorm.S(r.To))
}
