package eqnorm

import "strings"

// ============================================================
// Canonical ordering
// ============================================================

// kind ranks expression classes; numbers sort first, sums last.
func kind(e Expr) int {
	switch e.(type) {
	case *Num:
		return 0
	case *Sym:
		return 1
	case *Func:
		return 2
	case *Pow:
		return 3
	case *Mul:
		return 4
	case *Add:
		return 5
	}
	return 6
}

// Compare is a total order over expressions. It returns 0 exactly when a and
// b are structurally identical. Powers compare by base first so that x,
// x**2 and x**3 sort next to each other.
func Compare(a, b Expr) int {
	_, aPow := a.(*Pow)
	_, bPow := b.(*Pow)
	if !aPow && !bPow {
		return compareRaw(a, b)
	}
	ab, ae := splitPow(a)
	bb, be := splitPow(b)
	if c := compareRaw(ab, bb); c != 0 {
		return c
	}
	return Compare(ae, be)
}

func compareRaw(a, b Expr) int {
	ka, kb := kind(a), kind(b)
	if ka != kb {
		return ka - kb
	}
	switch x := a.(type) {
	case *Num:
		return numCmp(x, b.(*Num))
	case *Sym:
		return strings.Compare(x.name, b.(*Sym).name)
	case *Func:
		y := b.(*Func)
		if c := strings.Compare(x.name, y.name); c != 0 {
			return c
		}
		return compareSlices(x.args, y.args)
	case *Pow:
		y := b.(*Pow)
		if c := Compare(x.base, y.base); c != 0 {
			return c
		}
		return Compare(x.exp, y.exp)
	case *Mul:
		return compareSlices(x.factors, b.(*Mul).factors)
	case *Add:
		return compareSlices(x.terms, b.(*Add).terms)
	}
	return 0
}

func compareSlices(a, b []Expr) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// compareTerms orders summands by the base of their non-numeric part, higher
// powers of the same base first (x**2 + x), then by coefficient.
func compareTerms(a, b Expr) int {
	ca, ra := splitCoeff(a)
	cb, rb := splitCoeff(b)
	ab, ae := splitPow(ra)
	bb, be := splitPow(rb)
	if c := compareRaw(ab, bb); c != 0 {
		return c
	}
	if c := Compare(be, ae); c != 0 {
		return c
	}
	return numCmp(ca, cb)
}
