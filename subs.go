package eqnorm

import "sort"

// ============================================================
// Substitution
// ============================================================

// Pair is one entry of a substitution table.
type Pair struct{ Old, New Expr }

// Subs replaces every subtree equal to old with repl, re-evaluating the
// result.
func Subs(e, old, repl Expr) Expr { return e.Subs(old, repl) }

// SubsAll applies pairs one after another; each step sees the evaluated
// result of the previous one, so x + y with x->p, y->p ends as 2*p.
func SubsAll(e Expr, pairs []Pair) Expr {
	for _, p := range pairs {
		e = e.Subs(p.Old, p.New)
	}
	return e
}

// Replace swaps old for repl without evaluating. The structure of e is
// kept as is, so renaming p to 0 in 2*p stays a product.
func Replace(e, old, repl Expr) Expr {
	if e.Equal(old) {
		return repl
	}
	switch v := e.(type) {
	case *Add:
		return &Add{terms: replaceAll(v.terms, old, repl)}
	case *Mul:
		return &Mul{factors: replaceAll(v.factors, old, repl)}
	case *Pow:
		return &Pow{base: Replace(v.base, old, repl), exp: Replace(v.exp, old, repl)}
	case *Func:
		return &Func{name: v.name, args: replaceAll(v.args, old, repl)}
	}
	return e
}

func replaceAll(es []Expr, old, repl Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = Replace(e, old, repl)
	}
	return out
}

// ============================================================
// Traversal
// ============================================================

// Args returns the direct children of e.
func Args(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.Terms()
	case *Mul:
		return v.Factors()
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return v.Args()
	}
	return nil
}

// Walk visits e in pre-order. Returning false from fn skips the children
// of the visited node.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	for _, a := range Args(e) {
		Walk(a, fn)
	}
}

// Atoms returns the distinct leaves of e in canonical order.
func Atoms(e Expr) []Expr {
	var out []Expr
	Walk(e, func(n Expr) bool {
		switch n.(type) {
		case *Num, *Sym:
			for _, seen := range out {
				if seen.Equal(n) {
					return true
				}
			}
			out = append(out, n)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	Walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok {
			result[s.name] = struct{}{}
		}
		return true
	})
	return result
}
