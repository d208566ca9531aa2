package eqnorm_test

import (
	"strings"
	"testing"

	"github.com/heal-research/eqnorm"
)

func parse(t *testing.T, s string) eqnorm.Expr {
	t.Helper()
	e, err := eqnorm.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return e
}

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := eqnorm.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := eqnorm.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_FloatKeepsPoint(t *testing.T) {
	if s := eqnorm.NFloat(2).String(); s != "2.0" {
		t.Errorf("want 2.0, got %s", s)
	}
	if s := eqnorm.NFloat(1.5).String(); s != "1.5" {
		t.Errorf("want 1.5, got %s", s)
	}
}

func TestNum_FloatNotEqualInteger(t *testing.T) {
	if eqnorm.NFloat(2).Equal(eqnorm.N(2)) {
		t.Error("2.0 and 2 must stay distinct")
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := eqnorm.AddOf(eqnorm.S("x"), eqnorm.N(3))
	if eqnorm.String(expr) != "x + 3" {
		t.Errorf("want 'x + 3', got %s", eqnorm.String(expr))
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	expr := eqnorm.AddOf(eqnorm.N(1), eqnorm.N(-1))
	if eqnorm.String(expr) != "0" {
		t.Errorf("want 0, got %s", eqnorm.String(expr))
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	expr := eqnorm.AddOf(eqnorm.S("x"), eqnorm.S("x"))
	if eqnorm.String(expr) != "2*x" {
		t.Errorf("want '2*x', got %s", eqnorm.String(expr))
	}
}

func TestAdd_Cancel(t *testing.T) {
	x := eqnorm.S("x")
	expr := eqnorm.AddOf(x, eqnorm.MulOf(eqnorm.N(-1), x))
	if eqnorm.String(expr) != "0" {
		t.Errorf("x - x should be 0, got %s", eqnorm.String(expr))
	}
}

func TestAdd_SingleTerm(t *testing.T) {
	expr := eqnorm.AddOf(eqnorm.N(5))
	if eqnorm.String(expr) != "5" {
		t.Errorf("single-term Add should unwrap, got %s", eqnorm.String(expr))
	}
}

func TestAdd_PolynomialOrder(t *testing.T) {
	got := parse(t, "1 + 2*x + x**2").String()
	if got != "x**2 + 2*x + 1" {
		t.Errorf("want 'x**2 + 2*x + 1', got %s", got)
	}
}

func TestAdd_Subtraction(t *testing.T) {
	if got := parse(t, "x - 1").String(); got != "x - 1" {
		t.Errorf("want 'x - 1', got %s", got)
	}
	if got := parse(t, "y - x").String(); got != "-x + y" {
		t.Errorf("want '-x + y', got %s", got)
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_Simple(t *testing.T) {
	expr := eqnorm.MulOf(eqnorm.N(3), eqnorm.S("x"))
	if eqnorm.String(expr) != "3*x" {
		t.Errorf("want '3*x', got %s", eqnorm.String(expr))
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	expr := eqnorm.MulOf(eqnorm.N(0), eqnorm.S("x"))
	if eqnorm.String(expr) != "0" {
		t.Errorf("0*x should be 0, got %s", eqnorm.String(expr))
	}
}

func TestMul_OneElide(t *testing.T) {
	expr := eqnorm.MulOf(eqnorm.N(1), eqnorm.S("x"))
	if eqnorm.String(expr) != "x" {
		t.Errorf("1*x should be x, got %s", eqnorm.String(expr))
	}
}

func TestMul_CombinesBases(t *testing.T) {
	x := eqnorm.S("x")
	if got := eqnorm.MulOf(x, x).String(); got != "x**2" {
		t.Errorf("x*x should be x**2, got %s", got)
	}
	if got := parse(t, "x/x").String(); got != "1" {
		t.Errorf("x/x should be 1, got %s", got)
	}
}

func TestMul_DistributesNumber(t *testing.T) {
	if got := parse(t, "2*(x + 1)").String(); got != "2*x + 2" {
		t.Errorf("want '2*x + 2', got %s", got)
	}
}

func TestMul_SumFactorOrderIndependent(t *testing.T) {
	cases := [][]string{
		{"2*(x + y)*z", "z*2*(x + y)", "(x + y)*z*2", "z*(2*x + 2*y)"},
		{"3*(x + 1)*x", "x*3*(x + 1)", "x*(3*x + 3)"},
		{"-2*(x + y)*z", "z*(-2)*(x + y)", "z*(-2*x - 2*y)"},
		{"2*(x + y)*(x + y)", "(2*x + 2*y)*(x + y)"},
	}
	for _, group := range cases {
		want := parse(t, group[0]).String()
		for _, in := range group[1:] {
			if got := parse(t, in).String(); got != want {
				t.Errorf("%s: want %s (as %s), got %s", in, want, group[0], got)
			}
		}
	}
}

func TestMul_SumFactorContent(t *testing.T) {
	cases := map[string]string{
		"2*(x + y)*z":         "2*z*(x + y)",
		"z*(-x - y)":          "-z*(x + y)",
		"(x/2 + y/3)*z":       "z*(3*x + 2*y)/6",
		"(2*x + 2*y)*(x + y)": "2*(x + y)**2",
		"(2*x + 2*y)/2":       "x + y",
		"2.0*(x + 1)":         "2.0*(x + 1)",
	}
	for in, want := range cases {
		if got := parse(t, in).String(); got != want {
			t.Errorf("%s: want %s, got %s", in, want, got)
		}
	}
}

func TestMul_Printing(t *testing.T) {
	cases := map[string]string{
		"x/2":       "x/2",
		"2*x/3":     "2*x/3",
		"-x":        "-x",
		"x/y":       "x/y",
		"1/x":       "1/x",
		"1/(x + 1)": "1/(x + 1)",
		"x/(y*z)":   "x/(y*z)",
		"-1/x":      "-1/x",
		"x*(y + 1)": "x*(y + 1)",
	}
	for in, want := range cases {
		if got := parse(t, in).String(); got != want {
			t.Errorf("%s: want %s, got %s", in, want, got)
		}
	}
}

func TestMul_Commutative(t *testing.T) {
	a := parse(t, "y*x + 1")
	b := parse(t, "1 + x*y")
	if !a.Equal(b) || a.String() != b.String() {
		t.Errorf("expected equal canonical forms, got %s and %s", a, b)
	}
}

func TestMul_MergesExp(t *testing.T) {
	if got := parse(t, "exp(x)*exp(y)").String(); got != "exp(x + y)" {
		t.Errorf("want exp(x + y), got %s", got)
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Simple(t *testing.T) {
	expr := eqnorm.PowOf(eqnorm.S("x"), eqnorm.N(2))
	if eqnorm.String(expr) != "x**2" {
		t.Errorf("want x**2, got %s", eqnorm.String(expr))
	}
}

func TestPow_ZeroExp(t *testing.T) {
	expr := eqnorm.PowOf(eqnorm.S("x"), eqnorm.N(0))
	if eqnorm.String(expr) != "1" {
		t.Errorf("x**0 should be 1, got %s", eqnorm.String(expr))
	}
}

func TestPow_OneExp(t *testing.T) {
	expr := eqnorm.PowOf(eqnorm.S("x"), eqnorm.N(1))
	if eqnorm.String(expr) != "x" {
		t.Errorf("x**1 should be x, got %s", eqnorm.String(expr))
	}
}

func TestPow_NumericEval(t *testing.T) {
	expr := eqnorm.PowOf(eqnorm.N(2), eqnorm.N(3))
	if eqnorm.String(expr) != "8" {
		t.Errorf("2**3 should be 8, got %s", eqnorm.String(expr))
	}
}

func TestPow_Printing(t *testing.T) {
	cases := map[string]string{
		"x**(1/2)":   "sqrt(x)",
		"sqrt(x)":    "sqrt(x)",
		"x**-2":      "x**(-2)",
		"x^3":        "x**3",
		"x**(1/3)":   "x**(1/3)",
		"(x + 1)**2": "(x + 1)**2",
		"x**(2*y)":   "x**(2*y)",
		"2**-1":      "1/2",
		"sqrt(4)":    "2",
		"sqrt(2)":    "sqrt(2)",
		"8**(1/3)":   "2",
	}
	for in, want := range cases {
		if got := parse(t, in).String(); got != want {
			t.Errorf("%s: want %s, got %s", in, want, got)
		}
	}
}

func TestPow_IntegerExponentDistributes(t *testing.T) {
	if got := parse(t, "(x**2)**3").String(); got != "x**6" {
		t.Errorf("want x**6, got %s", got)
	}
	if got := parse(t, "(x*y)**2").String(); got != "x**2*y**2" {
		t.Errorf("want x**2*y**2, got %s", got)
	}
	if got := parse(t, "(x**2)**(1/2)").String(); got != "sqrt(x**2)" {
		t.Errorf("want sqrt(x**2), got %s", got)
	}
}

func TestPow_DivisionByZeroStaysSymbolic(t *testing.T) {
	if got := parse(t, "1/0").String(); got != "1/0" {
		t.Errorf("want 1/0, got %s", got)
	}
}

func TestPow_ZeroBaseRootReparses(t *testing.T) {
	e := eqnorm.PowOf(eqnorm.N(0), eqnorm.F(-1, 2))
	if got := e.String(); got != "0**(-1/2)" {
		t.Fatalf("want 0**(-1/2), got %s", got)
	}
	if back := parse(t, e.String()); !back.Equal(e) {
		t.Errorf("reparse changed %s into %s", e, back)
	}
}

func TestPow_LargeExactRoots(t *testing.T) {
	want := "1" + strings.Repeat("0", 100)
	if got := parse(t, "(10**300)**(1/3)").String(); got != want {
		t.Errorf("want 10**100, got %s", got)
	}
	if got := parse(t, "(3**200)**(1/5)").String(); got != parse(t, "3**40").String() {
		t.Errorf("want 3**40, got %s", got)
	}
	if got := parse(t, "(10**300 + 1)**(1/3)").String(); !strings.HasSuffix(got, "**(1/3)") {
		t.Errorf("non-perfect cube should stay symbolic, got %s", got)
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_Identities(t *testing.T) {
	cases := map[string]string{
		"exp(0)":      "1",
		"exp(log(x))": "x",
		"log(1)":      "0",
		"ln(x)":       "log(x)",
		"Abs(-x)":     "Abs(x)",
		"abs(-2)":     "2",
		"Abs(-3*x)":   "3*Abs(x)",
		"sin(-x)":     "-sin(x)",
		"cos(-x)":     "cos(x)",
		"sin(0)":      "0",
		"cos(0)":      "1",
		"pow(x, 2)":   "x**2",
		"f(x, y)":     "f(x, y)",
	}
	for in, want := range cases {
		if got := parse(t, in).String(); got != want {
			t.Errorf("%s: want %s, got %s", in, want, got)
		}
	}
}

func TestFunc_LogBase(t *testing.T) {
	if got := parse(t, "log(x, 2)").String(); got != "log(x)/log(2)" {
		t.Errorf("want log(x)/log(2), got %s", got)
	}
}

// ============================================================
// Parse tests
// ============================================================

func TestParse_Floats(t *testing.T) {
	if got := parse(t, "1.5*x").String(); got != "1.5*x" {
		t.Errorf("want 1.5*x, got %s", got)
	}
	if got := parse(t, "1e-3").String(); got != "0.001" {
		t.Errorf("want 0.001, got %s", got)
	}
}

func TestParse_UnaryPrecedence(t *testing.T) {
	if got := parse(t, "-2**2").String(); got != "-4" {
		t.Errorf("-2**2 should be -4, got %s", got)
	}
	if got := parse(t, "+x").String(); got != "x" {
		t.Errorf("+x should be x, got %s", got)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "x +", "2x", "(x", "sqrt(x, y)", "x // 2", "f()", "x $ y"} {
		_, err := eqnorm.Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) should fail", in)
			continue
		}
		if _, ok := err.(*eqnorm.ParseError); !ok {
			t.Errorf("Parse(%q) returned %T, want *ParseError", in, err)
		}
	}
}

// ============================================================
// Substitution tests
// ============================================================

func TestSubs_Number(t *testing.T) {
	e := parse(t, "x**2 + 2*x")
	got := eqnorm.Subs(e, eqnorm.N(2), eqnorm.S("p")).String()
	if got != "x**p + p*x" {
		t.Errorf("want 'x**p + p*x', got %s", got)
	}
}

func TestSubsAll_Sequential(t *testing.T) {
	e := parse(t, "a0*x + a1*x")
	p := eqnorm.S("p")
	got := eqnorm.SubsAll(e, []eqnorm.Pair{{Old: eqnorm.S("a0"), New: p}, {Old: eqnorm.S("a1"), New: p}})
	if got.String() != "2*p*x" {
		t.Errorf("want 2*p*x, got %s", got)
	}
}

func TestReplace_KeepsStructure(t *testing.T) {
	e := parse(t, "2*p*x")
	got := eqnorm.Replace(e, eqnorm.S("p"), eqnorm.S("0"))
	if got.String() != "2*0*x" {
		t.Errorf("want 2*0*x, got %s", got)
	}
}

func TestSub_Symbol(t *testing.T) {
	got := eqnorm.Sub(parse(t, "2*x + 3"), "x", eqnorm.N(5))
	if got.String() != "13" {
		t.Errorf("want 13, got %s", got)
	}
}

// ============================================================
// Traversal tests
// ============================================================

func TestFreeSymbols(t *testing.T) {
	syms := eqnorm.FreeSymbols(parse(t, "x + 2*y"))
	if _, ok := syms["x"]; !ok {
		t.Error("expected x in free symbols")
	}
	if _, ok := syms["y"]; !ok {
		t.Error("expected y in free symbols")
	}
	if len(syms) != 2 {
		t.Errorf("expected 2 free symbols, got %d", len(syms))
	}
}

func TestAtoms_Sorted(t *testing.T) {
	atoms := eqnorm.Atoms(parse(t, "y + 3*x + x**3"))
	var got []string
	for _, a := range atoms {
		got = append(got, a.String())
	}
	want := []string{"3", "x", "y"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("atom %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

// ============================================================
// JSON tests
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	e := parse(t, "x**2/3 + 1.5*exp(y)")
	s, err := eqnorm.ToJSON(e)
	if err != nil {
		t.Fatal(err)
	}
	back, err := eqnorm.FromJSON([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e) {
		t.Errorf("round trip changed expression: %s -> %s", e, back)
	}
}

func TestJSON_UnknownType(t *testing.T) {
	if _, err := eqnorm.FromJSON([]byte(`{"type":"matrix"}`)); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := eqnorm.FromJSON([]byte(`{"type":"pow","args":[{"type":"sym","name":"x"}]}`)); err == nil {
		t.Error("expected error for pow with one operand")
	}
}

func TestJSON_Shape(t *testing.T) {
	s, err := eqnorm.ToJSON(parse(t, "x**2"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"pow","args":[{"type":"sym","name":"x"},{"type":"num","value":"2"}]}`
	if s != want {
		t.Errorf("want %s, got %s", want, s)
	}
}
