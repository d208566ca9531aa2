package eqnorm

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// ============================================================
// JSON trees
// ============================================================

// jsonNode is the wire shape of an expression. Operands are always listed
// in Args; a power is [base, exponent].
type jsonNode struct {
	Type    string      `json:"type"`
	Value   string      `json:"value,omitempty"`
	Inexact bool        `json:"inexact,omitempty"`
	Name    string      `json:"name,omitempty"`
	Args    []*jsonNode `json:"args,omitempty"`
}

func encodeAll(es []Expr) []*jsonNode {
	out := make([]*jsonNode, len(es))
	for i, e := range es {
		out[i] = e.encode()
	}
	return out
}

// ToJSON renders e as a JSON tree.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.encode())
	return string(b), err
}

// FromJSON rebuilds an expression from ToJSON output. The result is
// evaluated, so a hand-written tree comes back in canonical form.
func FromJSON(data []byte) (Expr, error) {
	var n jsonNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	return n.decode()
}

func (n *jsonNode) decode() (Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("null expression")
	}
	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		e, err := a.decode()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", n.Type, i, err)
		}
		args[i] = e
	}

	switch n.Type {
	case "num":
		if n.Inexact {
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("num: %w", err)
			}
			return NFloat(f), nil
		}
		r, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return nil, fmt.Errorf("num: invalid value %q", n.Value)
		}
		return &Num{val: r}, nil
	case "sym":
		if n.Name == "" {
			return nil, fmt.Errorf("sym: empty name")
		}
		return S(n.Name), nil
	case "add":
		return AddOf(args...), nil
	case "mul":
		return MulOf(args...), nil
	case "pow":
		if len(args) != 2 {
			return nil, fmt.Errorf("pow: want 2 args, got %d", len(args))
		}
		return PowOf(args[0], args[1]), nil
	case "func":
		if n.Name == "" {
			return nil, fmt.Errorf("func: empty name")
		}
		return FuncOf(n.Name, args...), nil
	}
	return nil, fmt.Errorf("unknown expression type %q", n.Type)
}
