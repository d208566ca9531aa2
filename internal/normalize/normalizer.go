// Package normalize turns raw equation lines into canonical strings using a
// Profile of text and expression rules.
package normalize

import (
	"fmt"
	"strings"

	"github.com/heal-research/eqnorm"
)

// Normalizer applies one profile. It holds no per-line state and is safe
// for concurrent use.
type Normalizer struct {
	profile *Profile
}

func New(p *Profile) *Normalizer {
	return &Normalizer{profile: p}
}

func (n *Normalizer) Profile() *Profile { return n.profile }

// Expr rewrites and parses line, then runs the expression rules. Parse
// failures are returned as *eqnorm.ParseError.
func (n *Normalizer) Expr(line string) (eqnorm.Expr, error) {
	text := strings.TrimRight(line, "\r\n")
	for _, r := range n.profile.Text {
		var err error
		if text, err = r.ApplyText(text); err != nil {
			return nil, fmt.Errorf("text rule: %w", err)
		}
	}
	e, err := eqnorm.Parse(text)
	if err != nil {
		return nil, err
	}
	for _, r := range n.profile.Expr {
		e = r.ApplyExpr(e)
	}
	return e, nil
}

// Line returns the canonical form of line. keep is false when the form
// contains one of the profile's rejected substrings.
func (n *Normalizer) Line(line string) (form string, keep bool, err error) {
	e, err := n.Expr(line)
	if err != nil {
		return "", false, err
	}
	form = e.String()
	for _, bad := range n.profile.Reject {
		if strings.Contains(form, bad) {
			return form, false, nil
		}
	}
	return form, true, nil
}
