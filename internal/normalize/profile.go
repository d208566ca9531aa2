package normalize

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heal-research/eqnorm"
)

//go:embed profiles/*.yaml
var builtinFS embed.FS

// Profile is a named rule set: text rules run on the raw line, expression
// rules on the parsed form, and Reject filters the printed result.
type Profile struct {
	Name          string
	Description   string
	ProgressEvery int
	Text          []TextRule
	Expr          []ExprRule
	Reject        []string
}

// ErrUnknownProfile is returned by Builtin for names it does not know.
var ErrUnknownProfile = errors.New("unknown profile")

type profileSpec struct {
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	ProgressEvery    int            `yaml:"progress_every"`
	Text             []textRuleSpec `yaml:"text"`
	Expr             []exprRuleSpec `yaml:"expr"`
	RejectContaining []string       `yaml:"reject_containing"`
}

type textRuleSpec struct {
	Replace *struct {
		Old string `yaml:"old"`
		New string `yaml:"new"`
	} `yaml:"replace"`
	Regex *struct {
		Pattern string `yaml:"pattern"`
		Replace string `yaml:"replace"`
	} `yaml:"regex"`
	NFKC bool `yaml:"nfkc"`
}

type exprRuleSpec struct {
	Substitute []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"substitute"`
	CollapseLiterals *struct {
		Param string `yaml:"param"`
	} `yaml:"collapse_literals"`
	Rename *struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"rename"`
}

// ParseProfile decodes a YAML profile definition.
func ParseProfile(data []byte) (*Profile, error) {
	var spec profileSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if spec.Name == "" {
		return nil, errors.New("profile: name is required")
	}

	p := &Profile{
		Name:          spec.Name,
		Description:   strings.TrimSpace(spec.Description),
		ProgressEvery: spec.ProgressEvery,
		Reject:        spec.RejectContaining,
	}
	for i, t := range spec.Text {
		rule, err := t.build()
		if err != nil {
			return nil, fmt.Errorf("profile %s: text[%d]: %w", spec.Name, i, err)
		}
		p.Text = append(p.Text, rule)
	}
	for i, e := range spec.Expr {
		rule, err := e.build()
		if err != nil {
			return nil, fmt.Errorf("profile %s: expr[%d]: %w", spec.Name, i, err)
		}
		p.Expr = append(p.Expr, rule)
	}
	return p, nil
}

func (s textRuleSpec) build() (TextRule, error) {
	var rules []TextRule
	if s.Replace != nil {
		if s.Replace.Old == "" {
			return nil, errors.New("replace: old must not be empty")
		}
		rules = append(rules, Literal{Old: s.Replace.Old, New: s.Replace.New})
	}
	if s.Regex != nil {
		re, err := NewRegex(s.Regex.Pattern, s.Regex.Replace)
		if err != nil {
			return nil, err
		}
		rules = append(rules, re)
	}
	if s.NFKC {
		rules = append(rules, NFKC{})
	}
	if len(rules) != 1 {
		return nil, fmt.Errorf("exactly one of replace, regex, nfkc expected, got %d", len(rules))
	}
	return rules[0], nil
}

func (s exprRuleSpec) build() (ExprRule, error) {
	var rules []ExprRule
	if len(s.Substitute) > 0 {
		pairs := make([]eqnorm.Pair, 0, len(s.Substitute))
		for _, sub := range s.Substitute {
			from, err := atom(sub.From)
			if err != nil {
				return nil, fmt.Errorf("substitute from: %w", err)
			}
			to, err := atom(sub.To)
			if err != nil {
				return nil, fmt.Errorf("substitute to: %w", err)
			}
			pairs = append(pairs, eqnorm.Pair{Old: from, New: to})
		}
		rules = append(rules, Substitute{Pairs: pairs})
	}
	if s.CollapseLiterals != nil {
		param, err := atom(s.CollapseLiterals.Param)
		if err != nil {
			return nil, fmt.Errorf("collapse_literals param: %w", err)
		}
		rules = append(rules, CollapseLiterals{Param: param})
	}
	if s.Rename != nil {
		if s.Rename.From == "" || s.Rename.To == "" {
			return nil, errors.New("rename: from and to are required")
		}
		rules = append(rules, Rename{From: s.Rename.From, To: s.Rename.To})
	}
	if len(rules) != 1 {
		return nil, fmt.Errorf("exactly one of substitute, collapse_literals, rename expected, got %d", len(rules))
	}
	return rules[0], nil
}

// atom parses a table entry, which must be a single number or symbol.
func atom(s string) (eqnorm.Expr, error) {
	e, err := eqnorm.Parse(s)
	if err != nil {
		return nil, err
	}
	switch e.(type) {
	case *eqnorm.Num, *eqnorm.Sym:
		return e, nil
	}
	return nil, fmt.Errorf("%q is not a number or symbol", s)
}

// LoadProfile reads a profile definition from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// Builtin returns one of the embedded profiles.
func Builtin(name string) (*Profile, error) {
	data, err := BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return ParseProfile(data)
}

// BuiltinSource returns the YAML definition of an embedded profile.
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProfile, name, strings.Join(BuiltinNames(), ", "))
	}
	return data, nil
}

// BuiltinNames lists the embedded profiles in alphabetical order.
func BuiltinNames() []string {
	entries, _ := builtinFS.ReadDir("profiles")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
