package parser

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/exp/ebnf"
)

//go:embed pss.ebnf
var grammarSource string

// StartRule is the production every other production must be reachable from.
const StartRule = "compilation_unit"

// Rule is one production of the rule table together with its prediction sets.
type Rule struct {
	Name         string
	Kind         NodeKind
	Production   *ebnf.Production
	Alternatives []ebnf.Expression

	first       TokenSet
	follow      TokenSet
	nullable    bool
	altFirst    []TokenSet
	altNullable []bool
}

func (r *Rule) First() TokenSet  { return r.first }
func (r *Rule) Follow() TokenSet { return r.follow }
func (r *Rule) Nullable() bool   { return r.nullable }

// AltFirst returns the FIRST set of the i-th alternative.
func (r *Rule) AltFirst(i int) TokenSet {
	if i < 0 || i >= len(r.altFirst) {
		return TokenSet{}
	}
	return r.altFirst[i]
}

// Grammar is the immutable rule table. It is safe for concurrent use.
type Grammar struct {
	source ebnf.Grammar
	rules  map[string]*Rule
	byKind [nodeKindCount]*Rule
	names  []string
}

var (
	rulesOnce sync.Once
	rules     *Grammar
)

// Rules returns the built-in PSS rule table. A malformed table is a
// programming error and panics.
func Rules() *Grammar {
	rulesOnce.Do(func() {
		g, err := LoadGrammar("pss.ebnf", strings.NewReader(grammarSource))
		if err != nil {
			panic(fmt.Sprintf("parser: invalid rule table: %v", err))
		}
		rules = g
	})
	return rules
}

// GrammarSource returns the text of the built-in rule table.
func GrammarSource() string {
	return grammarSource
}

// LoadGrammar parses and verifies an EBNF rule table and computes its
// FIRST and FOLLOW sets.
func LoadGrammar(filename string, r io.Reader) (*Grammar, error) {
	src, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if err := ebnf.Verify(src, StartRule); err != nil {
		return nil, err
	}

	g := &Grammar{
		source: src,
		rules:  make(map[string]*Rule, len(src)),
	}
	for name, prod := range src {
		rule := &Rule{
			Name:       name,
			Kind:       KindError,
			Production: prod,
		}
		if alt, ok := prod.Expr.(ebnf.Alternative); ok {
			rule.Alternatives = alt
		} else {
			rule.Alternatives = []ebnf.Expression{prod.Expr}
		}
		if kind, ok := LookupNodeKind(name); ok {
			rule.Kind = kind
			g.byKind[kind] = rule
		}
		g.rules[name] = rule
		g.names = append(g.names, name)
	}
	sort.Strings(g.names)

	if err := g.checkTerminals(); err != nil {
		return nil, err
	}
	g.computeFirst()
	g.computeFollow()
	return g, nil
}

func (g *Grammar) checkTerminals() error {
	var unknown []string
	for _, name := range g.names {
		walkExpr(g.rules[name].Production.Expr, func(e ebnf.Expression) {
			if tok, ok := e.(*ebnf.Token); ok {
				if _, ok := LookupTokenKind(tok.String); !ok {
					unknown = append(unknown, fmt.Sprintf("%s: %q", name, tok.String))
				}
			}
		})
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown terminals: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func walkExpr(e ebnf.Expression, fn func(ebnf.Expression)) {
	if e == nil {
		return
	}
	fn(e)
	switch x := e.(type) {
	case ebnf.Alternative:
		for _, sub := range x {
			walkExpr(sub, fn)
		}
	case ebnf.Sequence:
		for _, sub := range x {
			walkExpr(sub, fn)
		}
	case *ebnf.Group:
		walkExpr(x.Body, fn)
	case *ebnf.Option:
		walkExpr(x.Body, fn)
	case *ebnf.Repetition:
		walkExpr(x.Body, fn)
	}
}

// first returns the FIRST set of e and whether e can derive the empty string,
// using the rule sets computed so far.
func (g *Grammar) first(e ebnf.Expression) (TokenSet, bool) {
	switch x := e.(type) {
	case nil:
		return TokenSet{}, true
	case *ebnf.Name:
		r := g.rules[x.String]
		return r.first, r.nullable
	case *ebnf.Token:
		kind, _ := LookupTokenKind(x.String)
		return NewTokenSet(kind), false
	case ebnf.Alternative:
		var set TokenSet
		nullable := false
		for _, sub := range x {
			s, n := g.first(sub)
			set.Union(s)
			nullable = nullable || n
		}
		return set, nullable
	case ebnf.Sequence:
		var set TokenSet
		for _, sub := range x {
			s, n := g.first(sub)
			set.Union(s)
			if !n {
				return set, false
			}
		}
		return set, true
	case *ebnf.Group:
		return g.first(x.Body)
	case *ebnf.Option:
		s, _ := g.first(x.Body)
		return s, true
	case *ebnf.Repetition:
		s, _ := g.first(x.Body)
		return s, true
	}
	return TokenSet{}, false
}

func (g *Grammar) computeFirst() {
	for changed := true; changed; {
		changed = false
		for _, name := range g.names {
			r := g.rules[name]
			s, n := g.first(r.Production.Expr)
			if r.first.Union(s) {
				changed = true
			}
			if n && !r.nullable {
				r.nullable = true
				changed = true
			}
		}
	}
	for _, r := range g.rules {
		r.altFirst = make([]TokenSet, len(r.Alternatives))
		r.altNullable = make([]bool, len(r.Alternatives))
		for i, alt := range r.Alternatives {
			r.altFirst[i], r.altNullable[i] = g.first(alt)
		}
	}
}

func (g *Grammar) computeFollow() {
	g.rules[StartRule].follow.Add(TokenEOF)
	for changed := true; changed; {
		changed = false
		for _, name := range g.names {
			r := g.rules[name]
			if g.addFollow(r.Production.Expr, r.follow) {
				changed = true
			}
		}
	}
}

// addFollow propagates next, the set of tokens that may follow e, into the
// FOLLOW sets of the rules referenced by e.
func (g *Grammar) addFollow(e ebnf.Expression, next TokenSet) bool {
	switch x := e.(type) {
	case *ebnf.Name:
		return g.rules[x.String].follow.Union(next)
	case ebnf.Alternative:
		changed := false
		for _, sub := range x {
			if g.addFollow(sub, next) {
				changed = true
			}
		}
		return changed
	case ebnf.Sequence:
		changed := false
		cur := next
		for i := len(x) - 1; i >= 0; i-- {
			if g.addFollow(x[i], cur) {
				changed = true
			}
			s, n := g.first(x[i])
			if n {
				s.Union(cur)
			}
			cur = s
		}
		return changed
	case *ebnf.Group:
		return g.addFollow(x.Body, next)
	case *ebnf.Option:
		return g.addFollow(x.Body, next)
	case *ebnf.Repetition:
		s, _ := g.first(x.Body)
		s.Union(next)
		return g.addFollow(x.Body, s)
	}
	return false
}

// Rule returns the production for kind, or nil when kind has no production.
func (g *Grammar) Rule(kind NodeKind) *Rule {
	if kind < 0 || kind >= nodeKindCount {
		return nil
	}
	return g.byKind[kind]
}

// RuleByName returns the production called name, or nil.
func (g *Grammar) RuleByName(name string) *Rule {
	return g.rules[name]
}

// Names returns every production name in sorted order.
func (g *Grammar) Names() []string {
	return g.names
}

// Source returns the underlying EBNF grammar.
func (g *Grammar) Source() ebnf.Grammar {
	return g.source
}

func (g *Grammar) First(kind NodeKind) TokenSet {
	if r := g.Rule(kind); r != nil {
		return r.first
	}
	return TokenSet{}
}

func (g *Grammar) Follow(kind NodeKind) TokenSet {
	if r := g.Rule(kind); r != nil {
		return r.follow
	}
	return TokenSet{}
}

func (g *Grammar) Nullable(kind NodeKind) bool {
	if r := g.Rule(kind); r != nil {
		return r.nullable
	}
	return false
}

// AltFirst returns the FIRST set of alternative alt of kind.
func (g *Grammar) AltFirst(kind NodeKind, alt int) TokenSet {
	if r := g.Rule(kind); r != nil {
		return r.AltFirst(alt)
	}
	return TokenSet{}
}

// Predicts reports whether alternative alt of kind can start with tok.
// A nullable alternative also predicts anything in FOLLOW(kind).
func (g *Grammar) Predicts(kind NodeKind, alt int, tok TokenKind) bool {
	r := g.Rule(kind)
	if r == nil || alt < 0 || alt >= len(r.Alternatives) {
		return false
	}
	if r.altFirst[alt].Has(tok) {
		return true
	}
	return r.altNullable[alt] && r.follow.Has(tok)
}

// Predict returns the indices of the alternatives of kind that can start
// with tok, in priority order.
func (g *Grammar) Predict(kind NodeKind, tok TokenKind) []int {
	r := g.Rule(kind)
	if r == nil {
		return nil
	}
	var alts []int
	for i := range r.Alternatives {
		if g.Predicts(kind, i, tok) {
			alts = append(alts, i)
		}
	}
	return alts
}

// Conflicts lists the rules with at least two alternatives sharing a
// FIRST token, which the parser resolves by ordered choice.
func (g *Grammar) Conflicts() map[string]TokenSet {
	result := make(map[string]TokenSet)
	for _, name := range g.names {
		r := g.rules[name]
		var seen, overlap TokenSet
		for _, s := range r.altFirst {
			for i := range s {
				overlap[i] |= seen[i] & s[i]
				seen[i] |= s[i]
			}
		}
		if !overlap.Empty() {
			result[name] = overlap
		}
	}
	return result
}

// FormatExpr renders e in EBNF notation.
func FormatExpr(e ebnf.Expression) string {
	var sb strings.Builder
	formatExpr(&sb, e)
	return sb.String()
}

func formatExpr(sb *strings.Builder, e ebnf.Expression) {
	switch x := e.(type) {
	case nil:
	case *ebnf.Name:
		sb.WriteString(x.String)
	case *ebnf.Token:
		fmt.Fprintf(sb, "%q", x.String)
	case ebnf.Alternative:
		for i, sub := range x {
			if i > 0 {
				sb.WriteString(" | ")
			}
			formatExpr(sb, sub)
		}
	case ebnf.Sequence:
		for i, sub := range x {
			if i > 0 {
				sb.WriteString(" ")
			}
			formatExpr(sb, sub)
		}
	case *ebnf.Group:
		sb.WriteString("( ")
		formatExpr(sb, x.Body)
		sb.WriteString(" )")
	case *ebnf.Option:
		sb.WriteString("[ ")
		formatExpr(sb, x.Body)
		sb.WriteString(" ]")
	case *ebnf.Repetition:
		sb.WriteString("{ ")
		formatExpr(sb, x.Body)
		sb.WriteString(" }")
	}
}
