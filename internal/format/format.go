// Package format implements the pattern-directed tree walker (spec.md §4.7):
// given a compiled production→pattern map and a parse tree, it recursively
// emits output text, threading a lexically-scoped substitution-variable
// environment down through captures.
package format

import (
	"strings"

	"github.com/dekarrin/padd/internal/pattern"
	"github.com/dekarrin/padd/internal/symbol"
)

// RuleKey derives the pattern-map key for a production from its left-hand
// side and right-hand side symbol sequence, matching the key a parse tree's
// interior node exposes via its LHS/RHS fields.
func RuleKey(lhs string, rhs []string) string {
	return lhs + "\x00" + strings.Join(rhs, "\x1f")
}

// Formatter walks parse trees and emits formatted output using a frozen
// production→pattern map. Formatters are immutable and safe to share across
// any number of concurrent Format calls.
type Formatter struct {
	patterns map[string][]pattern.Segment
}

// New returns a Formatter that uses patterns, a map from RuleKey to compiled
// pattern segments.
func New(patterns map[string][]pattern.Segment) *Formatter {
	return &Formatter{patterns: patterns}
}

// Format walks tree and returns the formatted output text.
func (f *Formatter) Format(tree *symbol.Tree) string {
	return f.walk(tree, map[string]string{})
}

func (f *Formatter) walk(t *symbol.Tree, scope map[string]string) string {
	if t.Leaf {
		if t.Token.IsNull() {
			return ""
		}
		return t.Token.Lexeme
	}

	segs, ok := f.patterns[RuleKey(t.LHS, t.RHS)]
	if !ok {
		var sb strings.Builder
		for _, c := range t.Children {
			if c != nil {
				sb.WriteString(f.walk(c, scope))
			}
		}
		return sb.String()
	}

	var sb strings.Builder
	for _, seg := range segs {
		switch seg.Kind {
		case pattern.Filler:
			sb.WriteString(seg.Text)
		case pattern.Substitution:
			sb.WriteString(scope[seg.SubstName])
		case pattern.Capture:
			childScope := cloneScope(scope)
			for _, d := range seg.Declarations {
				if d.Value == nil {
					delete(childScope, d.Key)
				} else {
					childScope[d.Key] = evalValue(d.Value, scope)
				}
			}
			if seg.ChildIndex < len(t.Children) && t.Children[seg.ChildIndex] != nil {
				sb.WriteString(f.walk(t.Children[seg.ChildIndex], childScope))
			}
		}
	}
	return sb.String()
}

// evalValue evaluates a declaration's value (filler + substitution segments
// only) against the parent scope, before the child scope it binds into
// exists.
func evalValue(segs []pattern.Segment, scope map[string]string) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case pattern.Filler:
			sb.WriteString(s.Text)
		case pattern.Substitution:
			sb.WriteString(scope[s.SubstName])
		}
	}
	return sb.String()
}

func cloneScope(s map[string]string) map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
