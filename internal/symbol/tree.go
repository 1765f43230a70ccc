package symbol

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty             = "        "
	treeLevelOngoing           = "  |     "
	treeLevelPrefix            = "  |%s: "
	treeLevelPrefixLast        = `  \%s: `
	treeLevelPrefixNamePad     = 3
	treeLevelPrefixNamePadChar = '-'
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePad {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePad {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// Tree is a parse tree node. A leaf has no children; a terminal leaf carries
// a non-null Token whose lexeme is the scanned source text; an empty
// production is represented as a single null-token child. Trees are
// immutable after construction.
type Tree struct {
	// LHS is the production's left-hand side symbol name for an interior
	// node, or the token's kind name for a leaf.
	LHS string

	// RHS is the symbol sequence of the production that produced this
	// interior node, used to pick out which of several alternatives sharing
	// LHS was used (and so which pattern applies). Empty for leaves and for
	// epsilon productions.
	RHS []string

	// Leaf is whether this node has no children (a scanned token or the
	// null placeholder).
	Leaf bool

	// Token is only meaningful when Leaf is true.
	Token Token

	// Children is all children of this node, in production order.
	Children []*Tree
}

// String returns a prettified box-drawn representation of the tree, suitable
// for line-by-line structural comparison in tests.
func (t Tree) String() string {
	return t.leveledStr("", "")
}

func (t Tree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if t.Leaf {
		sb.WriteString(fmt.Sprintf("(TERM %q)", t.Token.String()))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", t.LHS))
	}

	for i := range t.Children {
		sb.WriteRune('\n')
		var leveledFirst, leveledCont string
		if i+1 < len(t.Children) {
			leveledFirst = contPrefix + makeTreeLevelPrefix("")
			leveledCont = contPrefix + treeLevelOngoing
		} else {
			leveledFirst = contPrefix + makeTreeLevelPrefixLast("")
			leveledCont = contPrefix + treeLevelEmpty
		}
		if t.Children[i] != nil {
			sb.WriteString(t.Children[i].leveledStr(leveledFirst, leveledCont))
		}
	}

	return sb.String()
}

// Leaves returns the token of every leaf descendant of t, in left-to-right
// order, including null tokens.
func (t *Tree) Leaves() []Token {
	if t.Leaf {
		return []Token{t.Token}
	}
	var out []Token
	for _, c := range t.Children {
		if c != nil {
			out = append(out, c.Leaves()...)
		}
	}
	return out
}
