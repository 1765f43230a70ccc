// Package pattern compiles the small pattern sub-language used to format
// grammar productions (spec.md §4.6) into an ordered list of Segments: a
// formatting template is a run of literal filler text, substitution
// variable lookups (`[name]`), and captures (`{}`, `{n}`, `{n;k=v;k=v}`)
// that recurse into a specific child of the production the pattern is
// attached to.
package pattern

import (
	"strings"

	"github.com/dekarrin/padd/internal/perrors"
)

// SegmentKind distinguishes the three segment shapes a pattern compiles to.
type SegmentKind int

const (
	Filler SegmentKind = iota
	Substitution
	Capture
)

// Declaration is a single `key=value` (or bare `key` to delete a binding)
// clause inside a capture. Value is nil when the declaration deletes an
// inherited binding instead of setting one; otherwise it is itself a small
// compiled pattern (filler + substitution segments only) evaluated against
// the *parent* scope at format time to produce the bound string.
type Declaration struct {
	Key   string
	Value []Segment
}

// Segment is one piece of a compiled pattern.
type Segment struct {
	Kind SegmentKind

	// Filler: the literal text.
	Text string

	// Substitution: the scope variable name to look up.
	SubstName string

	// Capture: the child index to recurse into, plus the scope declarations
	// to apply before recursing.
	ChildIndex   int
	Declarations []Declaration
}

// Compile scans and parses src into a Segment list, validating that every
// capture's child index lies in [0, rhsLen) (spec.md I3). rhsLen is the
// number of symbols on the right-hand side of the production the pattern is
// attached to.
func Compile(src string, rhsLen int) ([]Segment, error) {
	c := &compiler{runes: []rune(src), rhsLen: rhsLen}
	segs, err := c.compileRun(false)
	if err != nil {
		return nil, err
	}
	if c.pos != len(c.runes) {
		return nil, perrors.Formatter(perrors.PatternParse, "unexpected trailing input in pattern")
	}
	return segs, nil
}

type compiler struct {
	runes      []rune
	pos        int
	rhsLen     int
	autoCursor int
}

func (c *compiler) peek() (rune, bool) {
	if c.pos >= len(c.runes) {
		return 0, false
	}
	return c.runes[c.pos], true
}

// compileRun scans a run of filler/substitution/capture segments. When
// declValue is true, the run stops at an unescaped ';' or '}' and captures
// are not permitted (declaration values are plain filler+substitution
// patterns).
func (c *compiler) compileRun(declValue bool) ([]Segment, error) {
	var segs []Segment
	var filler strings.Builder

	flush := func() {
		if filler.Len() > 0 {
			segs = append(segs, Segment{Kind: Filler, Text: filler.String()})
			filler.Reset()
		}
	}

	for {
		r, ok := c.peek()
		if !ok {
			break
		}
		if declValue && (r == ';' || r == '}') {
			break
		}

		switch r {
		case '\\':
			c.pos++
			esc, ok := c.peek()
			if !ok {
				return nil, perrors.Formatter(perrors.PatternScan, "dangling escape at end of pattern")
			}
			c.pos++
			switch esc {
			case 'n':
				filler.WriteRune('\n')
			case 't':
				filler.WriteRune('\t')
			case '\'':
				filler.WriteRune('\'')
			case '\\':
				filler.WriteRune('\\')
			default:
				return nil, perrors.Formatter(perrors.PatternScan, "unknown escape sequence \\"+string(esc))
			}
		case '[':
			flush()
			c.pos++
			name, err := c.readUntil(']')
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Kind: Substitution, SubstName: name})
		case '{':
			if declValue {
				return nil, perrors.Formatter(perrors.PatternParse, "captures are not allowed inside a declaration value")
			}
			flush()
			seg, err := c.compileCapture()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		default:
			filler.WriteRune(r)
			c.pos++
		}
	}

	flush()
	return segs, nil
}

// readUntil consumes runes up to (and including) the next occurrence of
// delim, returning what preceded it.
func (c *compiler) readUntil(delim rune) (string, error) {
	start := c.pos
	for {
		r, ok := c.peek()
		if !ok {
			return "", perrors.Formatter(perrors.PatternScan, "unterminated '"+string(delim)+"' in pattern")
		}
		if r == delim {
			s := string(c.runes[start:c.pos])
			c.pos++
			return s, nil
		}
		c.pos++
	}
}

// compileCapture parses a capture whose opening '{' is at pos.
func (c *compiler) compileCapture() (Segment, error) {
	c.pos++ // consume '{'

	idx := -1
	if r, ok := c.peek(); ok && r >= '0' && r <= '9' {
		n := 0
		for {
			r, ok := c.peek()
			if !ok || r < '0' || r > '9' {
				break
			}
			n = n*10 + int(r-'0')
			c.pos++
		}
		idx = n
	}

	var decls []Declaration
	for {
		r, ok := c.peek()
		if !ok {
			return Segment{}, perrors.Formatter(perrors.PatternScan, "unterminated capture in pattern")
		}
		if r == '}' {
			c.pos++
			break
		}
		if r != ';' {
			return Segment{}, perrors.Formatter(perrors.PatternParse, "expected ';' or '}' in capture")
		}
		c.pos++
		decl, err := c.compileDeclaration()
		if err != nil {
			return Segment{}, err
		}
		decls = append(decls, decl)
	}

	if idx < 0 {
		idx = c.autoCursor
		c.autoCursor++
	} else {
		c.autoCursor = idx + 1
	}

	if idx >= c.rhsLen {
		return Segment{}, perrors.Formatter(perrors.Capture, "capture index out of range for production")
	}

	return Segment{Kind: Capture, ChildIndex: idx, Declarations: decls}, nil
}

// compileDeclaration parses a single `key` or `key=value` clause, where
// value runs until the next ';' or the closing '}'.
func (c *compiler) compileDeclaration() (Declaration, error) {
	start := c.pos
	for {
		r, ok := c.peek()
		if !ok {
			return Declaration{}, perrors.Formatter(perrors.PatternScan, "unterminated declaration in pattern")
		}
		if r == '=' || r == ';' || r == '}' {
			break
		}
		c.pos++
	}
	key := string(c.runes[start:c.pos])
	if key == "" {
		return Declaration{}, perrors.Formatter(perrors.PatternParse, "empty declaration key in pattern")
	}

	r, _ := c.peek()
	if r != '=' {
		return Declaration{Key: key, Value: nil}, nil
	}
	c.pos++ // consume '='

	value, err := c.compileRun(true)
	if err != nil {
		return Declaration{}, err
	}
	return Declaration{Key: key, Value: value}, nil
}
