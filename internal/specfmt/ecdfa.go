// Package specfmt is the specification compiler (spec.md §4.8): it parses
// the padd specification language with a hard-coded ECDFA and grammar (built
// with the same automaton.Builder/grammar.Builder APIs every generated
// engine uses), then walks the resulting parse tree to generate the target
// engine's own ECDFA, Grammar, and Formatter.
package specfmt

import "github.com/dekarrin/padd/internal/automaton"

// specAlphabet is the character set the spec language itself is written in.
// Underscore is placed immediately before the digits and letters so that a
// single MarkRange('_', 'Z') spans underscore-digits-lower-upper as one
// contiguous identifier-continuation range, while a range starting at '0'
// excludes underscore for identifier-start matching (leading underscore is
// reserved for the DEF token).
const specAlphabet = "`-=~!@#$%^&*()+{}|[]\\;':\"<>?,./_0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ \n\t"

// Spec-language state names.
const (
	sStart      = "Start"
	sTopComment = "TopComment"

	sKwAlphabet = "KwAlphabet"
	sKwCDFA     = "KwCDFA"
	sKwGrammar  = "KwGrammar"
	sKwIgnore   = "KwIgnore"
	sKwInject   = "KwInject"

	sAlphabetPre           = "AlphabetPre"
	sAlphabetStringPartial = "AlphabetStringPartial"
	sAlphabetStringEscaped = "AlphabetStringEscaped"
	sAlphabetString        = "AlphabetString"

	sCDFAPre        = "CDFAPre"
	sCDFAPreComment = "CDFAPreComment"
	sLBraceCDFA     = "LBraceCDFA"

	sCDFABody        = "CDFABody"
	sCDFABodyComment = "CDFABodyComment"
	sOrCDFA          = "OrCDFA"
	sSemiCDFA        = "SemiCDFA"
	sHatCDFA         = "HatCDFA"
	sArrowCDFA       = "ArrowCDFA"
	sDArrowCDFA      = "DArrowCDFA"
	sRangeCDFA       = "RangeCDFA"
	sDefCDFA         = "DefCDFA"
	sCilPartial      = "CilPartial"
	sCilEscaped      = "CilEscaped"
	sCil             = "Cil"
	sIdCDFA          = "IdCDFA"

	sRegionExitBrace = "RegionExitBrace"

	sGrammarPre        = "GrammarPre"
	sGrammarPreComment = "GrammarPreComment"
	sLBraceGrammar     = "LBraceGrammar"

	sGrammarBody        = "GrammarBody"
	sGrammarBodyComment = "GrammarBodyComment"
	sOrGrammar          = "OrGrammar"
	sSemiGrammar        = "SemiGrammar"
	sIdGrammar          = "IdGrammar"
	sOptIdPartial       = "OptIdPartial"
	sOptId              = "OptId"
	sPatternPartial     = "PatternPartial"
	sPatternEscaped     = "PatternEscaped"
	sPatternGrammar     = "PatternGrammar"

	sIgnorePre = "IgnorePre"
	sIdIgnore  = "IdIgnore"

	sInjectPre           = "InjectPre"
	sIdInjectAffinity    = "IdInjectAffinity"
	sInjectMid           = "InjectMid"
	sIdInjectTerm        = "IdInjectTerm"
	sInjectPost          = "InjectPost"
	sPatternInjectPartial = "PatternInjectPartial"
	sPatternInjectEscaped = "PatternInjectEscaped"
	sPatternInject         = "PatternInject"
)

// Spec-language terminal symbol names, shared between the hard-coded
// ECDFA's tokenizers and the hard-coded grammar's terminals.
const (
	tALPHABET = "ALPHABET"
	tCDFA     = "CDFA"
	tGRAMMAR  = "GRAMMAR"
	tIGNORE   = "IGNORE"
	tINJECT   = "INJECT"
	tCILC     = "CILC"
	tLBRACE   = "LBRACE"
	tRBRACE   = "RBRACE"
	tID       = "ID"
	tHAT      = "HAT"
	tARROW    = "ARROW"
	tDARROW   = "DARROW"
	tRANGE    = "RANGE"
	tOR       = "OR"
	tSEMI     = "SEMI"
	tDEF      = "DEF"
	tPATTC    = "PATTC"
	tCOPTID   = "COPTID"
)

// buildSpecECDFA constructs the hard-coded ECDFA that scans the padd
// specification language itself, a structural port of the original
// implementation's build_spec_ecdfa, extended with the ignore/inject
// regions and the '=>' (consume-none) consumer form spec.md adds.
func buildSpecECDFA() (*automaton.ECDFA, error) {
	b := automaton.NewBuilder()
	b.SetAlphabet(specAlphabet)
	b.MarkStart(sStart)

	if err := addRegionMenu(b, sStart); err != nil {
		return nil, err
	}
	ws := []rune{' ', '\t', '\n'}
	for _, r := range ws {
		if err := markSelf(b, sStart, r); err != nil {
			return nil, err
		}
	}
	// Start accepts without a token, so whitespace and comment lines after
	// the last region scan as nothing.
	b.Accept(sStart)
	if err := must(b.MarkTrans(sStart, automaton.Transit{Dest: sTopComment}, '#')); err != nil {
		return nil, err
	}
	if err := must(b.DefaultTo(sTopComment, automaton.Transit{Dest: sTopComment})); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sTopComment, automaton.Transit{Dest: sStart}, '\n')); err != nil {
		return nil, err
	}

	// --- keyword dispatch ---
	b.Accept(sKwAlphabet)
	b.Tokenize(sKwAlphabet, tALPHABET)
	if err := must(b.AcceptToFromAll(sKwAlphabet, sAlphabetPre)); err != nil {
		return nil, err
	}
	b.Accept(sKwCDFA)
	b.Tokenize(sKwCDFA, tCDFA)
	if err := must(b.AcceptToFromAll(sKwCDFA, sCDFAPre)); err != nil {
		return nil, err
	}
	b.Accept(sKwGrammar)
	b.Tokenize(sKwGrammar, tGRAMMAR)
	if err := must(b.AcceptToFromAll(sKwGrammar, sGrammarPre)); err != nil {
		return nil, err
	}
	b.Accept(sKwIgnore)
	b.Tokenize(sKwIgnore, tIGNORE)
	if err := must(b.AcceptToFromAll(sKwIgnore, sIgnorePre)); err != nil {
		return nil, err
	}
	b.Accept(sKwInject)
	b.Tokenize(sKwInject, tINJECT)
	if err := must(b.AcceptToFromAll(sKwInject, sInjectPre)); err != nil {
		return nil, err
	}

	// --- alphabet region: alphabet '...' ---
	for _, r := range ws {
		if err := markSelf(b, sAlphabetPre, r); err != nil {
			return nil, err
		}
	}
	if err := must(b.MarkTrans(sAlphabetPre, automaton.Transit{Dest: sAlphabetStringPartial}, '\'')); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sAlphabetStringPartial, automaton.Transit{Dest: sAlphabetStringEscaped}, '\\')); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sAlphabetStringPartial, automaton.Transit{Dest: sAlphabetString}, '\'')); err != nil {
		return nil, err
	}
	if err := must(b.DefaultTo(sAlphabetStringPartial, automaton.Transit{Dest: sAlphabetStringPartial})); err != nil {
		return nil, err
	}
	if err := must(b.DefaultTo(sAlphabetStringEscaped, automaton.Transit{Dest: sAlphabetStringPartial})); err != nil {
		return nil, err
	}
	b.Accept(sAlphabetString)
	b.Tokenize(sAlphabetString, tCILC)
	if err := must(b.AcceptToFromAll(sAlphabetString, sStart)); err != nil {
		return nil, err
	}

	// --- cdfa region: cdfa { ... } ---
	for _, r := range ws {
		if err := markSelf(b, sCDFAPre, r); err != nil {
			return nil, err
		}
	}
	if err := must(b.MarkTrans(sCDFAPre, automaton.Transit{Dest: sCDFAPreComment}, '#')); err != nil {
		return nil, err
	}
	if err := must(b.DefaultTo(sCDFAPreComment, automaton.Transit{Dest: sCDFAPreComment})); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sCDFAPreComment, automaton.Transit{Dest: sCDFAPre}, '\n')); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sCDFAPre, automaton.Transit{Dest: sLBraceCDFA}, '{')); err != nil {
		return nil, err
	}
	b.Accept(sLBraceCDFA)
	b.Tokenize(sLBraceCDFA, tLBRACE)
	if err := must(b.AcceptToFromAll(sLBraceCDFA, sCDFABody)); err != nil {
		return nil, err
	}

	if err := buildCDFABody(b, ws); err != nil {
		return nil, err
	}

	// --- grammar region: grammar { ... } ---
	for _, r := range ws {
		if err := markSelf(b, sGrammarPre, r); err != nil {
			return nil, err
		}
	}
	if err := must(b.MarkTrans(sGrammarPre, automaton.Transit{Dest: sGrammarPreComment}, '#')); err != nil {
		return nil, err
	}
	if err := must(b.DefaultTo(sGrammarPreComment, automaton.Transit{Dest: sGrammarPreComment})); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sGrammarPreComment, automaton.Transit{Dest: sGrammarPre}, '\n')); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sGrammarPre, automaton.Transit{Dest: sLBraceGrammar}, '{')); err != nil {
		return nil, err
	}
	b.Accept(sLBraceGrammar)
	b.Tokenize(sLBraceGrammar, tLBRACE)
	if err := must(b.AcceptToFromAll(sLBraceGrammar, sGrammarBody)); err != nil {
		return nil, err
	}

	if err := buildGrammarBody(b, ws); err != nil {
		return nil, err
	}

	// shared region-exit brace, returns to Start regardless of which body.
	b.Accept(sRegionExitBrace)
	b.Tokenize(sRegionExitBrace, tRBRACE)
	if err := must(b.AcceptToFromAll(sRegionExitBrace, sStart)); err != nil {
		return nil, err
	}

	// --- ignore region: ignore ID ---
	for _, r := range ws {
		if err := markSelf(b, sIgnorePre, r); err != nil {
			return nil, err
		}
	}
	if err := must(b.MarkRange(sIgnorePre, automaton.Transit{Dest: sIdIgnore}, '0', 'Z')); err != nil {
		return nil, err
	}
	if err := must(b.MarkRange(sIdIgnore, automaton.Transit{Dest: sIdIgnore}, '_', 'Z')); err != nil {
		return nil, err
	}
	b.Accept(sIdIgnore)
	b.Tokenize(sIdIgnore, tID)
	if err := must(b.AcceptToFromAll(sIdIgnore, sStart)); err != nil {
		return nil, err
	}

	// --- inject region: inject left|right ID [`pattern`] ---
	for _, r := range ws {
		if err := markSelf(b, sInjectPre, r); err != nil {
			return nil, err
		}
	}
	if err := must(b.MarkRange(sInjectPre, automaton.Transit{Dest: sIdInjectAffinity}, '0', 'Z')); err != nil {
		return nil, err
	}
	if err := must(b.MarkRange(sIdInjectAffinity, automaton.Transit{Dest: sIdInjectAffinity}, '_', 'Z')); err != nil {
		return nil, err
	}
	b.Accept(sIdInjectAffinity)
	b.Tokenize(sIdInjectAffinity, tID)
	if err := must(b.AcceptToFromAll(sIdInjectAffinity, sInjectMid)); err != nil {
		return nil, err
	}

	for _, r := range ws {
		if err := markSelf(b, sInjectMid, r); err != nil {
			return nil, err
		}
	}
	if err := must(b.MarkRange(sInjectMid, automaton.Transit{Dest: sIdInjectTerm}, '0', 'Z')); err != nil {
		return nil, err
	}
	if err := must(b.MarkRange(sIdInjectTerm, automaton.Transit{Dest: sIdInjectTerm}, '_', 'Z')); err != nil {
		return nil, err
	}
	b.Accept(sIdInjectTerm)
	b.Tokenize(sIdInjectTerm, tID)
	if err := must(b.AcceptToFromAll(sIdInjectTerm, sInjectPost)); err != nil {
		return nil, err
	}

	for _, r := range ws {
		if err := markSelf(b, sInjectPost, r); err != nil {
			return nil, err
		}
	}
	if err := addRegionMenu(b, sInjectPost); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sInjectPost, automaton.Transit{Dest: sPatternInjectPartial}, '`')); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sPatternInjectPartial, automaton.Transit{Dest: sPatternInjectEscaped}, '\\')); err != nil {
		return nil, err
	}
	if err := must(b.MarkTrans(sPatternInjectPartial, automaton.Transit{Dest: sPatternInject}, '`')); err != nil {
		return nil, err
	}
	if err := must(b.DefaultTo(sPatternInjectPartial, automaton.Transit{Dest: sPatternInjectPartial})); err != nil {
		return nil, err
	}
	if err := must(b.DefaultTo(sPatternInjectEscaped, automaton.Transit{Dest: sPatternInjectPartial})); err != nil {
		return nil, err
	}
	b.Accept(sPatternInject)
	b.Tokenize(sPatternInject, tPATTC)
	if err := must(b.AcceptToFromAll(sPatternInject, sStart)); err != nil {
		return nil, err
	}

	return b.Build()
}

// addRegionMenu registers the five region-introducing keyword chains on
// from, reused both by Start and by InjectPost (which falls through to the
// next region when an injectable declares no pattern).
func addRegionMenu(b *automaton.Builder, from string) error {
	chains := []struct {
		kw   string
		dest string
	}{
		{"alphabet", sKwAlphabet},
		{"cdfa", sKwCDFA},
		{"grammar", sKwGrammar},
		{"ignore", sKwIgnore},
		{"inject", sKwInject},
	}
	for _, c := range chains {
		if err := b.MarkChain(from, automaton.Transit{Dest: c.dest}, []rune(c.kw)); err != nil {
			return err
		}
	}
	return nil
}

func markSelf(b *automaton.Builder, state string, r rune) error {
	return b.MarkTrans(state, automaton.Transit{Dest: state}, r)
}

func must(err error) error { return err }

func buildCDFABody(b *automaton.Builder, ws []rune) error {
	for _, r := range ws {
		if err := markSelf(b, sCDFABody, r); err != nil {
			return err
		}
	}
	if err := must(b.MarkTrans(sCDFABody, automaton.Transit{Dest: sCDFABodyComment}, '#')); err != nil {
		return err
	}
	if err := must(b.DefaultTo(sCDFABodyComment, automaton.Transit{Dest: sCDFABodyComment})); err != nil {
		return err
	}
	if err := must(b.MarkTrans(sCDFABodyComment, automaton.Transit{Dest: sCDFABody}, '\n')); err != nil {
		return err
	}

	single := []struct {
		r    rune
		dest string
		tok  string
	}{
		{'|', sOrCDFA, tOR},
		{';', sSemiCDFA, tSEMI},
		{'^', sHatCDFA, tHAT},
		{'_', sDefCDFA, tDEF},
		{'}', sRegionExitBrace, tRBRACE},
	}
	for _, s := range single {
		if err := must(b.MarkTrans(sCDFABody, automaton.Transit{Dest: s.dest}, s.r)); err != nil {
			return err
		}
		if s.dest == sRegionExitBrace {
			continue // registered once, below/above
		}
		b.Accept(s.dest)
		b.Tokenize(s.dest, s.tok)
		if err := must(b.AcceptToFromAll(s.dest, sCDFABody)); err != nil {
			return err
		}
	}

	if err := must(b.MarkChain(sCDFABody, automaton.Transit{Dest: sArrowCDFA}, []rune("->"))); err != nil {
		return err
	}
	b.Accept(sArrowCDFA)
	b.Tokenize(sArrowCDFA, tARROW)
	if err := must(b.AcceptToFromAll(sArrowCDFA, sCDFABody)); err != nil {
		return err
	}

	if err := must(b.MarkChain(sCDFABody, automaton.Transit{Dest: sDArrowCDFA}, []rune("=>"))); err != nil {
		return err
	}
	b.Accept(sDArrowCDFA)
	b.Tokenize(sDArrowCDFA, tDARROW)
	if err := must(b.AcceptToFromAll(sDArrowCDFA, sCDFABody)); err != nil {
		return err
	}

	if err := must(b.MarkChain(sCDFABody, automaton.Transit{Dest: sRangeCDFA}, []rune(".."))); err != nil {
		return err
	}
	b.Accept(sRangeCDFA)
	b.Tokenize(sRangeCDFA, tRANGE)
	if err := must(b.AcceptToFromAll(sRangeCDFA, sCDFABody)); err != nil {
		return err
	}

	if err := must(b.MarkTrans(sCDFABody, automaton.Transit{Dest: sCilPartial}, '\'')); err != nil {
		return err
	}
	if err := must(b.MarkTrans(sCilPartial, automaton.Transit{Dest: sCilEscaped}, '\\')); err != nil {
		return err
	}
	if err := must(b.MarkTrans(sCilPartial, automaton.Transit{Dest: sCil}, '\'')); err != nil {
		return err
	}
	if err := must(b.DefaultTo(sCilPartial, automaton.Transit{Dest: sCilPartial})); err != nil {
		return err
	}
	if err := must(b.DefaultTo(sCilEscaped, automaton.Transit{Dest: sCilPartial})); err != nil {
		return err
	}
	b.Accept(sCil)
	b.Tokenize(sCil, tCILC)
	if err := must(b.AcceptToFromAll(sCil, sCDFABody)); err != nil {
		return err
	}

	if err := must(b.MarkRange(sCDFABody, automaton.Transit{Dest: sIdCDFA}, '0', 'Z')); err != nil {
		return err
	}
	if err := must(b.MarkRange(sIdCDFA, automaton.Transit{Dest: sIdCDFA}, '_', 'Z')); err != nil {
		return err
	}
	b.Accept(sIdCDFA)
	b.Tokenize(sIdCDFA, tID)
	return must(b.AcceptToFromAll(sIdCDFA, sCDFABody))
}

func buildGrammarBody(b *automaton.Builder, ws []rune) error {
	for _, r := range ws {
		if err := markSelf(b, sGrammarBody, r); err != nil {
			return err
		}
	}
	if err := must(b.MarkTrans(sGrammarBody, automaton.Transit{Dest: sGrammarBodyComment}, '#')); err != nil {
		return err
	}
	if err := must(b.DefaultTo(sGrammarBodyComment, automaton.Transit{Dest: sGrammarBodyComment})); err != nil {
		return err
	}
	if err := must(b.MarkTrans(sGrammarBodyComment, automaton.Transit{Dest: sGrammarBody}, '\n')); err != nil {
		return err
	}

	if err := must(b.MarkTrans(sGrammarBody, automaton.Transit{Dest: sOrGrammar}, '|')); err != nil {
		return err
	}
	b.Accept(sOrGrammar)
	b.Tokenize(sOrGrammar, tOR)
	if err := must(b.AcceptToFromAll(sOrGrammar, sGrammarBody)); err != nil {
		return err
	}

	if err := must(b.MarkTrans(sGrammarBody, automaton.Transit{Dest: sSemiGrammar}, ';')); err != nil {
		return err
	}
	b.Accept(sSemiGrammar)
	b.Tokenize(sSemiGrammar, tSEMI)
	if err := must(b.AcceptToFromAll(sSemiGrammar, sGrammarBody)); err != nil {
		return err
	}

	if err := must(b.MarkTrans(sGrammarBody, automaton.Transit{Dest: sRegionExitBrace}, '}')); err != nil {
		return err
	}

	if err := must(b.MarkTrans(sGrammarBody, automaton.Transit{Dest: sOptIdPartial}, '[')); err != nil {
		return err
	}
	if err := must(b.MarkRange(sOptIdPartial, automaton.Transit{Dest: sOptIdPartial}, '_', 'Z')); err != nil {
		return err
	}
	if err := must(b.MarkTrans(sOptIdPartial, automaton.Transit{Dest: sOptId}, ']')); err != nil {
		return err
	}
	b.Accept(sOptId)
	b.Tokenize(sOptId, tCOPTID)
	if err := must(b.AcceptToFromAll(sOptId, sGrammarBody)); err != nil {
		return err
	}

	if err := must(b.MarkTrans(sGrammarBody, automaton.Transit{Dest: sPatternPartial}, '`')); err != nil {
		return err
	}
	if err := must(b.MarkTrans(sPatternPartial, automaton.Transit{Dest: sPatternEscaped}, '\\')); err != nil {
		return err
	}
	if err := must(b.MarkTrans(sPatternPartial, automaton.Transit{Dest: sPatternGrammar}, '`')); err != nil {
		return err
	}
	if err := must(b.DefaultTo(sPatternPartial, automaton.Transit{Dest: sPatternPartial})); err != nil {
		return err
	}
	if err := must(b.DefaultTo(sPatternEscaped, automaton.Transit{Dest: sPatternPartial})); err != nil {
		return err
	}
	b.Accept(sPatternGrammar)
	b.Tokenize(sPatternGrammar, tPATTC)
	if err := must(b.AcceptToFromAll(sPatternGrammar, sGrammarBody)); err != nil {
		return err
	}

	if err := must(b.MarkRange(sGrammarBody, automaton.Transit{Dest: sIdGrammar}, '0', 'Z')); err != nil {
		return err
	}
	if err := must(b.MarkRange(sIdGrammar, automaton.Transit{Dest: sIdGrammar}, '_', 'Z')); err != nil {
		return err
	}
	b.Accept(sIdGrammar)
	b.Tokenize(sIdGrammar, tID)
	return must(b.AcceptToFromAll(sIdGrammar, sGrammarBody))
}
