package specfmt

import (
	"github.com/dekarrin/padd/internal/perrors"
	"github.com/dekarrin/padd/internal/symbol"
)

// regionKind mirrors the original implementation's RegionType enum.
type regionKind int

const (
	regionInjectable regionKind = iota
	regionIgnorable
	regionAlphabet
	regionCDFA
	regionGrammar
)

func (k regionKind) name() string {
	switch k {
	case regionInjectable:
		return "injectable"
	case regionIgnorable:
		return "ignorable"
	case regionAlphabet:
		return "alphabet"
	case regionCDFA:
		return "cdfa"
	case regionGrammar:
		return "grammar"
	default:
		return "unknown"
	}
}

// requiredRegions mirrors REQUIRED_REGIONS: cdfa and grammar regions must
// each appear at least once in the spec, everything else is optional.
var requiredRegions = []regionKind{regionCDFA, regionGrammar}

// traverseRegions walks the "spec -> regions" tree, invoking handler once
// per region with the region's single inner node and its kind, then checks
// that every required region kind was visited at least once.
func traverseRegions(specTree *symbol.Tree, handler func(inner *symbol.Tree, kind regionKind) error) error {
	regionsNode := specTree.Children[0] // spec -> regions

	seen := map[regionKind]bool{}
	if err := traverseRegionsNode(regionsNode, func(regionNode *symbol.Tree) error {
		inner := regionNode.Children[0] // region -> {alphabet|cdfa|grammar|ignorable|injectable}
		kind, ok := kindFromNode(inner)
		if !ok {
			return nil
		}
		seen[kind] = true
		return handler(inner, kind)
	}); err != nil {
		return err
	}

	for _, k := range requiredRegions {
		if !seen[k] {
			return perrors.Region(k.name())
		}
	}
	return nil
}

// traverseRegionsNode descends "regions -> regions region | region" in
// left-to-right order, invoking visit once per region node.
func traverseRegionsNode(t *symbol.Tree, visit func(*symbol.Tree) error) error {
	if len(t.RHS) == 2 {
		if err := traverseRegionsNode(t.Children[0], visit); err != nil {
			return err
		}
		return visit(t.Children[1])
	}
	return visit(t.Children[0])
}

func kindFromNode(inner *symbol.Tree) (regionKind, bool) {
	switch inner.LHS {
	case nAlphabet:
		return regionAlphabet, true
	case nCDFA:
		return regionCDFA, true
	case nGrammar:
		return regionGrammar, true
	case nIgnorable:
		return regionIgnorable, true
	case nInjectable:
		return regionInjectable, true
	default:
		return 0, false
	}
}
