package specfmt

import "github.com/dekarrin/padd/internal/grammar"

// Spec-language non-terminal names.
const (
	nSpec      = "spec"
	nRegions   = "regions"
	nRegion    = "region"
	nAlphabet  = "alphabet"
	nCDFA      = "cdfa"
	nStates    = "states"
	nState     = "state"
	nSDec      = "sdec"
	nAcceptor  = "acceptor"
	nAccdOpt   = "accd_opt"
	nTargets   = "targets"
	nTransOpt  = "trans_opt"
	nTrans     = "trans"
	nTran      = "tran"
	nTrand     = "trand"
	nConsumer  = "consumer"
	nMtcs      = "mtcs"
	nMtc       = "mtc"
	nIdOrDef   = "id_or_def"
	nGrammar   = "grammar"
	nProds     = "prods"
	nProd      = "prod"
	nRHSs      = "rhss"
	nRHS       = "rhs"
	nPattOpt   = "patt_opt"
	nIds       = "ids"
	nIgnorable = "ignorable"
	nInjectable = "injectable"
)

// buildSpecGrammar constructs the hard-coded grammar for the padd
// specification language, a structural port of the original implementation's
// build_spec_grammar, extended with the ignore/inject region productions and
// a consumer non-terminal supporting both '->' and '=>' transition forms.
func buildSpecGrammar() (*grammar.Grammar, error) {
	b := grammar.NewBuilder()
	b.TryMarkStart(nSpec)

	p := func(lhs string, rhs ...string) grammar.Production {
		return grammar.Production{LHS: lhs, RHS: rhs}
	}

	b.AddProductions([]grammar.Production{
		p(nSpec, nRegions),

		p(nRegions, nRegions, nRegion),
		p(nRegions, nRegion),

		p(nRegion, nAlphabet),
		p(nRegion, nCDFA),
		p(nRegion, nGrammar),
		p(nRegion, nIgnorable),
		p(nRegion, nInjectable),

		p(nAlphabet, tALPHABET, tCILC),

		p(nCDFA, tCDFA, tLBRACE, nStates, tRBRACE),
		p(nStates, nStates, nState),
		p(nStates, nState),
		p(nState, nSDec, nTransOpt, tSEMI),
		p(nSDec, nTargets),
		p(nSDec, nTargets, nAcceptor),
		p(nAcceptor, tHAT, nIdOrDef, nAccdOpt),
		p(nAccdOpt, tARROW, tID),
		p(nAccdOpt),
		p(nTargets, tID),
		p(nTargets, nTargets, tOR, tID),
		p(nTransOpt, nTrans),
		p(nTransOpt),
		p(nTrans, nTrans, nTran),
		p(nTrans, nTran),
		p(nTran, nMtcs, nConsumer, nTrand),
		p(nTran, tDEF, nConsumer, nTrand),
		p(nTrand, tID),
		p(nTrand, nAcceptor),
		p(nConsumer, tARROW),
		p(nConsumer, tDARROW),
		p(nMtcs, nMtcs, tOR, nMtc),
		p(nMtcs, nMtc),
		p(nMtc, tCILC),
		p(nMtc, tCILC, tRANGE, tCILC),

		p(nGrammar, tGRAMMAR, tLBRACE, nProds, tRBRACE),
		p(nProds, nProds, nProd),
		p(nProds, nProd),
		p(nProd, tID, nPattOpt, nRHSs, tSEMI),
		p(nRHSs, nRHSs, nRHS),
		p(nRHSs, nRHS),
		p(nRHS, tOR, nIds, nPattOpt),
		p(nPattOpt, tPATTC),
		p(nPattOpt),
		p(nIds, nIds, tID),
		p(nIds, nIds, tCOPTID),
		p(nIds),
		p(nIdOrDef, tID),
		p(nIdOrDef, tDEF),

		p(nIgnorable, tIGNORE, tID),
		p(nInjectable, tINJECT, tID, tID, nPattOpt),
	})

	return b.Build()
}
