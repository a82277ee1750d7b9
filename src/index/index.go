package index

import (
	"sort"

	"lsp-core/src/internal/fuzzy"
)

// FuzzyFindRequest restricts and shapes an index query.
type FuzzyFindRequest struct {
	// Query is the typed prefix candidates must fuzzy-match. Empty matches
	// every symbol.
	Query string
	// Scopes restricts results to symbols whose scope equals one of the
	// entries. A "" entry selects the global scope. Nil means unrestricted.
	Scopes []string
	// Limit bounds the number of streamed results. 0 means unbounded.
	Limit int
}

// SymbolIndex is the queryable capability every index variant implements.
type SymbolIndex interface {
	// FuzzyFind streams matching symbols to fn in descending internal
	// relevance order. The sequence is lazy, finite, and single-use; fn must
	// not retain the callback argument beyond the call. FuzzyFind returns
	// true when results were truncated by req.Limit.
	FuzzyFind(req *FuzzyFindRequest, fn func(Symbol)) bool

	// Lookup returns the symbol with the given identity.
	Lookup(id SymbolID) (Symbol, bool)
}

// scoredSymbol pairs a symbol with its query relevance while ranking.
type scoredSymbol struct {
	sym   Symbol
	score float64
}

// symbolTable is the shared read structure behind the static index and every
// frozen dynamic view: an ID map plus name-sorted per-scope buckets.
type symbolTable struct {
	byID    map[SymbolID]Symbol
	byScope map[string][]Symbol
	scopes  []string // sorted, for deterministic unrestricted scans
}

func newSymbolTable(symbols map[SymbolID]Symbol) *symbolTable {
	t := &symbolTable{
		byID:    symbols,
		byScope: make(map[string][]Symbol),
	}
	for _, sym := range symbols {
		t.byScope[sym.Scope] = append(t.byScope[sym.Scope], sym)
	}
	for scope, bucket := range t.byScope {
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Name != bucket[j].Name {
				return bucket[i].Name < bucket[j].Name
			}
			return bucket[i].ID < bucket[j].ID
		})
		t.scopes = append(t.scopes, scope)
	}
	sort.Strings(t.scopes)
	return t
}

func (t *symbolTable) len() int {
	return len(t.byID)
}

func (t *symbolTable) lookup(id SymbolID) (Symbol, bool) {
	sym, ok := t.byID[id]
	return sym, ok
}

// symbols returns every entry ordered by scope then name.
func (t *symbolTable) symbols() []Symbol {
	out := make([]Symbol, 0, len(t.byID))
	for _, scope := range t.scopes {
		out = append(out, t.byScope[scope]...)
	}
	return out
}

// fuzzyFind ranks matches by fuzzy score with name and ID tie-breaks, then
// streams up to req.Limit of them.
func (t *symbolTable) fuzzyFind(req *FuzzyFindRequest, fn func(Symbol)) bool {
	scopes := req.Scopes
	if scopes == nil {
		scopes = t.scopes
	}

	var matches []scoredSymbol
	for _, scope := range scopes {
		for _, sym := range t.byScope[scope] {
			res, ok := fuzzy.Match(req.Query, sym.Name)
			if !ok {
				continue
			}
			matches = append(matches, scoredSymbol{sym: sym, score: res.Score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		if matches[i].sym.Name != matches[j].sym.Name {
			return matches[i].sym.Name < matches[j].sym.Name
		}
		return matches[i].sym.ID < matches[j].sym.ID
	})

	truncated := false
	if req.Limit > 0 && len(matches) > req.Limit {
		matches = matches[:req.Limit]
		truncated = true
	}
	for _, m := range matches {
		fn(m.sym)
	}
	return truncated
}

// Stats summarizes an index for diagnostics and the CLI.
type Stats struct {
	Symbols int
	Scopes  int
	ByKind  map[string]int
}

func (t *symbolTable) stats() Stats {
	s := Stats{
		Symbols: len(t.byID),
		Scopes:  len(t.byScope),
		ByKind:  make(map[string]int),
	}
	for _, sym := range t.byID {
		s.ByKind[sym.Kind.String()]++
	}
	return s
}
