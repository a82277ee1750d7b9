package index

import (
	"sort"

	"lsp-core/src/internal/fuzzy"
)

// Merge composes a dynamic and a static index into one read-only view.
// Results are deduplicated by ID with the dynamic source winning, so a
// symbol edited in an open file reflects its edited definition rather than
// a stale prebuilt copy, while unopened symbols still surface from the
// static side. Either source may be nil.
func Merge(dynamic, static SymbolIndex) SymbolIndex {
	if dynamic == nil {
		return static
	}
	if static == nil {
		return dynamic
	}
	return &mergedIndex{dynamic: dynamic, static: static}
}

type mergedIndex struct {
	dynamic SymbolIndex
	static  SymbolIndex
}

var _ SymbolIndex = (*mergedIndex)(nil)

// FuzzyFind queries both sources unbounded, keeps one symbol per ID, and
// re-scores the union so the streamed order is a valid total order again:
// descending relevance, ties dynamic-before-static, then name, then ID.
// Truncation by req.Limit happens only after deduplication.
func (m *mergedIndex) FuzzyFind(req *FuzzyFindRequest, fn func(Symbol)) bool {
	inner := *req
	inner.Limit = 0

	seen := make(map[SymbolID]struct{})
	var matches []scoredSymbol

	collect := func(sym Symbol) {
		if _, dup := seen[sym.ID]; dup {
			return
		}
		seen[sym.ID] = struct{}{}
		res, ok := fuzzy.Match(req.Query, sym.Name)
		if !ok {
			return
		}
		matches = append(matches, scoredSymbol{sym: sym, score: res.Score})
	}

	m.dynamic.FuzzyFind(&inner, collect)
	m.static.FuzzyFind(&inner, collect)

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		if matches[i].sym.Origin != matches[j].sym.Origin {
			return matches[i].sym.Origin == OriginDynamic
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
	for _, match := range matches {
		fn(match.sym)
	}
	return truncated
}

// Lookup prefers the dynamic source.
func (m *mergedIndex) Lookup(id SymbolID) (Symbol, bool) {
	if sym, ok := m.dynamic.Lookup(id); ok {
		return sym, true
	}
	return m.static.Lookup(id)
}
