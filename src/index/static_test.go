package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSymbol(qualifiedName string, kind SymbolKind) Symbol {
	return NewSymbol(qualifiedName, kind)
}

func collectSymbols(idx SymbolIndex, req *FuzzyFindRequest) ([]Symbol, bool) {
	var out []Symbol
	truncated := idx.FuzzyFind(req, func(sym Symbol) {
		out = append(out, sym)
	})
	return out, truncated
}

func symbolNames(symbols []Symbol) []string {
	names := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		names = append(names, sym.Name)
	}
	return names
}

func TestBuilder_LastWriteWins(t *testing.T) {
	b := NewBuilder()

	first := testSymbol("ns::Widget", KindClass)
	first.Documentation = "first"
	second := testSymbol("ns::Widget", KindClass)
	second.Documentation = "second"

	b.Add(first)
	b.Add(second)
	idx := b.Build()

	require.Equal(t, 1, idx.Len(), "Duplicate IDs should collapse to one symbol")

	sym, ok := idx.Lookup(second.ID)
	require.True(t, ok)
	assert.Equal(t, "second", sym.Documentation, "Later add should win")
}

func TestBuilder_DropsUnnamedSymbols(t *testing.T) {
	b := NewBuilder()
	b.Add(Symbol{Scope: "ns", Kind: KindFunction})
	b.Add(testSymbol("kept", KindVariable))

	idx := b.Build()
	assert.Equal(t, 1, idx.Len(), "Symbols without a name should be ignored")
}

func TestBuilder_ForcesStaticOrigin(t *testing.T) {
	sym := testSymbol("foo", KindFunction)
	sym.Origin = OriginDynamic

	idx := Build([]Symbol{sym})

	got, ok := idx.Lookup(sym.ID)
	require.True(t, ok)
	assert.Equal(t, OriginStatic, got.Origin)
}

func TestStaticIndex_LookupByID(t *testing.T) {
	syms := []Symbol{
		testSymbol("ns::foo", KindFunction),
		testSymbol("bar", KindVariable),
	}
	idx := Build(syms)

	sym, ok := idx.Lookup(NewSymbolID("ns", "foo", ""))
	require.True(t, ok)
	assert.Equal(t, "foo", sym.Name)
	assert.Equal(t, "ns", sym.Scope)

	_, ok = idx.Lookup(SymbolID("missing"))
	assert.False(t, ok, "Unknown IDs should not resolve")
}

func TestStaticIndex_FuzzyFindRanksSubsequenceMatches(t *testing.T) {
	idx := Build([]Symbol{
		testSymbol("BigBang", KindFunction),
		testSymbol("Babble", KindFunction),
		testSymbol("Ball", KindFunction),
	})

	got, truncated := collectSymbols(idx, &FuzzyFindRequest{Query: "bb"})

	assert.False(t, truncated)
	require.Equal(t, []string{"BigBang", "Babble"}, symbolNames(got),
		"Word-boundary matches should outrank plain subsequences and non-matches should be absent")
}

func TestStaticIndex_FuzzyFindScopeRestriction(t *testing.T) {
	idx := Build([]Symbol{
		testSymbol("ns::visible", KindFunction),
		testSymbol("other::hidden", KindFunction),
		testSymbol("global", KindVariable),
	})

	got, _ := collectSymbols(idx, &FuzzyFindRequest{Scopes: []string{"ns"}})
	assert.Equal(t, []string{"visible"}, symbolNames(got), "Scoped query should only see its scope")

	got, _ = collectSymbols(idx, &FuzzyFindRequest{Scopes: []string{""}})
	assert.Equal(t, []string{"global"}, symbolNames(got), "Empty scope entry selects the global scope")

	got, _ = collectSymbols(idx, &FuzzyFindRequest{Scopes: []string{"ns", ""}})
	assert.Len(t, got, 2)
}

func TestStaticIndex_FuzzyFindLimitTruncates(t *testing.T) {
	idx := Build([]Symbol{
		testSymbol("AAA", KindClass),
		testSymbol("BBB", KindClass),
		testSymbol("CCC", KindClass),
	})

	got, truncated := collectSymbols(idx, &FuzzyFindRequest{Limit: 2})

	assert.True(t, truncated, "Exceeding the limit should report truncation")
	assert.Equal(t, []string{"AAA", "BBB"}, symbolNames(got), "Ties should stream in name order")

	got, truncated = collectSymbols(idx, &FuzzyFindRequest{Limit: 3})
	assert.False(t, truncated, "An exact fit is not truncated")
	assert.Len(t, got, 3)
}

func TestStaticIndex_EmptyQueryMatchesAll(t *testing.T) {
	idx := Build([]Symbol{
		testSymbol("alpha", KindFunction),
		testSymbol("ns::beta", KindClass),
	})

	got, truncated := collectSymbols(idx, &FuzzyFindRequest{})
	assert.False(t, truncated)
	assert.Len(t, got, 2, "Empty query should match every symbol")
}

func TestStaticIndex_Stats(t *testing.T) {
	idx := Build([]Symbol{
		testSymbol("a", KindFunction),
		testSymbol("b", KindFunction),
		testSymbol("ns::c", KindClass),
	})

	stats := idx.Stats()
	assert.Equal(t, 3, stats.Symbols)
	assert.Equal(t, 2, stats.Scopes)
	assert.Equal(t, 2, stats.ByKind["function"])
	assert.Equal(t, 1, stats.ByKind["class"])
}
