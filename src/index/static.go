package index

// Builder accumulates symbols in any order and produces an immutable
// StaticIndex. Duplicate IDs keep the last write; malformed symbols are
// dropped silently.
type Builder struct {
	symbols map[SymbolID]Symbol
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{symbols: make(map[SymbolID]Symbol)}
}

// Add records one symbol. Symbols without a name are ignored; symbols
// without an ID get one derived from their qualified name and signature.
func (b *Builder) Add(sym Symbol) {
	if !sym.Valid() {
		return
	}
	sym = sym.withID()
	sym.Origin = OriginStatic
	b.symbols[sym.ID] = sym
}

// Build freezes the accumulated symbols into a StaticIndex. The builder
// must not be reused afterwards.
func (b *Builder) Build() *StaticIndex {
	idx := &StaticIndex{table: newSymbolTable(b.symbols)}
	b.symbols = nil
	return idx
}

// Build constructs a StaticIndex directly from a symbol slice.
func Build(symbols []Symbol) *StaticIndex {
	b := NewBuilder()
	for _, sym := range symbols {
		b.Add(sym)
	}
	return b.Build()
}

// StaticIndex is a prebuilt, immutable symbol index. It requires no
// synchronization: concurrent reads are safe because nothing mutates after
// Build.
type StaticIndex struct {
	table *symbolTable
}

var _ SymbolIndex = (*StaticIndex)(nil)

// FuzzyFind implements SymbolIndex.
func (s *StaticIndex) FuzzyFind(req *FuzzyFindRequest, fn func(Symbol)) bool {
	return s.table.fuzzyFind(req, fn)
}

// Lookup implements SymbolIndex.
func (s *StaticIndex) Lookup(id SymbolID) (Symbol, bool) {
	return s.table.lookup(id)
}

// Len returns the number of indexed symbols.
func (s *StaticIndex) Len() int {
	return s.table.len()
}

// Stats summarizes the index contents.
func (s *StaticIndex) Stats() Stats {
	return s.table.stats()
}
