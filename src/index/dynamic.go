package index

import (
	"sort"
	"sync"
	"sync/atomic"
)

// DynamicIndex reflects the symbols of currently-open files. Each file's
// symbol set is replaced wholesale when that file's snapshot rebuilds.
// Updates swap a rebuilt immutable view behind an atomic pointer, so readers
// never lock and never observe a mix of a file's old and new symbols.
type DynamicIndex struct {
	mu   sync.Mutex // serializes writers only
	view atomic.Pointer[dynamicView]
}

// dynamicView is one frozen state of the dynamic index. It implements
// SymbolIndex so callers can pin a consistent view across several queries.
type dynamicView struct {
	files map[string][]Symbol
	table *symbolTable
}

var _ SymbolIndex = (*dynamicView)(nil)

// NewDynamicIndex creates an empty dynamic index.
func NewDynamicIndex() *DynamicIndex {
	d := &DynamicIndex{}
	d.view.Store(buildDynamicView(nil))
	return d
}

// Update atomically replaces the symbols sourced from one file. A nil or
// empty slice retires the file. Malformed symbols are dropped silently.
func (d *DynamicIndex) Update(path string, symbols []Symbol) {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.view.Load()
	files := make(map[string][]Symbol, len(old.files)+1)
	for p, syms := range old.files {
		files[p] = syms
	}

	kept := make([]Symbol, 0, len(symbols))
	for _, sym := range symbols {
		if !sym.Valid() {
			continue
		}
		sym = sym.withID()
		sym.Origin = OriginDynamic
		kept = append(kept, sym)
	}
	if len(kept) == 0 {
		delete(files, path)
	} else {
		files[path] = kept
	}

	d.view.Store(buildDynamicView(files))
}

// Remove retires all symbols sourced from one file.
func (d *DynamicIndex) Remove(path string) {
	d.Update(path, nil)
}

// View returns the current frozen state. The view stays valid and unchanged
// while newer updates land, which is what request execution needs to pair an
// index state with a document snapshot.
func (d *DynamicIndex) View() SymbolIndex {
	return d.view.Load()
}

// FuzzyFind implements SymbolIndex against the current view.
func (d *DynamicIndex) FuzzyFind(req *FuzzyFindRequest, fn func(Symbol)) bool {
	return d.view.Load().FuzzyFind(req, fn)
}

// Lookup implements SymbolIndex against the current view.
func (d *DynamicIndex) Lookup(id SymbolID) (Symbol, bool) {
	return d.view.Load().Lookup(id)
}

// Files returns the number of files currently contributing symbols.
func (d *DynamicIndex) Files() int {
	return len(d.view.Load().files)
}

// Len returns the number of indexed symbols in the current view.
func (d *DynamicIndex) Len() int {
	return d.view.Load().table.len()
}

// Stats summarizes the current view.
func (d *DynamicIndex) Stats() Stats {
	return d.view.Load().table.stats()
}

// Symbols returns a copy of every indexed symbol in the current view,
// ordered by scope then name. Callers persisting the index use this.
func (d *DynamicIndex) Symbols() []Symbol {
	return d.view.Load().table.symbols()
}

// buildDynamicView folds per-file symbol sets into one frozen table. When
// two files claim the same ID, the first path in sorted order wins, keeping
// the outcome independent of update arrival order.
func buildDynamicView(files map[string][]Symbol) *dynamicView {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	merged := make(map[SymbolID]Symbol)
	for _, p := range paths {
		for _, sym := range files[p] {
			if _, exists := merged[sym.ID]; !exists {
				merged[sym.ID] = sym
			}
		}
	}

	return &dynamicView{
		files: files,
		table: newSymbolTable(merged),
	}
}

func (v *dynamicView) FuzzyFind(req *FuzzyFindRequest, fn func(Symbol)) bool {
	return v.table.fuzzyFind(req, fn)
}

func (v *dynamicView) Lookup(id SymbolID) (Symbol, bool) {
	return v.table.lookup(id)
}
