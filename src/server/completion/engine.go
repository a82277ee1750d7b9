// Package completion assembles ranked LSP completion lists from two sources:
// candidates the language frontend proposes at the cursor and symbols from
// the project index. The engine filters by option gates, deduplicates across
// sources, fuzzy-matches against the typed prefix, ranks, truncates, and
// renders protocol items.
package completion

import (
	"fmt"
	"sort"
	"strings"

	"go.lsp.dev/protocol"

	"lsp-core/src/index"
	"lsp-core/src/internal/fuzzy"
	"lsp-core/src/server/frontend"
)

// Engine runs completion requests. It holds no per-request state, so one
// engine serves concurrent requests.
type Engine struct {
	fe   frontend.Frontend
	opts Options
}

// NewEngine creates an engine over a frontend with fixed options.
func NewEngine(fe frontend.Frontend, opts Options) *Engine {
	return &Engine{fe: fe, opts: opts}
}

// candidate is the per-request unit flowing through the pipeline, wrapping
// either a frontend candidate or an index symbol.
type candidate struct {
	name      string
	scope     string
	kind      index.SymbolKind
	label     string
	signature string
	params    []string
	detail    string
	doc       string

	insertText  string
	snippetText string

	access    frontend.AccessLevel
	proximity frontend.Proximity
	eligible  bool
	indexOnly bool

	filterText string
	score      float64
	caseExact  bool
}

// dedupKey identifies one completion across sources. Overloads differ by
// signature and so survive as separate results.
type dedupKey struct {
	name, scope, signature string
}

// Complete produces the completion list for a position. A position outside
// the document is a validation error; a position where no completion applies
// yields an empty, complete list.
func (e *Engine) Complete(snap frontend.Snapshot, pos protocol.Position, idx index.SymbolIndex) (*protocol.CompletionList, error) {
	if _, err := snap.OffsetFor(pos); err != nil {
		return nil, err
	}

	cctx := e.fe.CompletionContext(snap, pos)
	if cctx.Kind == frontend.ContextNone {
		return emptyList(), nil
	}

	// Member completion never consults the index: member sets come from the
	// frontend's type knowledge alone.
	queryIndex := idx != nil && cctx.Kind != frontend.ContextMember && e.opts.IncludeGlobals

	var ordered []*candidate
	byKey := make(map[dedupKey]*candidate)
	add := func(c *candidate) {
		key := dedupKey{name: c.name, scope: c.scope, signature: c.signature}
		if existing, ok := byKey[key]; ok {
			// First writer wins, which keeps frontend copies ahead of index
			// duplicates. The index copy may still contribute documentation
			// the frontend lacks.
			if existing.doc == "" && c.doc != "" {
				existing.doc = c.doc
			}
			return
		}
		byKey[key] = c
		ordered = append(ordered, c)
	}

	for _, fc := range e.fe.Candidates(snap, pos, cctx) {
		if c := e.admitCandidate(fc, cctx, queryIndex); c != nil {
			add(c)
		}
	}

	incomplete := false
	if queryIndex {
		req := &index.FuzzyFindRequest{
			Query:  cctx.Prefix,
			Scopes: cctx.Scopes,
			Limit:  e.opts.Limit,
		}
		incomplete = idx.FuzzyFind(req, func(sym index.Symbol) {
			if c := e.admitSymbol(sym); c != nil {
				add(c)
			}
		})
	}

	var kept []*candidate
	for _, c := range ordered {
		c.filterText = c.name
		if insert, _ := e.insertTextFor(c); !strings.Contains(insert, c.filterText) {
			c.filterText = insert
		}
		res, ok := fuzzy.Match(cctx.Prefix, c.filterText)
		if !ok {
			continue
		}
		c.score, c.caseExact = res.Score, res.Exact
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool { return rankLess(kept[i], kept[j]) })

	if e.opts.Limit > 0 && len(kept) > e.opts.Limit {
		kept = kept[:e.opts.Limit]
		incomplete = true
	}

	items := make([]protocol.CompletionItem, 0, len(kept))
	for i, c := range kept {
		items = append(items, e.renderItem(c, i, len(kept)))
	}
	return &protocol.CompletionList{IsIncomplete: incomplete, Items: items}, nil
}

// admitCandidate applies the context and option gates to one frontend
// candidate and converts it. Nil means the candidate is filtered out.
func (e *Engine) admitCandidate(fc frontend.Candidate, cctx frontend.Context, indexQueried bool) *candidate {
	if !fc.Valid() {
		return nil
	}
	// Member completion is the member set and nothing else: no macros, no
	// code patterns, no far-away symbols, whatever the frontend proposes.
	if cctx.Kind == frontend.ContextMember {
		if fc.Kind == index.KindMacro || fc.Kind == index.KindSnippet || farProximity(fc.Proximity) {
			return nil
		}
	}
	switch fc.Kind {
	case index.KindMacro:
		if !e.opts.IncludeMacros {
			return nil
		}
	case index.KindSnippet:
		if !e.opts.IncludeCodePatterns {
			return nil
		}
	default:
		if !e.opts.IncludeGlobals && fc.Kind != index.KindKeyword && farProximity(fc.Proximity) {
			return nil
		}
	}
	if !fc.Accessible && !e.opts.IncludeIneligibleResults {
		return nil
	}
	// With an index in play it is the authority on symbols declared outside
	// the open file.
	if indexQueried && fc.FromInclude {
		return nil
	}
	return &candidate{
		name:        fc.Name,
		scope:       fc.Scope,
		kind:        fc.Kind,
		label:       fc.Label,
		signature:   fc.Signature,
		params:      fc.Params,
		detail:      fc.ReturnType,
		doc:         fc.Documentation,
		insertText:  fc.InsertText,
		snippetText: fc.SnippetText,
		access:      fc.Access,
		proximity:   fc.Proximity,
		eligible:    fc.Accessible,
	}
}

// admitSymbol applies the option gates to one index symbol and converts it.
func (e *Engine) admitSymbol(sym index.Symbol) *candidate {
	if !sym.Valid() {
		return nil
	}
	switch sym.Kind {
	case index.KindMacro:
		if !e.opts.IncludeMacros {
			return nil
		}
	case index.KindSnippet:
		if !e.opts.IncludeCodePatterns {
			return nil
		}
	}
	return &candidate{
		name:        sym.Name,
		scope:       sym.Scope,
		kind:        sym.Kind,
		label:       sym.DisplayLabel(),
		signature:   sym.Signature,
		params:      sym.Params,
		detail:      sym.Detail,
		doc:         sym.Documentation,
		insertText:  sym.InsertText,
		snippetText: sym.SnippetText,
		access:      frontend.AccessNone,
		proximity:   frontend.ProximityGlobal,
		eligible:    true,
		indexOnly:   true,
	}
}

func farProximity(p frontend.Proximity) bool {
	return p == frontend.ProximityGlobal || p == frontend.ProximityUnrelated
}

// rankLess is the lexicographic rank order: eligibility, relevance,
// proximity, case-exactness, kind, access, name.
func rankLess(a, b *candidate) bool {
	if a.eligible != b.eligible {
		return a.eligible
	}
	if a.score != b.score {
		return a.score > b.score
	}
	if a.proximity != b.proximity {
		return a.proximity < b.proximity
	}
	if a.caseExact != b.caseExact {
		return a.caseExact
	}
	if pa, pb := kindPriority(a.kind), kindPriority(b.kind); pa != pb {
		return pa < pb
	}
	if pa, pb := accessPriority(a.access), accessPriority(b.access); pa != pb {
		return pa < pb
	}
	return a.name < b.name
}

// kindPriority breaks rank ties with value-like results before type-like
// ones and patterns last.
func kindPriority(k index.SymbolKind) int {
	switch k {
	case index.KindVariable:
		return 0
	case index.KindFunction:
		return 1
	case index.KindClass:
		return 2
	case index.KindKeyword:
		return 3
	case index.KindMacro:
		return 4
	case index.KindSnippet:
		return 5
	default:
		return 6
	}
}

// accessPriority orders the most specific access first.
func accessPriority(a frontend.AccessLevel) int {
	switch a {
	case frontend.AccessPrivate:
		return 0
	case frontend.AccessProtected:
		return 1
	case frontend.AccessPublic:
		return 2
	default:
		return 3
	}
}

// insertTextFor renders the inserted text and whether it is a snippet.
// Without snippets everything inserts its plain name; with snippets,
// callables gain placeholder arguments and patterns use their own bodies.
func (e *Engine) insertTextFor(c *candidate) (string, bool) {
	plain := c.insertText
	if plain == "" {
		plain = c.name
	}
	if !e.opts.EnableSnippets {
		return plain, false
	}
	if c.snippetText != "" {
		return c.snippetText, true
	}
	if c.kind == index.KindFunction {
		return plain + snippetSuffix(c.params), true
	}
	return plain, true
}

// snippetSuffix renders placeholder arguments like "(${1:int i}, ${2:float f})".
func snippetSuffix(params []string) string {
	if len(params) == 0 {
		return "()"
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "${%d:%s}", i+1, p)
	}
	sb.WriteByte(')')
	return sb.String()
}

// labelFor renders the display label. Index-only results carry an "[I]"
// marker so users can tell them from frontend results.
func labelFor(c *candidate) string {
	label := c.label
	if label == "" {
		label = c.name + c.signature
	}
	if c.indexOnly {
		return "[I]" + label
	}
	return label
}

func (e *Engine) renderItem(c *candidate, rank, total int) protocol.CompletionItem {
	insert, snippet := e.insertTextFor(c)
	format := protocol.InsertTextFormatPlainText
	if snippet {
		format = protocol.InsertTextFormatSnippet
	}
	item := protocol.CompletionItem{
		Label:            labelFor(c),
		Kind:             c.kind.CompletionItemKind(),
		InsertText:       insert,
		InsertTextFormat: format,
		FilterText:       c.filterText,
		SortText:         sortText(rank, total),
		Detail:           c.detail,
	}
	if e.opts.IncludeBriefComments && c.doc != "" {
		item.Documentation = c.doc
	}
	return item
}

// sortText zero-pads the rank position so clients that re-sort
// lexicographically preserve the engine order.
func sortText(rank, total int) string {
	width := 1
	for n := total - 1; n >= 10; n /= 10 {
		width++
	}
	return fmt.Sprintf("%0*d", width, rank)
}

func emptyList() *protocol.CompletionList {
	return &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}
}
