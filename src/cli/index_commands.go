package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"lsp-core/src/index"
	"lsp-core/src/internal/common"
)

const loadTimeout = 30 * time.Second

// RunIndexInfo loads a symbol database, builds the static index from it, and
// reports what it holds. lookup and query are optional refinements; an empty
// string skips each.
func RunIndexInfo(dbPath, lookup, query string, limit int) error {
	// Opening a database creates it when absent, which is the wrong behavior
	// for an inspection command.
	if !common.FileExists(dbPath) {
		return fmt.Errorf("symbol database %s does not exist", dbPath)
	}

	ctx, cancel := common.CreateContext(loadTimeout)
	defer cancel()

	symbols, err := index.LoadSymbols(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to load symbol database %s: %w", dbPath, err)
	}
	idx := index.Build(symbols)

	common.CLILogger.Info("📇 Symbol Database: %s", dbPath)
	common.CLILogger.Info("%s", strings.Repeat("=", 50))
	displayIndexStats(idx.Stats())

	if lookup != "" {
		displayLookup(idx, lookup)
	}
	if query != "" {
		displayQuery(idx, query, limit)
	}
	return nil
}

func displayIndexStats(stats index.Stats) {
	common.CLILogger.Info("Symbols: %d in %d scopes", stats.Symbols, stats.Scopes)
	if len(stats.ByKind) == 0 {
		return
	}
	kinds := make([]string, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		common.CLILogger.Info("   • %-9s %d", kind, stats.ByKind[kind])
	}
}

func displayLookup(idx index.SymbolIndex, lookup string) {
	common.CLILogger.Info("")
	sym, ok := idx.Lookup(index.SymbolID(lookup))
	if !ok {
		common.CLILogger.Info("❌ No symbol with identity %q", lookup)
		return
	}
	common.CLILogger.Info("✅ %s", sym.QualifiedName()+sym.Signature)
	common.CLILogger.Info("   • Kind:  %s", sym.Kind)
	if sym.Detail != "" {
		common.CLILogger.Info("   • Type:  %s", sym.Detail)
	}
	if sym.Documentation != "" {
		common.CLILogger.Info("   • Doc:   %s", sym.Documentation)
	}
	common.CLILogger.Info("   • Scope: %s", scopeLabel(sym.Scope))
}

func displayQuery(idx index.SymbolIndex, query string, limit int) {
	common.CLILogger.Info("")
	common.CLILogger.Info("🔎 Matches for %q:", query)
	req := &index.FuzzyFindRequest{Query: query, Limit: limit}
	rank := 0
	truncated := idx.FuzzyFind(req, func(sym index.Symbol) {
		rank++
		common.CLILogger.Info("  %2d. %-9s %s", rank, sym.Kind, sym.QualifiedName()+sym.Signature)
	})
	if rank == 0 {
		common.CLILogger.Info("   (no matches)")
	}
	if truncated {
		common.CLILogger.Info("   ... more matches beyond --limit %d", limit)
	}
}

func scopeLabel(scope string) string {
	if scope == "" {
		return "(global)"
	}
	return scope
}
