// Package server exposes the completion core behind one facade: a document
// pipeline fed by a language frontend, a dynamic index tracking open files,
// and an optional static index preloaded from a symbol database.
package server

import (
	"context"

	"go.lsp.dev/protocol"

	"lsp-core/src/config"
	"lsp-core/src/index"
	"lsp-core/src/internal/common"
	"lsp-core/src/server/documents"
	"lsp-core/src/server/frontend"
)

// Server owns the pipeline and both index halves.
type Server struct {
	config   *config.Config
	frontend frontend.Frontend
	dynamic  *index.DynamicIndex
	static   *index.StaticIndex
	pipeline *documents.Pipeline
}

// Stats reports the current index population.
type Stats struct {
	OpenFiles      int
	DynamicSymbols int
	StaticSymbols  int
}

// NewServer creates a server around fe. A nil fe falls back to the token
// scan frontend; a nil cfg falls back to the defaults. When the config
// names a static index database that cannot be loaded, the server starts
// without it rather than failing.
func NewServer(fe frontend.Frontend, cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	if fe == nil {
		fe = frontend.NewScanFrontend()
	}

	var static *index.StaticIndex
	if cfg.StaticIndexPath != "" {
		symbols, err := index.LoadSymbols(context.Background(), cfg.StaticIndexPath)
		if err != nil {
			common.IndexLogger.Warn("failed to load static index from %s (continuing without it): %s",
				cfg.StaticIndexPath, common.SanitizeErrorForLogging(err))
		} else {
			static = index.Build(symbols)
			common.IndexLogger.Info("loaded %d symbols from %s", static.Len(), cfg.StaticIndexPath)
		}
	}

	// A nil *StaticIndex must stay a nil interface for the merge layer.
	var staticIdx index.SymbolIndex
	if static != nil {
		staticIdx = static
	}

	dynamic := index.NewDynamicIndex()
	return &Server{
		config:   cfg,
		frontend: fe,
		dynamic:  dynamic,
		static:   static,
		pipeline: documents.NewPipeline(fe, dynamic, staticIdx, cfg.Completion.Options(), cfg.Workers),
	}, nil
}

// OpenOrUpdateFile registers new text for path and schedules a build.
func (s *Server) OpenOrUpdateFile(path, text string) *documents.Handle[*documents.Snapshot] {
	return s.pipeline.OpenOrUpdate(path, text)
}

// Complete runs code completion at pos against the newest state of path.
func (s *Server) Complete(ctx context.Context, path string, pos protocol.Position) *documents.Handle[*protocol.CompletionList] {
	return s.pipeline.Complete(ctx, path, pos)
}

// SignatureHelp computes signature help at pos against the newest state of
// path.
func (s *Server) SignatureHelp(ctx context.Context, path string, pos protocol.Position) *documents.Handle[*protocol.SignatureHelp] {
	return s.pipeline.SignatureHelp(ctx, path, pos)
}

// RemoveFile drops path and retires its symbols from the dynamic index.
func (s *Server) RemoveFile(path string) {
	s.pipeline.Remove(path)
}

// SnapshotOf returns the currently published snapshot for path, if any.
func (s *Server) SnapshotOf(path string) (*documents.Snapshot, bool) {
	return s.pipeline.SnapshotOf(path)
}

// IndexedSymbols returns the symbols currently indexed from open files,
// ordered by scope then name.
func (s *Server) IndexedSymbols() []index.Symbol {
	return s.dynamic.Symbols()
}

// Stats reports how many files are open and how many symbols each index
// half holds.
func (s *Server) Stats() Stats {
	st := Stats{
		OpenFiles:      s.dynamic.Files(),
		DynamicSymbols: s.dynamic.Len(),
	}
	if s.static != nil {
		st.StaticSymbols = s.static.Len()
	}
	return st
}

// Stop shuts the pipeline down and resolves outstanding handles with a
// cancellation error.
func (s *Server) Stop() {
	s.pipeline.Stop()
}
