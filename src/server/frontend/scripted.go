package frontend

import (
	"context"
	"sync"
	"time"

	"go.lsp.dev/protocol"

	"lsp-core/src/index"
)

// Scripted is a canned Frontend for tests. Every response is configured up
// front through the With* builders; position arguments are ignored. Safe for
// concurrent use so pipeline tests can reconfigure it between updates.
type Scripted struct {
	mu           sync.Mutex
	symbols      []index.Symbol
	analyzeErr   error
	analyzeDelay time.Duration
	analyzeCalls int
	cctx         *Context
	candidates   []Candidate
	call         *CallContext
}

// NewScripted creates a frontend that analyzes to no symbols, classifies
// every position as an unqualified global-scope context, and proposes no
// candidates.
func NewScripted() *Scripted {
	return &Scripted{}
}

var _ Frontend = (*Scripted)(nil)

// WithSymbols sets what Analyze reports as the file's symbols.
func (s *Scripted) WithSymbols(symbols ...index.Symbol) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols = append([]index.Symbol(nil), symbols...)
	return s
}

// WithAnalyzeError makes Analyze fail.
func (s *Scripted) WithAnalyzeError(err error) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzeErr = err
	return s
}

// WithAnalyzeDelay makes Analyze block for d, honoring ctx cancellation,
// before responding. Supersede tests use this to pin a build in flight.
func (s *Scripted) WithAnalyzeDelay(d time.Duration) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzeDelay = d
	return s
}

// WithContext sets the completion context for every position.
func (s *Scripted) WithContext(cctx Context) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cctx = &cctx
	return s
}

// WithCandidates sets the proposed candidates for every position.
func (s *Scripted) WithCandidates(cands ...Candidate) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append([]Candidate(nil), cands...)
	return s
}

// WithOverloads makes every position sit inside a call with the given
// overload set and argument start offset.
func (s *Scripted) WithOverloads(argsStart int, overloads ...Overload) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call = &CallContext{
		Overloads: append([]Overload(nil), overloads...),
		ArgsStart: argsStart,
	}
	return s
}

// AnalyzeCalls reports how many times Analyze ran.
func (s *Scripted) AnalyzeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzeCalls
}

func (s *Scripted) Analyze(ctx context.Context, path, text string) (*Analysis, error) {
	s.mu.Lock()
	s.analyzeCalls++
	delay := s.analyzeDelay
	failErr := s.analyzeErr
	symbols := append([]index.Symbol(nil), s.symbols...)
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failErr != nil {
		return nil, failErr
	}
	return &Analysis{Symbols: symbols}, nil
}

func (s *Scripted) CompletionContext(snap Snapshot, pos protocol.Position) Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cctx != nil {
		return *s.cctx
	}
	return Context{Kind: ContextUnqualified, Scopes: []string{""}}
}

func (s *Scripted) Candidates(snap Snapshot, pos protocol.Position, cctx Context) []Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Candidate(nil), s.candidates...)
}

func (s *Scripted) CallContext(snap Snapshot, pos protocol.Position) (*CallContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.call == nil {
		return nil, false
	}
	call := *s.call
	call.Overloads = append([]Overload(nil), s.call.Overloads...)
	return &call, true
}
