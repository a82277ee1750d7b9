package frontend

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.lsp.dev/protocol"

	"lsp-core/src/index"
)

// ScanFrontend is a token-scanning reference Frontend. It knows no grammar:
// every identifier in the buffer becomes a variable symbol, member contexts
// are recognized purely from the access operator, and call expressions from
// bracket balance. It exists so the pipeline and CLI can run against real
// files without a language analyzer, and it is deliberately conservative:
// it never claims type knowledge it does not have.
type ScanFrontend struct{}

// NewScanFrontend creates the stateless scanning frontend.
func NewScanFrontend() *ScanFrontend {
	return &ScanFrontend{}
}

var _ Frontend = (*ScanFrontend)(nil)

// scanPayload carries identifier occurrence counts from Analyze to
// Candidates, which uses them to drop the half-typed token under the cursor.
type scanPayload struct {
	counts map[string]int
}

// Analyze collects every distinct identifier as a global variable symbol.
func (f *ScanFrontend) Analyze(ctx context.Context, path, text string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var symbols []index.Symbol
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isIdentStart(r) {
			i += size
			continue
		}
		start := i
		i += size
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isIdentPart(r) {
				break
			}
			i += size
		}
		name := text[start:i]
		if counts[name] == 0 {
			symbols = append(symbols, index.NewSymbol(name, index.KindVariable))
		}
		counts[name]++
	}

	return &Analysis{Symbols: symbols, Payload: &scanPayload{counts: counts}}, nil
}

// CompletionContext classifies the cursor from the characters immediately
// before the typed prefix: "." or "->" means member access, a trailing
// qualifier chain means qualified, a bare "::" means explicit global scope.
func (f *ScanFrontend) CompletionContext(snap Snapshot, pos protocol.Position) Context {
	offset, err := snap.OffsetFor(pos)
	if err != nil {
		return Context{Kind: ContextNone}
	}
	text := snap.Text()

	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isIdentPart(r) {
			break
		}
		start -= size
	}
	prefix := text[start:offset]
	before := text[:start]

	switch {
	case strings.HasSuffix(before, index.ScopeSeparator):
		qual := scanQualifier(text, start-len(index.ScopeSeparator))
		if qual == "" {
			return Context{Kind: ContextGlobal, Prefix: prefix, Scopes: []string{""}}
		}
		return Context{Kind: ContextQualified, Prefix: prefix, Scopes: []string{qual}}
	case strings.HasSuffix(before, ".") || strings.HasSuffix(before, "->"):
		return Context{Kind: ContextMember, Prefix: prefix}
	default:
		return Context{Kind: ContextUnqualified, Prefix: prefix, Scopes: []string{""}}
	}
}

// scanQualifier walks a qualifier chain like "a::b" backwards from end,
// which sits just before the trailing separator.
func scanQualifier(text string, end int) string {
	i := end
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if isIdentPart(r) {
			i -= size
			continue
		}
		sep := index.ScopeSeparator
		if i >= len(sep) && text[i-len(sep):i] == sep {
			r2, _ := utf8.DecodeLastRuneInString(text[:i-len(sep)])
			if isIdentPart(r2) {
				i -= len(sep)
				continue
			}
		}
		break
	}
	return text[i:end]
}

// Candidates proposes the file's own identifiers for global and unqualified
// contexts. Member and qualified completion get nothing: the scanner cannot
// resolve types or foreign scopes, and guessing would pollute results.
func (f *ScanFrontend) Candidates(snap Snapshot, pos protocol.Position, cctx Context) []Candidate {
	if cctx.Kind != ContextGlobal && cctx.Kind != ContextUnqualified {
		return nil
	}
	analysis := snap.Analysis()
	if analysis == nil {
		return nil
	}
	var counts map[string]int
	if p, ok := analysis.Payload.(*scanPayload); ok {
		counts = p.counts
	}

	cands := make([]Candidate, 0, len(analysis.Symbols))
	for _, sym := range analysis.Symbols {
		// The sole occurrence of the prefix is the token being typed.
		if sym.Name == cctx.Prefix && counts[sym.Name] <= 1 {
			continue
		}
		cands = append(cands, Candidate{
			Name:       sym.Name,
			Scope:      sym.Scope,
			Kind:       sym.Kind,
			Accessible: true,
			Proximity:  ProximityEnclosing,
		})
	}
	return cands
}

// CallContext finds the innermost unbalanced "(" before the cursor and the
// identifier heading it. The scanner knows no signatures, so the single
// overload carries the callee name only.
func (f *ScanFrontend) CallContext(snap Snapshot, pos protocol.Position) (*CallContext, bool) {
	offset, err := snap.OffsetFor(pos)
	if err != nil {
		return nil, false
	}
	text := snap.Text()

	depth := 0
	i := offset
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
		switch r {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			if depth > 0 {
				depth--
				continue
			}
			if r != '(' {
				return nil, false
			}
			name := identBefore(text, i)
			if name == "" {
				return nil, false
			}
			return &CallContext{
				Overloads: []Overload{{Name: name}},
				ArgsStart: i + 1,
			}, true
		}
	}
	return nil, false
}

// identBefore reads the identifier ending at the given offset, skipping
// whitespace between it and the offset.
func identBefore(text string, at int) string {
	end := at
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:end])
		if r != ' ' && r != '\t' {
			break
		}
		end -= size
	}
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isIdentPart(r) {
			break
		}
		start -= size
	}
	if start == end {
		return ""
	}
	if r, _ := utf8.DecodeRuneInString(text[start:end]); !isIdentStart(r) {
		return ""
	}
	return text[start:end]
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
