package frontend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"lsp-core/src/index"
)

func endOfText(text string) protocol.Position {
	line := uint32(0)
	col := uint32(0)
	for _, b := range []byte(text) {
		if b == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return protocol.Position{Line: line, Character: col}
}

func scanSnapshot(t *testing.T, text string) Snapshot {
	t.Helper()
	fe := NewScanFrontend()
	analysis, err := fe.Analyze(context.Background(), "test.txt", text)
	require.NoError(t, err)
	return NewTextSnapshot("test.txt", text).WithAnalysis(analysis)
}

func TestScanFrontend_AnalyzeCollectsDistinctIdentifiers(t *testing.T) {
	fe := NewScanFrontend()

	analysis, err := fe.Analyze(context.Background(), "test.txt", "int foo = bar + foo;")
	require.NoError(t, err)

	names := make([]string, 0, len(analysis.Symbols))
	for _, sym := range analysis.Symbols {
		names = append(names, sym.Name)
		assert.Equal(t, index.KindVariable, sym.Kind)
		assert.Equal(t, "", sym.Scope)
	}
	assert.Equal(t, []string{"int", "foo", "bar"}, names,
		"Identifiers appear once each, in first-appearance order")
}

func TestScanFrontend_AnalyzeHonorsCancellation(t *testing.T) {
	fe := NewScanFrontend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fe.Analyze(ctx, "test.txt", "whatever")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanFrontend_CompletionContext(t *testing.T) {
	fe := NewScanFrontend()

	tests := []struct {
		name   string
		text   string
		kind   ContextKind
		prefix string
		scopes []string
	}{
		{"bare identifier", "fo", ContextUnqualified, "fo", []string{""}},
		{"empty buffer", "", ContextUnqualified, "", []string{""}},
		{"dot member", "obj.fie", ContextMember, "fie", nil},
		{"arrow member", "ptr->fie", ContextMember, "fie", nil},
		{"qualified", "ns::fo", ContextQualified, "fo", []string{"ns"}},
		{"nested qualifier", "a::b::mem", ContextQualified, "mem", []string{"a::b"}},
		{"explicit global", "::glob", ContextGlobal, "glob", []string{""}},
		{"second line member", "first line\nfoo.ba", ContextMember, "ba", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := scanSnapshot(t, tt.text)
			cctx := fe.CompletionContext(snap, endOfText(tt.text))
			assert.Equal(t, tt.kind, cctx.Kind)
			assert.Equal(t, tt.prefix, cctx.Prefix)
			assert.Equal(t, tt.scopes, cctx.Scopes)
		})
	}
}

func TestScanFrontend_CompletionContextInvalidPosition(t *testing.T) {
	fe := NewScanFrontend()
	snap := scanSnapshot(t, "short")

	cctx := fe.CompletionContext(snap, protocol.Position{Line: 0, Character: 99})
	assert.Equal(t, ContextNone, cctx.Kind)
}

func TestScanFrontend_CandidatesProposeFileIdentifiers(t *testing.T) {
	fe := NewScanFrontend()
	text := "apple banana ap"
	snap := scanSnapshot(t, text)

	cctx := fe.CompletionContext(snap, endOfText(text))
	require.Equal(t, ContextUnqualified, cctx.Kind)
	require.Equal(t, "ap", cctx.Prefix)

	cands := fe.Candidates(snap, endOfText(text), cctx)
	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, c.Name)
		assert.True(t, c.Accessible)
		assert.Equal(t, ProximityEnclosing, c.Proximity)
	}
	assert.Equal(t, []string{"apple", "banana"}, names,
		"The token being typed should not propose itself")
}

func TestScanFrontend_CandidatesEmptyForMemberContext(t *testing.T) {
	fe := NewScanFrontend()
	text := "value obj.va"
	snap := scanSnapshot(t, text)

	cctx := fe.CompletionContext(snap, endOfText(text))
	require.Equal(t, ContextMember, cctx.Kind)

	assert.Empty(t, fe.Candidates(snap, endOfText(text), cctx),
		"The scanner has no type knowledge, so member completion proposes nothing")
}

func TestScanFrontend_CallContext(t *testing.T) {
	fe := NewScanFrontend()

	tests := []struct {
		name      string
		text      string
		wantOK    bool
		wantName  string
		argsStart int
	}{
		{"simple call", "foo(bar, baz", true, "foo", 4},
		{"nested call resolves outer", "foo(bar(1,2), x", true, "foo", 4},
		{"space before paren", "foo (x", true, "foo", 5},
		{"no call", "no call here", false, "", 0},
		{"closed call", "foo(done) next", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := scanSnapshot(t, tt.text)
			call, ok := fe.CallContext(snap, endOfText(tt.text))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			require.Len(t, call.Overloads, 1)
			assert.Equal(t, tt.wantName, call.Overloads[0].Name)
			assert.Equal(t, tt.argsStart, call.ArgsStart)
		})
	}
}
