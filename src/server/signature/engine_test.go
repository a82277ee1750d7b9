package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"lsp-core/src/internal/errors"
	"lsp-core/src/server/frontend"
)

func helpAt(t *testing.T, fe frontend.Frontend, text string) (*protocol.SignatureHelp, error) {
	t.Helper()
	snap := frontend.NewTextSnapshot("test.cpp", text)
	pos := protocol.Position{Line: 0, Character: uint32(len(text))}
	return NewEngine(fe).Help(snap, pos)
}

func sigLabels(help *protocol.SignatureHelp) []string {
	out := make([]string, 0, len(help.Signatures))
	for _, sig := range help.Signatures {
		out = append(out, sig.Label)
	}
	return out
}

func TestEngine_Overloads(t *testing.T) {
	text := "foo("
	fe := frontend.NewScripted().WithOverloads(len(text),
		frontend.Overload{Name: "foo", Params: []string{"int x", "int y"}, ReturnType: "void"},
		frontend.Overload{Name: "foo", Params: []string{"int x", "float y"}, ReturnType: "void"},
		frontend.Overload{Name: "foo", Params: []string{"float x", "int y"}, ReturnType: "void"},
		frontend.Overload{Name: "foo", Params: []string{"float x", "float y"}, ReturnType: "void"},
	)

	help, err := helpAt(t, fe, text)
	require.NoError(t, err)
	require.NotNil(t, help)

	assert.Equal(t, []string{
		"foo(int x, int y) -> void",
		"foo(int x, float y) -> void",
		"foo(float x, int y) -> void",
		"foo(float x, float y) -> void",
	}, sigLabels(help), "Signatures keep the frontend enumeration order")

	require.Len(t, help.Signatures[0].Parameters, 2)
	assert.Equal(t, "int x", help.Signatures[0].Parameters[0].Label)
	assert.Equal(t, "int y", help.Signatures[0].Parameters[1].Label)

	assert.Equal(t, uint32(0), help.ActiveSignature, "The first signature is always preferred")
	assert.Equal(t, uint32(0), help.ActiveParameter)
}

func TestEngine_DefaultArgumentsStayInLabels(t *testing.T) {
	text := "bar("
	fe := frontend.NewScripted().WithOverloads(len(text),
		frontend.Overload{Name: "bar", Params: []string{"int x", "int y = 0"}, ReturnType: "void"},
		frontend.Overload{Name: "bar", Params: []string{"float x = 0", "int y = 42"}, ReturnType: "void"},
	)

	help, err := helpAt(t, fe, text)
	require.NoError(t, err)
	require.NotNil(t, help)

	assert.Equal(t, []string{
		"bar(int x, int y = 0) -> void",
		"bar(float x = 0, int y = 42) -> void",
	}, sigLabels(help))
	assert.Equal(t, "int y = 0", help.Signatures[0].Parameters[1].Label)
	assert.Equal(t, uint32(0), help.ActiveParameter)
}

func TestEngine_ActiveParameterSkipsNestedCommas(t *testing.T) {
	text := "baz(baz(1,2,3), "
	fe := frontend.NewScripted().WithOverloads(4,
		frontend.Overload{Name: "baz", Params: []string{"int a", "int b", "int c"}, ReturnType: "int"},
	)

	help, err := helpAt(t, fe, text)
	require.NoError(t, err)
	require.NotNil(t, help)

	assert.Equal(t, []string{"baz(int a, int b, int c) -> int"}, sigLabels(help))
	assert.Equal(t, uint32(0), help.ActiveSignature)
	assert.Equal(t, uint32(1), help.ActiveParameter,
		"Commas inside the nested call do not advance the active argument")
}

func TestEngine_NoReturnTypeOmitsArrow(t *testing.T) {
	text := "Foo("
	fe := frontend.NewScripted().WithOverloads(len(text),
		frontend.Overload{Name: "Foo", Params: []string{"int x"}},
	)

	help, err := helpAt(t, fe, text)
	require.NoError(t, err)
	require.NotNil(t, help)
	assert.Equal(t, []string{"Foo(int x)"}, sigLabels(help))
}

func TestEngine_OutsideCallIsAbsentNotError(t *testing.T) {
	help, err := helpAt(t, frontend.NewScripted(), "int x = 1")
	assert.NoError(t, err)
	assert.Nil(t, help)
}

func TestEngine_InvalidPositionIsValidationError(t *testing.T) {
	fe := frontend.NewScripted().WithOverloads(0, frontend.Overload{Name: "foo"})
	snap := frontend.NewTextSnapshot("test.cpp", "foo(")

	_, err := NewEngine(fe).Help(snap, protocol.Position{Line: 3, Character: 0})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestEngine_WithScanFrontend(t *testing.T) {
	fe := frontend.NewScanFrontend()
	text := "result = compute(alpha, beta[0], "
	snap := frontend.NewTextSnapshot("test.txt", text)
	pos := protocol.Position{Line: 0, Character: uint32(len(text))}

	help, err := NewEngine(fe).Help(snap, pos)
	require.NoError(t, err)
	require.NotNil(t, help)

	assert.Equal(t, []string{"compute()"}, sigLabels(help))
	assert.Equal(t, uint32(2), help.ActiveParameter)
}

func TestActiveParameter(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		argsStart int
		cursor    int
		want      uint32
	}{
		{"no arguments", "foo()", 4, 4, 0},
		{"first argument", "foo(a", 4, 5, 0},
		{"second argument", "foo(a, b", 4, 8, 1},
		{"nested parens", "foo(bar(1,2,3), x", 4, 17, 1},
		{"nested brackets", "foo(a[1,2], b", 4, 13, 1},
		{"nested braces", "foo({1,2}, {3,4}, c", 4, 19, 2},
		{"cursor before args", "foo(a, b", 4, 2, 0},
		{"cursor past text is clamped", "foo(a, b", 4, 99, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, activeParameter(tt.text, tt.argsStart, tt.cursor))
		})
	}
}
