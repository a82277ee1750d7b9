package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"lsp-core/src/internal/errors"
	"lsp-core/src/server/frontend"
)

func TestSnapshot_Accessors(t *testing.T) {
	analysis := &frontend.Analysis{}
	snap := newSnapshot("/tmp/project/main.go", 3, "package main\n", analysis)

	assert.Equal(t, "/tmp/project/main.go", snap.Path())
	assert.Equal(t, "file:///tmp/project/main.go", string(snap.URI()))
	assert.Equal(t, int64(3), snap.Version())
	assert.Equal(t, "package main\n", snap.Text())
	assert.Same(t, analysis, snap.Analysis())
	assert.False(t, snap.BuiltAt().IsZero(), "build time should be recorded")
}

func TestSnapshot_OffsetFor(t *testing.T) {
	snap := newSnapshot("/tmp/a.go", 1, "ab\ncd\n", nil)

	tests := []struct {
		name string
		pos  protocol.Position
		want int
	}{
		{"start of document", protocol.Position{Line: 0, Character: 0}, 0},
		{"end of first line", protocol.Position{Line: 0, Character: 2}, 2},
		{"second line", protocol.Position{Line: 1, Character: 1}, 4},
		{"end of second line", protocol.Position{Line: 1, Character: 2}, 5},
		{"empty trailing line", protocol.Position{Line: 2, Character: 0}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snap.OffsetFor(tt.pos)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshot_OffsetForOutOfBounds(t *testing.T) {
	snap := newSnapshot("/tmp/a.go", 1, "ab\ncd", nil)

	_, err := snap.OffsetFor(protocol.Position{Line: 0, Character: 3})
	require.Error(t, err, "character past the end of the line should fail")
	assert.True(t, errors.IsValidationError(err), "out-of-bounds character should be a validation error, got: %v", err)

	_, err = snap.OffsetFor(protocol.Position{Line: 5, Character: 0})
	require.Error(t, err, "line past the end of the document should fail")
	assert.True(t, errors.IsValidationError(err), "out-of-bounds line should be a validation error, got: %v", err)
}

func TestLineStarts(t *testing.T) {
	assert.Equal(t, []int{0}, lineStarts(""), "empty text still has one line")
	assert.Equal(t, []int{0}, lineStarts("abc"))
	assert.Equal(t, []int{0, 4}, lineStarts("abc\ndef"))
	assert.Equal(t, []int{0, 4, 5}, lineStarts("abc\n\ndef"))
	assert.Equal(t, []int{0, 4}, lineStarts("abc\n"), "trailing newline opens an empty line")
}
