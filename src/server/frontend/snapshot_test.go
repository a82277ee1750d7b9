package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"lsp-core/src/internal/errors"
)

func TestTextSnapshot_OffsetFor(t *testing.T) {
	snap := NewTextSnapshot("test.txt", "ab\ncd")

	tests := []struct {
		name string
		pos  protocol.Position
		want int
	}{
		{"start", protocol.Position{Line: 0, Character: 0}, 0},
		{"end of first line", protocol.Position{Line: 0, Character: 2}, 2},
		{"second line", protocol.Position{Line: 1, Character: 1}, 4},
		{"end of text", protocol.Position{Line: 1, Character: 2}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snap.OffsetFor(tt.pos)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextSnapshot_OffsetForOutOfBounds(t *testing.T) {
	snap := NewTextSnapshot("test.txt", "ab\ncd")

	tests := []struct {
		name string
		pos  protocol.Position
	}{
		{"character past line end", protocol.Position{Line: 0, Character: 3}},
		{"line past document end", protocol.Position{Line: 2, Character: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snap.OffsetFor(tt.pos)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "Out-of-bounds positions are validation errors")
		})
	}
}

func TestTextSnapshot_EmptyText(t *testing.T) {
	snap := NewTextSnapshot("test.txt", "")

	got, err := snap.OffsetFor(protocol.Position{Line: 0, Character: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}
