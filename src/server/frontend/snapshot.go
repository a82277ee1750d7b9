package frontend

import (
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"lsp-core/src/internal/common"
)

// TextSnapshot is a minimal Snapshot over raw text. Frontend and engine
// tests use it where a full document pipeline is not in play.
type TextSnapshot struct {
	path     string
	text     string
	analysis *Analysis
}

// NewTextSnapshot wraps raw text as a Snapshot.
func NewTextSnapshot(path, text string) *TextSnapshot {
	return &TextSnapshot{path: path, text: text}
}

// WithAnalysis attaches an analysis and returns the receiver for chaining.
func (s *TextSnapshot) WithAnalysis(a *Analysis) *TextSnapshot {
	s.analysis = a
	return s
}

func (s *TextSnapshot) Path() string        { return s.path }
func (s *TextSnapshot) Text() string        { return s.text }
func (s *TextSnapshot) Analysis() *Analysis { return s.analysis }

// OffsetFor implements Snapshot by scanning line starts.
func (s *TextSnapshot) OffsetFor(pos protocol.Position) (int, error) {
	return offsetInText(s.text, pos)
}

// offsetInText converts a position to a byte offset. Character counts bytes
// within the line; positions past the end of a line or past the last line
// are validation errors.
func offsetInText(text string, pos protocol.Position) (int, error) {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return 0, common.CreateValidationErrorForPosition(
				fmt.Sprintf("line %d is past the end of the document", pos.Line))
		}
		offset += next + 1
	}
	lineEnd := len(text)
	if next := strings.IndexByte(text[offset:], '\n'); next >= 0 {
		lineEnd = offset + next
	}
	target := offset + int(pos.Character)
	if target > lineEnd {
		return 0, common.CreateValidationErrorForPosition(
			fmt.Sprintf("character %d is past the end of line %d", pos.Character, pos.Line))
	}
	return target, nil
}
