// Package documents owns the document lifecycle: edits become queued
// builds, builds become immutable snapshots, and every publication swaps
// the snapshot and the dynamic index entry as one atomic pair. Requests
// run against published snapshots and never observe a half-updated state.
package documents

import (
	"fmt"
	"time"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"lsp-core/src/internal/common"
	"lsp-core/src/server/frontend"
)

// Snapshot is one immutable built state of a document. All fields are
// fixed when the build publishes; a request that captured a snapshot keeps
// reading the same text and analysis even while newer builds land.
type Snapshot struct {
	path     string
	docURI   uri.URI
	version  int64
	text     string
	starts   []int
	analysis *frontend.Analysis
	builtAt  time.Time
}

var _ frontend.Snapshot = (*Snapshot)(nil)

func newSnapshot(path string, version int64, text string, analysis *frontend.Analysis) *Snapshot {
	return &Snapshot{
		path:     path,
		docURI:   uri.File(path),
		version:  version,
		text:     text,
		starts:   lineStarts(text),
		analysis: analysis,
		builtAt:  time.Now(),
	}
}

// lineStarts records the byte offset of every line start so position
// conversion is an index lookup instead of a text walk.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Path returns the file path the snapshot was built from.
func (s *Snapshot) Path() string { return s.path }

// URI returns the file URI form of the snapshot path.
func (s *Snapshot) URI() uri.URI { return s.docURI }

// Version returns the document version the snapshot was built from.
// Versions start at 1 and grow by one per edit of the same file.
func (s *Snapshot) Version() int64 { return s.version }

// Text returns the full document text.
func (s *Snapshot) Text() string { return s.text }

// Analysis returns the frontend output for this text.
func (s *Snapshot) Analysis() *frontend.Analysis { return s.analysis }

// BuiltAt returns the time the build finished.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// OffsetFor converts an LSP position into a byte offset into Text. A
// position past the end of its line or past the last line is a validation
// error; a position exactly at a line end (or at the end of the document)
// is valid.
func (s *Snapshot) OffsetFor(pos protocol.Position) (int, error) {
	line := int(pos.Line)
	if line >= len(s.starts) {
		return 0, common.CreateValidationErrorForPosition(
			fmt.Sprintf("line %d is past the end of the document", pos.Line))
	}
	lineEnd := len(s.text)
	if line+1 < len(s.starts) {
		lineEnd = s.starts[line+1] - 1
	}
	offset := s.starts[line] + int(pos.Character)
	if offset > lineEnd {
		return 0, common.CreateValidationErrorForPosition(
			fmt.Sprintf("character %d is past the end of line %d", pos.Character, pos.Line))
	}
	return offset, nil
}
