// Package frontend defines the language-analysis contract the completion and
// signature engines consume. A Frontend owns everything language-specific:
// turning buffer text into symbols, classifying the cursor context, proposing
// visible candidates, and recognizing call expressions. The engines stay
// language-neutral and talk to it through this package's types only.
package frontend

import (
	"context"

	"go.lsp.dev/protocol"

	"lsp-core/src/index"
)

// Snapshot is the read surface a Frontend gets for a built document. The
// concrete type lives in the documents package; this narrow view keeps the
// dependency pointing one way.
type Snapshot interface {
	// Path is the file path the document was opened under.
	Path() string
	// Text is the full buffer content the snapshot was built from.
	Text() string
	// Analysis is the result of the Frontend's own Analyze for this text.
	Analysis() *Analysis
	// OffsetFor converts a position to a byte offset into Text. Positions
	// outside the document bounds yield a validation error.
	OffsetFor(pos protocol.Position) (int, error)
}

// Analysis is what building a document produces: the symbols the file
// declares, which feed the dynamic index, plus whatever private state the
// Frontend wants back during candidate and call-context queries.
type Analysis struct {
	Symbols []index.Symbol
	Payload interface{}
}

// ContextKind classifies what the cursor is completing.
type ContextKind int

const (
	// ContextNone means no completion applies here (for example inside a
	// comment or string literal).
	ContextNone ContextKind = iota
	// ContextMember completes after a member access operator. Member
	// completion draws on frontend candidates only.
	ContextMember
	// ContextQualified completes after an explicit scope qualifier.
	ContextQualified
	// ContextGlobal completes after an explicit global-scope qualifier.
	ContextGlobal
	// ContextUnqualified completes a free-standing identifier.
	ContextUnqualified
)

func (k ContextKind) String() string {
	switch k {
	case ContextMember:
		return "member"
	case ContextQualified:
		return "qualified"
	case ContextGlobal:
		return "global"
	case ContextUnqualified:
		return "unqualified"
	default:
		return "none"
	}
}

// Context describes the completion position.
type Context struct {
	Kind ContextKind
	// Prefix is the partial identifier already typed, "" at a bare trigger.
	Prefix string
	// Scopes are the index scopes visible from the cursor, most specific
	// first; a "" entry denotes the global scope. Member contexts leave this
	// empty because member completion never queries the index.
	Scopes []string
}

// AccessLevel is the declared access of a member candidate.
type AccessLevel int

const (
	// AccessNone applies where access control is not a concept, such as
	// free functions and locals.
	AccessNone AccessLevel = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

func (a AccessLevel) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "none"
	}
}

// Proximity orders candidates by how close their declaration is to the
// cursor. The numeric order is the ranking order.
type Proximity int

const (
	// ProximityMember: declared on the type being accessed.
	ProximityMember Proximity = iota
	// ProximityEnclosing: declared in an enclosing scope of the cursor.
	ProximityEnclosing
	// ProximityGlobal: declared at file or global scope.
	ProximityGlobal
	// ProximityUnrelated: everything farther away, such as other files.
	ProximityUnrelated
)

// Candidate is one completion the Frontend proposes at a position. Candidates
// with an empty Name are malformed and dropped silently.
type Candidate struct {
	Name  string
	Scope string
	Kind  index.SymbolKind

	// Label overrides the displayed label; empty means name plus signature.
	// Frontends set it when insertion needs a qualifier the bare name lacks.
	Label string

	// FromInclude marks candidates declared in an included file rather than
	// the file itself. When an index is available it is the authority on
	// out-of-file symbols and these candidates are suppressed in its favor.
	FromInclude bool

	// Access is the candidate's declared access; Accessible reports whether
	// the cursor position may actually use it. Inaccessible candidates only
	// surface when the caller opts into ineligible results.
	Access     AccessLevel
	Accessible bool

	Proximity Proximity

	// Signature is the rendered parameter list including parentheses,
	// callables only. Params holds the individual parameter declarations,
	// defaults included.
	Signature  string
	Params     []string
	ReturnType string

	Documentation string

	// InsertText overrides the inserted text; empty means the name. Pattern
	// candidates put their placeholder body in SnippetText.
	InsertText  string
	SnippetText string
}

// Valid reports whether the candidate carries the minimum usable data.
func (c Candidate) Valid() bool {
	return c.Name != ""
}

// Callable reports whether completing the candidate forms a call.
func (c Candidate) Callable() bool {
	return c.Kind == index.KindFunction
}

// Overload is one callable signature for signature help, in the Frontend's
// preferred order.
type Overload struct {
	Name       string
	Params     []string
	ReturnType string
}

// CallContext describes the innermost call expression surrounding the
// cursor.
type CallContext struct {
	Overloads []Overload
	// ArgsStart is the byte offset just past the call's opening parenthesis,
	// where argument text begins.
	ArgsStart int
}

// Frontend is the language-specific collaborator behind completion and
// signature help. Implementations must be safe for concurrent use; the
// pipeline calls Analyze from worker goroutines and the query methods from
// request goroutines.
type Frontend interface {
	// Analyze builds the per-document analysis for one version of a file's
	// text. It should honor ctx cancellation; a superseded build cancels it.
	Analyze(ctx context.Context, path, text string) (*Analysis, error)

	// CompletionContext classifies the completion position. Returning a
	// Context with Kind ContextNone makes completion yield an empty,
	// complete list.
	CompletionContext(snap Snapshot, pos protocol.Position) Context

	// Candidates proposes the completions visible at the position for the
	// given context. The engine filters, dedups, ranks, and truncates.
	Candidates(snap Snapshot, pos protocol.Position, cctx Context) []Candidate

	// CallContext recognizes the call expression around the cursor. The
	// second result is false when the position is not inside a call, which
	// makes signature help absent rather than an error.
	CallContext(snap Snapshot, pos protocol.Position) (*CallContext, bool)
}
