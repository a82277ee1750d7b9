// Package index defines the symbol data model and the in-memory symbol
// indexes completion draws from: an immutable prebuilt StaticIndex, a
// per-file DynamicIndex rebuilt as open files change, and a merged view
// composing both.
package index

import (
	"strings"

	"go.lsp.dev/protocol"
)

// ScopeSeparator joins scope segments in qualified names.
const ScopeSeparator = "::"

// SymbolID is the opaque stable identity of a symbol, derived from its
// qualified name and overload signature. Two symbols with equal IDs denote
// the same entity regardless of origin.
type SymbolID string

// SymbolKind classifies a symbol for display and ranking.
type SymbolKind int

const (
	KindOther SymbolKind = iota
	KindFunction
	KindClass
	KindVariable
	KindMacro
	KindKeyword
	KindSnippet
)

var kindNames = map[SymbolKind]string{
	KindOther:    "other",
	KindFunction: "function",
	KindClass:    "class",
	KindVariable: "variable",
	KindMacro:    "macro",
	KindKeyword:  "keyword",
	KindSnippet:  "snippet",
}

func (k SymbolKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// CompletionItemKind maps the symbol kind onto the LSP completion item kind.
// Macros have no LSP counterpart and surface as plain text.
func (k SymbolKind) CompletionItemKind() protocol.CompletionItemKind {
	switch k {
	case KindFunction:
		return protocol.CompletionItemKindFunction
	case KindClass:
		return protocol.CompletionItemKindClass
	case KindVariable:
		return protocol.CompletionItemKindVariable
	case KindKeyword:
		return protocol.CompletionItemKindKeyword
	case KindSnippet:
		return protocol.CompletionItemKindSnippet
	default:
		return protocol.CompletionItemKindText
	}
}

// Origin tags which source produced a symbol.
type Origin int

const (
	// OriginDynamic marks symbols from live analysis of open files.
	OriginDynamic Origin = iota
	// OriginStatic marks symbols from a prebuilt index.
	OriginStatic
)

func (o Origin) String() string {
	if o == OriginStatic {
		return "static"
	}
	return "dynamic"
}

// Symbol describes one named program entity. Values are treated as immutable
// once constructed.
type Symbol struct {
	ID    SymbolID
	Name  string
	Scope string // qualifier path without trailing separator, "" for the global scope
	Kind  SymbolKind

	Label       string // completion label; DisplayLabel falls back to Name+Signature
	InsertText  string // plain insert form; defaults to Name
	SnippetText string // optional insert form with placeholder markers

	Detail        string   // return type or declared type
	Documentation string   // brief comment text
	Signature     string   // rendered parameter list including parentheses, callables only
	Params        []string // individual rendered parameter declarations

	Origin Origin
}

// NewSymbol builds a symbol from a qualified name like "ns::foo". The scope
// is everything before the last separator.
func NewSymbol(qualifiedName string, kind SymbolKind) Symbol {
	scope, name := SplitQualified(qualifiedName)
	sym := Symbol{
		Name:  name,
		Scope: scope,
		Kind:  kind,
	}
	sym.ID = NewSymbolID(scope, name, "")
	return sym
}

// NewSymbolID derives the stable identity for a qualified name and overload
// signature.
func NewSymbolID(scope, name, signature string) SymbolID {
	if scope == "" {
		return SymbolID(name + signature)
	}
	return SymbolID(scope + ScopeSeparator + name + signature)
}

// SplitQualified splits "a::b::name" at the last separator into
// ("a::b", "name"). Names without a separator are global.
func SplitQualified(qualifiedName string) (scope, name string) {
	idx := strings.LastIndex(qualifiedName, ScopeSeparator)
	if idx < 0 {
		return "", qualifiedName
	}
	return qualifiedName[:idx], qualifiedName[idx+len(ScopeSeparator):]
}

// QualifiedName renders the scope-qualified name.
func (s Symbol) QualifiedName() string {
	if s.Scope == "" {
		return s.Name
	}
	return s.Scope + ScopeSeparator + s.Name
}

// DisplayLabel is the label completion shows: the explicit label when set,
// otherwise the name with its parameter list.
func (s Symbol) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	if s.Signature != "" {
		return s.Name + s.Signature
	}
	return s.Name
}

// Callable reports whether the symbol can head a call expression.
func (s Symbol) Callable() bool {
	return s.Kind == KindFunction
}

// Valid reports whether the symbol carries the minimum usable data.
// Malformed symbols are dropped silently wherever they enter an index.
func (s Symbol) Valid() bool {
	return s.Name != ""
}

// withID fills a missing identity from the symbol's own fields.
func (s Symbol) withID() Symbol {
	if s.ID == "" {
		s.ID = NewSymbolID(s.Scope, s.Name, s.Signature)
	}
	return s
}
