package completion

// Options controls what completion admits and how items render. The zero
// value is the most restrictive configuration; DefaultOptions is what the
// server uses absent explicit configuration.
type Options struct {
	// Limit bounds the result list; 0 means unbounded. When more candidates
	// survive filtering than Limit, the list is truncated and marked
	// incomplete.
	Limit int

	// IncludeGlobals admits out-of-scope results: index symbols and frontend
	// candidates at global or unrelated proximity. Macros, keywords, and
	// code patterns are not affected.
	IncludeGlobals bool

	// IncludeMacros admits macro candidates.
	IncludeMacros bool

	// IncludeBriefComments attaches documentation to rendered items.
	IncludeBriefComments bool

	// IncludeCodePatterns admits code-pattern candidates.
	IncludeCodePatterns bool

	// IncludeIneligibleResults keeps inaccessible members in the list,
	// ranked below every eligible result.
	IncludeIneligibleResults bool

	// EnableSnippets renders callables and patterns as placeholder snippets
	// instead of plain names.
	EnableSnippets bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Limit:                100,
		IncludeGlobals:       true,
		IncludeMacros:        true,
		IncludeBriefComments: true,
		IncludeCodePatterns:  true,
	}
}
