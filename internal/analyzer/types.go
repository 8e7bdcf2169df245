package analyzer

// Reference represents a single usage of an environment variable in code
type Reference struct {
	Name          string // Variable name as written in source, empty for dynamic keys
	File          string // File path relative to the scan root
	Line          int    // 1-based line number
	Snippet       string // Trimmed source line containing the reference
	InIgnoredPath bool   // True if the reference sits in a folder suppressed via config
	Dynamic       bool   // True if the key is assembled at runtime
	Fragment      string // Literal fragment of a dynamic key, anchored at the prefix
	Expr          string // Source text of the dynamic key expression
}

// Missing is a referenced variable that no definition covers.
type Missing struct {
	Name       string
	Suggestion string // closest defined name, empty when nothing is near
	Refs       []Reference
}

// Dynamic is a runtime-assembled key whose fragment matches no definition.
type Dynamic struct {
	Expr     string
	Fragment string
	Refs     []Reference
}

// Result contains the complete comparison of references against
// definitions. Missing and Dynamic keep the order the references were
// discovered in.
type Result struct {
	References         []Reference
	Missing            []Missing
	Dynamic            []Dynamic
	Unused             []string // defined in files, never referenced; sorted
	IgnoredMissing     int      // missing variables suppressed via the config ignore list
	IgnoredFromFolders int      // unique variables suppressed because every usage sat in an ignored folder
}

// HasFindings reports whether the result carries anything worth showing.
func (r *Result) HasFindings() bool {
	return len(r.Missing) > 0 || len(r.Dynamic) > 0 || len(r.Unused) > 0
}
