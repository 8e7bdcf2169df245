package languages

// RustQuery finds env::var("KEY") and std::env::var("KEY") patterns.
// Accessor validation happens in ExtractRust, not in query predicates.
// Rust has no concatenation arm: a &str key cannot be built with a plain
// binary expression, so dynamic keys never surface this way.
const RustQuery = `
[
  (call_expression
    function: (scoped_identifier
      path: (identifier) @path
      name: (identifier) @fn
    )
    arguments: (arguments (string_literal) @key)
  )
  (call_expression
    function: (scoped_identifier
      path: (scoped_identifier
        path: (identifier) @root
        name: (identifier) @path
      )
      name: (identifier) @fn
    )
    arguments: (arguments (string_literal) @key)
  )
]
`

// ExtractRust keeps matches that call env::var or env::var_os (optionally
// rooted at std) with a key following the naming convention.
func ExtractRust(captures map[string]string, prefix string) (Ref, bool) {
	if captures["path"] != "env" {
		return Ref{}, false
	}
	if fn := captures["fn"]; fn != "var" && fn != "var_os" {
		return Ref{}, false
	}
	if root, ok := captures["root"]; ok && root != "std" {
		return Ref{}, false
	}

	name := trimQuotes(captures["key"])
	if !MatchesConvention(name, prefix) {
		return Ref{}, false
	}
	return Ref{Name: name}, true
}
