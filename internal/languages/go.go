package languages

// GoQuery finds os.Getenv("KEY") and os.LookupEnv("KEY") patterns, plus
// concatenated keys like os.Getenv("REACT_APP_" + name). Accessor
// validation happens in ExtractGo, not in query predicates.
const GoQuery = `
[
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list (interpreted_string_literal) @key)
  )
  (call_expression
    function: (selector_expression
      operand: (identifier) @obj
      field: (field_identifier) @fn
    )
    arguments: (argument_list (binary_expression) @key_expr)
  )
]
`

// ExtractGo keeps matches that call os.Getenv or os.LookupEnv with a key
// following the naming convention.
func ExtractGo(captures map[string]string, prefix string) (Ref, bool) {
	if captures["obj"] != "os" {
		return Ref{}, false
	}
	if fn := captures["fn"]; fn != "Getenv" && fn != "LookupEnv" {
		return Ref{}, false
	}

	if key := captures["key"]; key != "" {
		name := trimQuotes(key)
		if !MatchesConvention(name, prefix) {
			return Ref{}, false
		}
		return Ref{Name: name}, true
	}

	if expr := captures["key_expr"]; expr != "" {
		return dynamicRef(expr, prefix)
	}

	return Ref{}, false
}
