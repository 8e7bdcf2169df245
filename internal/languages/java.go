package languages

// JavaQuery finds System.getenv("KEY") and System.getenv().get("KEY")
// patterns, plus concatenated keys like System.getenv("REACT_APP_" + name).
// Accessor validation happens in ExtractJava, not in query predicates.
const JavaQuery = `
[
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list (string_literal) @key)
  )
  (method_invocation
    object: (method_invocation
      object: (identifier) @obj
      name: (identifier) @inner
    )
    name: (identifier) @method
    arguments: (argument_list (string_literal) @key)
  )
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list (binary_expression) @key_expr)
  )
  (method_invocation
    object: (method_invocation
      object: (identifier) @obj
      name: (identifier) @inner
    )
    name: (identifier) @method
    arguments: (argument_list (binary_expression) @key_expr)
  )
]
`

// ExtractJava keeps matches that call System.getenv, directly or through
// the map form System.getenv().get, with a key following the naming
// convention.
func ExtractJava(captures map[string]string, prefix string) (Ref, bool) {
	if captures["obj"] != "System" {
		return Ref{}, false
	}
	inner, nested := captures["inner"]
	direct := !nested && captures["method"] == "getenv"
	mapGet := nested && inner == "getenv" && captures["method"] == "get"
	if !direct && !mapGet {
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
