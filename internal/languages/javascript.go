package languages

// JavaScriptQuery finds process.env.KEY patterns in JavaScript, TypeScript
// and TSX sources: dot notation, bracket notation with a string literal,
// and bracket notation over a concatenation ("REACT_APP_" + name).
// Accessor validation happens in ExtractJS, not in query predicates.
const JavaScriptQuery = `
[
  (member_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    property: (property_identifier) @key
  )
  (subscript_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    index: (string) @key
  )
  (subscript_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop
    )
    index: (binary_expression) @key_expr
  )
]
`

// ExtractJS keeps matches that access process.env with a key following the
// naming convention.
func ExtractJS(captures map[string]string, prefix string) (Ref, bool) {
	if captures["obj"] != "process" || captures["prop"] != "env" {
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
