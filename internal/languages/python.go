package languages

// PythonQuery finds os.environ["KEY"] and os.getenv("KEY") patterns, plus
// concatenated keys like os.environ["REACT_APP_" + name]. Accessor
// validation happens in ExtractPython, not in query predicates.
const PythonQuery = `
[
  (subscript
    value: (attribute
      object: (identifier) @obj
      attribute: (identifier) @attr
    )
    subscript: (string) @key
  )
  (subscript
    value: (attribute
      object: (identifier) @obj
      attribute: (identifier) @attr
    )
    subscript: (binary_operator) @key_expr
  )
  (call
    function: (attribute
      object: (identifier) @callobj
      attribute: (identifier) @fn
    )
    arguments: (argument_list (string) @key)
  )
  (call
    function: (attribute
      object: (identifier) @callobj
      attribute: (identifier) @fn
    )
    arguments: (argument_list (binary_operator) @key_expr)
  )
]
`

// ExtractPython keeps matches that subscript os.environ or call os.getenv
// with a key following the naming convention.
func ExtractPython(captures map[string]string, prefix string) (Ref, bool) {
	subscript := captures["obj"] == "os" && captures["attr"] == "environ"
	call := captures["callobj"] == "os" && captures["fn"] == "getenv"
	if !subscript && !call {
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
