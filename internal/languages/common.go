package languages

import "strings"

// Ref is a single environment variable reference extracted from one query
// match.
type Ref struct {
	Name     string // variable name as written in source, e.g. REACT_APP_API_URL
	Dynamic  bool   // key is assembled at runtime from a concatenation
	Fragment string // literal fragment of a dynamic key, anchored at the prefix
	Expr     string // source text of the dynamic key expression
}

// Spec couples the Tree-Sitter query for a language with the filter that
// turns a single match's captures into a reference.
type Spec struct {
	Query string
	// Extract validates the captures of one query match against the
	// language's environment accessor and the naming convention. ok is
	// false when the match is not an environment access or the key does
	// not follow the convention.
	Extract func(captures map[string]string, prefix string) (ref Ref, ok bool)
}

// Get returns the spec for a scanner language name, or nil when the
// language has no extraction support.
func Get(lang string) *Spec {
	switch lang {
	case "javascript", "typescript", "tsx":
		return &Spec{Query: JavaScriptQuery, Extract: ExtractJS}
	case "go":
		return &Spec{Query: GoQuery, Extract: ExtractGo}
	case "python":
		return &Spec{Query: PythonQuery, Extract: ExtractPython}
	case "rust":
		return &Spec{Query: RustQuery, Extract: ExtractRust}
	case "java":
		return &Spec{Query: JavaQuery, Extract: ExtractJava}
	default:
		return nil
	}
}

// MatchesConvention reports whether name is the prefix followed by a
// nonempty uppercase snake-case tail. The prefix is compared verbatim:
// convention names are literal identifiers in source code.
func MatchesConvention(name, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return false
	}
	return isUpperSnake(name[len(prefix):])
}

// fragmentMatches reports whether the literal fragment of a dynamic key is
// anchored at the prefix. Unlike MatchesConvention the tail may be empty:
// "REACT_APP_" + name carries the convention without completing a name.
func fragmentMatches(fragment, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(fragment, prefix) {
		return false
	}
	tail := fragment[len(prefix):]
	return tail == "" || isUpperSnake(tail)
}

func isUpperSnake(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

// dynamicRef builds a Ref for a concatenated key expression when one of its
// string literals is anchored at the prefix.
func dynamicRef(expr, prefix string) (Ref, bool) {
	frag := firstString(expr)
	if !fragmentMatches(frag, prefix) {
		frag = lastString(expr)
		if !fragmentMatches(frag, prefix) {
			return Ref{}, false
		}
	}
	return Ref{Dynamic: true, Fragment: frag, Expr: expr}, true
}

// firstString extracts the first quoted literal from an expression.
func firstString(expr string) string {
	start := -1
	var quote byte
	for i := 0; i < len(expr); i++ {
		if expr[i] == '"' || expr[i] == '\'' || expr[i] == '`' {
			if start == -1 {
				start = i
				quote = expr[i]
			} else if expr[i] == quote {
				return expr[start+1 : i]
			}
		}
	}
	return ""
}

// lastString extracts the last quoted literal from an expression.
func lastString(expr string) string {
	end := -1
	var quote byte
	for i := len(expr) - 1; i >= 0; i-- {
		if expr[i] == '"' || expr[i] == '\'' || expr[i] == '`' {
			if end == -1 {
				end = i
				quote = expr[i]
			} else if expr[i] == quote {
				return expr[i+1 : end]
			}
		}
	}
	return ""
}

// trimQuotes removes one layer of surrounding quotes from a string literal.
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') ||
			(s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
