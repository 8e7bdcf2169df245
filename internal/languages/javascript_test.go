package languages

import (
	"reflect"
	"testing"
)

func TestExtractJS_StaticPatterns(t *testing.T) {
	tests := []struct {
		name     string
		captures map[string]string
		expected Ref
		ok       bool
	}{
		{
			name: "dot notation",
			captures: map[string]string{
				"obj":  "process",
				"prop": "env",
				"key":  "REACT_APP_API_URL",
			},
			expected: Ref{Name: "REACT_APP_API_URL"},
			ok:       true,
		},
		{
			name: "bracket notation with double quotes",
			captures: map[string]string{
				"obj":  "process",
				"prop": "env",
				"key":  `"REACT_APP_API_URL"`,
			},
			expected: Ref{Name: "REACT_APP_API_URL"},
			ok:       true,
		},
		{
			name: "bracket notation with single quotes",
			captures: map[string]string{
				"obj":  "process",
				"prop": "env",
				"key":  `'REACT_APP_SECRET_KEY'`,
			},
			expected: Ref{Name: "REACT_APP_SECRET_KEY"},
			ok:       true,
		},
		{
			name: "non-convention name is skipped",
			captures: map[string]string{
				"obj":  "process",
				"prop": "env",
				"key":  "NODE_ENV",
			},
			ok: false,
		},
		{
			name: "wrong object",
			captures: map[string]string{
				"obj":  "window",
				"prop": "env",
				"key":  "REACT_APP_API_URL",
			},
			ok: false,
		},
		{
			name: "wrong property",
			captures: map[string]string{
				"obj":  "process",
				"prop": "argv",
				"key":  "REACT_APP_API_URL",
			},
			ok: false,
		},
		{
			name: "lowercase tail is not a convention name",
			captures: map[string]string{
				"obj":  "process",
				"prop": "env",
				"key":  "REACT_APP_apiUrl",
			},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJS(tt.captures, "REACT_APP_")
			if ok != tt.ok {
				t.Fatalf("ExtractJS ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractJS = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestExtractJS_DynamicPatterns(t *testing.T) {
	captures := map[string]string{
		"obj":      "process",
		"prop":     "env",
		"key_expr": `"REACT_APP_" + name`,
	}

	ref, ok := ExtractJS(captures, "REACT_APP_")
	if !ok {
		t.Fatal("expected a dynamic ref")
	}
	if !ref.Dynamic {
		t.Error("ref should be marked dynamic")
	}
	if ref.Fragment != "REACT_APP_" {
		t.Errorf("fragment = %q, want REACT_APP_", ref.Fragment)
	}
	if ref.Expr != `"REACT_APP_" + name` {
		t.Errorf("expr = %q", ref.Expr)
	}

	// A concatenation without convention evidence is not a reference.
	captures["key_expr"] = `"other_" + name`
	if _, ok := ExtractJS(captures, "REACT_APP_"); ok {
		t.Error("non-convention concatenation should be skipped")
	}
}

func TestExtractJS_CustomPrefix(t *testing.T) {
	captures := map[string]string{
		"obj":  "process",
		"prop": "env",
		"key":  "VITE_API_URL",
	}

	if _, ok := ExtractJS(captures, "REACT_APP_"); ok {
		t.Error("VITE_API_URL should not match the REACT_APP_ convention")
	}

	ref, ok := ExtractJS(captures, "VITE_")
	if !ok || ref.Name != "VITE_API_URL" {
		t.Errorf("expected VITE_API_URL under the VITE_ prefix, got %+v ok=%v", ref, ok)
	}
}
