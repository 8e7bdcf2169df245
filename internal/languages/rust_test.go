package languages

import (
	"reflect"
	"testing"
)

func TestExtractRust(t *testing.T) {
	tests := []struct {
		name     string
		captures map[string]string
		expected Ref
		ok       bool
	}{
		{
			name: "env::var",
			captures: map[string]string{
				"path": "env",
				"fn":   "var",
				"key":  `"REACT_APP_API_URL"`,
			},
			expected: Ref{Name: "REACT_APP_API_URL"},
			ok:       true,
		},
		{
			name: "std::env::var",
			captures: map[string]string{
				"root": "std",
				"path": "env",
				"fn":   "var",
				"key":  `"REACT_APP_REGION"`,
			},
			expected: Ref{Name: "REACT_APP_REGION"},
			ok:       true,
		},
		{
			name: "env::var_os",
			captures: map[string]string{
				"path": "env",
				"fn":   "var_os",
				"key":  `"REACT_APP_SECRET"`,
			},
			expected: Ref{Name: "REACT_APP_SECRET"},
			ok:       true,
		},
		{
			name: "other env call",
			captures: map[string]string{
				"path": "env",
				"fn":   "remove_var",
				"key":  `"REACT_APP_API_URL"`,
			},
			ok: false,
		},
		{
			name: "other scoped call",
			captures: map[string]string{
				"path": "fs",
				"fn":   "var",
				"key":  `"REACT_APP_API_URL"`,
			},
			ok: false,
		},
		{
			name: "other root",
			captures: map[string]string{
				"root": "tokio",
				"path": "env",
				"fn":   "var",
				"key":  `"REACT_APP_API_URL"`,
			},
			ok: false,
		},
		{
			name: "non-convention key",
			captures: map[string]string{
				"path": "env",
				"fn":   "var",
				"key":  `"RUST_LOG"`,
			},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractRust(tt.captures, "REACT_APP_")
			if ok != tt.ok {
				t.Fatalf("ExtractRust ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractRust = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
