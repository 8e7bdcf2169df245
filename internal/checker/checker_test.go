package checker

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jenian/envwarn/internal/scanner"
)

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func lookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func environFrom(pairs ...string) func() []string {
	return func() []string { return pairs }
}

// runCheck executes Check with captured streams and a fully controlled
// environment.
func runCheck(t *testing.T, root string, opts Options) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	opts.Stdout = &outBuf
	opts.Stderr = &errBuf
	if opts.LookupEnv == nil {
		opts.LookupEnv = lookupFrom(nil)
	}
	if opts.Environ == nil {
		opts.Environ = environFrom()
	}

	if ok := Check(root, opts); !ok {
		t.Fatal("Check returned false")
	}
	return outBuf.String(), errBuf.String()
}

func TestCheck_WarnsAndReturnsTrue(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js": "const a = process.env.REACT_APP_MISSING;\n",
	})

	stdout, stderr := runCheck(t, root, Options{})

	if !strings.Contains(stdout, "REACT_APP_MISSING is not defined") {
		t.Errorf("warning missing from stdout:\n%s", stdout)
	}
	if !strings.Contains(stdout, "used in: src/app.js:1") {
		t.Errorf("usage location missing from stdout:\n%s", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
}

func TestCheck_SilentWhenAllDefined(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js": "const a = process.env.REACT_APP_API_URL;\n",
	})

	stdout, stderr := runCheck(t, root, Options{
		Environ: environFrom("REACT_APP_API_URL=https://api.example.com"),
	})

	if stdout != "" || stderr != "" {
		t.Errorf("output on success: stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestCheck_SilentWhenNothingReferenced(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js":  "const port = process.env.PORT;\nconsole.log(port);\n",
		"src/util.js": "export const answer = 42;\n",
	})

	stdout, stderr := runCheck(t, root, Options{})

	if stdout != "" || stderr != "" {
		t.Errorf("output with no prefixed references: stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestCheck_ModeGate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		runs bool
	}{
		{"unset counts as development", map[string]string{}, true},
		{"empty counts as development", map[string]string{"NODE_ENV": ""}, true},
		{"development", map[string]string{"NODE_ENV": "development"}, true},
		{"production", map[string]string{"NODE_ENV": "production"}, false},
		{"test", map[string]string{"NODE_ENV": "test"}, false},
		{"staging", map[string]string{"NODE_ENV": "staging"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := project(t, map[string]string{
				"src/app.js": "const a = process.env.REACT_APP_MISSING;\n",
			})

			stdout, _ := runCheck(t, root, Options{LookupEnv: lookupFrom(tt.env)})

			if got := stdout != ""; got != tt.runs {
				t.Errorf("check ran = %v, want %v (stdout=%q)", got, tt.runs, stdout)
			}
		})
	}
}

func TestCheck_OptOut(t *testing.T) {
	tests := []struct {
		value string
		runs  bool
	}{
		{"true", false},
		{"TRUE", true},
		{"1", true},
		{"false", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run("DISABLE_ENV_CHECK="+tt.value, func(t *testing.T) {
			root := project(t, map[string]string{
				"src/app.js": "const a = process.env.REACT_APP_MISSING;\n",
			})

			stdout, _ := runCheck(t, root, Options{
				LookupEnv: lookupFrom(map[string]string{"DISABLE_ENV_CHECK": tt.value}),
			})

			if got := stdout != ""; got != tt.runs {
				t.Errorf("check ran = %v, want %v (stdout=%q)", got, tt.runs, stdout)
			}
		})
	}
}

func TestCheck_Suggestion(t *testing.T) {
	root := project(t, map[string]string{
		"src/api.js": "const url = process.env.REACT_APP_API_ULR;\n",
	})

	stdout, _ := runCheck(t, root, Options{
		Environ: environFrom("REACT_APP_API_URL=x"),
	})

	if !strings.Contains(stdout, "did you mean REACT_APP_API_URL?") {
		t.Errorf("suggestion missing from report:\n%s", stdout)
	}
}

func TestCheck_ReportsInDiscoveryOrder(t *testing.T) {
	root := project(t, map[string]string{
		"src/aaa.js": "const a = process.env.REACT_APP_ZZZ;\n",
		"src/bbb.js": "const b = process.env.REACT_APP_AAA;\n",
	})

	stdout, _ := runCheck(t, root, Options{})

	zzz := strings.Index(stdout, "REACT_APP_ZZZ")
	aaa := strings.Index(stdout, "REACT_APP_AAA")
	if zzz < 0 || aaa < 0 {
		t.Fatalf("expected both variables in report:\n%s", stdout)
	}
	if zzz > aaa {
		t.Errorf("report not in discovery order:\n%s", stdout)
	}
}

func TestCheck_EnvFileDefines(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js": "const a = process.env.REACT_APP_FROM_FILE;\n",
		".env":       "REACT_APP_FROM_FILE=1\n",
	})

	stdout, _ := runCheck(t, root, Options{})

	if stdout != "" {
		t.Errorf("variable defined in .env still reported:\n%s", stdout)
	}
}

func TestCheck_NoEnvFiles(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js": "const a = process.env.REACT_APP_FROM_FILE;\n",
		".env":       "REACT_APP_FROM_FILE=1\n",
	})

	stdout, _ := runCheck(t, root, Options{NoEnvFiles: true})

	if !strings.Contains(stdout, "REACT_APP_FROM_FILE is not defined") {
		t.Errorf("with NoEnvFiles the .env definition should not count:\n%s", stdout)
	}
}

func TestCheck_UnusedGatedByOption(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js": "const a = 1;\n",
		".env":       "REACT_APP_NEVER_USED=1\n",
	})

	stdout, _ := runCheck(t, root, Options{})
	if stdout != "" {
		t.Errorf("unused reported without the option:\n%s", stdout)
	}

	stdout, _ = runCheck(t, root, Options{ShowUnused: true})
	if !strings.Contains(stdout, "REACT_APP_NEVER_USED") {
		t.Errorf("unused variable missing from report:\n%s", stdout)
	}
}

func TestCheck_AdvisoryOnInternalError(t *testing.T) {
	root := project(t, map[string]string{
		".envwarn.config": "ignores: [",
		"src/app.js":      "const a = process.env.REACT_APP_MISSING;\n",
	})

	stdout, stderr := runCheck(t, root, Options{})
	if stdout != "" {
		t.Errorf("stdout = %q, want empty on internal error", stdout)
	}
	if !strings.Contains(stderr, "unable to validate environment variables") {
		t.Errorf("advisory missing from stderr: %q", stderr)
	}

	_, stderr = runCheck(t, root, Options{NonInteractive: true})
	if stderr != "" {
		t.Errorf("non-interactive run wrote to stderr: %q", stderr)
	}
}

func TestCheck_JSON(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js": "const a = process.env.REACT_APP_MISSING;\n",
	})

	stdout, _ := runCheck(t, root, Options{JSON: true})

	var report struct {
		Missing []struct {
			Name string `json:"name"`
		} `json:"missing"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(report.Missing) != 1 || report.Missing[0].Name != "REACT_APP_MISSING" {
		t.Errorf("report = %+v", report)
	}
}

func TestCheck_ConfigPrefixOverride(t *testing.T) {
	root := project(t, map[string]string{
		".envwarn.config": "prefix: VITE_\n",
		"src/app.js":      "const a = process.env.VITE_MISSING;\nconst b = process.env.REACT_APP_IGNORED;\n",
	})

	stdout, _ := runCheck(t, root, Options{})

	if !strings.Contains(stdout, "VITE_MISSING is not defined") {
		t.Errorf("configured prefix not honored:\n%s", stdout)
	}
	if strings.Contains(stdout, "REACT_APP_IGNORED") {
		t.Errorf("default prefix still active with config override:\n%s", stdout)
	}
}

func TestCheck_ConfigIgnoredFolder(t *testing.T) {
	root := project(t, map[string]string{
		".envwarn.config":      "ignores:\n  folders:\n    - src/generated\n",
		"src/app.js":           "const a = process.env.REACT_APP_REAL;\n",
		"src/generated/gen.js": "const b = process.env.REACT_APP_GENERATED;\n",
	})

	stdout, _ := runCheck(t, root, Options{})

	if !strings.Contains(stdout, "REACT_APP_REAL is not defined") {
		t.Errorf("visible finding missing:\n%s", stdout)
	}
	if strings.Contains(stdout, "REACT_APP_GENERATED is not defined") {
		t.Errorf("ignored folder finding reported:\n%s", stdout)
	}
	if !strings.Contains(stdout, "1 variable(s) found in ignored folders") {
		t.Errorf("ignored-folder note missing:\n%s", stdout)
	}
}

func TestCheck_VerboseProgress(t *testing.T) {
	root := project(t, map[string]string{
		"src/app.js": "const a = process.env.REACT_APP_API_URL;\n",
	})

	stdout, stderr := runCheck(t, root, Options{
		Verbose: true,
		Environ: environFrom("REACT_APP_API_URL=x"),
	})

	if !strings.Contains(stderr, "Found 1 files to check (js: 1)") {
		t.Errorf("progress missing from stderr: %q", stderr)
	}
	if !strings.Contains(stdout, "✓ All referenced environment variables are defined.") {
		t.Errorf("verbose confirmation missing: %q", stdout)
	}
}

func TestCheck_MissingRootStillSucceeds(t *testing.T) {
	stdout, stderr := runCheck(t, filepath.Join(t.TempDir(), "nope"), Options{})
	if stdout != "" || stderr != "" {
		t.Errorf("output for missing root: stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestFileCountReport(t *testing.T) {
	tests := []struct {
		name  string
		files []scanner.FileInfo
		want  string
	}{
		{
			name: "empty",
			want: "Found 0 files to check",
		},
		{
			name: "mixed languages in fixed order",
			files: []scanner.FileInfo{
				{Language: scanner.LanguageGo},
				{Language: scanner.LanguageJavaScript},
				{Language: scanner.LanguageJavaScript},
				{Language: scanner.LanguageTSX},
			},
			want: "Found 4 files to check (js: 2, tsx: 1, go: 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fileCountReport(tt.files); got != tt.want {
				t.Errorf("fileCountReport = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"empty environment", map[string]string{}, true},
		{"development", map[string]string{"NODE_ENV": "development"}, true},
		{"production", map[string]string{"NODE_ENV": "production"}, false},
		{"opt out", map[string]string{"DISABLE_ENV_CHECK": "true"}, false},
		{"opt out wrong case", map[string]string{"DISABLE_ENV_CHECK": "True"}, true},
		{"both gates", map[string]string{"NODE_ENV": "development", "DISABLE_ENV_CHECK": "true"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Enabled(lookupFrom(tt.env)); got != tt.want {
				t.Errorf("Enabled = %v, want %v", got, tt.want)
			}
		})
	}
}
