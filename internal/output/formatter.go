package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jenian/envwarn/internal/analyzer"
	"github.com/jenian/envwarn/internal/config"
	"github.com/jenian/envwarn/internal/envfile"
)

// docURL points at the variable definition walkthrough in the README.
const docURL = "https://github.com/jenian/envwarn#defining-environment-variables"

// optOutVar is the variable a developer sets to skip the check entirely.
const optOutVar = "DISABLE_ENV_CHECK"

// colorEnabled is decided once at startup; tests override it.
var colorEnabled = initColorSupport()

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// initColorSupport decides once whether to emit ANSI colors: stdout must
// be a terminal and the platform must accept escape sequences.
func initColorSupport() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return enableANSI()
}

// getColor returns code when colors are enabled, empty string otherwise.
func getColor(code string) string {
	if colorEnabled {
		return code
	}
	return ""
}

// Options controls which report sections are rendered.
type Options struct {
	JSON        bool
	ShowUnused  bool
	ShowDynamic bool
	Verbose     bool
}

// Format writes the report for result to w. Sections keep the order the
// findings were discovered in, so repeated runs over an unchanged tree
// produce identical reports. Without findings nothing is written unless
// Verbose is set.
func Format(w io.Writer, result *analyzer.Result, defs *envfile.Snapshot, opts Options) error {
	if opts.JSON {
		return formatJSON(w, result, opts)
	}
	return formatHumanReadable(w, result, defs, opts)
}

// JSONReport is the machine-readable report shape.
type JSONReport struct {
	Missing            []JSONMissing `json:"missing"`
	Dynamic            []JSONDynamic `json:"dynamic"`
	Unused             []string      `json:"unused"`
	IgnoredMissing     int           `json:"ignored_missing"`
	IgnoredFromFolders int           `json:"ignored_from_folders"`
}

// JSONMissing is one undefined variable with every place it is used.
type JSONMissing struct {
	Name       string   `json:"name"`
	Suggestion string   `json:"suggestion,omitempty"`
	Locations  []string `json:"locations"`
}

// JSONDynamic is one unresolved runtime-assembled key.
type JSONDynamic struct {
	Expr      string   `json:"expr"`
	Fragment  string   `json:"fragment"`
	Locations []string `json:"locations"`
}

func formatJSON(w io.Writer, result *analyzer.Result, opts Options) error {
	report := JSONReport{
		Missing:            []JSONMissing{},
		Dynamic:            []JSONDynamic{},
		Unused:             []string{},
		IgnoredMissing:     result.IgnoredMissing,
		IgnoredFromFolders: result.IgnoredFromFolders,
	}

	for _, missing := range result.Missing {
		report.Missing = append(report.Missing, JSONMissing{
			Name:       missing.Name,
			Suggestion: missing.Suggestion,
			Locations:  locations(missing.Refs),
		})
	}
	if opts.ShowDynamic {
		for _, dyn := range result.Dynamic {
			report.Dynamic = append(report.Dynamic, JSONDynamic{
				Expr:      dyn.Expr,
				Fragment:  dyn.Fragment,
				Locations: locations(dyn.Refs),
			})
		}
	}
	if opts.ShowUnused {
		report.Unused = append(report.Unused, result.Unused...)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func locations(refs []analyzer.Reference) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		loc := fmt.Sprintf("%s:%d", ref.File, ref.Line)
		if ref.Snippet != "" {
			loc += fmt.Sprintf(" (%s)", truncateSnippet(ref.Snippet))
		}
		out = append(out, loc)
	}
	return out
}

func formatHumanReadable(w io.Writer, result *analyzer.Result, defs *envfile.Snapshot, opts Options) error {
	hasIssues := false

	if len(result.Missing) > 0 {
		hasIssues = true
		fmt.Fprintf(w, "%s%sWarning:%s the following environment variables are referenced in code but not defined:\n\n",
			getColor(colorBold), getColor(colorYellow), getColor(colorReset))

		for _, missing := range result.Missing {
			fmt.Fprintf(w, "  %s%s is not defined%s\n", getColor(colorRed), missing.Name, getColor(colorReset))
			if missing.Suggestion != "" {
				fmt.Fprintf(w, "    %sdid you mean %s%s%s?%s\n",
					getColor(colorGray), getColor(colorCyan), missing.Suggestion, getColor(colorGray), getColor(colorReset))
			}
			writeUsages(w, missing.Refs)
			fmt.Fprintln(w)
		}
	}

	if opts.ShowDynamic && len(result.Dynamic) > 0 {
		hasIssues = true
		fmt.Fprintf(w, "%s%sDynamic keys that match no defined variable:%s\n\n",
			getColor(colorBold), getColor(colorYellow), getColor(colorReset))

		for _, dyn := range result.Dynamic {
			fmt.Fprintf(w, "  %s%s%s\n", getColor(colorYellow), dyn.Expr, getColor(colorReset))
			writeUsages(w, dyn.Refs)
			fmt.Fprintln(w)
		}
	}

	if opts.ShowUnused && len(result.Unused) > 0 {
		hasIssues = true
		fmt.Fprintf(w, "%s%sUnused variables (defined but never referenced):%s\n\n",
			getColor(colorBold), getColor(colorYellow), getColor(colorReset))

		for _, name := range result.Unused {
			value, _ := defs.Value(name)
			source := defs.Source(name)
			if source == "" {
				source = ".env"
			}
			fmt.Fprintf(w, "  %s%s%s=%s%s%s %s(in %s)%s\n",
				getColor(colorYellow), name, getColor(colorReset),
				getColor(colorGray), redactValue(value), getColor(colorReset),
				getColor(colorGray), source, getColor(colorReset))
		}
		fmt.Fprintln(w)
	}

	if hasIssues || opts.Verbose {
		if result.IgnoredMissing > 0 {
			fmt.Fprintf(w, "%sNote:%s %d missing variable(s) were ignored (configured in %s)\n",
				getColor(colorGray), getColor(colorReset), result.IgnoredMissing, config.FileName)
		}
		if result.IgnoredFromFolders > 0 {
			fmt.Fprintf(w, "%sNote:%s %d variable(s) found in ignored folders were excluded (configured in %s)\n",
				getColor(colorGray), getColor(colorReset), result.IgnoredFromFolders, config.FileName)
		}
		if result.IgnoredMissing > 0 || result.IgnoredFromFolders > 0 {
			fmt.Fprintln(w)
		}
	}

	if hasIssues {
		fmt.Fprintf(w, "To define a variable, add it to your .env file or export it before starting the dev server:\n  %s%s%s\n\n",
			getColor(colorCyan), docURL, getColor(colorReset))
		fmt.Fprintf(w, "Set %s=true to skip this check.\n", optOutVar)
		return nil
	}

	if opts.Verbose {
		fmt.Fprintf(w, "%s%s✓ All referenced environment variables are defined.%s\n",
			getColor(colorGreen), getColor(colorBold), getColor(colorReset))
	}

	return nil
}

func writeUsages(w io.Writer, refs []analyzer.Reference) {
	for _, ref := range refs {
		filePath := ref.File
		if filePath == "" {
			filePath = "<unknown>"
		}
		fmt.Fprintf(w, "    %sused in:%s %s%s%s:%s%d%s",
			getColor(colorGray), getColor(colorReset),
			getColor(colorCyan), filePath, getColor(colorReset),
			getColor(colorYellow), ref.Line, getColor(colorReset))
		if ref.Snippet != "" {
			fmt.Fprintf(w, "  %s%s%s", getColor(colorGray), truncateSnippet(ref.Snippet), getColor(colorReset))
		}
		fmt.Fprintln(w)
	}
}

// truncateSnippet caps long source lines for display.
func truncateSnippet(snippet string) string {
	if len(snippet) > 80 {
		return snippet[:77] + "..."
	}
	return snippet
}

// redactValue hides a defined value's content while keeping enough shape
// to recognize it. Long or base64-looking values are fully redacted.
func redactValue(value string) string {
	if value == "" {
		return `""`
	}
	if len(value) > 20 {
		return "[REDACTED]"
	}
	if strings.ContainsAny(value, "=+/") && len(value) > 10 {
		return "[REDACTED]"
	}
	// Short values keep their first and last character.
	if len(value) > 4 {
		return string(value[0]) + "..." + string(value[len(value)-1])
	}
	return "***"
}

// HasIssues reports whether the result carries findings the options would
// render. Ignored variables never count as issues.
func HasIssues(result *analyzer.Result, opts Options) bool {
	if len(result.Missing) > 0 {
		return true
	}
	if opts.ShowDynamic && len(result.Dynamic) > 0 {
		return true
	}
	if opts.ShowUnused && len(result.Unused) > 0 {
		return true
	}
	return false
}
