package checker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jenian/envwarn/internal/analyzer"
	"github.com/jenian/envwarn/internal/config"
	"github.com/jenian/envwarn/internal/envfile"
	"github.com/jenian/envwarn/internal/output"
	"github.com/jenian/envwarn/internal/parser"
	"github.com/jenian/envwarn/internal/scanner"
)

const (
	// DefaultPrefix is the variable naming convention checked when neither
	// the options nor the project config override it.
	DefaultPrefix = "REACT_APP_"

	envMode   = "NODE_ENV"
	envOptOut = "DISABLE_ENV_CHECK"

	// maxParallelParses caps the number of files parsed concurrently.
	maxParallelParses = 10
)

// Options configures a check. The zero value means: default prefix,
// web-client languages, conventional env files, interactive advisories,
// dynamic key reporting on, everything else off.
type Options struct {
	Prefix         string   // variable name prefix, e.g. "REACT_APP_"
	Languages      []string // language names to scan
	EnvFiles       []string // explicit definition files, highest file precedence
	NoEnvFiles     bool     // skip the conventional dotenv chain
	NonInteractive bool     // suppress the unable-to-validate advisory
	Verbose        bool     // progress on stderr, confirmation on success
	JSON           bool     // machine-readable report
	ShowUnused     bool     // report variables defined in files but never referenced
	NoDynamic      bool     // skip reporting of runtime-assembled keys
	IncludeGlobs   []string
	ExcludeGlobs   []string
	Debug          bool

	// Stdout and Stderr default to the process streams. The report goes
	// to Stdout, advisories and progress to Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// LookupEnv and Environ default to the process environment. LookupEnv
	// answers the enablement gates, Environ feeds the definitions.
	LookupEnv func(string) (string, bool)
	Environ   func() []string
}

func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	return o
}

// Enabled reports whether the check should run under the current
// environment. The check is development-time advice: any explicit mode
// other than development disables it, as does the opt-out variable. An
// unset or empty mode counts as development.
func Enabled(lookup func(string) (string, bool)) bool {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if mode, ok := lookup(envMode); ok && mode != "" && mode != "development" {
		return false
	}
	if optOut, _ := lookup(envOptOut); optOut == "true" {
		return false
	}
	return true
}

// Check scans the source tree at root for references to convention-named
// environment variables and reports the ones no definition covers. It
// always returns true: the check warns, it never blocks whatever invoked
// it. Internal failures collapse into a single advisory on Stderr, and
// only when NonInteractive is off.
func Check(root string, opts Options) bool {
	opts = opts.withDefaults()

	if !Enabled(opts.LookupEnv) {
		return true
	}

	if err := run(root, opts); err != nil {
		if !opts.NonInteractive {
			fmt.Fprintf(opts.Stderr, "envwarn: unable to validate environment variables: %v\n", err)
		}
	}
	return true
}

func run(root string, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if root == "" {
		root = "."
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = cfg.Prefix
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	names := opts.Languages
	if len(names) == 0 {
		names = cfg.Languages
	}
	langs, err := scanner.ParseLanguages(names)
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		langs = scanner.DefaultLanguages()
	}

	sc := scanner.NewScanner(langs)
	sc.AddIgnoredFolders(cfg.Ignores.Folders)
	sc.SetIncludeGlobs(opts.IncludeGlobs)
	sc.SetExcludeGlobs(opts.ExcludeGlobs)
	files := sc.Scan(root)

	if opts.Verbose {
		fmt.Fprintf(opts.Stderr, "%s\n", fileCountReport(files))
	}

	refs := parseAll(files, root, prefix, opts)

	loader := envfile.NewLoader()
	if opts.NoEnvFiles {
		loader.DisableAutoDetect()
	}
	loader.AddFiles(opts.EnvFiles...)
	if opts.Environ != nil {
		loader.SetEnviron(opts.Environ)
	}
	defs := loader.Collect(root, prefix)

	result := analyzer.Analyze(refs, defs, cfg)

	if opts.Debug {
		fmt.Fprintf(opts.Stderr, "[DEBUG] %d files, %d references, %d definitions\n",
			len(files), len(refs), defs.Len())
		for _, name := range defs.Names() {
			fmt.Fprintf(opts.Stderr, "[DEBUG] defined: %s (from %s)\n", name, defs.Source(name))
		}
	}

	return output.Format(opts.Stdout, result, defs, output.Options{
		JSON:        opts.JSON,
		ShowUnused:  opts.ShowUnused,
		ShowDynamic: !opts.NoDynamic,
		Verbose:     opts.Verbose,
	})
}

// fileCountReport summarizes the discovered files by language.
func fileCountReport(files []scanner.FileInfo) string {
	counts := make(map[scanner.Language]int)
	for _, file := range files {
		counts[file.Language]++
	}

	shortNames := map[scanner.Language]string{
		scanner.LanguageJavaScript: "js",
		scanner.LanguageTypeScript: "ts",
		scanner.LanguageTSX:        "tsx",
	}
	var parts []string
	for _, lang := range []scanner.Language{
		scanner.LanguageJavaScript, scanner.LanguageTypeScript, scanner.LanguageTSX,
		scanner.LanguageGo, scanner.LanguagePython, scanner.LanguageRust, scanner.LanguageJava,
	} {
		if counts[lang] == 0 {
			continue
		}
		name := shortNames[lang]
		if name == "" {
			name = string(lang)
		}
		parts = append(parts, fmt.Sprintf("%s: %d", name, counts[lang]))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Found %d files to check", len(files))
	}
	return fmt.Sprintf("Found %d files to check (%s)", len(files), strings.Join(parts, ", "))
}

// parseAll parses the files concurrently and reassembles the references
// in file order, so discovery order is stable run over run. Files that
// fail to parse are skipped: a broken file is the build's problem, not
// this check's.
func parseAll(files []scanner.FileInfo, root, prefix string, opts Options) []analyzer.Reference {
	p := parser.NewParser()
	results := make([][]analyzer.Reference, len(files))

	sem := make(chan struct{}, maxParallelParses)
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, file scanner.FileInfo) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil && opts.Debug {
					fmt.Fprintf(opts.Stderr, "[DEBUG] panic parsing %s: %v\n", file.Path, r)
				}
			}()

			refs, err := p.ParseFile(file, root, prefix)
			if err != nil {
				if opts.Debug {
					fmt.Fprintf(opts.Stderr, "[DEBUG] %s: %v\n", file.Path, err)
				}
				return
			}
			results[i] = refs
		}(i, file)
	}
	wg.Wait()

	var refs []analyzer.Reference
	for _, fileRefs := range results {
		refs = append(refs, fileRefs...)
	}
	return refs
}
