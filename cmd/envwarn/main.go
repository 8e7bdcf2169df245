package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jenian/envwarn/internal/checker"
	"github.com/jenian/envwarn/internal/config"
	"github.com/jenian/envwarn/internal/scanner"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "envwarn",
		Short: "Warn about referenced but undefined environment variables",
		Long:  "A development-time advisor that scans source code for convention-prefixed environment variable references and warns about the ones no definition covers. It never fails the build.",
	}

	checkCmd = &cobra.Command{
		Use:   "check [path]",
		Short: "Check a source tree for undefined environment variables",
		Long:  "Recursively scan a directory for environment variable references and compare them with .env files and the ambient environment. The command always exits 0: warnings are advice, not errors.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Create a .envwarn.config file in the current directory",
		Long:  "Creates a .envwarn.config file with a commented default configuration in the current directory.",
		RunE:  runInitConfig,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of envwarn",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	// Flags
	checkPath      string
	prefix         string
	langNames      []string
	envFiles       []string
	noEnvFiles     bool
	jsonOutput     bool
	showUnused     bool
	noDynamic      bool
	nonInteractive bool
	noHeader       bool
	includeGlobs   []string
	excludeGlobs   []string
	debug          bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkPath, "path", "p", ".", "Path to check (default: current directory)")
	checkCmd.Flags().StringVar(&prefix, "prefix", "", "Variable name prefix to check (default: "+checker.DefaultPrefix+")")
	checkCmd.Flags().StringSliceVar(&langNames, "langs", nil, "Languages to scan (javascript, typescript, go, python, rust, java)")
	checkCmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Additional definition file to load (repeatable)")
	checkCmd.Flags().BoolVar(&noEnvFiles, "no-env-files", false, "Skip the conventional .env file chain")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	checkCmd.Flags().BoolVar(&showUnused, "unused", false, "Also report variables defined in files but never referenced")
	checkCmd.Flags().BoolVar(&noDynamic, "no-dynamic", false, "Skip reporting of runtime-assembled keys")
	checkCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Suppress banner, progress and advisories (for hooks and scripts)")
	checkCmd.Flags().BoolVar(&noHeader, "no-header", false, "Skip printing the header")
	checkCmd.Flags().StringSliceVar(&includeGlobs, "include", nil, "Glob patterns to include")
	checkCmd.Flags().StringSliceVar(&excludeGlobs, "exclude", nil, "Glob patterns to exclude")
	checkCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := checkPath
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", absPath)
	}

	// Reject bad language names here, where an error is a usage error
	// rather than a silently collapsed check.
	if _, err := scanner.ParseLanguages(langNames); err != nil {
		return err
	}

	interactive := !jsonOutput && !nonInteractive
	if interactive && checker.Enabled(nil) {
		if !noHeader {
			printHeader()
		}
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", absPath)
	}

	checker.Check(absPath, checker.Options{
		Prefix:         prefix,
		Languages:      langNames,
		EnvFiles:       envFiles,
		NoEnvFiles:     noEnvFiles,
		NonInteractive: nonInteractive,
		Verbose:        interactive,
		JSON:           jsonOutput,
		ShowUnused:     showUnused,
		NoDynamic:      noDynamic,
		IncludeGlobs:   includeGlobs,
		ExcludeGlobs:   excludeGlobs,
		Debug:          debug,
	})

	// Warnings are advice. The command exits 0 so dev servers, hooks and
	// wrapper scripts are never blocked by it.
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.FileName); err == nil {
		return fmt.Errorf("%s already exists in the current directory", config.FileName)
	}

	configContent := `# .envwarn.config
# Configuration file for envwarn

# Variable naming convention to check. Defaults to REACT_APP_ when unset.
# prefix: REACT_APP_

# Languages to scan. Defaults to javascript and typescript.
# languages:
#   - javascript
#   - typescript

ignores:
  # Variables that are provided in custom ways (injected by the platform,
  # set in CI). These will not be reported as missing.
  missing:
    # - REACT_APP_BUILD_ID
    # Add more variable names here as needed

  # Folders whose findings are suppressed (generated code, fixtures).
  # Plain names are skipped entirely, paths are scanned but not reported.
  folders:
    # - src/generated
    # Add more folder names here as needed
`

	if err := os.WriteFile(config.FileName, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("failed to create %s: %w", config.FileName, err)
	}

	fmt.Printf("Created %s in the current directory\n", config.FileName)
	return nil
}

func printHeader() {
	header := `  ____ __  __ __ __ __    __  ____  ____  __  __
 ||    ||\ || || || ||    || // \\ || \\ ||\ ||
 ||==  ||\\|| \\ // \\ /\ // ||==|| ||_// ||\\||
 ||___ || \||  \V/   \V/\V/  ||  || || \\ || \||

`
	fmt.Print(header)
	fmt.Printf("Version: %s\n\n", Version)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
