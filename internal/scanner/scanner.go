package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Language identifies a supported source language.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageUnknown    Language = "unknown"
)

// DefaultLanguages is the set scanned without an explicit selection: the
// web-client languages the convention prefix belongs to.
func DefaultLanguages() []Language {
	return []Language{LanguageJavaScript, LanguageTypeScript, LanguageTSX}
}

// ParseLanguages converts user-supplied language names into the scanner's
// set. "typescript" enables the TSX dialect as well.
func ParseLanguages(names []string) ([]Language, error) {
	var langs []Language
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "javascript", "js":
			langs = append(langs, LanguageJavaScript)
		case "typescript", "ts":
			langs = append(langs, LanguageTypeScript, LanguageTSX)
		case "tsx":
			langs = append(langs, LanguageTSX)
		case "go", "golang":
			langs = append(langs, LanguageGo)
		case "python", "py":
			langs = append(langs, LanguagePython)
		case "rust", "rs":
			langs = append(langs, LanguageRust)
		case "java":
			langs = append(langs, LanguageJava)
		case "":
			continue
		default:
			return nil, fmt.Errorf("unsupported language: %s", name)
		}
	}
	return langs, nil
}

// FileInfo describes a file selected for parsing.
type FileInfo struct {
	Path          string
	Language      Language
	InIgnoredPath bool // file sits in a folder suppressed via config
}

// Scanner handles file discovery and filtering.
type Scanner struct {
	enabled      map[Language]bool
	excludeDirs  map[string]bool // directory names skipped outright (node_modules, ...)
	excludePaths []string        // relative paths whose findings are suppressed
	excludeGlobs []string
	includeGlobs []string
	scanRoot     string
}

// NewScanner creates a scanner for the given languages with the default
// dependency/build directory exclusions.
func NewScanner(langs []Language) *Scanner {
	enabled := make(map[Language]bool, len(langs))
	for _, lang := range langs {
		enabled[lang] = true
	}
	return &Scanner{
		enabled: enabled,
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".git":         true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"out":          true,
			".next":        true,
			".cache":       true,
		},
	}
}

// SetExcludeGlobs sets glob patterns to exclude.
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// SetIncludeGlobs sets glob patterns to include (overrides excludes).
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// AddIgnoredFolders registers folders whose findings are suppressed. Plain
// names become hard directory exclusions; entries containing a separator,
// including a trailing one like "config/", are treated as paths relative
// to the scan root — their files are still parsed so the variables count
// as seen, but nothing in them is reported.
func (s *Scanner) AddIgnoredFolders(folders []string) {
	for _, folder := range folders {
		trimmed := strings.TrimRight(folder, "/\\")
		if trimmed == "" {
			continue
		}
		if strings.Contains(trimmed, "/") || strings.Contains(trimmed, "\\") || folder != trimmed {
			s.excludePaths = append(s.excludePaths, trimmed)
		} else {
			s.excludeDirs[trimmed] = true
		}
	}
}

// testDirs are directory names that mark their contents as test code or
// fixtures.
var testDirs = map[string]bool{
	"__tests__": true,
	"__mocks__": true,
	"testdata":  true,
	"tests":     true,
}

// detectLanguage determines the language from the file extension.
func detectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".js", ".jsx", ".mjs":
		return LanguageJavaScript
	case ".ts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".rs":
		return LanguageRust
	case ".java":
		return LanguageJava
	default:
		return LanguageUnknown
	}
}

// isTestFile reports whether the file name marks a test by its language's
// convention.
func isTestFile(name string, lang Language) bool {
	if strings.Contains(name, ".test.") || strings.Contains(name, ".spec.") {
		return true
	}
	switch lang {
	case LanguageGo:
		return strings.HasSuffix(name, "_test.go")
	case LanguagePython:
		return strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py") || name == "conftest.py"
	case LanguageJava:
		return strings.HasSuffix(name, "Test.java")
	}
	return false
}

// matchesGlob checks if a path matches any of the glob patterns.
func matchesGlob(path string, globs []string) bool {
	for _, glob := range globs {
		matched, _ := filepath.Match(glob, filepath.Base(path))
		if matched {
			return true
		}
		matched, _ = filepath.Match(glob, path)
		if matched {
			return true
		}
	}
	return false
}

// shouldInclude checks a file against the include/exclude glob sets.
func (s *Scanner) shouldInclude(path string) bool {
	if len(s.includeGlobs) > 0 {
		return matchesGlob(path, s.includeGlobs)
	}
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(path, s.excludeGlobs)
	}
	return true
}

// isInIgnoredPath checks if a file path sits under a suppressed folder.
func (s *Scanner) isInIgnoredPath(filePath string) bool {
	if s.scanRoot == "" || len(s.excludePaths) == 0 {
		return false
	}

	relPath, err := filepath.Rel(s.scanRoot, filePath)
	if err != nil {
		return false
	}
	rel := filepath.ToSlash(relPath)

	for _, excludePath := range s.excludePaths {
		excl := filepath.ToSlash(excludePath)
		if rel == excl || strings.HasPrefix(rel, excl+"/") {
			return true
		}
		// Support patterns like "src/config/*".
		if strings.HasSuffix(excl, "/*") {
			prefix := strings.TrimSuffix(excl, "/*")
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
		}
	}

	return false
}

// Scan walks root and returns the files to parse, in walk order. A missing
// or unreadable root yields no files: discovery never fails the caller.
// Test files and test directories are excluded; dependency and build
// directories are skipped outright.
func (s *Scanner) Scan(root string) []FileInfo {
	var files []FileInfo

	s.scanRoot = root

	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			name := info.Name()
			if path != root && (s.excludeDirs[name] || testDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		lang := detectLanguage(path)
		if lang == LanguageUnknown || !s.enabled[lang] {
			return nil
		}
		if isTestFile(info.Name(), lang) {
			return nil
		}
		if !s.shouldInclude(path) {
			return nil
		}

		files = append(files, FileInfo{
			Path:          path,
			Language:      lang,
			InIgnoredPath: s.isInIgnoredPath(path),
		})

		return nil
	})

	return files
}
