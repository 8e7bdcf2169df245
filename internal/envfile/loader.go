package envfile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Snapshot holds the environment variables visible to the check: names in
// first-encounter order, current values, and the source each name came
// from. Names carrying the convention prefix are the only ones admitted.
type Snapshot struct {
	names    []string
	values   map[string]string
	sources  map[string]string
	fileOnly map[string]bool
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		values:   make(map[string]string),
		sources:  make(map[string]string),
		fileOnly: make(map[string]bool),
	}
}

func (s *Snapshot) set(name, value, source string, fromFile bool) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
	s.sources[name] = source
	if fromFile {
		s.fileOnly[name] = true
	} else {
		delete(s.fileOnly, name)
	}
}

// Has reports whether name is defined. The match is exact: environment
// variable names are case sensitive at runtime.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Value returns the defined value for name.
func (s *Snapshot) Value(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Source returns where name was defined, e.g. ".env.local" or
// "environment".
func (s *Snapshot) Source(name string) string {
	return s.sources[name]
}

// Names returns every defined name in first-encounter order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// FileOnly returns the names defined in files but absent from the ambient
// environment, in encounter order. These are the candidates for the
// unused-variable report.
func (s *Snapshot) FileOnly() []string {
	var out []string
	for _, name := range s.names {
		if s.fileOnly[name] {
			out = append(out, name)
		}
	}
	return out
}

// Len returns the number of defined names.
func (s *Snapshot) Len() int {
	return len(s.names)
}

// Loader collects variable definitions from conventional files, explicit
// files, and the ambient environment.
type Loader struct {
	files   []string
	noAuto  bool
	environ func() []string
}

// NewLoader creates a loader with auto-detection of conventional files
// enabled and the process environment as the ambient source.
func NewLoader() *Loader {
	return &Loader{}
}

// AddFiles appends explicit definition files. They override the
// auto-detected ones, in the order given.
func (l *Loader) AddFiles(paths ...string) {
	l.files = append(l.files, paths...)
}

// DisableAutoDetect turns off loading of the conventional dotenv chain.
func (l *Loader) DisableAutoDetect() {
	l.noAuto = true
}

// SetEnviron replaces the ambient environment source. Tests use this to
// decouple from the process environment.
func (l *Loader) SetEnviron(fn func() []string) {
	l.environ = fn
}

// autoFiles returns the conventional definition files present under root,
// in ascending precedence. This is the development-mode chain: later
// entries override earlier ones.
func autoFiles(root string) []string {
	candidates := []string{
		".env",
		".env.development",
		".env.local",
		".env.development.local",
	}
	var found []string
	for _, name := range candidates {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			found = append(found, path)
		}
	}
	return found
}

// matchesPrefix reports whether name carries the convention prefix. The
// comparison ignores case: definition files sometimes spell names in a
// different case than the code references them.
func matchesPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
}

// Collect gathers every prefix-matching definition visible from root.
// File layers load in ascending precedence and the ambient environment
// wins over all of them. Unreadable files are skipped: collection never
// fails the caller.
func (l *Loader) Collect(root, prefix string) *Snapshot {
	snap := newSnapshot()

	if !l.noAuto {
		for _, path := range autoFiles(root) {
			l.mergeFile(snap, path, prefix)
		}
	}
	for _, path := range l.files {
		l.mergeFile(snap, path, prefix)
	}

	environ := l.environ
	if environ == nil {
		environ = os.Environ
	}
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !matchesPrefix(name, prefix) {
			continue
		}
		snap.set(name, value, "environment", false)
	}

	return snap
}

func (l *Loader) mergeFile(snap *Snapshot, path, prefix string) {
	vars, err := parseFile(path)
	if err != nil {
		return
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if matchesPrefix(name, prefix) {
			snap.set(name, vars[name], filepath.Base(path), true)
		}
	}
}
