package analyzer

import (
	"sort"
	"strings"

	"github.com/jenian/envwarn/internal/config"
	"github.com/jenian/envwarn/internal/envfile"
	"github.com/jenian/envwarn/internal/suggest"
)

// Analyze compares the references discovered in code with the collected
// definitions. refs must be in discovery order; the result's Missing and
// Dynamic sections keep that order so repeated runs over the same tree
// report identically.
func Analyze(refs []Reference, defs *envfile.Snapshot, cfg *config.Config) *Result {
	result := &Result{References: refs}

	// Group references by name, dynamic ones by expression, keeping the
	// order each key was first seen in.
	var nameOrder []string
	byName := make(map[string][]Reference)
	var exprOrder []string
	byExpr := make(map[string][]Reference)
	fragments := make(map[string]string)

	for _, ref := range refs {
		if ref.Dynamic {
			key := ref.Expr
			if key == "" {
				key = ref.Fragment
			}
			if _, ok := byExpr[key]; !ok {
				exprOrder = append(exprOrder, key)
				fragments[key] = ref.Fragment
			}
			byExpr[key] = append(byExpr[key], ref)
			continue
		}
		if _, ok := byName[ref.Name]; !ok {
			nameOrder = append(nameOrder, ref.Name)
		}
		byName[ref.Name] = append(byName[ref.Name], ref)
	}

	definedNames := defs.Names()
	ignoredFolderVars := make(map[string]bool)

	for _, name := range nameOrder {
		if defs.Has(name) {
			continue
		}

		var visible []Reference
		suppressed := false
		for _, ref := range byName[name] {
			if ref.InIgnoredPath {
				suppressed = true
			} else {
				visible = append(visible, ref)
			}
		}
		if len(visible) == 0 {
			if suppressed {
				ignoredFolderVars[name] = true
			}
			continue
		}

		if cfg != nil && cfg.ShouldIgnoreMissing(name) {
			result.IgnoredMissing++
			continue
		}

		suggestion, _ := suggest.Nearest(name, definedNames)
		result.Missing = append(result.Missing, Missing{
			Name:       name,
			Suggestion: suggestion,
			Refs:       visible,
		})
	}
	result.IgnoredFromFolders = len(ignoredFolderVars)

	for _, expr := range exprOrder {
		fragment := fragments[expr]
		if anyNameHasPrefix(definedNames, fragment) {
			continue
		}

		var visible []Reference
		for _, ref := range byExpr[expr] {
			if !ref.InIgnoredPath {
				visible = append(visible, ref)
			}
		}
		if len(visible) == 0 {
			continue
		}

		result.Dynamic = append(result.Dynamic, Dynamic{
			Expr:     expr,
			Fragment: fragment,
			Refs:     visible,
		})
	}

	// A file-defined name counts as used when code references it directly
	// or a dynamic fragment could produce it.
	for _, name := range defs.FileOnly() {
		if _, ok := byName[name]; ok {
			continue
		}
		covered := false
		for _, fragment := range fragments {
			if fragment != "" && strings.HasPrefix(name, fragment) {
				covered = true
				break
			}
		}
		if !covered {
			result.Unused = append(result.Unused, name)
		}
	}
	sort.Strings(result.Unused)

	return result
}

// anyNameHasPrefix reports whether a defined name starts with the dynamic
// key fragment. Fragments are anchored at the convention prefix, so a
// prefix match means the runtime key can resolve to a real definition.
func anyNameHasPrefix(names []string, fragment string) bool {
	if fragment == "" {
		return false
	}
	for _, name := range names {
		if strings.HasPrefix(name, fragment) {
			return true
		}
	}
	return false
}
