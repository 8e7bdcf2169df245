package parser

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/jenian/envwarn/internal/scanner"
)

// loadGrammar binds the Tree-Sitter grammar for a language. TSX carries
// its own grammar: JSX syntax does not parse under the plain TypeScript
// one.
func loadGrammar(lang scanner.Language) (*sitter.Language, error) {
	var langPtr unsafe.Pointer
	switch lang {
	case scanner.LanguageJavaScript:
		langPtr = tree_sitter_javascript.Language()
	case scanner.LanguageTypeScript:
		langPtr = tree_sitter_typescript.LanguageTypescript()
	case scanner.LanguageTSX:
		langPtr = tree_sitter_typescript.LanguageTSX()
	case scanner.LanguageGo:
		langPtr = tree_sitter_go.Language()
	case scanner.LanguagePython:
		langPtr = tree_sitter_python.Language()
	case scanner.LanguageRust:
		langPtr = tree_sitter_rust.Language()
	case scanner.LanguageJava:
		langPtr = tree_sitter_java.Language()
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	if langPtr == nil {
		return nil, fmt.Errorf("failed to load %s language grammar", lang)
	}
	return sitter.NewLanguage(langPtr), nil
}
