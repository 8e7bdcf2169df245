package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jenian/envwarn/internal/analyzer"
	"github.com/jenian/envwarn/internal/languages"
	"github.com/jenian/envwarn/internal/scanner"
)

// Parser handles Tree-Sitter parsing of source files
type Parser struct {
	grammars map[scanner.Language]*sitter.Language
	mu       sync.RWMutex
}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{
		grammars: make(map[scanner.Language]*sitter.Language),
	}
}

// grammar returns the cached grammar for lang, loading it on first use.
func (p *Parser) grammar(lang scanner.Language) (*sitter.Language, error) {
	p.mu.RLock()
	if g, ok := p.grammars[lang]; ok {
		p.mu.RUnlock()
		return g, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if g, ok := p.grammars[lang]; ok {
		return g, nil
	}

	g, err := loadGrammar(lang)
	if err != nil {
		return nil, err
	}
	p.grammars[lang] = g
	return g, nil
}

// ParseFile parses a single file and extracts its environment variable
// references, in source order. A fresh Tree-Sitter parser is created per
// file: the underlying parser is not safe for concurrent use.
func (p *Parser) ParseFile(file scanner.FileInfo, scanRoot, prefix string) ([]analyzer.Reference, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file.Path, err)
	}

	grammar, err := p.grammar(file.Language)
	if err != nil {
		return nil, err
	}
	spec := languages.Get(string(file.Language))
	if spec == nil {
		return nil, fmt.Errorf("unsupported language: %s", file.Language)
	}

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	if err := tsParser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("failed to set grammar for %s: %w", file.Language, err)
	}

	tree := tsParser.Parse(content, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()
	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, nil
	}

	query, queryErr := sitter.NewQuery(grammar, strings.TrimSpace(spec.Query))
	if queryErr != nil {
		return nil, fmt.Errorf("query construction failed for %s: %w", file.Language, queryErr)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, rootNode, content)
	captureNames := query.CaptureNames()

	relPath := relativePath(scanRoot, file.Path)

	var refs []analyzer.Reference
	seen := make(map[string]bool)

	for match := matches.Next(); match != nil; match = matches.Next() {
		captures := make(map[string]string, len(match.Captures))
		var keyNode *sitter.Node
		for i := range match.Captures {
			capture := &match.Captures[i]
			if int(capture.Index) >= len(captureNames) {
				continue
			}
			name := captureNames[capture.Index]
			captures[name] = string(content[capture.Node.StartByte():capture.Node.EndByte()])
			if name == "key" || name == "key_expr" {
				keyNode = &capture.Node
			}
		}
		if keyNode == nil {
			continue
		}

		ref, ok := spec.Extract(captures, prefix)
		if !ok {
			continue
		}

		line := int(keyNode.StartPosition().Row) + 1

		// The same key on the same line counts once, however many query
		// arms matched it.
		dedupKey := ref.Name
		if ref.Dynamic {
			dedupKey = ref.Expr
		}
		dedupKey = fmt.Sprintf("%s:%d", dedupKey, line)
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true

		refs = append(refs, analyzer.Reference{
			Name:          ref.Name,
			File:          relPath,
			Line:          line,
			Snippet:       sourceLine(content, int(keyNode.StartByte())),
			InIgnoredPath: file.InIgnoredPath,
			Dynamic:       ref.Dynamic,
			Fragment:      ref.Fragment,
			Expr:          ref.Expr,
		})
	}

	return refs, nil
}

// sourceLine returns the trimmed source line containing the byte offset.
func sourceLine(content []byte, offset int) string {
	if offset > len(content) {
		offset = len(content)
	}
	start := bytes.LastIndexByte(content[:offset], '\n') + 1
	end := bytes.IndexByte(content[offset:], '\n')
	if end < 0 {
		end = len(content)
	} else {
		end += offset
	}
	return strings.TrimSpace(string(content[start:end]))
}

// relativePath converts path to be relative to scanRoot for display.
// Forward slashes keep reports identical across platforms.
func relativePath(scanRoot, path string) string {
	if scanRoot == "" {
		return path
	}
	absRoot, err1 := filepath.Abs(scanRoot)
	absPath, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "" {
		return path
	}
	return filepath.ToSlash(rel)
}
