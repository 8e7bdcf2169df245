package envfile

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SourceType identifies the format of a definitions file.
type SourceType int

const (
	SourceDotenv SourceType = iota
	SourceShell
	SourceCompose
)

// detectSourceType guesses the file format from its name.
func detectSourceType(path string) SourceType {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == ".envrc" || strings.HasSuffix(base, ".sh"):
		return SourceShell
	case strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml"):
		return SourceCompose
	default:
		return SourceDotenv
	}
}

// parseFile reads a definitions file, dispatching on its detected format.
func parseFile(path string) (map[string]string, error) {
	switch detectSourceType(path) {
	case SourceShell:
		return parseShellExports(path)
	case SourceCompose:
		return parseComposeEnvironment(path)
	default:
		return godotenv.Read(path)
	}
}

var exportRe = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// parseShellExports extracts KEY=VALUE assignments from a shell script or
// .envrc file. Only plain assignments are understood; command substitution
// and other shell constructs are left as written.
func parseShellExports(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]string)
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		m := exportRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		vars[m[1]] = trimQuoted(strings.TrimSpace(m[2]))
	}
	return vars, nil
}

func trimQuoted(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	// Strip a trailing comment from unquoted values.
	if i := strings.Index(value, " #"); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}

// parseComposeEnvironment collects the "environment" entries of every
// service in a docker-compose file. Both the mapping and the list form
// are accepted. The YAML is walked node by node so non-string scalars
// keep their literal spelling and document order is preserved.
func parseComposeEnvironment(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return map[string]string{}, nil
	}

	vars := make(map[string]string)
	services := mappingValue(doc.Content[0], "services")
	if services == nil || services.Kind != yaml.MappingNode {
		return vars, nil
	}
	for i := 0; i+1 < len(services.Content); i += 2 {
		service := services.Content[i+1]
		env := mappingValue(service, "environment")
		if env == nil {
			continue
		}
		collectEnvironmentNode(env, vars)
	}
	return vars, nil
}

// mappingValue returns the value node for key in a YAML mapping, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func collectEnvironmentNode(env *yaml.Node, vars map[string]string) {
	switch env.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(env.Content); i += 2 {
			vars[env.Content[i].Value] = env.Content[i+1].Value
		}
	case yaml.SequenceNode:
		for _, entry := range env.Content {
			name, value, _ := strings.Cut(entry.Value, "=")
			if name != "" {
				vars[name] = value
			}
		}
	}
}
