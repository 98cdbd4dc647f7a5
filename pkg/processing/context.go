package processing

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// defaultContextFile is looked up in the XDG config directories.
const defaultContextFile = "expose-env/context.yaml"

// LoadContextFile reads global variables from a YAML mapping or a .env file.
func LoadContextFile(filename string) (map[string]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".env") {
		vars, err := godotenv.Read(filename)
		if err != nil {
			return nil, fmt.Errorf("reading context file: %w", err)
		}
		return vars, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing context file: %w", err)
	}

	vars := make(map[string]string)
	if len(doc.Content) == 0 {
		return vars, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing context file: top level is not a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		if value.Kind == yaml.AliasNode && value.Alias != nil {
			value = value.Alias
		}
		switch {
		case value.Kind != yaml.ScalarNode:
			return nil, fmt.Errorf("parsing context file: %q is not a scalar", key)
		case value.ShortTag() == "!!null":
			vars[key] = ""
		default:
			// Value is the text as written, so 1.10 is not read as a float.
			vars[key] = value.Value
		}
	}

	return vars, nil
}

// DefaultContextFile returns the user's context file if one exists.
func DefaultContextFile() (string, bool) {
	path, err := xdg.SearchConfigFile(defaultContextFile)
	if err != nil {
		return "", false
	}
	return path, true
}

// MergeEnv merges layers left to right; later layers override earlier ones.
func MergeEnv(layers ...map[string]string) map[string]string {
	size := 0
	for _, l := range layers {
		size += len(l)
	}
	merged := make(map[string]string, size)
	for _, l := range layers {
		maps.Copy(merged, l)
	}
	return merged
}

// EnvironMap converts KEY=VALUE pairs into a map. Entries without "=" are skipped.
func EnvironMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	return vars
}
