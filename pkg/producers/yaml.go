package producers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(api.ProducerTypeYAML, func(cfg api.ProducerConfig) (Producer, error) {
		if cfg.YAML == nil || cfg.YAML.File == "" {
			return nil, fmt.Errorf("yaml.file is required")
		}
		return NewYAMLProducer(cfg.YAML.File, cfg.YAML.Prefix), nil
	})
}

const (
	nullTag  = "!!null"
	mergeTag = "!!merge"
)

var keyReplacer = strings.NewReplacer("-", "_", ".", "_", " ", "_")

type yamlProducer struct {
	file   string
	prefix string
}

// NewYAMLProducer creates a producer flattening a YAML mapping into variables.
// Nested keys are joined with "_", upper-cased and prefixed with prefix;
// sequence items are addressed by index.
func NewYAMLProducer(file, prefix string) Producer {
	return &yamlProducer{file: file, prefix: prefix}
}

func (p *yamlProducer) Name() string {
	return fmt.Sprintf("%s(%s)", api.ProducerTypeYAML, p.file)
}

func (p *yamlProducer) BuildEnvironmentFor(_ context.Context, b *build.Build) (build.Environment, error) {
	path := p.file
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.WorkDir(), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("reading %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ioError("parsing %s: %w", path, err)
	}

	env := make(build.Environment)
	if len(doc.Content) == 0 {
		return env, nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, ioError("parsing %s: top level is not a mapping", path)
	}
	flattenMapping(env, "", root)

	if p.prefix == "" {
		return env, nil
	}
	prefixed := make(build.Environment, len(env))
	for key, value := range env {
		prefixed[p.prefix+key] = value
	}
	return prefixed, nil
}

// flattenMapping adds the leaves of node under key. Explicit keys win over
// keys pulled in with "<<" merges.
func flattenMapping(env build.Environment, key string, node *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].ShortTag() == mergeTag {
			flattenMerge(env, key, node.Content[i+1])
		}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.ShortTag() == mergeTag {
			continue
		}
		flatten(env, joinKey(key, envKey(k.Value)), v)
	}
}

func flattenMerge(env build.Environment, key string, node *yaml.Node) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		flattenMapping(env, key, node)
	case yaml.SequenceNode:
		// Earlier maps in a merge list take precedence.
		for i := len(node.Content) - 1; i >= 0; i-- {
			flattenMerge(env, key, node.Content[i])
		}
	}
}

func flatten(env build.Environment, key string, node *yaml.Node) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		flattenMapping(env, key, node)
	case yaml.SequenceNode:
		for i, item := range node.Content {
			flatten(env, joinKey(key, strconv.Itoa(i)), item)
		}
	default:
		env[key] = scalarValue(node)
	}
}

// scalarValue keeps the scalar as written, so 1.10 stays "1.10".
func scalarValue(node *yaml.Node) string {
	if node.ShortTag() == nullTag {
		return ""
	}
	return node.Value
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func joinKey(key, part string) string {
	if key == "" {
		return part
	}
	return key + "_" + part
}

func envKey(s string) string {
	return strings.ToUpper(keyReplacer.Replace(s))
}
