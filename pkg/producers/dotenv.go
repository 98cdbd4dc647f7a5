package producers

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
)

func init() {
	Register(api.ProducerTypeDotenv, func(cfg api.ProducerConfig) (Producer, error) {
		if cfg.Dotenv == nil || len(cfg.Dotenv.Files) == 0 {
			return nil, fmt.Errorf("dotenv.files is required")
		}
		return NewDotenvProducer(cfg.Dotenv.Files, cfg.Dotenv.Optional), nil
	})
}

type dotenvProducer struct {
	patterns []string
	optional bool
}

// NewDotenvProducer creates a producer reading the .env files matched by patterns.
// Relative patterns are resolved against the build's working directory. Files
// are read in pattern order, sorted within a pattern; later files override
// earlier ones.
func NewDotenvProducer(patterns []string, optional bool) Producer {
	return &dotenvProducer{patterns: slices.Clone(patterns), optional: optional}
}

func (p *dotenvProducer) Name() string {
	return fmt.Sprintf("%s(%s)", api.ProducerTypeDotenv, strings.Join(p.patterns, ", "))
}

func (p *dotenvProducer) BuildEnvironmentFor(ctx context.Context, b *build.Build) (build.Environment, error) {
	files, err := p.matchFiles(b.WorkDir())
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		if !p.optional {
			return nil, ioError("no files match %s", strings.Join(p.patterns, ", "))
		}
		b.Logger().Debug("no dotenv files matched", "patterns", p.patterns)
	}

	env := make(build.Environment)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		vars, err := godotenv.Read(file)
		if err != nil {
			return nil, ioError("reading %s: %w", file, err)
		}
		b.Logger().Debug("dotenv file loaded", "file", file, "count", len(vars))
		maps.Copy(env, vars)
	}
	return env, nil
}

func (p *dotenvProducer) matchFiles(workDir string) ([]string, error) {
	var files []string
	for _, pattern := range p.patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(workDir, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, ioError("glob %q: %w", pattern, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if !slices.Contains(files, m) {
				files = append(files, m)
			}
		}
	}
	return files, nil
}
