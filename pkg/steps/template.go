package steps

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
)

func init() {
	Register(Descriptor{
		Type:         api.StepTypeTemplate,
		DisplayName:  "Render files with build variables",
		IsApplicable: AnyJobType,
		New: func(cfg api.StepConfig) (Step, error) {
			if cfg.Template == nil {
				return nil, fmt.Errorf("template config is required")
			}
			return NewTemplateStep(cfg.Name, cfg.Template), nil
		},
	})
}

type templateStep struct {
	name string
	cfg  *api.TemplateConfig
}

// NewTemplateStep creates a template step.
func NewTemplateStep(name string, cfg *api.TemplateConfig) Step {
	return &templateStep{name: name, cfg: cfg}
}

func (s *templateStep) Name() string { return s.name }

func (s *templateStep) Run(ctx context.Context, b *build.Build) error {
	files, err := matchFiles(os.DirFS(b.WorkDir()), s.cfg.Files)
	if err != nil {
		return fmt.Errorf("matching files: %w", err)
	}

	b.Logger().Info("rendering files", "step", s.name, "count", len(files))

	data := b.TemplateData()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := renderInPlace(filepath.Join(b.WorkDir(), file), data); err != nil {
			return fmt.Errorf("rendering %s: %w", file, err)
		}
		b.Logger().Debug("file rendered", "step", s.name, "file", file)
	}

	return nil
}

// matchFiles returns the regular files matched by an include pattern and by
// no exclude pattern, sorted and without duplicates.
func matchFiles(fsys fs.FS, filter api.FileFilter) ([]string, error) {
	include := filter.Include
	if len(include) == 0 {
		include = []string{api.DefaultFileInclude}
	}

	var result []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("include %q: %w", pattern, err)
		}
		for _, m := range matches {
			skip, err := matchesAny(filter.Exclude, m)
			if err != nil {
				return nil, err
			}
			if !skip {
				result = append(result, m)
			}
		}
	}

	slices.Sort(result)
	return slices.Compact(result), nil
}

func matchesAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("exclude %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// renderInPlace replaces path with its rendered content. The file is left
// untouched when parsing or executing the template fails.
func renderInPlace(path string, data map[string]any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	tmpl, err := template.New(filepath.Base(path)).Funcs(sprig.TxtFuncMap()).Parse(string(content))
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
