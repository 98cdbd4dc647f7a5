package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
)

func init() {
	Register(Descriptor{
		Type:         api.StepTypeGenerate,
		DisplayName:  "Generate a file from build variables",
		IsApplicable: AnyJobType,
		New: func(cfg api.StepConfig) (Step, error) {
			switch {
			case cfg.Generate == nil:
				return nil, fmt.Errorf("generate config is required")
			case cfg.Generate.Output == "":
				return nil, fmt.Errorf("generate.output is required")
			case cfg.Generate.Template == "":
				return nil, fmt.Errorf("generate.template is required")
			}
			return NewGenerateStep(cfg.Name, cfg.Generate), nil
		},
	})
}

type generateStep struct {
	name string
	cfg  *api.GenerateConfig
}

// NewGenerateStep creates a generate step.
func NewGenerateStep(name string, cfg *api.GenerateConfig) Step {
	return &generateStep{name: name, cfg: cfg}
}

func (s *generateStep) Name() string { return s.name }

func (s *generateStep) Run(_ context.Context, b *build.Build) error {
	tmpl, err := template.New(s.name).Funcs(sprig.TxtFuncMap()).Parse(s.cfg.Template)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, b.TemplateData()); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	outPath := filepath.Join(b.WorkDir(), s.cfg.Output)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("creating parent directories: %w", err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	b.Logger().Info("generate step wrote file", "step", s.name, "output", s.cfg.Output)
	return nil
}
