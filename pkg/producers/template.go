package producers

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
)

func init() {
	Register(api.ProducerTypeTemplate, func(cfg api.ProducerConfig) (Producer, error) {
		if cfg.Template == nil {
			return nil, fmt.Errorf("template config is required")
		}
		if err := checkVarNames(cfg.Template.Vars); err != nil {
			return nil, err
		}
		return NewTemplateProducer(cfg.Template.Vars)
	})
}

type templateProducer struct {
	keys      []string
	templates map[string]*template.Template
}

// NewTemplateProducer creates a producer whose values are sprig templates
// rendered against the build's variables at the time it runs. Templates are
// parsed up front so syntax errors surface at construction.
func NewTemplateProducer(vars map[string]string) (Producer, error) {
	p := &templateProducer{
		keys:      slices.Sorted(maps.Keys(vars)),
		templates: make(map[string]*template.Template, len(vars)),
	}
	for _, key := range p.keys {
		tmpl, err := template.New(key).
			Option("missingkey=error").
			Funcs(sprig.TxtFuncMap()).
			Parse(vars[key])
		if err != nil {
			return nil, fmt.Errorf("parsing template for %s: %w", key, err)
		}
		p.templates[key] = tmpl
	}
	return p, nil
}

func (p *templateProducer) Name() string { return api.ProducerTypeTemplate }

func (p *templateProducer) BuildEnvironmentFor(ctx context.Context, b *build.Build) (build.Environment, error) {
	data := b.TemplateData()
	env := make(build.Environment, len(p.keys))

	for _, key := range p.keys {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		var sb strings.Builder
		if err := p.templates[key].Execute(&sb, data); err != nil {
			return nil, ioError("executing template for %s: %w", key, err)
		}
		env[key] = sb.String()
	}
	return env, nil
}
