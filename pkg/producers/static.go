package producers

import (
	"context"
	"fmt"
	"maps"

	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
)

func init() {
	Register(api.ProducerTypeStatic, func(cfg api.ProducerConfig) (Producer, error) {
		if cfg.Static == nil {
			return nil, fmt.Errorf("static config is required")
		}
		if err := checkVarNames(cfg.Static.Vars); err != nil {
			return nil, err
		}
		return NewStaticProducer(cfg.Static.Vars), nil
	})
}

type staticProducer struct {
	vars map[string]string
}

// NewStaticProducer creates a producer contributing a copy of vars on every call.
func NewStaticProducer(vars map[string]string) Producer {
	return &staticProducer{vars: maps.Clone(vars)}
}

func (p *staticProducer) Name() string { return api.ProducerTypeStatic }

func (p *staticProducer) BuildEnvironmentFor(_ context.Context, _ *build.Build) (build.Environment, error) {
	env := make(build.Environment, len(p.vars))
	maps.Copy(env, p.vars)
	return env, nil
}
