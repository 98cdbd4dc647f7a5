package steps

import (
	"context"
	"fmt"

	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
	"github.com/systemstart/expose-env/pkg/producers"
)

func init() {
	Register(Descriptor{
		Type:         api.StepTypeExposeEnv,
		DisplayName:  "Expose environment variables",
		IsApplicable: AnyJobType,
		New: func(cfg api.StepConfig) (Step, error) {
			var cfgs []api.ProducerConfig
			if cfg.ExposeEnv != nil {
				cfgs = cfg.ExposeEnv.Producers
			}
			ps, err := producers.NewAll(cfgs)
			if err != nil {
				return nil, err
			}
			return NewExposeEnvStep(cfg.Name, ps), nil
		},
	})
}

// ProducerError reports the producer that stopped an expose-env step.
// Err wraps producers.ErrProducerIO or producers.ErrInterrupted.
type ProducerError struct {
	Step     string
	Index    int
	Producer string
	Err      error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("step %q: producer %d (%s): %v", e.Step, e.Index, e.Producer, e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }

type exposeEnvStep struct {
	name      string
	producers []producers.Producer
}

// NewExposeEnvStep creates a step appending the contribution of each producer,
// in order, to the build's environments. Variables it exposes are visible to
// the steps that run after it. An empty producer list makes the step a no-op.
func NewExposeEnvStep(name string, ps []producers.Producer) Step {
	return &exposeEnvStep{name: name, producers: ps}
}

func (s *exposeEnvStep) Name() string { return s.name }

func (s *exposeEnvStep) Run(ctx context.Context, b *build.Build) error {
	for i, p := range s.producers {
		env, err := produce(ctx, b, p)
		if err != nil {
			err = producers.Classify(ctx, err)
			b.Error("failed to prepare environment", err, "step", s.name, "producer", p.Name(), "index", i)
			return &ProducerError{Step: s.name, Index: i, Producer: p.Name(), Err: err}
		}
		b.AddEnvironment(env)
		b.Logger().Debug("environment contributed", "step", s.name, "producer", p.Name(), "count", len(env))
	}

	b.Logger().Info("environment exposed", "step", s.name, "producers", len(s.producers))
	return nil
}

// produce does not start a producer once the build has been cancelled.
func produce(ctx context.Context, b *build.Build, p producers.Producer) (build.Environment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.BuildEnvironmentFor(ctx, b)
}
