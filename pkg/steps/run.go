package steps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
)

func init() {
	Register(Descriptor{
		Type:         api.StepTypeRun,
		DisplayName:  "Run a shell command",
		IsApplicable: AnyJobType,
		New: func(cfg api.StepConfig) (Step, error) {
			if cfg.Run == nil || cfg.Run.Command == "" {
				return nil, fmt.Errorf("run.command is required")
			}
			return NewRunStep(cfg.Name, cfg.Run), nil
		},
	})
}

type runStep struct {
	name string
	cfg  *api.RunConfig
}

// NewRunStep creates a step running a command with the build's variables.
func NewRunStep(name string, cfg *api.RunConfig) Step {
	return &runStep{name: name, cfg: cfg}
}

func (s *runStep) Name() string { return s.name }

func (s *runStep) Run(ctx context.Context, b *build.Build) error {
	if _, err := exec.LookPath("sh"); err != nil {
		return fmt.Errorf("sh binary not found in PATH: %w", err)
	}

	b.Logger().Info("running command", "step", s.name, "command", s.cfg.Command)

	cmd := exec.CommandContext(ctx, "sh", "-c", s.cfg.Command)
	cmd.Dir = b.WorkDir()
	cmd.Env = b.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command failed: %w\nstderr: %s", err, stderr.String())
	}

	for line := range strings.Lines(stdout.String()) {
		b.Logger().Info("output", "step", s.name, "line", strings.TrimRight(line, "\n"))
	}
	return nil
}
