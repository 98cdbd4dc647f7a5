package producers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/joho/godotenv"
	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
)

const (
	shell     = "sh"
	waitDelay = time.Second
)

func init() {
	Register(api.ProducerTypeCommand, func(cfg api.ProducerConfig) (Producer, error) {
		if cfg.Command == nil || cfg.Command.Run == "" {
			return nil, fmt.Errorf("command.run is required")
		}
		return NewCommandProducer(cfg.Command.Run), nil
	})
}

type commandProducer struct {
	run string
}

// NewCommandProducer creates a producer that runs a shell command in the
// build's working directory and parses its stdout as dotenv lines.
func NewCommandProducer(run string) Producer {
	return &commandProducer{run: run}
}

func (p *commandProducer) Name() string {
	return fmt.Sprintf("%s(%s)", api.ProducerTypeCommand, p.run)
}

func (p *commandProducer) BuildEnvironmentFor(ctx context.Context, b *build.Build) (build.Environment, error) {
	if _, err := exec.LookPath(shell); err != nil {
		return nil, ioError("%s not found in PATH: %w", shell, err)
	}

	cmd := exec.CommandContext(ctx, shell, "-c", p.run)
	cmd.Dir = b.WorkDir()
	cmd.Env = b.Environ()
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	b.Logger().Debug("running environment command", "command", p.run)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
		}
		return nil, ioError("command failed: %w\nstderr: %s", err, stderr.String())
	}

	vars, err := godotenv.Unmarshal(stdout.String())
	if err != nil {
		return nil, ioError("parsing command output: %w", err)
	}
	return vars, nil
}
