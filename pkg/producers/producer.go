package producers

import (
	"context"
	"errors"
	"fmt"

	"github.com/systemstart/expose-env/pkg/build"
)

var (
	ErrProducerIO  = errors.New("producer i/o failure")
	ErrInterrupted = errors.New("producer interrupted")
)

// Producer computes one environment contribution for a build.
//
// Implementations should return errors wrapping ErrProducerIO or
// ErrInterrupted; Classify maps anything else onto one of the two.
type Producer interface {
	Name() string
	BuildEnvironmentFor(ctx context.Context, b *build.Build) (build.Environment, error)
}

// Classify maps err onto ErrProducerIO or ErrInterrupted.
// Cancellation of ctx or a context error in the chain counts as an interruption.
func Classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInterrupted) || errors.Is(err, ErrProducerIO) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return fmt.Errorf("%w: %w", ErrProducerIO, err)
}

func ioError(format string, args ...any) error {
	return fmt.Errorf("%w: %w", ErrProducerIO, fmt.Errorf(format, args...))
}
