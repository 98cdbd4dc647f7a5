package steps

import (
	"context"

	"github.com/systemstart/expose-env/pkg/build"
)

// Step is the interface all build steps implement.
//
// Run executes synchronously against b; a non-nil error marks the step failed.
type Step interface {
	Name() string
	Run(ctx context.Context, b *build.Build) error
}
