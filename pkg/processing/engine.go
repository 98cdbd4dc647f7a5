package processing

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
	"github.com/systemstart/expose-env/pkg/steps"
)

// Options configures how jobs are run.
type Options struct {
	// GlobalEnv is layered between the inherited process environment and the job's env.
	GlobalEnv map[string]string
	Logger    *slog.Logger
}

// RunJob executes a job's steps sequentially against a fresh build and stops
// at the first failed step. All steps are created through the registry
// before the first one runs. The build is returned in both cases so callers
// can inspect what was exposed before a failure.
func RunJob(ctx context.Context, job *api.Job, opts Options) (*build.Build, error) {
	b := build.New(job.Name, job.Dir, baseEnvironment(job, opts.GlobalEnv), opts.Logger)

	pipeline, err := NewSteps(job)
	if err != nil {
		return b, err
	}

	for _, step := range pipeline {
		b.Logger().Info("running step", "job", job.FilePath, "step", step.Name())
		if err := step.Run(ctx, b); err != nil {
			return b, fmt.Errorf("step %q failed: %w", step.Name(), err)
		}
	}

	return b, nil
}

// NewSteps creates the job's steps in declaration order.
func NewSteps(job *api.Job) ([]steps.Step, error) {
	result := make([]steps.Step, 0, len(job.Steps))
	for _, stepCfg := range job.Steps {
		step, err := steps.NewStep(job.JobType(), stepCfg)
		if err != nil {
			return nil, fmt.Errorf("creating step %q: %w", stepCfg.Name, err)
		}
		result = append(result, step)
	}
	return result, nil
}

func baseEnvironment(job *api.Job, globalEnv map[string]string) map[string]string {
	var inherited map[string]string
	if job.InheritsEnv() {
		inherited = EnvironMap(os.Environ())
	}
	return MergeEnv(inherited, globalEnv, job.Env)
}

// RunSingle loads one job file and runs it.
func RunSingle(ctx context.Context, jobFile string, opts Options) (*build.Build, error) {
	job, err := api.LoadJob(jobFile)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}

	logger(opts).Info("executing single job", "path", job.FilePath)
	b, err := RunJob(ctx, job, opts)
	if err != nil {
		return b, fmt.Errorf("job failed: %w", err)
	}
	return b, nil
}

// RunAll discovers job files under root and runs each with its own build.
func RunAll(ctx context.Context, root string, maxDepth int, opts Options) error {
	jobs, err := DiscoverJobs(root, maxDepth)
	if err != nil {
		return fmt.Errorf("discovering jobs: %w", err)
	}

	log := logger(opts)
	if len(jobs) == 0 {
		log.Warn("no job files found", "dir", root, "filename", api.JobFilename)
		return nil
	}

	log.Info("discovered jobs", "count", len(jobs))

	var failed []string
	for _, job := range jobs {
		log.Info("executing job", "path", job.FilePath)
		if _, jErr := RunJob(ctx, job, opts); jErr != nil {
			log.Error("job failed", "path", job.FilePath, "error", jErr)
			failed = append(failed, job.FilePath)
		} else {
			log.Info("job succeeded", "path", job.FilePath)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d job(s) failed: %v", len(failed), failed)
	}

	return nil
}

func logger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}
