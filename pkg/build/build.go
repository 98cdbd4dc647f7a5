package build

import (
	"log/slog"
	"maps"
	"slices"
)

// Environment is one set of variables contributed to a build.
type Environment map[string]string

// Build is the mutable per-execution state handed to every step.
//
// Contributions are append-only. Lookups scan them newest first, so a later
// contribution shadows an earlier one, and every contribution shadows the
// base environment. A Build is not safe for concurrent use; steps of one
// build run one at a time.
type Build struct {
	name         string
	workDir      string
	base         Environment
	environments []Environment
	logger       *slog.Logger
}

// New creates a build rooted at workDir. The base environment is copied.
func New(name, workDir string, base map[string]string, logger *slog.Logger) *Build {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Build{
		name:    name,
		workDir: workDir,
		base:    make(Environment, len(base)),
		logger:  logger.With("build", name),
	}
	maps.Copy(b.base, base)
	return b
}

func (b *Build) Name() string    { return b.name }
func (b *Build) WorkDir() string { return b.workDir }

// Logger returns the build's log sink.
func (b *Build) Logger() *slog.Logger { return b.logger }

// Error writes a diagnostic line carrying cause to the build log.
func (b *Build) Error(msg string, cause error, args ...any) {
	b.logger.Error(msg, append(args, "error", cause)...)
}

// AddEnvironment appends env to the contribution stack.
// A nil env is stored as an empty contribution.
func (b *Build) AddEnvironment(env Environment) {
	if env == nil {
		env = Environment{}
	}
	b.environments = append(b.environments, env)
}

// Environments returns the contributions in the order they were added.
func (b *Build) Environments() []Environment {
	return slices.Clone(b.environments)
}

// Resolve looks up name in the contributions, newest first, then in the base.
func (b *Build) Resolve(name string) (string, bool) {
	for i := len(b.environments) - 1; i >= 0; i-- {
		if v, ok := b.environments[i][name]; ok {
			return v, true
		}
	}
	v, ok := b.base[name]
	return v, ok
}

// Vars flattens the base and every contribution into a single map.
func (b *Build) Vars() map[string]string {
	vars := make(map[string]string, len(b.base))
	maps.Copy(vars, b.base)
	for _, env := range b.environments {
		maps.Copy(vars, env)
	}
	return vars
}

// Environ returns the flattened variables as sorted KEY=VALUE pairs.
func (b *Build) Environ() []string {
	vars := b.Vars()
	keys := slices.Sorted(maps.Keys(vars))

	result := make([]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, key+"="+vars[key])
	}
	return result
}

// TemplateData is the data passed to templates rendered against this build.
func (b *Build) TemplateData() map[string]any {
	return map[string]any{
		"Env":     b.Vars(),
		"Build":   b.name,
		"WorkDir": b.workDir,
	}
}
