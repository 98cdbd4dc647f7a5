package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/systemstart/expose-env/pkg/api"
	"github.com/systemstart/expose-env/pkg/build"
	"github.com/systemstart/expose-env/pkg/processing"
	"github.com/systemstart/expose-env/pkg/steps"
)

const (
	formatDotenv = "dotenv"
	formatJSON   = "json"
	formatNone   = "none"
)

// Globals are the flags shared by every command.
type Globals struct {
	LoggingType string `name:"logging-type" default:"tint" enum:"json,text,tint" help:"Logging type: json, text or tint."`
	LogLevel    string `name:"log-level" default:"info" help:"Logging level: debug, info, warn, error."`
	ContextFile string `name:"context-file" type:"path" placeholder:"PATH" help:"Global variables (YAML mapping or .env) layered under each job's env."`
}

func (g *Globals) options() (processing.Options, error) {
	file := g.ContextFile
	if file == "" {
		if path, ok := processing.DefaultContextFile(); ok {
			file = path
		}
	}
	if file == "" {
		return processing.Options{}, nil
	}

	vars, err := processing.LoadContextFile(file)
	if err != nil {
		return processing.Options{}, fmt.Errorf("loading context file %s: %w", file, err)
	}
	slog.Info("using context file", "filename", file, "count", len(vars))
	return processing.Options{GlobalEnv: vars}, nil
}

// RunCmd runs one job and prints the variables its steps exposed.
type RunCmd struct {
	Job    string `arg:"" type:"existingfile" help:"Job file to run."`
	Format string `short:"f" default:"dotenv" enum:"dotenv,json,none" help:"Output format of the exposed variables: dotenv, json or none."`
}

func (c *RunCmd) Run(ctx context.Context, g *Globals) error {
	opts, err := g.options()
	if err != nil {
		return err
	}

	b, err := processing.RunSingle(ctx, c.Job, opts)
	if err != nil {
		return err
	}

	return writeExposed(os.Stdout, b, c.Format)
}

// AllCmd runs every job file found under a directory.
type AllCmd struct {
	Dir      string `arg:"" type:"existingdir" help:"Directory to search for .expose-env.yaml files." default:"."`
	MaxDepth int    `name:"max-depth" default:"-1" help:"Max directory recursion depth (-1 = unlimited, 0 = root only)."`
}

func (c *AllCmd) Run(ctx context.Context, g *Globals) error {
	opts, err := g.options()
	if err != nil {
		return err
	}
	return processing.RunAll(ctx, c.Dir, c.MaxDepth, opts)
}

// ValidateCmd loads job files and instantiates their steps without running them.
type ValidateCmd struct {
	Jobs []string `arg:"" type:"existingfile" help:"Job files to validate."`
}

func (c *ValidateCmd) Run() error {
	for _, file := range c.Jobs {
		job, err := api.LoadJob(file)
		if err != nil {
			return err
		}
		if _, err := processing.NewSteps(job); err != nil {
			return fmt.Errorf("job %s: %w", file, err)
		}
		fmt.Printf("job %q is valid\n", job.Name)
	}
	return nil
}

// StepsCmd lists the registered step types.
type StepsCmd struct{}

func (c *StepsCmd) Run() error {
	return writeDescriptors(os.Stdout, steps.Descriptors())
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(version)
	return nil
}

func writeDescriptors(w io.Writer, ds []steps.Descriptor) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tDESCRIPTION")
	for _, d := range ds {
		fmt.Fprintf(tw, "%s\t%s\n", d.Type, d.DisplayName)
	}
	return tw.Flush()
}

// exposed flattens the build's contributions; later ones win.
func exposed(b *build.Build) map[string]string {
	vars := make(map[string]string)
	for _, env := range b.Environments() {
		maps.Copy(vars, env)
	}
	return vars
}

func writeExposed(w io.Writer, b *build.Build, format string) error {
	vars := exposed(b)

	switch format {
	case formatNone:
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vars)
	case formatDotenv:
		out, err := godotenv.Marshal(vars)
		if err != nil {
			return fmt.Errorf("encoding variables: %w", err)
		}
		if out == "" {
			return nil
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
