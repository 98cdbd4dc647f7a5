package producers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/systemstart/expose-env/pkg/build"
)

func TestYAMLProducer_Flattens(t *testing.T) {
	b := newTestBuild(t, nil)
	writeTestFile(t, b.WorkDir(), "vars.yaml", `
name: api
replicas: 3
debug: false
empty:
database:
  host: db.local
  max-conns: 10
regions:
  - eu-west
  - us.east
`)

	env, err := NewYAMLProducer("vars.yaml", "APP_").BuildEnvironmentFor(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := build.Environment{
		"APP_NAME":               "api",
		"APP_REPLICAS":           "3",
		"APP_DEBUG":              "false",
		"APP_EMPTY":              "",
		"APP_DATABASE_HOST":      "db.local",
		"APP_DATABASE_MAX_CONNS": "10",
		"APP_REGIONS_0":          "eu-west",
		"APP_REGIONS_1":          "us.east",
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("contribution mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLProducer_KeepsScalarText(t *testing.T) {
	b := newTestBuild(t, nil)
	writeTestFile(t, b.WorkDir(), "vars.yaml", `
version: 1.10
release: 2024-01-02
ratio: 1e3
octal: 0o755
tilde: ~
quoted: "null"
`)

	env, err := NewYAMLProducer("vars.yaml", "").BuildEnvironmentFor(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := build.Environment{
		"VERSION": "1.10",
		"RELEASE": "2024-01-02",
		"RATIO":   "1e3",
		"OCTAL":   "0o755",
		"TILDE":   "",
		"QUOTED":  "null",
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("contribution mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLProducer_AliasesAndMerges(t *testing.T) {
	b := newTestBuild(t, nil)
	writeTestFile(t, b.WorkDir(), "vars.yaml", `
defaults: &defaults
  host: db.local
  port: 5432
primary:
  <<: *defaults
  port: 6543
replica: *defaults
`)

	env, err := NewYAMLProducer("vars.yaml", "DB_").BuildEnvironmentFor(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := build.Environment{
		"DB_DEFAULTS_HOST": "db.local",
		"DB_DEFAULTS_PORT": "5432",
		"DB_PRIMARY_HOST":  "db.local",
		"DB_PRIMARY_PORT":  "6543",
		"DB_REPLICA_HOST":  "db.local",
		"DB_REPLICA_PORT":  "5432",
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("contribution mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLProducer_EmptyFile(t *testing.T) {
	b := newTestBuild(t, nil)
	writeTestFile(t, b.WorkDir(), "empty.yaml", "")

	env, err := NewYAMLProducer("empty.yaml", "APP_").BuildEnvironmentFor(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env) != 0 {
		t.Errorf("expected empty contribution, got %v", env)
	}
}

func TestYAMLProducer_Errors(t *testing.T) {
	b := newTestBuild(t, nil)
	writeTestFile(t, b.WorkDir(), "list.yaml", "- a\n- b\n")
	writeTestFile(t, b.WorkDir(), "scalar.yaml", "just text\n")
	writeTestFile(t, b.WorkDir(), "broken.yaml", "{{invalid")

	for _, file := range []string{"missing.yaml", "list.yaml", "scalar.yaml", "broken.yaml"} {
		t.Run(file, func(t *testing.T) {
			_, err := NewYAMLProducer(file, "").BuildEnvironmentFor(context.Background(), b)
			if !errors.Is(err, ErrProducerIO) {
				t.Fatalf("expected ErrProducerIO, got %v", err)
			}
		})
	}
}
