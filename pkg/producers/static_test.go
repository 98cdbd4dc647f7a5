package producers

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/systemstart/expose-env/pkg/build"
)

func TestStaticProducer_FreshContribution(t *testing.T) {
	vars := map[string]string{"X": "1", "Y": "2"}
	p := NewStaticProducer(vars)
	vars["X"] = "mutated"

	b := newTestBuild(t, nil)
	first, err := p.BuildEnvironmentFor(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(build.Environment{"X": "1", "Y": "2"}, first); diff != "" {
		t.Errorf("contribution mismatch (-want +got):\n%s", diff)
	}

	first["X"] = "changed by consumer"
	second, err := p.BuildEnvironmentFor(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second["X"] != "1" {
		t.Errorf("expected a fresh contribution per call, got X=%q", second["X"])
	}
}

func TestStaticProducer_Empty(t *testing.T) {
	env, err := NewStaticProducer(nil).BuildEnvironmentFor(context.Background(), newTestBuild(t, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env == nil || len(env) != 0 {
		t.Errorf("expected empty non-nil environment, got %v", env)
	}
}
