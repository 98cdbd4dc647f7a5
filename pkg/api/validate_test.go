package api

import (
	"strings"
	"testing"
)

func TestValidate_ValidJob(t *testing.T) {
	j := &Job{
		Env: map[string]string{"HOST": "local"},
		Steps: []StepConfig{
			{
				Name: "expose",
				Type: StepTypeExposeEnv,
				ExposeEnv: &ExposeEnvConfig{
					Producers: []ProducerConfig{
						{Type: ProducerTypeStatic, Static: &StaticProducerConfig{Vars: map[string]string{"X": "1"}}},
					},
				},
			},
			{
				Name:     "render",
				Type:     StepTypeTemplate,
				Template: &TemplateConfig{Files: FileFilter{Include: []string{"**/*.yaml"}}},
			},
			{
				Name: "show",
				Type: StepTypeRun,
				Run:  &RunConfig{Command: "env"},
			},
		},
	}

	if err := j.Validate(); err != nil {
		t.Fatalf("expected valid job, got error: %v", err)
	}
}

func TestValidate_ExposeEnvWithoutProducers(t *testing.T) {
	j := &Job{
		Steps: []StepConfig{
			{Name: "a", Type: StepTypeExposeEnv},
			{Name: "b", Type: StepTypeExposeEnv, ExposeEnv: &ExposeEnvConfig{}},
		},
	}
	if err := j.Validate(); err != nil {
		t.Fatalf("expected empty producer lists to be valid, got: %v", err)
	}
}

func TestValidate_LeavesTypesToRegistries(t *testing.T) {
	j := &Job{
		Steps: []StepConfig{
			{Name: "custom", Type: "notify"},
			{
				Name:      "expose",
				Type:      StepTypeExposeEnv,
				ExposeEnv: &ExposeEnvConfig{Producers: []ProducerConfig{{Type: "vault"}}},
			},
		},
	}
	if err := j.Validate(); err != nil {
		t.Fatalf("expected unregistered types to pass job validation, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		job  *Job
		want string
	}{
		{
			name: "empty job",
			job:  &Job{},
			want: "no steps",
		},
		{
			name: "empty env name",
			job: &Job{
				Env:   map[string]string{"": "x"},
				Steps: []StepConfig{{Name: "a", Type: StepTypeExposeEnv}},
			},
			want: "empty variable name",
		},
		{
			name: "missing step name",
			job:  &Job{Steps: []StepConfig{{Type: StepTypeExposeEnv}}},
			want: "name is required",
		},
		{
			name: "duplicate step name",
			job: &Job{Steps: []StepConfig{
				{Name: "a", Type: StepTypeExposeEnv},
				{Name: "a", Type: StepTypeExposeEnv},
			}},
			want: "duplicate step name",
		},
		{
			name: "missing step type",
			job:  &Job{Steps: []StepConfig{{Name: "a"}}},
			want: `step "a": type is required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}
