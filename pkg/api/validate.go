package api

import (
	"fmt"
)

// Validate checks the job configuration for errors.
//
// Step and producer types, and the configuration blocks they need, are checked
// by the step and producer registries when steps are created.
func (j *Job) Validate() error {
	if len(j.Steps) == 0 {
		return fmt.Errorf("job has no steps")
	}

	for key := range j.Env {
		if key == "" {
			return fmt.Errorf("env: empty variable name")
		}
	}

	names := make(map[string]int)
	for i, step := range j.Steps {
		if step.Name == "" {
			return fmt.Errorf("step %d: name is required", i)
		}
		if prev, exists := names[step.Name]; exists {
			return fmt.Errorf("step %d: duplicate step name %q (first defined at step %d)", i, step.Name, prev)
		}
		names[step.Name] = i

		if step.Type == "" {
			return fmt.Errorf("step %q: type is required", step.Name)
		}
	}

	return nil
}
