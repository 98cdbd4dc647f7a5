package steps

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/systemstart/expose-env/pkg/api"
)

// Descriptor makes a step type available to job configuration.
type Descriptor struct {
	Type         string
	DisplayName  string
	IsApplicable func(jobType string) bool
	New          func(cfg api.StepConfig) (Step, error)
}

// AnyJobType is an applicability predicate accepting every job type.
func AnyJobType(string) bool { return true }

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Descriptor)
)

// Register adds a step descriptor. It panics on an empty or duplicate type.
func Register(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if d.Type == "" || d.New == nil {
		panic("steps: descriptor needs a type and a constructor")
	}
	if _, exists := registry[d.Type]; exists {
		panic(fmt.Sprintf("steps: type %q registered twice", d.Type))
	}
	if d.IsApplicable == nil {
		d.IsApplicable = AnyJobType
	}
	registry[d.Type] = d
}

// Lookup returns the descriptor registered for typ.
func Lookup(typ string) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[typ]
	return d, ok
}

// Descriptors returns every registered descriptor sorted by type.
func Descriptors() []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Descriptor, 0, len(registry))
	for _, typ := range slices.Sorted(maps.Keys(registry)) {
		result = append(result, registry[typ])
	}
	return result
}

// NewStep creates a Step implementation from a StepConfig for a job of jobType.
func NewStep(jobType string, cfg api.StepConfig) (Step, error) {
	d, ok := Lookup(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("unknown step type: %s", cfg.Type)
	}
	if !d.IsApplicable(jobType) {
		return nil, fmt.Errorf("step type %s is not applicable to %s jobs", cfg.Type, jobType)
	}
	return d.New(cfg)
}
