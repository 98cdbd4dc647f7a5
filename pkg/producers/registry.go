package producers

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/systemstart/expose-env/pkg/api"
)

// Factory creates a Producer from its configuration.
type Factory func(cfg api.ProducerConfig) (Producer, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a producer type available to New. It panics on duplicates.
func Register(typ string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[typ]; exists {
		panic(fmt.Sprintf("producers: type %q registered twice", typ))
	}
	registry[typ] = factory
}

// Types returns the registered producer types, sorted.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

// New creates a Producer from a ProducerConfig.
func New(cfg api.ProducerConfig) (Producer, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown producer type: %s", cfg.Type)
	}
	return factory(cfg)
}

func checkVarNames(vars map[string]string) error {
	for key := range vars {
		if key == "" {
			return fmt.Errorf("empty variable name")
		}
	}
	return nil
}

// NewAll creates producers in declaration order.
func NewAll(cfgs []api.ProducerConfig) ([]Producer, error) {
	result := make([]Producer, 0, len(cfgs))
	for i, cfg := range cfgs {
		p, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("producer %d: %w", i, err)
		}
		result = append(result, p)
	}
	return result, nil
}
