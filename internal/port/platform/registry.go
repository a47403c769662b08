package platform

import (
	"fmt"
	"sync"

	"github.com/briefdeck/briefdeck/internal/domain"
	"github.com/briefdeck/briefdeck/internal/domain/project"
)

var (
	mu       sync.RWMutex
	adapters = make(map[project.Platform]Adapter)
)

// Register makes an adapter available for its platform.
// It is typically called from an init() function in the adapter package.
func Register(a Adapter) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := adapters[a.Platform()]; exists {
		panic(fmt.Sprintf("platform: duplicate adapter registration for %q", a.Platform()))
	}
	adapters[a.Platform()] = a
}

// For returns the adapter registered for the given platform.
func For(p project.Platform) (Adapter, error) {
	mu.RLock()
	a, ok := adapters[p]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, p)
	}
	return a, nil
}

// Available returns the platforms that have a registered adapter.
func Available() []project.Platform {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]project.Platform, 0, len(adapters))
	for p := range adapters {
		names = append(names, p)
	}
	return names
}
