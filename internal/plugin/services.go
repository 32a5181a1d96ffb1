package plugin

import (
	"fmt"
	"sync"

	"github.com/jmrbcu/fstool/pkg/logger"
)

// ServiceFactory lazily creates a service instance. A factory registered
// as a service is invoked on first lookup and its result replaces the
// stored factory, so it runs at most once.
type ServiceFactory func() interface{}

// serviceRegistry holds the process-wide services published by plugins,
// keyed by unique id.
type serviceRegistry struct {
	mu       sync.RWMutex
	services map[string]interface{}
}

func newServiceRegistry() *serviceRegistry {
	return &serviceRegistry{services: make(map[string]interface{})}
}

// Register stores a service instance or a ServiceFactory under id.
// Returns ErrDuplicateService if the id is already taken.
func (r *serviceRegistry) Register(id string, service interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateService, id)
	}

	logger.Debug("[plugin] registering service: %s", id)
	r.services[id] = service
	return nil
}

// Unregister removes the service with the given id.
// Returns ErrServiceNotFound if the id was never registered.
func (r *serviceRegistry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[id]; !exists {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}

	logger.Debug("[plugin] unregistering service: %s", id)
	delete(r.services, id)
	return nil
}

// Get looks up a service by id. If the stored value is a ServiceFactory
// it is invoked exactly once and the produced instance replaces it before
// being returned. Absence yields (nil, false).
func (r *serviceRegistry) Get(id string) (interface{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	service, ok := r.services[id]
	if !ok {
		return nil, false
	}
	if factory, isFactory := service.(ServiceFactory); isFactory {
		service = factory()
		r.services[id] = service
	}
	return service, true
}
