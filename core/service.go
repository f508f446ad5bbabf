// Package core wires the individual services together and manages their
// shared lifecycle.
package core

import (
	"context"
)

// Interface defines a common interface for all services
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

// Registry manages the lifecycle of all registered services
type Registry struct {
	services []Interface
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		services: make([]Interface, 0),
	}
}

// Register adds a service to the registry
func (r *Registry) Register(service Interface) {
	r.services = append(r.services, service)
}

// StartAll starts all registered services in registration order. On the
// first failure the already started services are stopped again.
func (r *Registry) StartAll(ctx context.Context) error {
	for i, service := range r.services {
		if err := service.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				r.services[j].Stop()
			}
			return err
		}
	}
	return nil
}

// StopAll stops all services in reverse registration order
func (r *Registry) StopAll() {
	for i := len(r.services) - 1; i >= 0; i-- {
		r.services[i].Stop()
	}
}
