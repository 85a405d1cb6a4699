// Package discovery answers whether a named service has a live instance.
// It is an availability probe only: callers still use their configured URLs.
package discovery

import (
	"context"
	"sort"

	"course-enrollment/internal/domain/enrollment"
)

// Instance is one registered process of a service.
type Instance struct {
	Service string `json:"service"`
	ID      string `json:"id"`
	Addr    string `json:"addr"`
}

// StaticLocator resolves services from a fixed map, usually loaded from config.
type StaticLocator struct {
	instances map[string][]string
}

var _ enrollment.ServiceLocator = (*StaticLocator)(nil)

func NewStaticLocator(instances map[string][]string) *StaticLocator {
	copied := make(map[string][]string, len(instances))
	for name, addrs := range instances {
		copied[name] = append([]string(nil), addrs...)
	}
	return &StaticLocator{instances: copied}
}

func (l *StaticLocator) Resolve(_ context.Context, serviceName string) ([]Instance, error) {
	addrs := append([]string(nil), l.instances[serviceName]...)
	sort.Strings(addrs)

	instances := make([]Instance, 0, len(addrs))
	for _, addr := range addrs {
		instances = append(instances, Instance{Service: serviceName, ID: addr, Addr: addr})
	}
	return instances, nil
}

func (l *StaticLocator) IsAvailable(ctx context.Context, serviceName string) bool {
	instances, _ := l.Resolve(ctx, serviceName)
	return len(instances) > 0
}
