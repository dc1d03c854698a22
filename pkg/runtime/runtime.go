package runtime

import (
	"context"

	"github.com/docker/go-connections/nat"
)

// ContainerSpec carries everything the runtime needs to create a container.
type ContainerSpec struct {
	Name       string
	Image      string
	Command    []string
	Env        []string
	Binds      []string
	Network    string
	Privileged bool
	Ports      nat.PortMap
	Labels     map[string]string
}

// NetworkSpec carries everything the runtime needs to create a network.
type NetworkSpec struct {
	Name   string
	Driver string
	Subnet string
	Labels map[string]string
}

// ContainerInfo is a snapshot handle into runtime-managed container state.
// It is refreshed by lookup and never assumed valid across operations.
type ContainerInfo struct {
	ID      string
	Running bool
}

// Runtime is the container-runtime capability surface the engine converges
// against. Find calls report absence as (nil, nil) or ("", nil), never as an
// error; anything else from the daemon propagates to the caller.
type Runtime interface {
	FindContainer(ctx context.Context, name string) (*ContainerInfo, error)
	CreateContainer(ctx context.Context, spec ContainerSpec) (*ContainerInfo, error)
	StartContainer(ctx context.Context, id string) error
	KillContainer(ctx context.Context, id string) error
	PruneContainers(ctx context.Context, label string) error

	FindNetwork(ctx context.Context, name string) (string, error)
	CreateNetwork(ctx context.Context, spec NetworkSpec) (string, error)
	ConnectNetwork(ctx context.Context, networkID, containerID string) error
	PruneNetworks(ctx context.Context, label string) error
}
