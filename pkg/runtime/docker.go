package runtime

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	log "github.com/sirupsen/logrus"
)

// DockerRuntime implements Runtime against the local docker daemon.
type DockerRuntime struct {
	cli *client.Client
}

// NewDockerRuntime connects to the daemon using the standard environment
// variables (DOCKER_HOST etc.) and negotiates the API version.
func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &DockerRuntime{cli: cli}, nil
}

func (r *DockerRuntime) FindContainer(ctx context.Context, name string) (*ContainerInfo, error) {
	res, err := r.cli.ContainerInspect(ctx, name)
	if client.IsErrNotFound(err) {
		log.Debugf("container %s not found", name)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	running := res.State != nil && res.State.Running
	return &ContainerInfo{ID: res.ID, Running: running}, nil
}

func (r *DockerRuntime) CreateContainer(ctx context.Context, spec ContainerSpec) (*ContainerInfo, error) {
	log.Debugf("creating container %s from image %s", spec.Name, spec.Image)
	exposed := nat.PortSet{}
	for port := range spec.Ports {
		exposed[port] = struct{}{}
	}
	resp, err := r.cli.ContainerCreate(ctx, &container.Config{
		Image:        spec.Image,
		Cmd:          spec.Command,
		Env:          spec.Env,
		Hostname:     spec.Name,
		Tty:          true,
		Labels:       spec.Labels,
		ExposedPorts: exposed,
	}, &container.HostConfig{
		Binds:        spec.Binds,
		Privileged:   spec.Privileged,
		NetworkMode:  container.NetworkMode(spec.Network),
		PortBindings: spec.Ports,
	}, nil, nil, spec.Name)
	if err != nil {
		return nil, err
	}
	return &ContainerInfo{ID: resp.ID}, nil
}

func (r *DockerRuntime) StartContainer(ctx context.Context, id string) error {
	return r.cli.ContainerStart(ctx, id, container.StartOptions{})
}

func (r *DockerRuntime) KillContainer(ctx context.Context, id string) error {
	return r.cli.ContainerKill(ctx, id, "KILL")
}

func (r *DockerRuntime) PruneContainers(ctx context.Context, label string) error {
	report, err := r.cli.ContainersPrune(ctx, filters.NewArgs(filters.Arg("label", label)))
	if err != nil {
		return err
	}
	log.Debugf("pruned %d containers with label %s", len(report.ContainersDeleted), label)
	return nil
}

func (r *DockerRuntime) FindNetwork(ctx context.Context, name string) (string, error) {
	res, err := r.cli.NetworkInspect(ctx, name, network.InspectOptions{})
	if client.IsErrNotFound(err) {
		log.Debugf("network %s not found", name)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

func (r *DockerRuntime) CreateNetwork(ctx context.Context, spec NetworkSpec) (string, error) {
	log.Debugf("creating %s network %s", spec.Driver, spec.Name)
	opts := network.CreateOptions{
		Driver: spec.Driver,
		Labels: spec.Labels,
	}
	if spec.Subnet != "" {
		opts.IPAM = &network.IPAM{
			Config: []network.IPAMConfig{{Subnet: spec.Subnet}},
		}
	}
	resp, err := r.cli.NetworkCreate(ctx, spec.Name, opts)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (r *DockerRuntime) ConnectNetwork(ctx context.Context, networkID, containerID string) error {
	return r.cli.NetworkConnect(ctx, networkID, containerID, nil)
}

func (r *DockerRuntime) PruneNetworks(ctx context.Context, label string) error {
	report, err := r.cli.NetworksPrune(ctx, filters.NewArgs(filters.Arg("label", label)))
	if err != nil {
		return err
	}
	log.Debugf("pruned %d networks with label %s", len(report.NetworksDeleted), label)
	return nil
}
