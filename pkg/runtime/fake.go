package runtime

import (
	"context"
	"strings"
)

// FakeContainer is a container recorded by the fake runtime.
type FakeContainer struct {
	Spec    ContainerSpec
	Running bool
}

// Fake is an in-memory Runtime for tests. Every mutating call is appended to
// Events so ordering assertions stay cheap.
type Fake struct {
	Containers map[string]*FakeContainer
	Networks   map[string]NetworkSpec
	Events     []string

	CreateContainerCalls int
	StartCalls           int
	KillCalls            int
	CreateNetworkCalls   int

	// FailStart injects a start failure keyed by container name.
	FailStart map[string]error
}

var _ Runtime = (*Fake)(nil)

// NewFake returns an empty fake runtime.
func NewFake() *Fake {
	return &Fake{
		Containers: make(map[string]*FakeContainer),
		Networks:   make(map[string]NetworkSpec),
	}
}

func (f *Fake) record(ev string) {
	f.Events = append(f.Events, ev)
}

func containerID(name string) string { return "cid-" + name }
func networkID(name string) string   { return "nid-" + name }

func nameFromID(id, prefix string) string { return strings.TrimPrefix(id, prefix) }

func labelMatch(labels map[string]string, filter string) bool {
	k, v, ok := strings.Cut(filter, "=")
	if !ok {
		return false
	}
	return labels[k] == v
}

func (f *Fake) FindContainer(_ context.Context, name string) (*ContainerInfo, error) {
	c, ok := f.Containers[name]
	if !ok {
		return nil, nil
	}
	return &ContainerInfo{ID: containerID(name), Running: c.Running}, nil
}

func (f *Fake) CreateContainer(_ context.Context, spec ContainerSpec) (*ContainerInfo, error) {
	f.CreateContainerCalls++
	f.Containers[spec.Name] = &FakeContainer{Spec: spec}
	f.record("create-container:" + spec.Name)
	return &ContainerInfo{ID: containerID(spec.Name)}, nil
}

func (f *Fake) StartContainer(_ context.Context, id string) error {
	name := nameFromID(id, "cid-")
	if err := f.FailStart[name]; err != nil {
		return err
	}
	f.StartCalls++
	f.Containers[name].Running = true
	f.record("start:" + name)
	return nil
}

func (f *Fake) KillContainer(_ context.Context, id string) error {
	name := nameFromID(id, "cid-")
	f.KillCalls++
	f.Containers[name].Running = false
	f.record("kill:" + name)
	return nil
}

func (f *Fake) PruneContainers(_ context.Context, label string) error {
	f.record("prune-containers:" + label)
	for name, c := range f.Containers {
		if !c.Running && labelMatch(c.Spec.Labels, label) {
			delete(f.Containers, name)
		}
	}
	return nil
}

func (f *Fake) FindNetwork(_ context.Context, name string) (string, error) {
	if _, ok := f.Networks[name]; !ok {
		return "", nil
	}
	return networkID(name), nil
}

func (f *Fake) CreateNetwork(_ context.Context, spec NetworkSpec) (string, error) {
	f.CreateNetworkCalls++
	f.Networks[spec.Name] = spec
	f.record("create-network:" + spec.Name)
	return networkID(spec.Name), nil
}

func (f *Fake) ConnectNetwork(_ context.Context, netID, cID string) error {
	f.record("connect:" + nameFromID(netID, "nid-") + ":" + nameFromID(cID, "cid-"))
	return nil
}

func (f *Fake) PruneNetworks(_ context.Context, label string) error {
	f.record("prune-networks:" + label)
	for name, spec := range f.Networks {
		if labelMatch(spec.Labels, label) {
			delete(f.Networks, name)
		}
	}
	return nil
}
