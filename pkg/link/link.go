package link

import (
	"context"
	"fmt"

	"github.com/dbassani/arista-ceos-topo/pkg/runtime"
	log "github.com/sirupsen/logrus"
)

// Kind classifies a link by its endpoint count.
type Kind int

const (
	// P2P is a link with exactly two endpoints.
	P2P Kind = iota
	// Multipoint is a link shared by three or more endpoints.
	Multipoint
)

func (k Kind) String() string {
	if k == P2P {
		return "p2p"
	}
	return "mpoint"
}

// Link is one virtual network segment backing a single virtual switch.
// Its runtime network is created lazily on first Connect and the resulting
// handle is cached for the lifetime of the process.
type Link struct {
	Name   string // net-<i>, by declaration order
	Kind   Kind
	Subnet string // optional IPAM subnet for the backing network

	rt      runtime.Runtime
	netName string
	labels  map[string]string

	networkID string // cached handle, empty until first GetOrCreate
}

// New builds a link named net-<idx>. The runtime network name carries the lab
// prefix so several labs can coexist on one daemon.
func New(rt runtime.Runtime, idx int, kind Kind, prefix string, labels map[string]string) *Link {
	name := fmt.Sprintf("net-%d", idx)
	return &Link{
		Name:    name,
		Kind:    kind,
		rt:      rt,
		netName: prefix + "_" + name,
		labels:  labels,
	}
}

// NetworkID returns the cached network handle, empty if the network has not
// been created or looked up yet.
func (l *Link) NetworkID() string {
	return l.networkID
}

// NetworkName returns the name of the backing runtime network.
func (l *Link) NetworkName() string {
	return l.netName
}

// GetOrCreate resolves the backing network, creating it with the bridge driver
// on first miss. Safe to call repeatedly; the handle is cached.
func (l *Link) GetOrCreate(ctx context.Context) (string, error) {
	if l.networkID != "" {
		return l.networkID, nil
	}
	log.Debugf("obtaining a pointer to network %s", l.netName)
	id, err := l.rt.FindNetwork(ctx, l.netName)
	if err != nil {
		return "", err
	}
	if id == "" {
		id, err = l.rt.CreateNetwork(ctx, runtime.NetworkSpec{
			Name:   l.netName,
			Driver: "bridge",
			Subnet: l.Subnet,
			Labels: l.labels,
		})
		if err != nil {
			return "", fmt.Errorf("creating network %s: %w", l.netName, err)
		}
		log.Infof("created %s network %s", l.Kind, l.netName)
	}
	l.networkID = id
	return id, nil
}

// Connect attaches a container to this link's network, creating the network
// first if needed.
func (l *Link) Connect(ctx context.Context, containerID string) error {
	id, err := l.GetOrCreate(ctx)
	if err != nil {
		return err
	}
	return l.rt.ConnectNetwork(ctx, id, containerID)
}

// Invalidate drops the cached network handle, forcing the next GetOrCreate to
// resolve it again.
func (l *Link) Invalidate() {
	l.networkID = ""
}
