package pkg

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/dbassani/arista-ceos-topo/pkg/config"
	"github.com/dbassani/arista-ceos-topo/pkg/hostutil"
	"github.com/dbassani/arista-ceos-topo/pkg/runtime"
	"github.com/dbassani/arista-ceos-topo/pkg/topology"
)

// ErrPartialFailure reports that at least one device failed to converge.
// Remaining devices were still attempted; nothing is rolled back.
var ErrPartialFailure = errors.New("not all devices converged")

// Manager drives the resolved graph towards the desired runtime state,
// best-effort: every device is attempted and failures are reduced into a
// single aggregate result. Devices converge sequentially; two devices sharing
// a link must not race its network creation.
type Manager struct {
	cfg  config.Config
	rt   runtime.Runtime
	topo *topology.Topology
}

// NewManager creates a convergence driver over a resolved topology.
func NewManager(rt runtime.Runtime, cfg config.Config, topo *topology.Topology) *Manager {
	return &Manager{cfg: cfg, rt: rt, topo: topo}
}

// Create brings every device up. Link networks are created lazily as devices
// attach to them. Host-side LLDP and getty tweaks run afterwards, best-effort.
func (m *Manager) Create(ctx context.Context) error {
	ok := true
	for name, d := range m.topo.Devices {
		if _, err := d.Start(ctx); err != nil {
			log.Errorf("failed to start %s: %v", name, err)
			ok = false
		}
	}
	for _, l := range m.topo.Links {
		if id := l.NetworkID(); id != "" {
			if err := hostutil.EnableLLDPForwarding(id); err != nil {
				log.Warnf("lldp forwarding on %s: %v", l.NetworkName(), err)
			}
		}
	}
	hostutil.KillOrphanGettys()
	if !ok {
		return ErrPartialFailure
	}
	return nil
}

// Destroy kills every device and prunes this run's labelled containers and
// networks. Safe on a lab that was never created.
func (m *Manager) Destroy(ctx context.Context) error {
	ok := true
	for name, d := range m.topo.Devices {
		if _, err := d.Kill(ctx); err != nil {
			log.Errorf("failed to kill %s: %v", name, err)
			ok = false
		}
	}
	if err := m.rt.PruneContainers(ctx, m.cfg.Label()); err != nil {
		log.Errorf("pruning containers: %v", err)
		ok = false
	}
	if err := m.rt.PruneNetworks(ctx, m.cfg.Label()); err != nil {
		log.Errorf("pruning networks: %v", err)
		ok = false
	}
	hostutil.KillOrphanGettys()
	if !ok {
		return ErrPartialFailure
	}
	return nil
}
