package topology

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dbassani/arista-ceos-topo/api"
	"github.com/dbassani/arista-ceos-topo/pkg/config"
	"github.com/dbassani/arista-ceos-topo/pkg/device"
	"github.com/dbassani/arista-ceos-topo/pkg/link"
	"github.com/dbassani/arista-ceos-topo/pkg/runtime"
	"github.com/dbassani/arista-ceos-topo/pkg/util"
)

var (
	// ErrMalformedTopology means the document carries no links collection.
	ErrMalformedTopology = errors.New("topology has no links")
	// ErrMalformedEndpoint means an endpoint descriptor names no device.
	ErrMalformedEndpoint = errors.New("malformed endpoint")
)

// Topology is the resolved device/link graph for one run.
type Topology struct {
	Devices map[string]*device.Device
	Links   []*link.Link
}

// Load reads and unmarshals a topology document.
func Load(path string) (*api.TopoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topology file: %w", err)
	}
	var t api.TopoConfig
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshaling topology file: %w", err)
	}
	return &t, nil
}

// ResolveKind maps a device name to its kind: a name containing "cvp" is the
// management appliance, one containing "host" a generic host, anything else an
// emulated router. Matching is case-insensitive.
func ResolveKind(name string) device.Kind {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "cvp"):
		return device.CVP
	case strings.Contains(n, "host"):
		return device.Host
	default:
		return device.CEOS
	}
}

// Resolve turns the link declarations into the device/link graph. Links are
// named net-<i> by declaration order; devices are constructed on first
// reference and accumulate interfaces on later ones. Port publishing is
// assigned afterwards when a publish base is configured.
func Resolve(rt runtime.Runtime, t *api.TopoConfig, cfg config.Config) (*Topology, error) {
	if t.Links == nil {
		return nil, ErrMalformedTopology
	}
	topo := &Topology{Devices: make(map[string]*device.Device)}
	for i, decl := range t.Links {
		kind := link.P2P
		if len(decl) > 2 {
			kind = link.Multipoint
		}
		l := link.New(rt, i, kind, cfg.Prefix, cfg.Labels())
		log.Debugf("parsed %s link %s with %d endpoints", l.Kind, l.Name, len(decl))
		topo.Links = append(topo.Links, l)
		for _, ep := range decl {
			if err := topo.resolveEndpoint(rt, ep, i, l, cfg); err != nil {
				return nil, err
			}
		}
	}
	if cfg.PublishBase != 0 {
		assignPorts(topo.Devices, cfg.PublishBase)
	}
	return topo, nil
}

// resolveEndpoint parses one <device>[:<interface>][:<ip>] descriptor and
// binds the resulting interface to the enclosing link. The synthesized
// interface suffix is the link's declaration index, not a per-device counter.
func (t *Topology) resolveEndpoint(rt runtime.Runtime, ep string, idx int, l *link.Link, cfg config.Config) error {
	fields := strings.SplitN(ep, ":", 3)
	name := fields[0]
	if name == "" {
		return fmt.Errorf("%w: %q in link %s", ErrMalformedEndpoint, ep, l.Name)
	}
	kind := ResolveKind(name)
	d, ok := t.Devices[name]
	if !ok {
		d = device.New(rt, name, kind, cfg)
		t.Devices[name] = d
	}
	intf := fmt.Sprintf("eth%d", idx)
	if len(fields) > 1 && fields[1] != "" {
		intf = fields[1]
	}
	if kind == device.Host && len(fields) == 3 {
		// A bad address is dropped, not fatal: the host comes up unnumbered.
		if err := util.CheckHostAddr(fields[2]); err != nil {
			log.Warnf("%s: dropping address: %v", name, err)
		} else {
			d.SetAddress(fields[2])
		}
	}
	d.AddInterface(intf, l)
	return nil
}

// assignPorts publishes the management port of every router device, walking
// device names in sorted order so the mapping is stable across runs. The
// index advances for every device regardless of kind.
func assignPorts(devices map[string]*device.Device, base int) {
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		d := devices[name]
		if d.Kind != device.CEOS {
			continue
		}
		d.PublishPort(device.MgmtPort, base+i)
		log.Debugf("publishing %s %s on host port %d", name, device.MgmtPort, base+i)
	}
}
