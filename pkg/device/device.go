package device

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/docker/go-connections/nat"
	log "github.com/sirupsen/logrus"

	"github.com/dbassani/arista-ceos-topo/pkg/config"
	"github.com/dbassani/arista-ceos-topo/pkg/link"
	"github.com/dbassani/arista-ceos-topo/pkg/runtime"
	"github.com/dbassani/arista-ceos-topo/pkg/util"
)

// Kind tags a device with its role in the lab. It is decided once during
// topology resolution and drives the container presets.
type Kind int

const (
	// CEOS is an emulated Arista router.
	CEOS Kind = iota
	// Host is a generic traffic endpoint.
	Host
	// CVP is the CloudVision management appliance.
	CVP
)

func (k Kind) String() string {
	switch k {
	case Host:
		return "host"
	case CVP:
		return "cvp"
	default:
		return "ceos"
	}
}

// MgmtPort is the fixed management port published for router devices.
const MgmtPort nat.Port = "443/tcp"

// DefaultNetwork is the sentinel network a container is created on when no
// interface has been promoted to default.
const DefaultNetwork = "bridge"

// Status is the outcome of a lifecycle operation.
type Status int

const (
	// Started means the container was (created and) started by this call.
	Started Status = iota
	// AlreadyRunning means start was a no-op: the container was up.
	AlreadyRunning
	// Killed means the running container was killed by this call.
	Killed
	// NotRunning means kill found nothing to stop; pruning still ran.
	NotRunning
)

// Device is one container to be created, with its interface-to-link bindings
// and port-publish table. The runtime handle is a cached snapshot refreshed by
// lookup on every lifecycle call.
type Device struct {
	Name       string // topology name, unique per run
	Kind       Kind
	Image      string
	Command    []string
	Env        []string
	Binds      []string
	Ports      nat.PortMap
	Privileged bool

	rt            runtime.Runtime
	containerName string
	labels        map[string]string
	labelFilter   string

	interfaces   map[string]*link.Link
	ifaceOrder   []string
	defaultIface string // host kind: first interface promoted at create time

	info *runtime.ContainerInfo
}

// New constructs a device of the given kind with its per-kind presets applied.
func New(rt runtime.Runtime, name string, kind Kind, cfg config.Config) *Device {
	d := &Device{
		Name:          name,
		Kind:          kind,
		Ports:         nat.PortMap{},
		Privileged:    true,
		rt:            rt,
		containerName: cfg.Prefix + "_" + name,
		labels:        cfg.Labels(),
		labelFilter:   cfg.Label(),
		interfaces:    make(map[string]*link.Link),
	}
	switch kind {
	case Host:
		d.Image = cfg.HostImage
	case CVP:
		d.Image = cfg.CVPImage
		if cfg.OOBPrefix != "" {
			addr, mask, err := util.SecondToLast(cfg.OOBPrefix)
			if err != nil {
				log.Warnf("ignoring OOB_PREFIX %s: %v", cfg.OOBPrefix, err)
			} else {
				d.Command = []string{addr, mask}
			}
		}
	default:
		d.Image = cfg.CEOSImage
		d.Command = []string{
			"/sbin/init",
			"systemd.setenv=INTFTYPE=eth",
			"systemd.setenv=ETBA=1",
			"systemd.setenv=SKIP_ZEROTOUCH_CONFIG=1",
			"systemd.setenv=CEOS=1",
			"systemd.setenv=EOS_PLATFORM=ceoslab",
			"systemd.setenv=container=docker",
		}
		d.Env = []string{
			"CEOS=1",
			"EOS_PLATFORM=ceoslab",
			"container=docker",
			"ETBA=1",
			"SKIP_ZEROTOUCH_CONFIG=1",
			"INTFTYPE=eth",
			"MGMT_INTF=eth0",
		}
		startup := filepath.Join(cfg.ConfDir, name)
		if abs, err := filepath.Abs(startup); err == nil {
			startup = abs
		}
		d.Binds = []string{startup + ":/mnt/flash/startup-config:rw"}
	}
	return d
}

// ContainerName returns the prefixed runtime container name.
func (d *Device) ContainerName() string {
	return d.containerName
}

// AddInterface binds an interface to its link. Re-binding the same interface
// name overwrites the previous link, last write wins.
func (d *Device) AddInterface(name string, l *link.Link) {
	log.Debugf("binding %s:%s to %s", d.Name, name, l.Name)
	if _, ok := d.interfaces[name]; !ok {
		d.ifaceOrder = append(d.ifaceOrder, name)
	}
	d.interfaces[name] = l
}

// Interface returns the link bound to the named interface, if any.
func (d *Device) Interface(name string) (*link.Link, bool) {
	l, ok := d.interfaces[name]
	return l, ok
}

// InterfaceNames returns the bound interface names sorted lexicographically.
func (d *Device) InterfaceNames() []string {
	names := make([]string, 0, len(d.interfaces))
	for name := range d.interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PublishPort maps a container port to a host port on all addresses.
func (d *Device) PublishPort(port nat.Port, hostPort int) {
	d.Ports[port] = []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: fmt.Sprintf("%d", hostPort)}}
}

// SetAddress records the host's declared address; the host image's entry
// command configures its first interface from it.
func (d *Device) SetAddress(addr string) {
	d.Command = []string{addr}
}

// getOrCreate refreshes the cached container handle by name lookup, creating
// the container on first miss.
func (d *Device) getOrCreate(ctx context.Context) error {
	info, err := d.rt.FindContainer(ctx, d.containerName)
	if err != nil {
		return err
	}
	if info == nil {
		info, err = d.create(ctx)
		if err != nil {
			return fmt.Errorf("creating container %s: %w", d.containerName, err)
		}
	}
	d.info = info
	return nil
}

// create issues the runtime create call. For hosts the first declared
// interface becomes the container's default network, since the runtime only
// accepts one network at creation time; its network must therefore exist
// before the container does.
func (d *Device) create(ctx context.Context) (*runtime.ContainerInfo, error) {
	network := DefaultNetwork
	if d.Kind == Host && len(d.ifaceOrder) > 0 {
		first := d.ifaceOrder[0]
		l := d.interfaces[first]
		if _, err := l.GetOrCreate(ctx); err != nil {
			return nil, err
		}
		network = l.NetworkName()
		d.defaultIface = first
		log.Debugf("%s: interface %s promoted to default network %s", d.Name, first, network)
	}
	return d.rt.CreateContainer(ctx, runtime.ContainerSpec{
		Name:       d.containerName,
		Image:      d.Image,
		Command:    d.Command,
		Env:        d.Env,
		Binds:      d.Binds,
		Network:    network,
		Privileged: d.Privileged,
		Ports:      d.Ports,
		Labels:     d.labels,
	})
}

// attach connects every bound interface to its link, in interface-name order
// for determinism. The promoted default interface is already wired.
func (d *Device) attach(ctx context.Context) error {
	for _, name := range d.InterfaceNames() {
		if name == d.defaultIface {
			continue
		}
		l := d.interfaces[name]
		log.Debugf("attaching %s:%s to %s", d.Name, name, l.NetworkName())
		if err := l.Connect(ctx, d.info.ID); err != nil {
			return fmt.Errorf("attaching %s:%s: %w", d.Name, name, err)
		}
	}
	return nil
}

// Start converges the device towards running. It is idempotent: a second call
// on a running device reports AlreadyRunning without further runtime calls.
func (d *Device) Start(ctx context.Context) (Status, error) {
	if err := d.getOrCreate(ctx); err != nil {
		return 0, err
	}
	if d.info.Running {
		log.Infof("container %s is already running", d.containerName)
		return AlreadyRunning, nil
	}
	if err := d.attach(ctx); err != nil {
		return 0, err
	}
	if err := d.rt.StartContainer(ctx, d.info.ID); err != nil {
		return 0, fmt.Errorf("starting container %s: %w", d.containerName, err)
	}
	log.Infof("started container %s", d.containerName)
	return Started, nil
}

// Kill converges the device towards stopped. A device that is not running is
// reported as NotRunning and the run's labelled resources are pruned, so
// destroying a never-created lab is a safe no-op.
func (d *Device) Kill(ctx context.Context) (Status, error) {
	if err := d.getOrCreate(ctx); err != nil {
		return 0, err
	}
	if !d.info.Running {
		log.Infof("container %s is not running", d.containerName)
		if err := d.rt.PruneContainers(ctx, d.labelFilter); err != nil {
			return 0, err
		}
		return NotRunning, nil
	}
	if err := d.rt.KillContainer(ctx, d.info.ID); err != nil {
		return 0, fmt.Errorf("killing container %s: %w", d.containerName, err)
	}
	log.Infof("killed container %s", d.containerName)
	return Killed, nil
}
