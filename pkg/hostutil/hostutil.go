// Package hostutil carries the best-effort host-side tweaks a lab needs:
// letting LLDP frames cross the lab bridges and reaping the agetty processes
// cEOS serial consoles leave behind. None of these affect convergence.
package hostutil

import (
	"fmt"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// lldpFwdMask is the bridge group_fwd_mask bit pattern that forwards frames
// sent to the 01-80-c2-00-00-0e LLDP group address.
const lldpFwdMask = "16384"

// BridgeName returns the Linux bridge interface backing a docker network.
func BridgeName(networkID string) string {
	if len(networkID) > 12 {
		networkID = networkID[:12]
	}
	return "br-" + networkID
}

// EnableLLDPForwarding sets the group forward mask on the network's bridge so
// LLDP passes between attached devices.
func EnableLLDPForwarding(networkID string) error {
	br := BridgeName(networkID)
	if _, err := netlink.LinkByName(br); err != nil {
		return fmt.Errorf("finding bridge %s: %w", br, err)
	}
	path := fmt.Sprintf("/sys/class/net/%s/bridge/group_fwd_mask", br)
	if err := os.WriteFile(path, []byte(lldpFwdMask), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Debugf("enabled lldp forwarding on %s", br)
	return nil
}

// KillOrphanGettys reaps agetty processes spawned on the host by cEOS serial
// consoles. pkill exits non-zero when nothing matched, which is the usual case.
func KillOrphanGettys() {
	if err := exec.Command("pkill", "agetty").Run(); err != nil {
		log.Debugf("no orphaned agetty processes: %v", err)
	}
}
