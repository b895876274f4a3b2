package source

import (
	"github.com/fabricsync/fabricsync/pkg/types"
)

// Source is read access to the orchestration platform's network model,
// the authoritative input of every sync. The adapter never writes
// through this interface during a sync; the Put methods on concrete
// implementations exist for the platform-side feed.
type Source interface {
	// Tenants
	ListTenants() ([]types.Tenant, error)

	// Networks, segments included
	ListNetworks(tenantID string) ([]types.Network, error)

	// Ports
	ListPorts(tenantID string) ([]types.Port, error)

	// Binding profiles keyed by port id; ports without a stored
	// profile are absent from the result
	PortProfiles(portIDs []string) (map[string]types.PortProfile, error)

	// Utility
	Close() error
}

// DevicesFromPorts groups ports by owning instance into the device
// view CreateInstanceBulk consumes.
func DevicesFromPorts(ports []types.Port) map[string]types.Device {
	devices := make(map[string]types.Device)
	for _, p := range ports {
		if p.InstanceID == "" {
			continue
		}
		dev := devices[p.InstanceID]
		dev.ID = p.InstanceID
		dev.Ports = append(dev.Ports, types.DevicePort{ID: p.ID, Hosts: p.Hosts})
		devices[p.InstanceID] = dev
	}
	return devices
}
