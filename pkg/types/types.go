package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Region is a named scope of controller state, one per site/sync-domain.
type Region struct {
	Name         string
	SyncInterval int // seconds between full syncs
}

// Tenant exists purely as an ownership marker for networks and ports.
type Tenant struct {
	ID string
}

// Network is an L2 broadcast domain owned by a tenant.
type Network struct {
	ID       string
	TenantID string
	Shared   bool
	Segments []Segment
}

// Segment is an encapsulation assignment (e.g. a VLAN tag) bound to a
// network. SegmentationID is a pointer because flat networks carry none.
type Segment struct {
	ID              string
	NetworkID       string
	NetworkType     string
	SegmentationID  *int
	IsDynamic       bool
	PhysicalNetwork string // never sent to the controller
}

// Segment network types the controller accepts.
const (
	NetworkTypeVLAN  = "vlan"
	NetworkTypeVXLAN = "vxlan"
)

// Eligible reports whether the segment's network type is one the
// controller models. Flat and local segments are skipped, not errors.
func (s Segment) Eligible() bool {
	switch s.NetworkType {
	case NetworkTypeVLAN, NetworkTypeVXLAN:
		return true
	}
	return false
}

// InstanceType classifies a workload and selects its controller
// endpoint and binding shape.
type InstanceType string

const (
	InstanceDHCP      InstanceType = "dhcp"
	InstanceVM        InstanceType = "vm"
	InstanceBaremetal InstanceType = "baremetal"
	InstanceRouter    InstanceType = "router"
)

// Device owner strings used by the orchestration platform.
const (
	DeviceOwnerDHCP            = "network:dhcp"
	DeviceOwnerDVRInterface    = "network:router_interface_distributed"
	DeviceOwnerRouterInterface = "network:router_interface"
)

// VnicBaremetal marks a port bound to a physical server.
const VnicBaremetal = "baremetal"

// Classify maps (device_owner, vnic_type) to an instance type. It is
// total: anything unrecognized is a VM. The baremetal vnic check takes
// precedence over owner-string checks.
func Classify(deviceOwner, vnicType string) InstanceType {
	if vnicType == VnicBaremetal {
		return InstanceBaremetal
	}
	if strings.HasPrefix(deviceOwner, DeviceOwnerDHCP) {
		return InstanceDHCP
	}
	if deviceOwner == DeviceOwnerDVRInterface ||
		strings.HasPrefix(deviceOwner, DeviceOwnerRouterInterface) {
		return InstanceRouter
	}
	return InstanceVM
}

// Endpoint returns the controller resource name for the instance type.
func (t InstanceType) Endpoint() string {
	return string(t)
}

// Valid reports whether t is one of the four known instance types.
func (t InstanceType) Valid() bool {
	switch t {
	case InstanceDHCP, InstanceVM, InstanceBaremetal, InstanceRouter:
		return true
	}
	return false
}

// AllInstanceTypes is the fixed batching order for per-type bulk calls.
var AllInstanceTypes = []InstanceType{
	InstanceDHCP,
	InstanceVM,
	InstanceBaremetal,
	InstanceRouter,
}

// VlanType is the port trunking mode on the controller.
type VlanType string

const (
	VlanAllowed VlanType = "allowed"
	VlanNative  VlanType = "native"
)

// VlanTypeFor returns native for baremetal ports and allowed otherwise.
func VlanTypeFor(t InstanceType) VlanType {
	if t == InstanceBaremetal {
		return VlanNative
	}
	return VlanAllowed
}

// Instance is a workload identified by id and the compute host it
// runs on.
type Instance struct {
	ID   string
	Host string
}

// Port binds an instance to a network. Hosts is ordered and normally
// has length 1.
type Port struct {
	ID          string
	NetworkID   string
	TenantID    string
	InstanceID  string
	Name        string
	Hosts       []string
	DeviceOwner string
}

// Host returns the first bound host, or empty when unbound.
func (p Port) Host() string {
	if len(p.Hosts) == 0 {
		return ""
	}
	return p.Hosts[0]
}

// Device is an instance plus the ports attached to it, as reported by
// the data source during bulk instance creation.
type Device struct {
	ID    string
	Ports []DevicePort
}

// DevicePort is the device-side view of a port attachment.
type DevicePort struct {
	ID    string
	Hosts []string
}

// SwitchConnection describes one physical switch port a host is
// cabled to, taken from a port profile's local-link-information.
type SwitchConnection struct {
	SwitchID   string `json:"switch_id"`
	PortID     string `json:"port_id"`
	SwitchInfo string `json:"switch_info,omitempty"`
}

// PortProfile carries the binding profile supplied by the caller.
// Profile is the raw JSON blob embedded by the platform.
type PortProfile struct {
	VnicType string
	Profile  string
}

// SwitchConnections parses the profile's local_link_information list.
// An empty profile yields no connections and no error.
func (p PortProfile) SwitchConnections() ([]SwitchConnection, error) {
	if p.Profile == "" {
		return nil, nil
	}
	var embedded struct {
		LocalLinkInformation []SwitchConnection `json:"local_link_information"`
	}
	if err := json.Unmarshal([]byte(p.Profile), &embedded); err != nil {
		return nil, fmt.Errorf("failed to parse binding profile: %w", err)
	}
	return embedded.LocalLinkInformation, nil
}
