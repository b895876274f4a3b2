package wire

import "github.com/fabricsync/fabricsync/pkg/types"

// RegionRecord registers or names a region. SyncInterval is only sent
// on registration.
type RegionRecord struct {
	Name         string `json:"name"`
	SyncInterval int    `json:"syncInterval,omitempty"`
}

// TenantRecord is an existence marker; tenants have no other fields.
type TenantRecord struct {
	ID string `json:"id"`
}

// IDRecord is the minimal payload for bulk deletes keyed by id.
type IDRecord struct {
	ID string `json:"id"`
}

// NetworkRecord is the controller-side network shape.
type NetworkRecord struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Shared   bool   `json:"shared"`
}

// NetworkDeleteRecord identifies a network for bulk deletion.
type NetworkDeleteRecord struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
}

// SegmentRecord is the controller-side segment shape. SegmentType is
// "static" or "dynamic"; physical-network metadata is never carried.
type SegmentRecord struct {
	ID             string `json:"id"`
	NetworkID      string `json:"networkId"`
	Type           string `json:"type"`
	SegmentationID int    `json:"segmentationId"`
	SegmentType    string `json:"segmentType"`
}

// InstanceRecord creates one instance of any type; the endpoint in the
// path selects the type.
type InstanceRecord struct {
	ID     string `json:"id"`
	HostID string `json:"hostId"`
}

// PortRecord is the controller-side port shape. The pointer fields
// serialize as null in minimal delete records, matching the protocol.
type PortRecord struct {
	ID           string   `json:"id"`
	NetworkID    *string  `json:"networkId"`
	TenantID     *string  `json:"tenantId"`
	InstanceID   string   `json:"instanceId"`
	Name         *string  `json:"name"`
	Hosts        []string `json:"hosts"`
	InstanceType string   `json:"instanceType"`
	VlanType     string   `json:"vlanType"`
}

// BindingSegment is the segment shape embedded in port bindings. The
// segment_type key spelling differs from SegmentRecord's segmentType;
// the controller schema is asymmetric here and must be preserved.
type BindingSegment struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	SegmentationID int    `json:"segmentationId"`
	NetworkID      string `json:"networkId"`
	SegmentType    string `json:"segment_type"`
}

// HostBindingEntry attaches a port to a compute host.
type HostBindingEntry struct {
	Host    string           `json:"host"`
	Segment []BindingSegment `json:"segment"`
}

// SwitchBindingEntry attaches a port to one physical switch interface.
type SwitchBindingEntry struct {
	Host      string           `json:"host"`
	Switch    string           `json:"switch"`
	Interface string           `json:"interface"`
	Segment   []BindingSegment `json:"segment"`
}

// PortBindingRecord carries exactly one of the two binding shapes.
type PortBindingRecord struct {
	PortID        string               `json:"portId"`
	HostBinding   []HostBindingEntry   `json:"hostBinding,omitempty"`
	SwitchBinding []SwitchBindingEntry `json:"switchBinding,omitempty"`
}

// Kind identifies a resource kind for ordering purposes.
type Kind string

const (
	KindTenant   Kind = "tenant"
	KindNetwork  Kind = "network"
	KindSegment  Kind = "segment"
	KindInstance Kind = "instance"
	KindPort     Kind = "port"
	KindBinding  Kind = "binding"
)

// segmentType wire values.
const (
	SegmentStatic  = "static"
	SegmentDynamic = "dynamic"
)

// SegmentTypeOf returns the wire segmentType for a segment.
func SegmentTypeOf(s types.Segment) string {
	if s.IsDynamic {
		return SegmentDynamic
	}
	return SegmentStatic
}
