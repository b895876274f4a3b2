package wire

import (
	"fmt"

	"github.com/fabricsync/fabricsync/pkg/types"
)

// MappingError reports a malformed domain object. It is raised before
// any network call so a bad record is never partially applied.
type MappingError struct {
	Kind   Kind
	ID     string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map %s %q: %s", e.Kind, e.ID, e.Reason)
}

// MapNetwork converts a network to its wire shape. Segments are mapped
// separately so they are never sent before their owning network.
func MapNetwork(n types.Network) NetworkRecord {
	return NetworkRecord{
		ID:       n.ID,
		TenantID: n.TenantID,
		Shared:   n.Shared,
	}
}

// MapSegment converts one segment. A segment with a missing network
// type or segmentation id is rejected, not coerced.
func MapSegment(s types.Segment) (SegmentRecord, error) {
	if s.NetworkType == "" {
		return SegmentRecord{}, &MappingError{KindSegment, s.ID, "missing network_type"}
	}
	if s.SegmentationID == nil {
		return SegmentRecord{}, &MappingError{KindSegment, s.ID, "missing segmentation_id"}
	}
	return SegmentRecord{
		ID:             s.ID,
		NetworkID:      s.NetworkID,
		Type:           s.NetworkType,
		SegmentationID: *s.SegmentationID,
		SegmentType:    SegmentTypeOf(s),
	}, nil
}

// MapSegments maps the eligible segments of one network. Ineligible
// network types (flat, local) are skipped; an eligible segment that is
// malformed is an error.
func MapSegments(networkID string, segments []types.Segment) ([]SegmentRecord, error) {
	var records []SegmentRecord
	for _, s := range segments {
		if !s.Eligible() {
			continue
		}
		s.NetworkID = networkID
		rec, err := MapSegment(s)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// MapBindingSegments maps segments into the shape embedded in port
// bindings. The result is never nil: an empty list means a pure
// host/switch attachment with no segment assignment.
func MapBindingSegments(networkID string, segments []types.Segment) ([]BindingSegment, error) {
	records := []BindingSegment{}
	for _, s := range segments {
		if !s.Eligible() {
			continue
		}
		if s.SegmentationID == nil {
			return nil, &MappingError{KindSegment, s.ID, "missing segmentation_id"}
		}
		records = append(records, BindingSegment{
			ID:             s.ID,
			Type:           s.NetworkType,
			SegmentationID: *s.SegmentationID,
			NetworkID:      networkID,
			SegmentType:    SegmentTypeOf(s),
		})
	}
	return records, nil
}

// MapInstance converts an instance; the same shape serves all four
// instance types.
func MapInstance(inst types.Instance) InstanceRecord {
	return InstanceRecord{ID: inst.ID, HostID: inst.Host}
}

// MapPort converts a port for creation. The vlan type is native
// exactly when the instance type is baremetal.
func MapPort(p types.Port, itype types.InstanceType) PortRecord {
	hosts := p.Hosts
	if hosts == nil {
		hosts = []string{}
	}
	networkID := p.NetworkID
	tenantID := p.TenantID
	name := p.Name
	return PortRecord{
		ID:           p.ID,
		NetworkID:    &networkID,
		TenantID:     &tenantID,
		InstanceID:   p.InstanceID,
		Name:         &name,
		Hosts:        hosts,
		InstanceType: string(itype),
		VlanType:     string(types.VlanTypeFor(itype)),
	}
}

// MinimalPort builds the identifying-only port record used in delete
// bodies: null tenant, network and name, empty host list.
func MinimalPort(portID, instanceID string, itype types.InstanceType) PortRecord {
	return PortRecord{
		ID:           portID,
		InstanceID:   instanceID,
		Hosts:        []string{},
		InstanceType: string(itype),
		VlanType:     string(types.VlanTypeFor(itype)),
	}
}

// MapHostBinding attaches a port to a compute host with the given
// segment assignment.
func MapHostBinding(portID, host string, segments []BindingSegment) PortBindingRecord {
	if segments == nil {
		segments = []BindingSegment{}
	}
	return PortBindingRecord{
		PortID:      portID,
		HostBinding: []HostBindingEntry{{Host: host, Segment: segments}},
	}
}

// MapSwitchBinding attaches a port to the physical switch interfaces
// the host is cabled to, one binding entry per connection.
func MapSwitchBinding(portID, host string, conns []types.SwitchConnection, segments []BindingSegment) (PortBindingRecord, error) {
	if len(conns) == 0 {
		return PortBindingRecord{}, &MappingError{KindBinding, portID, "no switch connections"}
	}
	if segments == nil {
		segments = []BindingSegment{}
	}
	entries := make([]SwitchBindingEntry, 0, len(conns))
	for _, c := range conns {
		entries = append(entries, SwitchBindingEntry{
			Host:      host,
			Switch:    c.SwitchID,
			Interface: c.PortID,
			Segment:   segments,
		})
	}
	return PortBindingRecord{PortID: portID, SwitchBinding: entries}, nil
}

// TenantDeleteRecords builds minimal delete payloads for tenants.
func TenantDeleteRecords(ids []string) []IDRecord {
	records := make([]IDRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, IDRecord{ID: id})
	}
	return records
}
