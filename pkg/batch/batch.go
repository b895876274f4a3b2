package batch

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/fabricsync/fabricsync/pkg/types"
	"github.com/fabricsync/fabricsync/pkg/wire"
)

// Verb is the wire verb of one operation. DELETE carries a body of
// identifying records, unlike typical REST semantics.
type Verb string

const (
	GET    Verb = "GET"
	POST   Verb = "POST"
	PUT    Verb = "PUT"
	DELETE Verb = "DELETE"
)

// Operation is one logical wire call: a path rooted at
// region/<name>/, a verb, and an optional body.
type Operation struct {
	Path string
	Verb Verb
	Body interface{}
}

// createOrder is the referential dependency order among resource
// kinds. Creation follows it; teardown follows the reverse.
var createOrder = []wire.Kind{
	wire.KindTenant,
	wire.KindNetwork,
	wire.KindSegment,
	wire.KindInstance,
	wire.KindPort,
	wire.KindBinding,
}

// CreateRank returns the position of kind in the creation order.
// Lower ranks must be created first.
func CreateRank(kind wire.Kind) int {
	for i, k := range createOrder {
		if k == kind {
			return i
		}
	}
	return len(createOrder)
}

// DeleteRank returns the position of kind in the teardown order,
// which is the creation order reversed.
func DeleteRank(kind wire.Kind) int {
	return len(createOrder) - 1 - CreateRank(kind)
}

// Paths builds controller resource paths for one region.
type Paths struct {
	Region string
}

// RegionRoot is the collection path for region create/delete.
func (p Paths) RegionRoot() string {
	return "region/"
}

// RegionResource addresses one region by name.
func (p Paths) RegionResource(name string) string {
	return "region/" + name
}

// Sync addresses the region's sync session resource.
func (p Paths) Sync() string {
	return fmt.Sprintf("region/%s/sync", p.Region)
}

// Tenants addresses the tenant collection, optionally filtered.
func (p Paths) Tenants(tenantID string) string {
	path := fmt.Sprintf("region/%s/tenant", p.Region)
	if tenantID != "" {
		path += "?tenantId=" + url.QueryEscape(tenantID)
	}
	return path
}

// Networks addresses the network collection.
func (p Paths) Networks() string {
	return fmt.Sprintf("region/%s/network", p.Region)
}

// Segments addresses the segment collection.
func (p Paths) Segments() string {
	return fmt.Sprintf("region/%s/segment", p.Region)
}

// Instances addresses the per-type instance collection, optionally
// scoped to a tenant.
func (p Paths) Instances(t types.InstanceType, tenantID string) string {
	path := fmt.Sprintf("region/%s/%s", p.Region, t.Endpoint())
	if tenantID != "" {
		path += "?tenantId=" + url.QueryEscape(tenantID)
	}
	return path
}

// Ports addresses the port collection.
func (p Paths) Ports() string {
	return fmt.Sprintf("region/%s/port", p.Region)
}

// PortFilter addresses ports filtered by port id, instance id and
// instance type, the shape used by single-port deletes.
func (p Paths) PortFilter(portID, instanceID string, t types.InstanceType) string {
	return fmt.Sprintf("region/%s/port?portId=%s&id=%s&type=%s",
		p.Region, url.QueryEscape(portID), url.QueryEscape(instanceID), t.Endpoint())
}

// InstancePorts addresses ports filtered by owning instance.
func (p Paths) InstancePorts(instanceID string, t types.InstanceType) string {
	return fmt.Sprintf("region/%s/port?id=%s&type=%s",
		p.Region, url.QueryEscape(instanceID), t.Endpoint())
}

// PortBinding addresses the binding sub-resource of one port. Binding
// endpoints are per-resource, never bulk.
func (p Paths) PortBinding(portID string) string {
	return fmt.Sprintf("region/%s/port/%s/binding", p.Region, portID)
}

// InstanceGroup is one per-type instance batch.
type InstanceGroup struct {
	Type    types.InstanceType
	Records []wire.InstanceRecord
}

// GroupInstances splits instance records by type into at most four
// batches in the fixed order dhcp, vm, baremetal, router. Types with
// zero members produce no group, so no call is issued for them.
func GroupInstances(byType map[types.InstanceType][]wire.InstanceRecord) []InstanceGroup {
	var groups []InstanceGroup
	for _, t := range types.AllInstanceTypes {
		records := byType[t]
		if len(records) == 0 {
			continue
		}
		sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
		groups = append(groups, InstanceGroup{Type: t, Records: records})
	}
	return groups
}

// InstanceOps renders per-type instance batches as create or delete
// operations against their endpoints.
func (p Paths) InstanceOps(groups []InstanceGroup, verb Verb, tenantID string) []Operation {
	ops := make([]Operation, 0, len(groups))
	for _, g := range groups {
		path := p.Instances(g.Type, tenantID)
		ops = append(ops, Operation{Path: path, Verb: verb, Body: g.Records})
	}
	return ops
}

// InstanceDeleteOp builds the minimal-payload bulk delete for one
// instance type. Deletes never carry the full mapped record.
func (p Paths) InstanceDeleteOp(t types.InstanceType, ids []string) Operation {
	records := make([]wire.IDRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, wire.IDRecord{ID: id})
	}
	return Operation{Path: p.Instances(t, ""), Verb: DELETE, Body: records}
}

// PortCreateOp builds the single bulk port call. Ports are never
// split across calls regardless of instance type.
func (p Paths) PortCreateOp(records []wire.PortRecord) Operation {
	return Operation{Path: p.Ports(), Verb: POST, Body: records}
}

// BindingOp builds one binding call for one port.
func (p Paths) BindingOp(record wire.PortBindingRecord, verb Verb) Operation {
	return Operation{
		Path: p.PortBinding(record.PortID),
		Verb: verb,
		Body: []wire.PortBindingRecord{record},
	}
}

// SegmentDeleteOp builds the minimal-payload segment bulk delete.
func (p Paths) SegmentDeleteOp(segments []types.Segment) Operation {
	records := make([]wire.IDRecord, 0, len(segments))
	for _, s := range segments {
		records = append(records, wire.IDRecord{ID: s.ID})
	}
	return Operation{Path: p.Segments(), Verb: DELETE, Body: records}
}
