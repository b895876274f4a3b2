package controller

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/fabricsync/fabricsync/pkg/batch"
	"github.com/fabricsync/fabricsync/pkg/log"
	"github.com/fabricsync/fabricsync/pkg/metrics"
	"github.com/fabricsync/fabricsync/pkg/types"
	"github.com/fabricsync/fabricsync/pkg/wire"
)

// Wrapper is the adapter's public API against one controller region.
// One instance issues strictly sequential requests; composite
// operations are not rolled back on mid-sequence failure, callers
// reconcile by idempotent re-application.
type Wrapper struct {
	region       string
	syncInterval int
	tr           Transport
	paths        batch.Paths
	logger       zerolog.Logger
}

// NewWrapper binds a wrapper to one region over the given transport.
func NewWrapper(region string, syncInterval int, tr Transport) *Wrapper {
	return &Wrapper{
		region:       region,
		syncInterval: syncInterval,
		tr:           tr,
		paths:        batch.Paths{Region: region},
		logger:       log.WithComponent("controller").With().Str("region", region).Logger(),
	}
}

// Region returns the bound region name.
func (w *Wrapper) Region() string {
	return w.region
}

func (w *Wrapper) send(op batch.Operation) ([]map[string]interface{}, error) {
	start := time.Now()
	resp, err := w.tr.Send(op.Path, op.Verb, op.Body)
	metrics.RequestDuration.WithLabelValues(string(op.Verb)).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RequestsTotal.WithLabelValues(string(op.Verb), result).Inc()
	if err != nil {
		w.logger.Error().Err(err).Str("path", op.Path).Str("verb", string(op.Verb)).Msg("controller request failed")
		return nil, err
	}
	w.logger.Debug().Str("path", op.Path).Str("verb", string(op.Verb)).Msg("controller request")
	return resp, nil
}

// RegisterRegion upserts this wrapper's region descriptor, including
// its sync interval. Safe to repeat.
func (w *Wrapper) RegisterRegion() error {
	op := batch.Operation{
		Path: w.paths.RegionResource(w.region),
		Verb: batch.PUT,
		Body: []wire.RegionRecord{{Name: w.region, SyncInterval: w.syncInterval}},
	}
	_, err := w.send(op)
	return err
}

// CreateRegion creates a region by name. No client-side dedup: two
// identical calls produce two wire-identical requests.
func (w *Wrapper) CreateRegion(name string) error {
	op := batch.Operation{
		Path: w.paths.RegionRoot(),
		Verb: batch.POST,
		Body: []wire.RegionRecord{{Name: name}},
	}
	_, err := w.send(op)
	return err
}

// DeleteRegion deletes a region by name.
func (w *Wrapper) DeleteRegion(name string) error {
	op := batch.Operation{
		Path: w.paths.RegionRoot(),
		Verb: batch.DELETE,
		Body: []wire.RegionRecord{{Name: name}},
	}
	_, err := w.send(op)
	return err
}

// GetTenants fetches all tenants known to the region.
func (w *Wrapper) GetTenants() ([]map[string]interface{}, error) {
	return w.send(batch.Operation{Path: w.paths.Tenants(""), Verb: batch.GET})
}

// CreateTenantBulk creates tenants as existence markers.
func (w *Wrapper) CreateTenantBulk(ids []string) error {
	records := make([]wire.TenantRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, wire.TenantRecord{ID: id})
	}
	op := batch.Operation{Path: w.paths.Tenants(""), Verb: batch.POST, Body: records}
	_, err := w.send(op)
	return err
}

// DeleteTenantBulk deletes tenants with minimal id-only records.
func (w *Wrapper) DeleteTenantBulk(ids []string) error {
	op := batch.Operation{
		Path: w.paths.Tenants(""),
		Verb: batch.DELETE,
		Body: wire.TenantDeleteRecords(ids),
	}
	_, err := w.send(op)
	return err
}

// CreateNetworkBulk creates networks and then the union of their
// eligible segments. A segment is never sent before its owning
// network; a network whose segments are all ineligible (e.g. flat)
// contributes no segment record.
func (w *Wrapper) CreateNetworkBulk(tenantID string, networks []types.Network) error {
	netRecords := make([]wire.NetworkRecord, 0, len(networks))
	var segRecords []wire.SegmentRecord
	for _, n := range networks {
		netRecords = append(netRecords, wire.MapNetwork(n))
		segs, err := wire.MapSegments(n.ID, n.Segments)
		if err != nil {
			return err
		}
		segRecords = append(segRecords, segs...)
	}

	op := batch.Operation{Path: w.paths.Networks(), Verb: batch.POST, Body: netRecords}
	if _, err := w.send(op); err != nil {
		return err
	}
	if len(segRecords) == 0 {
		return nil
	}
	op = batch.Operation{Path: w.paths.Segments(), Verb: batch.POST, Body: segRecords}
	_, err := w.send(op)
	return err
}

// DeleteNetworkBulk deletes networks for a tenant in one call.
func (w *Wrapper) DeleteNetworkBulk(tenantID string, networkIDs []string) error {
	records := make([]wire.NetworkDeleteRecord, 0, len(networkIDs))
	for _, id := range networkIDs {
		records = append(records, wire.NetworkDeleteRecord{ID: id, TenantID: tenantID})
	}
	op := batch.Operation{Path: w.paths.Networks(), Verb: batch.DELETE, Body: records}
	_, err := w.send(op)
	return err
}

// CreateNetworkSegments pushes segments for one network, independent
// of the network lifecycle. Used for dynamic segment churn during
// binding.
func (w *Wrapper) CreateNetworkSegments(tenantID, networkID string, segments []types.Segment) error {
	records, err := wire.MapSegments(networkID, segments)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	op := batch.Operation{Path: w.paths.Segments(), Verb: batch.POST, Body: records}
	_, err = w.send(op)
	return err
}

// DeleteNetworkSegments deletes segments with minimal id-only records.
func (w *Wrapper) DeleteNetworkSegments(tenantID string, segments []types.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	_, err := w.send(w.paths.SegmentDeleteOp(segments))
	return err
}

// CreateInstanceBulk pushes a tenant's devices and their ports in
// dependency order: tenant check, up to four per-type instance
// batches, one bulk port call, then one binding call per port. Switch
// bindings are selected for baremetal ports from the profile's
// local-link-information; everything else gets a host binding.
func (w *Wrapper) CreateInstanceBulk(tenantID string, ports map[string]types.Port, devices map[string]types.Device, profiles map[string]types.PortProfile) error {
	if err := w.ensureTenant(tenantID); err != nil {
		return err
	}

	portTypes := make(map[string]types.InstanceType, len(ports))
	for id, p := range ports {
		portTypes[id] = types.Classify(p.DeviceOwner, profiles[id].VnicType)
	}

	byType := make(map[types.InstanceType][]wire.InstanceRecord)
	for _, devID := range sortedKeys(devices) {
		dev := devices[devID]
		if len(dev.Ports) == 0 {
			continue
		}
		itype, ok := portTypes[dev.Ports[0].ID]
		if !ok {
			continue
		}
		host := ""
		if len(dev.Ports[0].Hosts) > 0 {
			host = dev.Ports[0].Hosts[0]
		}
		record := wire.MapInstance(types.Instance{ID: dev.ID, Host: host})
		byType[itype] = append(byType[itype], record)
	}

	groups := batch.GroupInstances(byType)
	for _, op := range w.paths.InstanceOps(groups, batch.POST, tenantID) {
		if _, err := w.send(op); err != nil {
			return err
		}
	}

	portIDs := sortedKeys(ports)
	portRecords := make([]wire.PortRecord, 0, len(portIDs))
	for _, id := range portIDs {
		portRecords = append(portRecords, wire.MapPort(ports[id], portTypes[id]))
	}
	if len(portRecords) > 0 {
		if _, err := w.send(w.paths.PortCreateOp(portRecords)); err != nil {
			return err
		}
	}

	for _, id := range portIDs {
		port := ports[id]
		record, err := w.bindingRecord(port, portTypes[id], profiles[id], nil)
		if err != nil {
			return err
		}
		if _, err := w.send(w.paths.BindingOp(record, batch.POST)); err != nil {
			return err
		}
	}
	return nil
}

// bindingRecord selects the host or switch binding shape for a port.
func (w *Wrapper) bindingRecord(port types.Port, itype types.InstanceType, profile types.PortProfile, segments []wire.BindingSegment) (wire.PortBindingRecord, error) {
	if itype == types.InstanceBaremetal {
		conns, err := profile.SwitchConnections()
		if err != nil {
			return wire.PortBindingRecord{}, err
		}
		if len(conns) > 0 {
			return wire.MapSwitchBinding(port.ID, port.Host(), conns, segments)
		}
	}
	return wire.MapHostBinding(port.ID, port.Host(), segments), nil
}

// ensureTenant checks the tenant exists on the controller and creates
// it when missing.
func (w *Wrapper) ensureTenant(tenantID string) error {
	resp, err := w.send(batch.Operation{Path: w.paths.Tenants(tenantID), Verb: batch.GET})
	if err != nil {
		return err
	}
	for _, record := range resp {
		if id, _ := record["id"].(string); id == tenantID {
			return nil
		}
	}
	return w.CreateTenantBulk([]string{tenantID})
}

// DeleteVMBulk deletes VM instances with minimal records.
func (w *Wrapper) DeleteVMBulk(tenantID string, ids []string) error {
	return w.deleteInstanceBulk(types.InstanceVM, ids)
}

// DeleteDHCPBulk deletes DHCP instances with minimal records.
func (w *Wrapper) DeleteDHCPBulk(tenantID string, ids []string) error {
	return w.deleteInstanceBulk(types.InstanceDHCP, ids)
}

// DeleteBaremetalBulk deletes baremetal instances with minimal records.
func (w *Wrapper) DeleteBaremetalBulk(tenantID string, ids []string) error {
	return w.deleteInstanceBulk(types.InstanceBaremetal, ids)
}

// DeleteRouterBulk deletes router instances with minimal records.
func (w *Wrapper) DeleteRouterBulk(tenantID string, ids []string) error {
	return w.deleteInstanceBulk(types.InstanceRouter, ids)
}

func (w *Wrapper) deleteInstanceBulk(t types.InstanceType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := w.send(w.paths.InstanceDeleteOp(t, ids))
	return err
}

// DeletePort deletes one port, identified both by query filters and a
// minimal port body.
func (w *Wrapper) DeletePort(portID, instanceID string, itype types.InstanceType) error {
	op := batch.Operation{
		Path: w.paths.PortFilter(portID, instanceID, itype),
		Verb: batch.DELETE,
		Body: []wire.PortRecord{wire.MinimalPort(portID, instanceID, itype)},
	}
	_, err := w.send(op)
	return err
}

// GetInstancePorts fetches the ports still attached to an instance.
func (w *Wrapper) GetInstancePorts(instanceID string, itype types.InstanceType) ([]map[string]interface{}, error) {
	return w.send(batch.Operation{
		Path: w.paths.InstancePorts(instanceID, itype),
		Verb: batch.GET,
	})
}

// PlugParams describes one port attachment.
type PlugParams struct {
	InstanceID     string
	Host           string
	PortID         string
	NetworkID      string
	TenantID       string
	PortName       string
	DeviceOwner    string
	VnicType       string
	SecurityGroup  string // accepted for interface parity, not on the wire
	Segments       []types.Segment
	SwitchBindings []types.SwitchConnection
}

// PlugPortIntoNetwork ensures the instance exists, creates the port,
// then creates its binding. VM ports get a host binding with the
// mapped segments, baremetal ports a switch binding per connection;
// dhcp and router ports carry no binding of their own.
func (w *Wrapper) PlugPortIntoNetwork(p PlugParams) error {
	itype := types.Classify(p.DeviceOwner, p.VnicType)

	instOp := batch.Operation{
		Path: w.paths.Instances(itype, p.TenantID),
		Verb: batch.POST,
		Body: []wire.InstanceRecord{wire.MapInstance(types.Instance{ID: p.InstanceID, Host: p.Host})},
	}
	if _, err := w.send(instOp); err != nil {
		return err
	}

	port := types.Port{
		ID:         p.PortID,
		NetworkID:  p.NetworkID,
		TenantID:   p.TenantID,
		InstanceID: p.InstanceID,
		Name:       p.PortName,
		Hosts:      []string{p.Host},
	}
	if _, err := w.send(w.paths.PortCreateOp([]wire.PortRecord{wire.MapPort(port, itype)})); err != nil {
		return err
	}

	segments, err := wire.MapBindingSegments(p.NetworkID, p.Segments)
	if err != nil {
		return err
	}
	switch itype {
	case types.InstanceVM:
		record := wire.MapHostBinding(p.PortID, p.Host, segments)
		_, err = w.send(w.paths.BindingOp(record, batch.POST))
	case types.InstanceBaremetal:
		record, berr := wire.MapSwitchBinding(p.PortID, p.Host, p.SwitchBindings, segments)
		if berr != nil {
			return berr
		}
		_, err = w.send(w.paths.BindingOp(record, batch.POST))
	}
	return err
}

// UnplugParams describes one port detachment.
type UnplugParams struct {
	InstanceID     string
	DeviceOwner    string
	Host           string
	PortID         string
	NetworkID      string
	TenantID       string
	VnicType       string
	SwitchBindings []types.SwitchConnection
}

// UnplugPortFromNetwork deletes the binding first so the controller
// never observes an active binding to a deleted port, then the port,
// and finally the instance when no ports remain on it. The
// check-then-delete is serialized by the caller's sync session;
// concurrent unpluggers of the same instance must share one.
func (w *Wrapper) UnplugPortFromNetwork(p UnplugParams) error {
	itype := types.Classify(p.DeviceOwner, p.VnicType)

	switch itype {
	case types.InstanceVM:
		record := wire.MapHostBinding(p.PortID, p.Host, nil)
		if _, err := w.send(w.paths.BindingOp(record, batch.DELETE)); err != nil {
			return err
		}
	case types.InstanceBaremetal:
		record, err := wire.MapSwitchBinding(p.PortID, p.Host, p.SwitchBindings, nil)
		if err != nil {
			return err
		}
		if _, err := w.send(w.paths.BindingOp(record, batch.DELETE)); err != nil {
			return err
		}
	}

	if err := w.DeletePort(p.PortID, p.InstanceID, itype); err != nil {
		return err
	}

	remaining, err := w.GetInstancePorts(p.InstanceID, itype)
	if err != nil {
		return fmt.Errorf("failed to check remaining ports: %w", err)
	}
	if len(remaining) > 0 {
		return nil
	}
	return w.deleteInstanceBulk(itype, []string{p.InstanceID})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
