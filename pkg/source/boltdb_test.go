package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricsync/fabricsync/pkg/types"
)

func newTestSource(t *testing.T) *BoltSource {
	t.Helper()
	s, err := NewBoltSource(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTenantRoundTrip(t *testing.T) {
	s := newTestSource(t)

	require.NoError(t, s.PutTenant(types.Tenant{ID: "t1"}))
	require.NoError(t, s.PutTenant(types.Tenant{ID: "t2"}))

	tenants, err := s.ListTenants()
	require.NoError(t, err)
	assert.Len(t, tenants, 2)

	require.NoError(t, s.DeleteTenant("t1"))
	tenants, err = s.ListTenants()
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, "t2", tenants[0].ID)
}

func TestPutPortOverwrites(t *testing.T) {
	s := newTestSource(t)

	require.NoError(t, s.PutPort(types.Port{ID: "p1", TenantID: "t1", Name: "old"}))
	require.NoError(t, s.PutPort(types.Port{ID: "p1", TenantID: "t1", Name: "new"}))

	ports, err := s.ListPorts("t1")
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, "new", ports[0].Name)
}

// TestListNetworksByTenant tests tenant filtering including shared
// networks, which every tenant sees
func TestListNetworksByTenant(t *testing.T) {
	s := newTestSource(t)

	require.NoError(t, s.PutNetwork(types.Network{ID: "n1", TenantID: "t1"}))
	require.NoError(t, s.PutNetwork(types.Network{ID: "n2", TenantID: "t2"}))
	require.NoError(t, s.PutNetwork(types.Network{ID: "n3", TenantID: "t2", Shared: true}))

	networks, err := s.ListNetworks("t1")
	require.NoError(t, err)
	ids := make([]string, 0, len(networks))
	for _, n := range networks {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"n1", "n3"}, ids)

	all, err := s.ListNetworks("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestNetworkSegmentsSurviveStorage tests that segments round-trip
// with the network, pointer fields included
func TestNetworkSegmentsSurviveStorage(t *testing.T) {
	s := newTestSource(t)
	segID := 100

	require.NoError(t, s.PutNetwork(types.Network{
		ID:       "n1",
		TenantID: "t1",
		Segments: []types.Segment{{
			ID:             "s1",
			NetworkType:    "vlan",
			SegmentationID: &segID,
		}},
	}))

	networks, err := s.ListNetworks("t1")
	require.NoError(t, err)
	require.Len(t, networks, 1)
	require.Len(t, networks[0].Segments, 1)
	require.NotNil(t, networks[0].Segments[0].SegmentationID)
	assert.Equal(t, 100, *networks[0].Segments[0].SegmentationID)
}

func TestListPortsByTenant(t *testing.T) {
	s := newTestSource(t)

	require.NoError(t, s.PutPort(types.Port{ID: "p1", TenantID: "t1", InstanceID: "vm1"}))
	require.NoError(t, s.PutPort(types.Port{ID: "p2", TenantID: "t2", InstanceID: "vm2"}))

	ports, err := s.ListPorts("t1")
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, "p1", ports[0].ID)

	require.NoError(t, s.DeletePort("p1"))
	ports, err = s.ListPorts("t1")
	require.NoError(t, err)
	assert.Empty(t, ports)
}

// TestPortProfiles tests that ports without a stored profile are
// absent from the result, not zero-valued
func TestPortProfiles(t *testing.T) {
	s := newTestSource(t)

	require.NoError(t, s.PutPortProfile("p1", types.PortProfile{
		VnicType: "baremetal",
		Profile:  `{"local_link_information":[{"switch_id": "switch01", "port_id": "Ethernet1"}]}`,
	}))

	profiles, err := s.PortProfiles([]string{"p1", "p-missing"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "baremetal", profiles["p1"].VnicType)
	_, present := profiles["p-missing"]
	assert.False(t, present)
}

// TestDevicesFromPorts tests grouping ports by owning instance
func TestDevicesFromPorts(t *testing.T) {
	devices := DevicesFromPorts([]types.Port{
		{ID: "p1", InstanceID: "vm1", Hosts: []string{"h1"}},
		{ID: "p2", InstanceID: "vm1", Hosts: []string{"h1"}},
		{ID: "p3", InstanceID: "vm2", Hosts: []string{"h2"}},
		{ID: "p4"}, // unattached, skipped
	})

	require.Len(t, devices, 2)
	assert.Len(t, devices["vm1"].Ports, 2)
	assert.Equal(t, "vm1", devices["vm1"].ID)
	require.Len(t, devices["vm2"].Ports, 1)
	assert.Equal(t, []string{"h2"}, devices["vm2"].Ports[0].Hosts)
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewBoltSource(dir)
	require.NoError(t, err)
	require.NoError(t, s.PutTenant(types.Tenant{ID: "t1"}))
	require.NoError(t, s.Close())

	s, err = NewBoltSource(dir)
	require.NoError(t, err)
	defer s.Close()

	tenants, err := s.ListTenants()
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, "t1", tenants[0].ID)
}
