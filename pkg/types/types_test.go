package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassify tests the instance type classification from device
// owner and vnic type
func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		deviceOwner string
		vnicType    string
		expected    InstanceType
	}{
		{
			name:        "dhcp owner",
			deviceOwner: "network:dhcp",
			vnicType:    "normal",
			expected:    InstanceDHCP,
		},
		{
			name:        "dhcp owner with suffix",
			deviceOwner: "network:dhcp:agent1",
			vnicType:    "normal",
			expected:    InstanceDHCP,
		},
		{
			name:        "compute owner",
			deviceOwner: "compute:nova",
			vnicType:    "normal",
			expected:    InstanceVM,
		},
		{
			name:        "bare compute owner",
			deviceOwner: "compute",
			vnicType:    "normal",
			expected:    InstanceVM,
		},
		{
			name:        "dvr interface owner",
			deviceOwner: "network:router_interface_distributed",
			vnicType:    "normal",
			expected:    InstanceRouter,
		},
		{
			name:        "router interface owner",
			deviceOwner: "network:router_interface",
			vnicType:    "normal",
			expected:    InstanceRouter,
		},
		{
			name:        "baremetal vnic wins over dhcp owner",
			deviceOwner: "network:dhcp",
			vnicType:    "baremetal",
			expected:    InstanceBaremetal,
		},
		{
			name:        "baremetal vnic wins over router owner",
			deviceOwner: "network:router_interface_distributed",
			vnicType:    "baremetal",
			expected:    InstanceBaremetal,
		},
		{
			name:        "unknown owner falls back to vm",
			deviceOwner: "something:else",
			vnicType:    "normal",
			expected:    InstanceVM,
		},
		{
			name:        "empty owner and vnic",
			deviceOwner: "",
			vnicType:    "",
			expected:    InstanceVM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.deviceOwner, tt.vnicType)
			assert.Equal(t, tt.expected, result)
			assert.True(t, result.Valid(), "classification must be total")
		})
	}
}

// TestVlanTypeFor tests that only baremetal ports get native vlans
func TestVlanTypeFor(t *testing.T) {
	assert.Equal(t, VlanNative, VlanTypeFor(InstanceBaremetal))
	assert.Equal(t, VlanAllowed, VlanTypeFor(InstanceVM))
	assert.Equal(t, VlanAllowed, VlanTypeFor(InstanceDHCP))
	assert.Equal(t, VlanAllowed, VlanTypeFor(InstanceRouter))
}

// TestSegmentEligible tests which segment network types are translated
func TestSegmentEligible(t *testing.T) {
	assert.True(t, Segment{NetworkType: NetworkTypeVLAN}.Eligible())
	assert.True(t, Segment{NetworkType: NetworkTypeVXLAN}.Eligible())
	assert.False(t, Segment{NetworkType: "flat"}.Eligible())
	assert.False(t, Segment{NetworkType: "local"}.Eligible())
	assert.False(t, Segment{}.Eligible())
}

// TestSwitchConnections tests parsing local-link-information from a
// binding profile
func TestSwitchConnections(t *testing.T) {
	profile := PortProfile{
		VnicType: "baremetal",
		Profile:  `{"local_link_information":[{"switch_id": "switch01", "port_id": "Ethernet1", "switch_info": "switch01"}]}`,
	}

	conns, err := profile.SwitchConnections()
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "switch01", conns[0].SwitchID)
	assert.Equal(t, "Ethernet1", conns[0].PortID)
	assert.Equal(t, "switch01", conns[0].SwitchInfo)
}

func TestSwitchConnectionsEmptyProfile(t *testing.T) {
	conns, err := PortProfile{VnicType: "normal"}.SwitchConnections()
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestSwitchConnectionsMalformedProfile(t *testing.T) {
	_, err := PortProfile{Profile: "{not json"}.SwitchConnections()
	assert.Error(t, err)
}

// TestPortHost tests first-host selection on ports
func TestPortHost(t *testing.T) {
	assert.Equal(t, "h1", Port{Hosts: []string{"h1", "h2"}}.Host())
	assert.Equal(t, "", Port{}.Host())
}
