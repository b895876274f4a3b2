/*
Package types defines the domain model mirrored into the network
controller: regions, tenants, networks, VLAN/VXLAN segments, instances,
ports, and the switch connection metadata used for baremetal bindings.

The model is the adapter-side view of the orchestration platform's
records. Types here carry no wire formatting; pkg/wire owns the
controller schema and field spellings.

# Instance classification

Every workload is exactly one of four instance types, derived from the
platform's device_owner string and the port's vnic type:

	Classify("network:dhcp...", "normal")     => dhcp
	Classify(anything, "baremetal")           => baremetal
	Classify("network:router_interface_distributed", "normal") => router
	Classify("compute:nova", "normal")        => vm

The function is total and deterministic; the baremetal vnic check wins
over owner-string checks. The instance type selects the controller
endpoint (region/<r>/dhcp|vm|baremetal|router), the port's vlan type
(native only for baremetal), and the binding shape (switch binding for
baremetal, host binding otherwise).
*/
package types
