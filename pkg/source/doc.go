/*
Package source provides read access to the orchestration platform's
network model: the tenants, networks, segments, ports and binding
profiles a sync pushes to the controller.

The Source interface is what the sync loop consumes. BoltSource backs
it with a local BoltDB file of JSON-encoded records, populated by the
platform-side feed through the Put methods; the sync loop itself never
writes. DevicesFromPorts derives the per-instance device view bulk
instance creation needs from the flat port list.
*/
package source
