/*
Package batch turns mapped wire records into ordered controller
operations: (path, verb, body) triples.

The referential dependency order among resource kinds is declared data
(tenant, network, segment, instance, port, binding), not an emergent
property of call sequence. Creation walks it forward, teardown walks
it backward, and CreateRank/DeleteRank expose it for tests.

Grouping policy: instances batch per type with empty groups omitted,
ports go in one bulk call, bindings go one call per port because the
binding path embeds the port id, and deletes carry minimal id-only
records to avoid stale-field drift on the controller.
*/
package batch
