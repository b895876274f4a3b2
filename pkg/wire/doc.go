/*
Package wire defines the controller's JSON resource schema and the pure
mapping functions from the domain model onto it.

Field spellings here are bit-exact with the controller: segmentType on
segment records but segment_type inside binding segments, hostId on
instances, null tenant/network/name on minimal port delete records.
Changing a tag breaks the protocol even when the Go code still
compiles, so the records are kept in one place and covered by tests.

Mapping is total over well-formed input and rejects malformed input
with a *MappingError before any network traffic happens. Segments of
unsupported network types (flat, local) are not malformed; they are
skipped, which is how a flat network contributes no segment record to
a bulk create.
*/
package wire
