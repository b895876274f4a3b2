/*
Package controller implements the RPC wrapper: the public operations
that mirror the orchestration model into the network controller over
the Transport interface.

Each operation composes the pure mapper (pkg/wire) and batcher
(pkg/batch) with one or more transport calls in referential dependency
order. Transport errors propagate unmodified; a response that parses
but disagrees with what the protocol requires surfaces as a
*ProtocolError so callers can tell unreachable from wrong.

Composite operations (CreateInstanceBulk, PlugPortIntoNetwork,
UnplugPortFromNetwork) run their sub-calls strictly sequentially and
do not roll back on mid-sequence failure. Every create and delete is
an idempotent upsert/delete keyed by stable ids, so callers recover
from partial application by re-applying.
*/
package controller
