/*
Package syncer runs the periodic full sync: claim the region's sync
session, push tenants, networks, segments, instances, ports and
bindings from the local model in referential dependency order, then
release the session.

A session conflict means another adapter instance currently owns the
region; the loop backs off until the next tick instead of retrying.
All pushes are idempotent upserts, so a run interrupted mid-push is
repaired by the next one.
*/
package syncer
