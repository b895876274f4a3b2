/*
Package session manages the claimed, time-bounded right to push a
batch of changes to a controller region.

The machine moves IDLE -> SYNC_REQUESTED -> SYNC_IN_PROGRESS -> IDLE
on success, detouring to SYNC_FAILED on any error. One Manager holds
at most one in-flight request id; nested BeginSync calls are a usage
error, not a queue.

Concurrency across adapter instances is arbitrated entirely by the
controller: BeginSync loses immediately (ErrSyncUnavailable) when the
region already shows a sync in progress, and EndSync fails with
ErrSessionLost when the controller's requester no longer matches the
request id captured at begin. Losers fail fast; backoff belongs to the
caller.
*/
package session
