/*
Package transport is the HTTP JSON client to the network controller,
built on gorequest.

It sends exactly one request per Send call and never retries; retry
and backoff policy belongs to callers. DELETE requests carry bodies of
identifying records because the controller protocol requires it.
Failures here come back as *Error so the orchestrator can distinguish
"unreachable" from protocol disagreement.
*/
package transport
