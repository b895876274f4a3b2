/*
Package metrics exposes Prometheus collectors for the sync adapter:
request counts and latency per verb, sync session outcomes, and record
push counts per resource kind.

Call Register once at startup and mount Handler on the metrics listen
address. The request counters are driven by the controller wrapper so
every wire call is counted, including ones issued inside composite
operations like plug/unplug.
*/
package metrics
