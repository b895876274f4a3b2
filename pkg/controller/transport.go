package controller

import "github.com/fabricsync/fabricsync/pkg/batch"

// Transport sends one JSON request to the controller and returns the
// parsed response. Implementations own connectivity, TLS and auth;
// they never retry. A transport error means the controller was
// unreachable or answered outside 2xx.
type Transport interface {
	Send(path string, verb batch.Verb, body interface{}) ([]map[string]interface{}, error)
}
