package controller

import "fmt"

// ProtocolError means the controller answered with well-formed JSON
// that is missing required fields or disagrees with the session
// identity. It is distinct from a transport error so callers can tell
// "controller unreachable" from "controller disagreed".
type ProtocolError struct {
	Path   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error on %s: %s", e.Path, e.Reason)
}
