package topology

import "fmt"

// MalformedTopologyError signals an unbalanced or empty flattened tree.
// The whole batch is unusable without a complete topology.
type MalformedTopologyError struct {
	Reason string
}

func (e *MalformedTopologyError) Error() string {
	return fmt.Sprintf("malformed topology: %s", e.Reason)
}

// UnknownTopicError signals a question or query referencing a topic that is
// not present in the topology.
type UnknownTopicError struct {
	Topic string
}

func (e *UnknownTopicError) Error() string {
	return fmt.Sprintf("unknown topic %q", e.Topic)
}
