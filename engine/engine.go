package engine

import (
	"topicsearch.com/oqs/topology"
)

// Options tune how a batch is answered.
type Options struct {
	// SkipUnknownTopics answers queries on unregistered topics with 0
	// instead of failing the whole batch.
	SkipUnknownTopics bool
}

// Run answers the whole query batch against the topology and returns one
// count per query in original arrival order. Queries are processed deepest
// topic first so every subtree index is built at most once; subsequent
// queries on the same topic - and ancestors merging it upward - reuse the
// cached trie.
func Run(topo *topology.Topology, queries []Query) ([]int, error) {
	return RunWithOptions(topo, queries, Options{})
}

func RunWithOptions(topo *topology.Topology, queries []Query, opts Options) ([]int, error) {
	results := make([]int, len(queries))
	sched, err := newSchedule(topo, queries, opts.SkipUnknownTopics)
	if err != nil {
		return nil, err
	}

	for depth := len(sched.buckets) - 1; depth >= 1; depth-- {
		for _, query := range sched.buckets[depth] {
			count := subtreeIndex(query.node).PrefixCount(query.text.prefix)
			results[sched.popArrival(query.text)] = count
		}
	}
	return results, nil
}
