package engine

import (
	"topicsearch.com/oqs/topology"
)

// Query is one prefix-count request. Arrival is its 0-based position in the
// input batch and decides where the result lands.
type Query struct {
	Topic   string
	Prefix  string
	Arrival int
}

type queryText struct {
	topic  string
	prefix string
}

type scheduledQuery struct {
	node *topology.TopicNode
	text queryText
}

// schedule is a pseudo ordering of the batch by topic depth, built without
// sorting: one bucket per depth, processed from the deepest bucket down.
// Duplicate queries share computed work but each keeps its own arrival slot,
// tracked as a FIFO queue per query text.
type schedule struct {
	buckets  [][]scheduledQuery
	arrivals map[queryText][]int
}

func newSchedule(topo *topology.Topology, queries []Query, skipUnknown bool) (*schedule, error) {
	sched := &schedule{
		buckets:  make([][]scheduledQuery, topo.MaxDepth()+1),
		arrivals: make(map[queryText][]int, len(queries)),
	}
	for _, query := range queries {
		node, err := topo.Node(query.Topic)
		if err != nil {
			if skipUnknown {
				// Unscheduled queries keep their zero result slot.
				continue
			}
			return nil, err
		}
		text := queryText{topic: query.Topic, prefix: query.Prefix}
		sched.buckets[node.Depth] = append(sched.buckets[node.Depth], scheduledQuery{
			node: node,
			text: text,
		})
		sched.arrivals[text] = append(sched.arrivals[text], query.Arrival)
	}
	return sched, nil
}

// popArrival returns the next pending arrival index for the query text, in
// FIFO order among duplicates.
func (sched *schedule) popArrival(text queryText) int {
	queue := sched.arrivals[text]
	arrival := queue[0]
	sched.arrivals[text] = queue[1:]
	return arrival
}
