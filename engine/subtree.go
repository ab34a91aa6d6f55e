package engine

import (
	"topicsearch.com/oqs/topology"
	"topicsearch.com/oqs/trie"
)

// subtreeIndex returns the question trie covering the topic's entire
// subtree, building and caching it on first use. The traversal is
// breadth-first from the topic: a descendant whose own subtree trie was
// finished by an earlier query is merged in wholesale and its cache slot
// consumed; otherwise the descendant's raw questions drain into the working
// trie and its children join the frontier. Depth-descending batch order
// guarantees every previously queried descendant is already summarized, so
// merges stay cheap instead of re-walking question lists.
func subtreeIndex(root *topology.TopicNode) *trie.QuestionTrie {
	if index, ok := root.CachedIndex(); ok {
		return index
	}

	working := trie.New()
	frontier := []*topology.TopicNode{root}
	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]

		if index := node.TakeIndex(); index != nil {
			// Content now lives only in the working trie; the node's slot
			// stays consumed so nothing can double-count it.
			working.Merge(index)
			continue
		}
		for _, question := range node.DrainQuestions() {
			working.AddQuestion(question)
		}
		frontier = append(frontier, node.Children...)
	}

	root.InstallIndex(working)
	return working
}
