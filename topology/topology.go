package topology

import (
	"strings"

	"topicsearch.com/oqs/trie"
)

// TopicNode represents one topic in the ontology tree. It holds the raw
// questions recorded for the topic and, once built, the question trie
// covering the topic's entire subtree.
type TopicNode struct {
	Topic    string
	Depth    int
	Children []*TopicNode

	questions []string
	index     *trie.QuestionTrie
	consumed  bool
}

// AddQuestion records a raw question for the topic. Questions stay in
// literal form until the first query touching this subtree folds them into
// an index.
func (node *TopicNode) AddQuestion(question string) {
	node.questions = append(node.questions, question)
}

// DrainQuestions moves the raw questions out of the node.
func (node *TopicNode) DrainQuestions() []string {
	questions := node.questions
	node.questions = nil
	return questions
}

// CachedIndex returns the subtree trie if one has been installed and not
// yet consumed by an ancestor.
func (node *TopicNode) CachedIndex() (*trie.QuestionTrie, bool) {
	return node.index, node.index != nil
}

// TakeIndex transfers ownership of the cached subtree trie to the caller,
// leaving the node in consumed state. Returns nil if no trie is cached.
func (node *TopicNode) TakeIndex() *trie.QuestionTrie {
	index := node.index
	if index != nil {
		node.index = nil
		node.consumed = true
	}
	return index
}

// InstallIndex caches the fully merged subtree trie for the node.
func (node *TopicNode) InstallIndex(index *trie.QuestionTrie) {
	node.index = index
}

// Consumed reports whether the node's trie has been merged into an
// ancestor's index.
func (node *TopicNode) Consumed() bool {
	return node.consumed
}

// Topology is the static topic tree. The name map is the only access point:
// traversal needs just the map and the child lists, never parent pointers.
type Topology struct {
	nodes    map[string]*TopicNode
	maxDepth int
}

// Tokenize splits a flattened tree line into topic name and bracket tokens.
func Tokenize(flattened string) []string {
	return strings.Fields(flattened)
}

// Build constructs the topology from a flattened token sequence. A stack of
// currently open ancestors stands in for parent pointers: a topic token is
// attached to the stack top and pushed only when the next token opens a
// bracket, so the stack always holds exactly the chain of ancestors still
// accepting children.
func Build(tokens []string) (*Topology, error) {
	topo := &Topology{nodes: make(map[string]*TopicNode)}

	// Synthetic super-root at depth 0, above the root topic.
	superRoot := &TopicNode{}
	stack := []*TopicNode{superRoot}

	for i, token := range tokens {
		switch token {
		case "(":
			continue
		case ")":
			if len(stack) == 1 {
				return nil, &MalformedTopologyError{Reason: "unbalanced closing bracket"}
			}
			stack = stack[:len(stack)-1]
		default:
			if _, exists := topo.nodes[token]; exists {
				return nil, &MalformedTopologyError{Reason: "duplicate topic " + token}
			}
			node := &TopicNode{Topic: token, Depth: len(stack)}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
			topo.nodes[token] = node
			if node.Depth > topo.maxDepth {
				topo.maxDepth = node.Depth
			}
			if i < len(tokens)-1 && tokens[i+1] == "(" {
				stack = append(stack, node)
			}
		}
	}
	if len(stack) != 1 {
		return nil, &MalformedTopologyError{Reason: "unclosed brackets at end of input"}
	}
	if len(topo.nodes) == 0 {
		return nil, &MalformedTopologyError{Reason: "no topics"}
	}
	return topo, nil
}

// Node resolves a topic name.
func (topo *Topology) Node(topic string) (*TopicNode, error) {
	node, ok := topo.nodes[topic]
	if !ok {
		return nil, &UnknownTopicError{Topic: topic}
	}
	return node, nil
}

// AddQuestion records a question under its topic.
func (topo *Topology) AddQuestion(topic, question string) error {
	node, err := topo.Node(topic)
	if err != nil {
		return err
	}
	node.AddQuestion(question)
	return nil
}

// MaxDepth returns the depth of the deepest topic. The root topic has
// depth 1.
func (topo *Topology) MaxDepth() int {
	return topo.maxDepth
}

// TopicCount returns the number of registered topics.
func (topo *Topology) TopicCount() int {
	return len(topo.nodes)
}
