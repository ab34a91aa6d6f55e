package trie

// QuestionTrieNode holds the number of questions whose text passes through
// the accumulated prefix and a map from the next character to the child node.
type QuestionTrieNode struct {
	QuestionCount int
	Children      map[rune]*QuestionTrieNode
}

func newNode() *QuestionTrieNode {
	return &QuestionTrieNode{Children: make(map[rune]*QuestionTrieNode)}
}

// QuestionTrie is a prefix tree over question texts. It exclusively keeps
// count of how many questions are seen with each prefix in the tree.
type QuestionTrie struct {
	Root *QuestionTrieNode
}

func New() *QuestionTrie {
	return &QuestionTrie{Root: newNode()}
}

// AddQuestion inserts a question, updating the count for each prefix.
// Every node on the character path is incremented, then the terminal node
// once more, so an exact match is counted at its own terminal in addition
// to being a prefix of itself.
func (t *QuestionTrie) AddQuestion(question string) {
	node := t.Root
	for _, char := range question {
		node.QuestionCount++
		child, ok := node.Children[char]
		if !ok {
			child = newNode()
			node.Children[char] = child
		}
		node = child
	}
	node.QuestionCount++
}

// PrefixCount returns the number of questions in the trie that start with
// the given prefix, including exact matches.
func (t *QuestionTrie) PrefixCount(prefix string) int {
	node := t.Root
	for _, char := range prefix {
		child, ok := node.Children[char]
		if !ok {
			return 0
		}
		node = child
	}
	return node.QuestionCount
}

// Merge consumes other into t. Counts of shared nodes are combined and
// branches missing from t are spliced in without copying; other must not be
// used afterwards.
func (t *QuestionTrie) Merge(other *QuestionTrie) {
	if other == nil || other.Root == nil {
		return
	}
	mergeNodes(t.Root, other.Root)
	other.Root = nil
}

func mergeNodes(parent, child *QuestionTrieNode) {
	parent.QuestionCount += child.QuestionCount
	for char, childNode := range child.Children {
		parentNode, ok := parent.Children[char]
		if !ok {
			// Parent has never seen this prefix, take the whole branch.
			parent.Children[char] = childNode
			continue
		}
		mergeNodes(parentNode, childNode)
	}
}
