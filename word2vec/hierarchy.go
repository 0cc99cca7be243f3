package word2vec

import (
	"encoding/json"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"github.com/unixpickle/splaytree"
)

func init() {
	var h Hierarchy
	serializer.RegisterTypedDeserializer(h.SerializerType(), DeserializeHierarchy)
}

// Hierarchy is used to encode token IDs for a
// hierarchical softmax layer.
//
// Each token ID is mapped to a list of node indices which
// start at 1.
// If the node index is positive, then the layer should
// opt to go right (positive) at the node.
// If the node index is negative, then the layer should
// opt to go left (negative) at the node.
type Hierarchy map[int][]int

// DeserializeHierarchy deserializes a Hierarchy.
func DeserializeHierarchy(d []byte) (Hierarchy, error) {
	var res Hierarchy
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, essentials.AddCtx("deserialize Hierarchy", err)
	}
	return res, nil
}

// BuildHierarchy builds a hierarchy using Huffman coding.
// The i-th probability (or frequency) belongs to token ID
// i, as in wordembed.Vocab.Frequencies.
func BuildHierarchy(probs []float64) Hierarchy {
	res := Hierarchy{}
	if len(probs) == 0 {
		return res
	}
	node := buildHuffman(probs)
	nodeIdx := 1
	node.PutInHierarchy(res, nil, &nodeIdx)
	return res
}

// Path gets the path for a token ID.
func (h Hierarchy) Path(id int) []int {
	return h[id]
}

// NumNodes computes the total number of node IDs.
func (h Hierarchy) NumNodes() int {
	var max int
	for _, x := range h {
		for _, k := range x {
			if k < 0 {
				k *= -1
			}
			if k > max {
				max = k
			}
		}
	}
	return max
}

// SerializerType returns the unique ID used to serialize
// a Hierarchy.
func (h Hierarchy) SerializerType() string {
	return "github.com/gridl/wordembed/word2vec.Hierarchy"
}

// Serialize serializes the Hierarchy.
func (h Hierarchy) Serialize() ([]byte, error) {
	return json.Marshal(h)
}

// pathElementNodeIndex converts an element of a path into
// a 0-based decoder row.
func pathElementNodeIndex(pathElement int) int {
	if pathElement > 0 {
		return pathElement - 1
	}
	return -pathElement - 1
}

func buildHuffman(probs []float64) *huffmanNode {
	tree := &splaytree.Tree{}
	for id, prob := range probs {
		tree.Insert(treeValue{Node: &huffmanNode{ID: id}, Prob: prob})
	}
	for {
		min1, ok := popMinProb(tree)
		if !ok {
			panic("no nodes")
		}
		min2, ok := popMinProb(tree)
		if !ok {
			return min1.Node
		}
		node := &huffmanNode{
			Left:  min2.Node,
			Right: min1.Node,
		}
		tree.Insert(treeValue{Node: node, Prob: min1.Prob + min2.Prob})
	}
}

func popMinProb(t *splaytree.Tree) (treeValue, bool) {
	if t.Root == nil {
		return treeValue{}, false
	}
	n := t.Root
	for n.Left != nil {
		n = n.Left
	}
	t.Delete(n.Value)
	return n.Value.(treeValue), true
}

type treeValue struct {
	Node *huffmanNode
	Prob float64
}

func (t treeValue) Compare(v2 splaytree.Value) int {
	if t == v2 {
		return 0
	}

	p1 := t.Prob
	p2 := v2.(treeValue).Prob
	if p1 < p2 {
		return -1
	} else if p1 > p2 {
		return 1
	}

	// Tie breaker
	id1 := t.Node.leftmostID()
	id2 := v2.(treeValue).Node.leftmostID()
	if id1 < id2 {
		return -1
	} else if id1 > id2 {
		return 1
	}
	panic("should not equal")
}

type huffmanNode struct {
	ID    int
	Left  *huffmanNode
	Right *huffmanNode
}

func (h *huffmanNode) leftmostID() int {
	for h.Left != nil {
		h = h.Left
	}
	return h.ID
}

func (h *huffmanNode) PutInHierarchy(hier Hierarchy, path []int, nodeIdx *int) {
	if h.Left == nil {
		hier[h.ID] = append([]int{}, path...)
		return
	}

	id := *nodeIdx
	(*nodeIdx)++

	path = append(path, -id)
	h.Left.PutInHierarchy(hier, path, nodeIdx)
	path[len(path)-1] = id
	h.Right.PutInHierarchy(hier, path, nodeIdx)
}
