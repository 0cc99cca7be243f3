package word2vec

import (
	"math"
	"math/rand"

	"github.com/gridl/wordembed"
)

// An Objective decides which decoder outputs a training
// pair should be fit to.
type Objective interface {
	// NumOutputs returns the number of decoder rows the
	// objective may refer to.
	NumOutputs() int

	// Outputs produces the desired outputs for the pair.
	// The pair's Target is the network input.
	Outputs(gen *rand.Rand, p wordembed.Pair) []Output
}

// NCE is a noise-contrastive estimation objective.
//
// For every pair, the context token is pushed towards 1
// and NumSampled noise tokens are pushed towards 0.
// Each logit is offset by -log(NumSampled*Q(id)), where
// Q is the noise distribution.
type NCE struct {
	Sampler    Sampler
	NumSampled int

	// VocabSize is the number of token IDs.
	VocabSize int
}

// NumOutputs returns the vocabulary size.
func (n *NCE) NumOutputs() int {
	return n.VocabSize
}

// Outputs produces the true output followed by the
// sampled noise outputs.
func (n *NCE) Outputs(gen *rand.Rand, p wordembed.Pair) []Output {
	res := make([]Output, 0, n.NumSampled+1)
	res = append(res, Output{Index: p.Context, Desired: 1, Offset: n.offset(p.Context)})
	for i := 0; i < n.NumSampled; i++ {
		id := n.Sampler.Sample(gen)
		res = append(res, Output{Index: id, Offset: n.offset(id)})
	}
	return res
}

func (n *NCE) offset(id int) float64 {
	expected := float64(n.NumSampled) * n.Sampler.Prob(id)
	if expected <= 0 {
		return 0
	}
	return -math.Log(expected)
}

// Hierarchical is a hierarchical softmax objective.
//
// For every pair, the network is fit to the branches taken
// along the context token's path in the Hierarchy.
type Hierarchical struct {
	Hierarchy Hierarchy
}

// NumOutputs returns the number of nodes in the
// hierarchy.
func (h *Hierarchical) NumOutputs() int {
	return h.Hierarchy.NumNodes()
}

// Outputs produces one output per node on the context
// token's path.
// The result is empty if the path is empty, which only
// happens for single-token hierarchies.
func (h *Hierarchical) Outputs(gen *rand.Rand, p wordembed.Pair) []Output {
	path := h.Hierarchy.Path(p.Context)
	res := make([]Output, len(path))
	for i, x := range path {
		res[i].Index = pathElementNodeIndex(x)
		if x > 0 {
			res[i].Desired = 1
		}
	}
	return res
}
