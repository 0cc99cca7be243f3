// Package word2vec trains skip-gram word embeddings on
// the pairs produced by wordembed.Pairs.
package word2vec

import (
	"math"
	"sort"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
)

// An Output is one entry of the sparse decoder output
// that a training step should push towards a desired
// value.
type Output struct {
	// Index is the decoder row.
	Index int

	// Desired is the target probability, usually 0 or 1.
	Desired float64

	// Offset is a constant added to the logit before the
	// sigmoid is applied.
	Offset float64
}

// A Net is the encoder/decoder network used to train a
// word2vec model.
type Net struct {
	In     int
	Hidden int
	Out    int

	// Encoder is the embedding table, with one row of
	// Hidden values per input ID.
	Encoder *anydiff.Var

	// Decoder is the row-major output matrix.
	Decoder *anydiff.Var

	// Biases has one entry per decoder row.
	Biases *anydiff.Var
}

// NewNet creates a new, randomized network with the given
// dimensions.
//
// The encoder is uniform in [-1, 1), the decoder is
// normal with variance 1/hidden, and the biases are 0.
func NewNet(c anyvec.Creator, in, hidden, out int) *Net {
	res := &Net{
		In:      in,
		Hidden:  hidden,
		Out:     out,
		Encoder: anydiff.NewVar(c.MakeVector(in * hidden)),
		Decoder: anydiff.NewVar(c.MakeVector(hidden * out)),
		Biases:  anydiff.NewVar(c.MakeVector(out)),
	}
	anyvec.Rand(res.Encoder.Vector, anyvec.Uniform, nil)
	res.Encoder.Vector.Scale(c.MakeNumeric(2))
	res.Encoder.Vector.AddScalar(c.MakeNumeric(-1))
	anyvec.Rand(res.Decoder.Vector, anyvec.Normal, nil)
	scaler := c.MakeNumeric(math.Sqrt(1 / float64(hidden)))
	res.Decoder.Vector.Scale(scaler)
	return res
}

// Parameters returns the trainable variables.
func (n *Net) Parameters() []*anydiff.Var {
	return []*anydiff.Var{n.Encoder, n.Decoder, n.Biases}
}

// Step performs a step of gradient descent for the sparse
// input and the desired sparse output.
//
// It returns the sigmoid cross-entropy cost before the
// step was taken.
//
// For gradient descent, the provided step size should be
// negative.
func (n *Net) Step(in map[int]anyvec.Numeric, outs []Output, stepSize anyvec.Numeric) anyvec.Numeric {
	if len(in) == 0 {
		panic("cannot have empty input")
	}
	if len(outs) == 0 {
		panic("cannot have empty desired output")
	}
	c := n.Encoder.Vector.Creator()
	inIndices := sortedKeys(in)
	hidden := n.forwardHidden(in, inIndices)
	actualRes := anydiff.NewVar(n.forwardLogits(hidden, outs))

	desired := make([]float64, len(outs))
	for i, o := range outs {
		desired[i] = o.Desired
	}
	desiredRes := anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(desired)))

	cost := anynet.SigmoidCE{}.Cost(desiredRes, actualRes, 1)
	upstream := c.MakeVector(1)
	upstream.AddScalar(c.MakeNumeric(1))
	grad := anydiff.NewGrad(actualRes)
	cost.Propagate(upstream, grad)

	n.backward(in, inIndices, hidden, grad[actualRes], outs, stepSize)
	return anyvec.Sum(cost.Output())
}

func (n *Net) forwardHidden(in map[int]anyvec.Numeric, indices []int) anyvec.Vector {
	var hidden anyvec.Vector
	for _, i := range indices {
		slice := n.Encoder.Vector.Slice(i*n.Hidden, (i+1)*n.Hidden).Copy()
		slice.Scale(in[i])
		if hidden == nil {
			hidden = slice
		} else {
			hidden.Add(slice)
		}
	}
	return hidden
}

func (n *Net) forwardLogits(hidden anyvec.Vector, outs []Output) anyvec.Vector {
	c := hidden.Creator()
	logits := make([]float64, len(outs))
	for i, o := range outs {
		row := n.decoderRow(o.Index)
		bias := anyvec.Sum(n.Biases.Vector.Slice(o.Index, o.Index+1))
		logits[i] = numericToFloat(row.Dot(hidden)) + numericToFloat(bias) + o.Offset
	}
	return c.MakeVectorData(c.MakeNumericList(logits))
}

func (n *Net) backward(in map[int]anyvec.Numeric, inIndices []int, hidden, outGrad anyvec.Vector,
	outs []Output, stepSize anyvec.Numeric) {
	var hiddenGrad anyvec.Vector

	// Gradient for the hidden layer, using the weights from
	// before the step.
	for i, o := range outs {
		upstreamComp := outGrad.Slice(i, i+1)
		rc := n.decoderRow(o.Index).Copy()
		anyvec.ScaleRepeated(rc, upstreamComp)
		if hiddenGrad == nil {
			hiddenGrad = rc
		} else {
			hiddenGrad.Add(rc)
		}
	}

	// Update the decoder weights and biases.
	for i, o := range outs {
		upstreamComp := outGrad.Slice(i, i+1)

		row := n.decoderRow(o.Index)
		rowGrad := hidden.Copy()
		anyvec.ScaleRepeated(rowGrad, upstreamComp)
		rowGrad.Scale(stepSize)
		row.Add(rowGrad)

		bias := n.Biases.Vector.Slice(o.Index, o.Index+1)
		biasGrad := upstreamComp.Copy()
		biasGrad.Scale(stepSize)
		bias.Add(biasGrad)
	}

	// Propagate through the hidden layer.
	for _, inIndex := range inIndices {
		rowStart := inIndex * n.Hidden
		row := n.Encoder.Vector.Slice(rowStart, rowStart+n.Hidden)

		scaledU := hiddenGrad.Copy()
		scaledU.Scale(in[inIndex])
		scaledU.Scale(stepSize)
		row.Add(scaledU)
	}
}

func (n *Net) decoderRow(idx int) anyvec.Vector {
	return n.Decoder.Vector.Slice(idx*n.Hidden, (idx+1)*n.Hidden)
}

func sortedKeys(m map[int]anyvec.Numeric) []int {
	var res []int
	for x := range m {
		res = append(res, x)
	}
	sort.Ints(res)
	return res
}

func numericToFloat(n anyvec.Numeric) float64 {
	switch n := n.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		panic("unsupported numeric type")
	}
}
