package word2vec

import (
	"github.com/gridl/wordembed"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var e Embed
	serializer.RegisterTypedDeserializer(e.SerializerType(), DeserializeEmbed)
}

var _ wordembed.Embedding = (*Embed)(nil)

// Embed is a trained word embedding.
type Embed struct {
	Vocab *wordembed.Vocab

	// Vectors contains one row per token ID.
	Vectors *anyvec.Matrix
}

// DeserializeEmbed deserializes an Embed.
func DeserializeEmbed(d []byte) (*Embed, error) {
	var res Embed
	var rows, cols int
	var data *anyvecsave.S
	if err := serializer.DeserializeAny(d, &res.Vocab, &rows, &cols, &data); err != nil {
		return nil, essentials.AddCtx("deserialize Embed", err)
	}
	res.Vectors = &anyvec.Matrix{
		Data: data.Vector,
		Rows: rows,
		Cols: cols,
	}
	return &res, nil
}

// NewEmbed creates an Embed from the encoder of a Net.
//
// The encoder is copied, so the Net may continue training
// after the Embed is created.
func NewEmbed(n *Net, v *wordembed.Vocab) *Embed {
	if n.In != v.Len() {
		panic("vocabulary size does not match network input")
	}
	return &Embed{
		Vocab: v,
		Vectors: &anyvec.Matrix{
			Data: n.Encoder.Vector.Copy(),
			Rows: n.In,
			Cols: n.Hidden,
		},
	}
}

// Dim returns the dimensionality of the embedding.
func (e *Embed) Dim() int {
	return e.Vectors.Cols
}

// Token looks up the token for the token ID.
func (e *Embed) Token(id int) string {
	return e.Vocab.Token(id)
}

// Normalize makes all the vectors unit length.
func (e *Embed) Normalize() {
	anyvec.ScaleChunks(e.Vectors.Data, e.inverseNorms())
}

// Embed returns the embedding for the token.
func (e *Embed) Embed(token string) anyvec.Vector {
	return e.EmbedID(e.Vocab.ID(token))
}

// EmbedID returns the embedding for the token ID.
func (e *Embed) EmbedID(id int) anyvec.Vector {
	return extractRow(e.Vectors, id).Copy()
}

// Lookup finds the n closest token IDs to the given
// vector, using cosine similarity.
// For each ID, it also returns the similarity.
//
// If n is greater than the number of IDs, then there will
// be fewer than n results.
func (e *Embed) Lookup(vec anyvec.Vector, n int) ([]int, []anyvec.Numeric) {
	if vec.Len() != e.Vectors.Cols {
		panic("incorrect vector length")
	}

	c := e.Vectors.Data.Creator()
	masked := e.Vectors.Data.Copy()
	anyvec.ScaleChunks(masked, e.inverseNorms())
	normVec := vec.Copy()
	normVec.Scale(c.NumOps().Div(c.MakeNumeric(1), anyvec.Norm(vec)))
	anyvec.ScaleRepeated(masked, normVec)

	dots := anyvec.SumCols(masked, e.Vectors.Rows)

	var ids []int
	var sims []anyvec.Numeric
	for i := 0; i < n && i < dots.Len(); i++ {
		idx := anyvec.MaxIndex(dots)
		ids = append(ids, idx)

		entry := dots.Slice(idx, idx+1)
		sims = append(sims, anyvec.Sum(entry))

		// Similarities are at least -1, so this entry will
		// not be picked again.
		entry.AddScalar(c.MakeNumeric(-3))
	}
	return ids, sims
}

// Nearest finds the n tokens closest to the token,
// excluding the token itself.
func (e *Embed) Nearest(token string, n int) []string {
	self := e.Vocab.ID(token)
	ids, _ := e.Lookup(e.EmbedID(self), n+1)
	var res []string
	for _, id := range ids {
		if id != self && len(res) < n {
			res = append(res, e.Token(id))
		}
	}
	return res
}

// SerializerType returns the unique ID used to serialize
// an Embed with the serializer package.
func (e *Embed) SerializerType() string {
	return "github.com/gridl/wordembed/word2vec.Embed"
}

// Serialize serializes the Embed.
func (e *Embed) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		e.Vocab,
		e.Vectors.Rows,
		e.Vectors.Cols,
		&anyvecsave.S{Vector: e.Vectors.Data},
	)
}

func (e *Embed) inverseNorms() anyvec.Vector {
	c := e.Vectors.Data.Creator()
	squares := e.Vectors.Data.Copy()
	anyvec.Pow(squares, c.MakeNumeric(2))
	norms := anyvec.SumCols(squares, e.Vectors.Rows)
	anyvec.Pow(norms, c.MakeNumeric(-0.5))
	return norms
}

func extractRow(mat *anyvec.Matrix, row int) anyvec.Vector {
	idx := mat.Cols * row
	return mat.Data.Slice(idx, idx+mat.Cols)
}
