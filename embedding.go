package wordembed

import "github.com/unixpickle/anyvec"

// An Embedding maps the token IDs of a Vocab to vectors.
type Embedding interface {
	// Dim returns the length of every vector.
	Dim() int

	// Embed returns a copy of the vector for the token.
	// Out-of-vocabulary tokens get the vector of UnknownID.
	Embed(token string) anyvec.Vector

	// EmbedID returns a copy of the vector for the ID.
	// Modifying it does not affect the embedding.
	EmbedID(id int) anyvec.Vector

	// Lookup finds the n nearest token IDs by cosine
	// similarity, along with each similarity.
	//
	// If n is greater than the total number of words,
	// there will be fewer than n results.
	Lookup(vec anyvec.Vector, n int) ([]int, []anyvec.Numeric)

	// Token looks up the token for the token ID.
	Token(id int) string
}
