package wordembed

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var v Vocab
	serializer.RegisterTypedDeserializer(v.SerializerType(), DeserializeVocab)
}

const (
	// UnknownToken stands in for every token that is not
	// part of a vocabulary.
	UnknownToken = "UNK"

	// UnknownID is the ID of UnknownToken.
	UnknownID = 0
)

// A Vocab translates between tokens and token IDs.
//
// IDs are assigned by frequency rank: UnknownID comes
// first, followed by the most common token, the second
// most common token, and so on.
//
// A Vocab is immutable once created.
type Vocab struct {
	tokens []string
	counts []int
	ids    map[string]int
}

type vocabData struct {
	Tokens []string `json:"tokens"`
	Counts []int    `json:"counts"`
}

// NewVocab creates a vocabulary of the given size from the
// token counts of a corpus.
//
// The size includes UnknownToken, so at most size-1 tokens
// from counts are kept.
// The count of UnknownToken is the total count of every
// token that was left out.
func NewVocab(counts TokenCounts, size int) (*Vocab, error) {
	if size < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "vocabulary size %d must be positive", size)
	}
	known := TokenCounts{}
	for tok, c := range counts {
		if tok != UnknownToken {
			known[tok] = c
		}
	}
	common := known.MostCommon(size - 1)

	tokens := append([]string{UnknownToken}, common...)
	tokCounts := make([]int, len(tokens))
	var total int
	for _, c := range counts {
		total += c
	}
	tokCounts[UnknownID] = total
	for i, tok := range common {
		tokCounts[i+1] = known[tok]
		tokCounts[UnknownID] -= known[tok]
	}
	return newVocab(tokens, tokCounts), nil
}

func newVocab(tokens []string, counts []int) *Vocab {
	res := &Vocab{
		tokens: tokens,
		counts: counts,
		ids:    make(map[string]int, len(tokens)),
	}
	for i, tok := range tokens {
		res.ids[tok] = i
	}
	return res
}

// DeserializeVocab deserializes a Vocab.
func DeserializeVocab(d []byte) (*Vocab, error) {
	var data vocabData
	if err := json.Unmarshal(d, &data); err != nil {
		return nil, essentials.AddCtx("deserialize Vocab", err)
	}
	if len(data.Tokens) == 0 || len(data.Tokens) != len(data.Counts) {
		return nil, essentials.AddCtx("deserialize Vocab",
			errors.Wrap(ErrInvalidArgument, "mismatched token and count lists"))
	}
	if data.Tokens[0] != UnknownToken {
		return nil, essentials.AddCtx("deserialize Vocab",
			errors.Wrapf(ErrInvalidArgument, "ID %d is %q, not %q", UnknownID, data.Tokens[0], UnknownToken))
	}
	res := newVocab(data.Tokens, data.Counts)
	if len(res.ids) != len(data.Tokens) {
		return nil, essentials.AddCtx("deserialize Vocab",
			errors.Wrap(ErrInvalidArgument, "duplicate tokens"))
	}
	return res, nil
}

// Len returns the number of token IDs, including
// UnknownID.
func (v *Vocab) Len() int {
	return len(v.tokens)
}

// ID gets the ID for the token.
// Tokens outside the vocabulary map to UnknownID.
func (v *Vocab) ID(token string) int {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return UnknownID
}

// IDs converts tokens into a token sequence.
func (v *Vocab) IDs(tokens []string) []int {
	res := make([]int, len(tokens))
	for i, tok := range tokens {
		res[i] = v.ID(tok)
	}
	return res
}

// Token gets the token for the ID.
// If the ID is out of range, "" is returned.
func (v *Vocab) Token(id int) string {
	if id < 0 || id >= len(v.tokens) {
		return ""
	}
	return v.tokens[id]
}

// Count returns the corpus frequency of the token ID.
func (v *Vocab) Count(id int) int {
	if id < 0 || id >= len(v.counts) {
		return 0
	}
	return v.counts[id]
}

// Frequencies returns the relative frequency of every
// token ID.
func (v *Vocab) Frequencies() []float64 {
	var total int
	for _, c := range v.counts {
		total += c
	}
	res := make([]float64, len(v.counts))
	if total == 0 {
		return res
	}
	for i, c := range v.counts {
		res[i] = float64(c) / float64(total)
	}
	return res
}

// SerializerType returns the unique ID used to serialize
// a Vocab with the serializer package.
func (v *Vocab) SerializerType() string {
	return "github.com/gridl/wordembed.Vocab"
}

// Serialize serializes the Vocab.
func (v *Vocab) Serialize() ([]byte, error) {
	return json.Marshal(vocabData{Tokens: v.tokens, Counts: v.counts})
}
