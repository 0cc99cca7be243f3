package word2vec

import (
	"math"
	"math/rand"
	"sort"

	"github.com/gridl/wordembed"
	"github.com/pkg/errors"
)

// DefaultUnigramPower is the exponent applied to token
// counts by a UnigramSampler when none is specified.
const DefaultUnigramPower = 0.75

// A Sampler draws noise token IDs for noise-contrastive
// estimation.
type Sampler interface {
	// Sample draws a random token ID.
	Sample(gen *rand.Rand) int

	// Prob returns the probability that Sample produces
	// the given ID.
	Prob(id int) float64
}

// A LogUniformSampler draws IDs from an approximately
// Zipfian distribution:
//
//	P(k) = (log(k+2) - log(k+1)) / log(Range+1)
//
// This is a good noise distribution when IDs are sorted
// by decreasing frequency, as they are in a
// wordembed.Vocab.
type LogUniformSampler struct {
	Range int
}

// Sample draws a random ID in [0, Range).
func (l *LogUniformSampler) Sample(gen *rand.Rand) int {
	logRange := math.Log(float64(l.Range) + 1)
	res := int(math.Exp(randFloat(gen)*logRange)) - 1
	if res >= l.Range {
		res = l.Range - 1
	}
	if res < 0 {
		res = 0
	}
	return res
}

// Prob returns the probability of the ID.
func (l *LogUniformSampler) Prob(id int) float64 {
	if id < 0 || id >= l.Range {
		return 0
	}
	k := float64(id)
	return (math.Log(k+2) - math.Log(k+1)) / math.Log(float64(l.Range)+1)
}

// A UnigramSampler draws IDs with probability
// proportional to a power of their corpus counts.
type UnigramSampler struct {
	cumulative []float64
	total      float64
}

// NewUnigramSampler creates a sampler for the counts in a
// vocabulary, each raised to the given power.
// If power is 0, DefaultUnigramPower is used.
func NewUnigramSampler(v *wordembed.Vocab, power float64) (*UnigramSampler, error) {
	if power == 0 {
		power = DefaultUnigramPower
	}
	res := &UnigramSampler{cumulative: make([]float64, v.Len())}
	for id := range res.cumulative {
		res.total += math.Pow(float64(v.Count(id)), power)
		res.cumulative[id] = res.total
	}
	if res.total <= 0 || math.IsInf(res.total, 0) || math.IsNaN(res.total) {
		return nil, errors.Wrap(wordembed.ErrInvalidArgument, "unigram sampler needs positive counts")
	}
	return res, nil
}

// Sample draws a random ID.
func (u *UnigramSampler) Sample(gen *rand.Rand) int {
	offset := randFloat(gen) * u.total
	idx := sort.Search(len(u.cumulative), func(i int) bool {
		return u.cumulative[i] > offset
	})
	if idx == len(u.cumulative) {
		idx--
	}
	return idx
}

// Prob returns the probability of the ID.
func (u *UnigramSampler) Prob(id int) float64 {
	if id < 0 || id >= len(u.cumulative) {
		return 0
	}
	weight := u.cumulative[id]
	if id > 0 {
		weight -= u.cumulative[id-1]
	}
	return weight / u.total
}

func randFloat(gen *rand.Rand) float64 {
	if gen == nil {
		return rand.Float64()
	}
	return gen.Float64()
}

func randIntn(gen *rand.Rand, n int) int {
	if gen == nil {
		return rand.Intn(n)
	}
	return gen.Intn(n)
}
