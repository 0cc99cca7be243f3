package word2vec

import (
	"math/rand"

	"github.com/gridl/wordembed"
	"github.com/pkg/errors"
)

// A Batcher groups the pairs from a wordembed.PairIter
// into mini-batches.
type Batcher struct {
	pairs *wordembed.PairIter
	size  int

	// ShuffleBuffer, if greater than 1, is the number of
	// pairs kept in memory and drawn from at random.
	// Larger buffers approach a full shuffle.
	ShuffleBuffer int

	// Rand is used for shuffling.
	// If nil, the global source is used.
	Rand *rand.Rand

	buffer []wordembed.Pair
}

// NewBatcher creates a Batcher producing batches of the
// given size.
// The last batch of an epoch may be smaller.
func NewBatcher(pairs *wordembed.PairIter, size int) (*Batcher, error) {
	if size <= 0 {
		return nil, errors.Wrapf(wordembed.ErrInvalidArgument, "batch size %d must be positive", size)
	}
	return &Batcher{pairs: pairs, size: size}, nil
}

// NumBatches returns the number of batches in an epoch.
func (b *Batcher) NumBatches() int {
	return (b.pairs.Len() + b.size - 1) / b.size
}

// Reset starts a new epoch.
func (b *Batcher) Reset() {
	b.pairs.Reset()
	b.buffer = b.buffer[:0]
}

// Next produces the next batch.
// The second return value is false at the end of the
// epoch.
func (b *Batcher) Next() ([]wordembed.Pair, bool) {
	var batch []wordembed.Pair
	for len(batch) < b.size {
		pair, ok := b.nextPair()
		if !ok {
			break
		}
		batch = append(batch, pair)
	}
	return batch, len(batch) > 0
}

func (b *Batcher) nextPair() (wordembed.Pair, bool) {
	if b.ShuffleBuffer <= 1 {
		return b.pairs.Next()
	}
	for len(b.buffer) < b.ShuffleBuffer {
		pair, ok := b.pairs.Next()
		if !ok {
			break
		}
		b.buffer = append(b.buffer, pair)
	}
	if len(b.buffer) == 0 {
		return wordembed.Pair{}, false
	}
	last := len(b.buffer) - 1
	idx := randIntn(b.Rand, len(b.buffer))
	b.buffer[idx], b.buffer[last] = b.buffer[last], b.buffer[idx]
	pair := b.buffer[last]
	b.buffer = b.buffer[:last]
	return pair, true
}
