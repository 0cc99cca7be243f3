package wordembed

import "github.com/pkg/errors"

// A Pair is a single skip-gram training example.
type Pair struct {
	// Target is the token ID at the center of the window.
	Target int

	// Context is a token ID within the window around
	// Target.
	Context int
}

// A PairIter lazily generates the skip-gram pairs for a
// token sequence.
//
// For every position i, it produces a pair for each offset
// o in [-Window, -1] and [1, Window] such that i+o lies in
// the sequence.
// Pairs come in order of increasing i, then increasing o.
//
// The sequence must not be modified while the iterator is
// in use.
type PairIter struct {
	seq    []int
	window int

	idx    int
	offset int
}

// Pairs creates an iterator over the skip-gram pairs of
// the sequence with the given window radius.
//
// The window must be at least 1.
// An empty sequence produces no pairs.
func Pairs(sequence []int, window int) (*PairIter, error) {
	if window <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "window %d must be positive", window)
	}
	it := &PairIter{seq: sequence, window: window}
	it.Reset()
	return it, nil
}

// Window returns the window radius.
func (p *PairIter) Window() int {
	return p.window
}

// Len returns the total number of pairs the iterator
// produces from the beginning of the sequence.
func (p *PairIter) Len() int {
	return NumPairs(len(p.seq), p.window)
}

// Reset moves the iterator back to the first pair.
func (p *PairIter) Reset() {
	p.idx = 0
	p.offset = p.firstOffset(0)
}

// Next produces the next pair.
// The second return value is false once every pair has
// been produced.
func (p *PairIter) Next() (Pair, bool) {
	for p.idx < len(p.seq) {
		if p.offset == 0 {
			p.offset++
		}
		j := p.idx + p.offset
		if p.offset <= p.window && j < len(p.seq) {
			p.offset++
			return Pair{Target: p.seq[p.idx], Context: p.seq[j]}, true
		}
		p.idx++
		p.offset = p.firstOffset(p.idx)
	}
	return Pair{}, false
}

func (p *PairIter) firstOffset(i int) int {
	return -min(i, p.window)
}

// PairAt returns the pair formed by the token at index i
// and the token at i+offset.
//
// Unlike a PairIter, PairAt checks its arguments and
// fails with ErrIndexOutOfRange if either index is not in
// the sequence, or ErrInvalidArgument if offset is 0.
func PairAt(sequence []int, i, offset int) (Pair, error) {
	if offset == 0 {
		return Pair{}, errors.Wrap(ErrInvalidArgument, "offset must be non-zero")
	}
	j := i + offset
	if i < 0 || i >= len(sequence) || j < 0 || j >= len(sequence) {
		return Pair{}, errors.Wrapf(ErrIndexOutOfRange, "pair (%d, %d) in sequence of length %d",
			i, j, len(sequence))
	}
	return Pair{Target: sequence[i], Context: sequence[j]}, nil
}

// NumPairs computes the number of pairs in a sequence of
// length n with window radius w.
func NumPairs(n, w int) int {
	var total int
	for i := 0; i < n; i++ {
		total += min(i, w) + min(n-1-i, w)
	}
	return total
}

// CollectPairs reads all the remaining pairs from the
// iterator.
func CollectPairs(it *PairIter) []Pair {
	var res []Pair
	for {
		pair, ok := it.Next()
		if !ok {
			return res
		}
		res = append(res, pair)
	}
}
