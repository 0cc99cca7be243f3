package wordembed

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestPairsWindowOne(t *testing.T) {
	a, b, c, d := 10, 11, 12, 13
	it, err := Pairs([]int{a, b, c, d}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if it.Window() != 1 {
		t.Errorf("expected window 1 but got %d", it.Window())
	}
	actual := CollectPairs(it)
	expected := []Pair{{a, b}, {b, a}, {b, c}, {c, b}, {c, d}, {d, c}}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
}

func TestPairsOrdering(t *testing.T) {
	seq := []int{0, 1, 2, 3, 4}
	it, err := Pairs(seq, 2)
	if err != nil {
		t.Fatal(err)
	}
	expected := []Pair{
		{0, 1}, {0, 2},
		{1, 0}, {1, 2}, {1, 3},
		{2, 0}, {2, 1}, {2, 3}, {2, 4},
		{3, 1}, {3, 2}, {3, 4},
		{4, 2}, {4, 3},
	}
	if actual := CollectPairs(it); !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
}

func TestPairsEmpty(t *testing.T) {
	for _, window := range []int{1, 3, 100} {
		it, err := Pairs(nil, window)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := it.Next(); ok {
			t.Errorf("window %d: expected no pairs", window)
		}
		if it.Len() != 0 {
			t.Errorf("window %d: expected length 0 but got %d", window, it.Len())
		}
	}
}

func TestPairsInvalidWindow(t *testing.T) {
	for _, window := range []int{0, -1, -7} {
		_, err := Pairs([]int{1, 2, 3}, window)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("window %d: expected ErrInvalidArgument but got %v", window, err)
		}
	}
}

func TestPairsCount(t *testing.T) {
	for n := 0; n < 12; n++ {
		seq := make([]int, n)
		for i := range seq {
			seq[i] = i
		}
		for w := 1; w < 15; w++ {
			it, err := Pairs(seq, w)
			if err != nil {
				t.Fatal(err)
			}
			var expected int
			for i := 0; i < n; i++ {
				expected += min(i, w) + min(n-1-i, w)
			}
			pairs := CollectPairs(it)
			if len(pairs) != expected {
				t.Errorf("n=%d w=%d: expected %d pairs but got %d", n, w, expected, len(pairs))
			}
			if it.Len() != expected {
				t.Errorf("n=%d w=%d: Len() gave %d, expected %d", n, w, it.Len(), expected)
			}
			for _, p := range pairs {
				if p.Target < 0 || p.Target >= n || p.Context < 0 || p.Context >= n {
					t.Fatalf("n=%d w=%d: pair %v out of range", n, w, p)
				}
				dist := p.Target - p.Context
				if dist == 0 || dist > w || dist < -w {
					t.Fatalf("n=%d w=%d: pair %v outside of window", n, w, p)
				}
			}
		}
	}
}

func TestPairsDeterministic(t *testing.T) {
	seq := make([]int, 200)
	for i := range seq {
		seq[i] = rand.Intn(30)
	}
	it1, _ := Pairs(seq, 4)
	it2, _ := Pairs(seq, 4)
	first := CollectPairs(it1)
	if second := CollectPairs(it2); !reflect.DeepEqual(first, second) {
		t.Fatal("iterators disagree")
	}
	if _, ok := it1.Next(); ok {
		t.Fatal("exhausted iterator produced a pair")
	}
	it1.Reset()
	if again := CollectPairs(it1); !reflect.DeepEqual(first, again) {
		t.Fatal("reset iterator produced different pairs")
	}
}

func TestPairAt(t *testing.T) {
	seq := []int{5, 6, 7}
	pair, err := PairAt(seq, 2, -2)
	if err != nil {
		t.Fatal(err)
	}
	if pair != (Pair{Target: 7, Context: 5}) {
		t.Errorf("unexpected pair %v", pair)
	}
	if _, err := PairAt(seq, 2, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange but got %v", err)
	}
	if _, err := PairAt(seq, -1, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange but got %v", err)
	}
	if _, err := PairAt(seq, 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument but got %v", err)
	}
}

func BenchmarkPairs(b *testing.B) {
	seq := make([]int, 100000)
	for i := range seq {
		seq[i] = rand.Intn(50000)
	}
	it, _ := Pairs(seq, 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := it.Next(); !ok {
			it.Reset()
		}
	}
}
