package word2vec

import (
	"math"
	"reflect"
	"testing"

	"github.com/gridl/wordembed"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/serializer"
)

func TestEmbedLookup(t *testing.T) {
	e := testingEmbed(t)
	ids, sims := e.Lookup(e.Embed("king"), 2)
	if !reflect.DeepEqual(ids, []int{1, 2}) {
		t.Fatalf("unexpected IDs: %v", ids)
	}
	if math.Abs(float64(sims[0].(float32))-1) > 1e-4 {
		t.Errorf("self-similarity should be 1 but got %v", sims[0])
	}
	if sims[1].(float32) >= sims[0].(float32) {
		t.Error("similarities should be decreasing")
	}
	if ids, _ := e.Lookup(e.Embed("king"), 10); len(ids) != 4 {
		t.Errorf("expected 4 results but got %d", len(ids))
	}
	nearest := e.Nearest("king", 2)
	if !reflect.DeepEqual(nearest, []string{"queen", wordembed.UnknownToken}) {
		t.Errorf("unexpected neighbors: %v", nearest)
	}
}

func TestEmbedCopiesRows(t *testing.T) {
	e := testingEmbed(t)
	expected := e.Embed("queen").Data()
	e.Embed("queen").Scale(float32(0))
	e.EmbedID(e.Vocab.ID("queen")).AddScalar(float32(5))
	if actual := e.Embed("queen").Data(); !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
	if ids, _ := e.Lookup(e.Embed("apple"), 1); !reflect.DeepEqual(ids, []int{3}) {
		t.Errorf("unexpected IDs: %v", ids)
	}
}

func TestEmbedNormalize(t *testing.T) {
	e := testingEmbed(t)
	e.Normalize()
	for id := 0; id < e.Vocab.Len(); id++ {
		norm := anyvec.Norm(e.EmbedID(id)).(float32)
		if math.Abs(float64(norm)-1) > 1e-4 {
			t.Errorf("ID %d: norm is %f", id, norm)
		}
	}
}

func TestEmbedSerialize(t *testing.T) {
	e := testingEmbed(t)
	data, err := serializer.SerializeAny(e)
	if err != nil {
		t.Fatal(err)
	}
	var e1 *Embed
	if err := serializer.DeserializeAny(data, &e1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e, e1) {
		t.Error("invalid result")
	}
}

func TestNewEmbed(t *testing.T) {
	vocab, err := wordembed.NewVocab(wordembed.TokenCounts{"a": 2, "b": 1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	net := NewNet(anyvec32.CurrentCreator(), 3, 4, 3)
	e := NewEmbed(net, vocab)
	if e.Dim() != 4 {
		t.Errorf("expected dimension 4 but got %d", e.Dim())
	}
	expected := net.Encoder.Vector.Slice(4, 8).Data()
	if actual := e.Embed("a").Data(); !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
	net.Encoder.Vector.Scale(float32(0))
	if actual := e.Embed("a").Data(); !reflect.DeepEqual(actual, expected) {
		t.Error("embedding should not share memory with the network")
	}
}

func testingEmbed(t *testing.T) *Embed {
	vocab, err := wordembed.NewVocab(wordembed.TokenCounts{"king": 4, "queen": 3, "apple": 2}, 4)
	if err != nil {
		t.Fatal(err)
	}
	return &Embed{
		Vocab: vocab,
		Vectors: &anyvec.Matrix{
			Data: anyvec32.MakeVectorData([]float32{
				0, 0, 1,
				1, 0.1, 0,
				0.9, 0.2, 0,
				-1, 0, 0.1,
			}),
			Rows: 4,
			Cols: 3,
		},
	}
}
