package wordembed

import (
	"reflect"
	"testing"
)

func TestMostCommon(t *testing.T) {
	stream := make(chan string, 9)
	for _, tok := range []string{"c", "a", "a", "b", "b", "a", "c", "d", "c"} {
		stream <- tok
	}
	close(stream)
	counts := CountTokens(stream)
	common := counts.MostCommon(2)
	if !reflect.DeepEqual(common, []string{"a", "c"}) {
		t.Error("expected [a c] but got", common)
	}
}

func TestMostCommonTies(t *testing.T) {
	counts := TokenCounts{}
	counts.Add("z", "y", "x", "y", "w", "w", "v")
	expected := []string{"w", "y", "v", "x", "z"}
	for i := 0; i < 5; i++ {
		actual := counts.MostCommon(10)
		if !reflect.DeepEqual(actual, expected) {
			t.Fatalf("expected %v but got %v", expected, actual)
		}
	}
	if res := counts.MostCommon(0); len(res) != 0 {
		t.Errorf("expected no tokens but got %v", res)
	}
}
