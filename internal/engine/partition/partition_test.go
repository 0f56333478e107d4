package partition_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/engine/partition"
)

func units(costs ...int64) []domain.Unit {
	out := make([]domain.Unit, len(costs))
	for i, c := range costs {
		out[i] = domain.Unit{
			Name: domain.NewInternedString(fmt.Sprintf("u%d.py", i+1)),
			Path: domain.NewInternedString(fmt.Sprintf("u%d.py", i+1)),
			Cost: c,
		}
	}
	return out
}

func TestTarget(t *testing.T) {
	cases := []struct {
		total    int64
		n        int
		expected int64
	}{
		{100, 2, 50},
		{101, 2, 51},
		{99, 2, 50},
		{10, 3, 4},
		{0, 4, 0},
		{7, 0, 7}, // n clamps to 1
	}
	for _, tc := range cases {
		if got := partition.Target(tc.total, tc.n); got != tc.expected {
			t.Errorf("Target(%d, %d) = %d, want %d", tc.total, tc.n, got, tc.expected)
		}
	}
}

func TestSplit_GreedyFill(t *testing.T) {
	// Total 100 over 2 batches gives target 50. The first unit alone reaches
	// the target, so everything after it lands in the second batch.
	us := units(50, 10, 10, 10, 20)

	batches := partition.Split(us, 2)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}

	if !slices.Equal(batches[0].Paths, []string{"u1.py"}) {
		t.Errorf("expected first batch [u1.py], got %v", batches[0].Paths)
	}
	if !slices.Equal(batches[1].Paths, []string{"u2.py", "u3.py", "u4.py", "u5.py"}) {
		t.Errorf("expected second batch [u2.py u3.py u4.py u5.py], got %v", batches[1].Paths)
	}
	if batches[0].Cost != 50 || batches[1].Cost != 50 {
		t.Errorf("expected costs 50/50, got %d/%d", batches[0].Cost, batches[1].Cost)
	}
}

func TestSplit_PreservesInputOrder(t *testing.T) {
	us := units(1, 2, 3, 4, 5, 6, 7, 8)

	var got []string
	for _, b := range partition.Split(us, 3) {
		got = append(got, b.Paths...)
	}

	want := make([]string, len(us))
	for i, u := range us {
		want[i] = u.Path.String()
	}
	if !slices.Equal(got, want) {
		t.Errorf("concatenated batches %v, want input order %v", got, want)
	}
}

func TestSplit_CostBound(t *testing.T) {
	us := units(13, 7, 42, 3, 3, 19, 8, 27, 5, 11)

	var total, maxUnit int64
	for _, u := range us {
		total += u.Cost
		maxUnit = max(maxUnit, u.Cost)
	}

	for _, n := range []int{1, 2, 3, 4, 10} {
		target := partition.Target(total, min(n, len(us)))
		for i, b := range partition.Split(us, n) {
			if b.Cost > target+maxUnit {
				t.Errorf("n=%d batch %d cost %d exceeds target %d + max unit %d", n, i, b.Cost, target, maxUnit)
			}
		}
	}
}

func TestSplit_NeverExceedsRequestedCount(t *testing.T) {
	us := units(1, 1, 1, 1, 1, 100)
	for _, n := range []int{1, 2, 3, 6, 20} {
		batches := partition.Split(us, n)
		if len(batches) > min(n, len(us)) {
			t.Errorf("n=%d produced %d batches", n, len(batches))
		}
		for i, b := range batches {
			if len(b.Paths) == 0 {
				t.Errorf("n=%d batch %d is empty", n, i)
			}
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	us := units(9, 1, 5, 5, 3, 7, 2, 8)

	first := partition.Split(us, 3)
	for range 5 {
		again := partition.Split(us, 3)
		if len(again) != len(first) {
			t.Fatalf("batch count changed between runs")
		}
		for i := range first {
			if !slices.Equal(first[i].Paths, again[i].Paths) {
				t.Errorf("batch %d changed between runs: %v vs %v", i, first[i].Paths, again[i].Paths)
			}
		}
	}
}

func TestSplit_OversizedUnit(t *testing.T) {
	// One unit dwarfs the rest: it should fill a batch alone while the
	// remainder still gets split.
	us := units(1000, 1, 1, 1)

	batches := partition.Split(us, 4)
	if len(batches) < 2 {
		t.Fatalf("expected at least 2 batches, got %d", len(batches))
	}
	if !slices.Equal(batches[0].Paths, []string{"u1.py"}) {
		t.Errorf("expected oversized unit alone in first batch, got %v", batches[0].Paths)
	}
}

func TestSplit_Empty(t *testing.T) {
	if got := partition.Split(nil, 4); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestChunk_NearEvenSizes(t *testing.T) {
	us := units(1, 2, 3, 4, 5, 6, 7)
	rng := rand.New(rand.NewPCG(1, 1))

	batches := partition.Chunk(us, 3, rng)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}

	sizes := []int{len(batches[0].Paths), len(batches[1].Paths), len(batches[2].Paths)}
	if sizes[0]+sizes[1]+sizes[2] != len(us) {
		t.Fatalf("chunks do not cover all units: %v", sizes)
	}
	for _, s := range sizes {
		if s < 2 || s > 3 {
			t.Errorf("chunk sizes not near-even: %v", sizes)
		}
	}

	// Every unit appears exactly once.
	seen := make(map[string]int)
	for _, b := range batches {
		for _, p := range b.Paths {
			seen[p]++
		}
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("unit %s appears %d times", p, n)
		}
	}
}

func TestChunk_DeterministicForSeed(t *testing.T) {
	us := units(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	first := partition.Chunk(us, 4, rand.New(rand.NewPCG(7, 7)))
	again := partition.Chunk(us, 4, rand.New(rand.NewPCG(7, 7)))
	if len(first) != len(again) {
		t.Fatalf("batch count changed for same seed")
	}
	for i := range first {
		if !slices.Equal(first[i].Paths, again[i].Paths) {
			t.Errorf("batch %d changed for same seed: %v vs %v", i, first[i].Paths, again[i].Paths)
		}
	}
}

func TestChunk_Empty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if got := partition.Chunk(nil, 4, rng); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}
