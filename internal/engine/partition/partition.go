// Package partition groups units into cost-balanced batches.
package partition

import (
	"math/rand/v2"

	"go.trai.ch/parc/internal/core/domain"
)

// Target returns the per-batch cost target: ceil(total / numBatches).
func Target(total int64, numBatches int) int64 {
	if numBatches < 1 {
		numBatches = 1
	}
	return (total + int64(numBatches) - 1) / int64(numBatches)
}

// Split partitions units into at most numBatches cost-balanced batches using
// a greedy online fill: units are taken in input order and the current batch
// is advanced once its running cost has reached the target. This is not
// optimal bin-packing; it guarantees no batch exceeds target plus the largest
// single unit cost, and it is deterministic for a fixed input order.
//
// A single unit whose cost alone reaches the target still occupies one whole
// batch. Empty trailing batches are dropped.
func Split(units []domain.Unit, numBatches int) []domain.Batch {
	if len(units) == 0 {
		return nil
	}
	if numBatches > len(units) {
		numBatches = len(units)
	}
	if numBatches < 1 {
		numBatches = 1
	}

	var total int64
	for _, u := range units {
		total += u.Cost
	}
	target := Target(total, numBatches)

	batches := make([]domain.Batch, 1, numBatches)
	cur := 0
	for _, u := range units {
		if batches[cur].Cost >= target && cur < numBatches-1 {
			batches = append(batches, domain.Batch{})
			cur++
		}
		batches[cur].Paths = append(batches[cur].Paths, u.Path.String())
		batches[cur].Cost += u.Cost
	}
	return batches
}

// Chunk shuffles units and splits them into exactly numBatches contiguous
// chunks of near-even length, ignoring costs and dependency structure. It is
// the dependency-agnostic strategy for workloads where ordering does not
// matter.
func Chunk(units []domain.Unit, numBatches int, rng *rand.Rand) []domain.Batch {
	if len(units) == 0 {
		return nil
	}
	if numBatches > len(units) {
		numBatches = len(units)
	}
	if numBatches < 1 {
		numBatches = 1
	}

	shuffled := make([]domain.Unit, len(units))
	copy(shuffled, units)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	quot, rem := len(shuffled)/numBatches, len(shuffled)%numBatches
	batches := make([]domain.Batch, 0, numBatches)
	start := 0
	for i := range numBatches {
		size := quot
		if i < rem {
			size++
		}
		var b domain.Batch
		for _, u := range shuffled[start : start+size] {
			b.Paths = append(b.Paths, u.Path.String())
			b.Cost += u.Cost
		}
		batches = append(batches, b)
		start += size
	}
	return batches
}
