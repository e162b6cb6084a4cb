// apps/go-solver/internal/solver/solver.go
//
// Expected-information estimator for guess selection.
// Responsibilities:
//   - Draw a uniform random sample of candidate guesses from the live set
//     (the solution is eventually one of them, so the live set is also the
//     guess pool).
//   - For each sampled guess, partition the entire live set by simulated
//     mask and score the guess by the Shannon entropy of the partition.
//   - Return the best-scoring guess deterministically for a fixed seed.
//
// Sign convention: Information is Σ (nᵢ/N)·log2(nᵢ/N), which is non-positive;
// more negative means a more informative guess, and a guess that uniquely
// identifies the solution among a single candidate scores 0. This matches the
// numbers the interactive loop has always displayed; flipping to the usual
// positive-entropy convention would change every printed score, so it is
// deliberately left alone.
//
// This is a sampling heuristic, not an exhaustive search: evaluating every
// guess against every candidate is O(|set|²) and the maxi universe alone has
// millions of entries.

package solver

import (
	"errors"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/mask"
)

// ErrNoCandidatesRemaining means the live set is empty: the accumulated
// feedback is self-contradictory, almost always a transcription error.
var ErrNoCandidatesRemaining = errors.New("solver: no candidates remaining")

// DefaultSampleSize bounds how many candidate guesses one round evaluates.
const DefaultSampleSize = 1000

// Suggestion is the estimator's pick for the next guess.
type Suggestion struct {
	Guess       string  `json:"guess"`
	Information float64 `json:"information"` // ≤ 0, more negative is better
	Sampled     int     `json:"sampled"`     // guesses evaluated this round
	Over        int     `json:"over"`        // live candidates each was scored against
}

// BestGuess evaluates up to sampleSize guesses drawn uniformly from set and
// returns the most informative one. rng is injectable so callers can pin a
// seed; for a fixed seed the result is deterministic (ties keep the guess
// drawn earliest).
func BestGuess(set *candidates.Set, sampleSize int, rng *rand.Rand) (Suggestion, error) {
	n := set.Len()
	if n == 0 {
		return Suggestion{}, ErrNoCandidatesRemaining
	}
	if n == 1 {
		// Nothing left to discriminate; the single survivor is the answer.
		return Suggestion{Guess: set.At(0), Information: 0, Sampled: 1, Over: 1}, nil
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	sample := sampleIndices(n, sampleSize, rng)

	var (
		mu       sync.Mutex
		bestAt   = -1 // index into sample, for stable tie-breaks
		bestInfo float64
	)
	var g errgroup.Group
	for si, ci := range sample {
		si, ci := si, ci
		g.Go(func() error {
			info := information(set, ci)
			mu.Lock()
			if bestAt < 0 || info < bestInfo || (info == bestInfo && si < bestAt) {
				bestAt, bestInfo = si, info
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return Suggestion{
		Guess:       set.At(sample[bestAt]),
		Information: bestInfo,
		Sampled:     len(sample),
		Over:        n,
	}, nil
}

// sampleIndices picks min(k, n) distinct indices. Small sets are taken whole
// in load order; larger ones use a seeded shuffle.
func sampleIndices(n, k int, rng *rand.Rand) []int {
	if n <= k {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	return rng.Perm(n)[:k]
}

// information partitions the whole live set by the mask that guess ci would
// produce against each candidate, and returns Σ p·log2(p) over the partition
// sizes. This full-set scan is the expensive step the sampling bounds.
func information(set *candidates.Set, ci int) float64 {
	guess := set.RunesAt(ci)
	scratch := make(mask.Mask, set.Length())
	hist := make(map[string]int)
	for i := 0; i < set.Len(); i++ {
		mask.ScoreRunes(guess, set.RunesAt(i), scratch)
		hist[scratch.Key()]++
	}

	total := float64(set.Len())
	info := 0.0
	for _, ct := range hist {
		p := float64(ct) / total
		info += p * math.Log2(p)
	}
	return info
}
