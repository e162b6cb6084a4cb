package solver

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/mask"
)

func mustSet(t *testing.T, entries ...string) *candidates.Set {
	t.Helper()
	set, err := candidates.FromSlice(entries)
	require.NoError(t, err)
	return set
}

func TestBestGuessSingleton(t *testing.T) {
	set := mustSet(t, "1+1=2")
	s, err := BestGuess(set, 10, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "1+1=2", s.Guess)
	assert.Zero(t, s.Information)
	assert.Equal(t, 1, s.Sampled)
}

func TestBestGuessEmpty(t *testing.T) {
	set := mustSet(t, "1+1=2", "2+1=3")

	// Feedback nothing matches: an all-Present mask for this guess.
	impossible, err := mask.Parse("PPPPP", 5)
	require.NoError(t, err)
	empty, err := set.Filter("1+1=2", impossible)
	require.NoError(t, err)
	require.Zero(t, empty.Len())

	_, err = BestGuess(empty, 10, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrNoCandidatesRemaining)
}

func TestBestGuessPicksMostInformative(t *testing.T) {
	// Against this set, 2+2=4 splits all four candidates into singleton
	// groups (information -2); every other guess leaves a 2-group.
	set := mustSet(t, "1+1=2", "2+2=4", "3+3=6", "4+4=8")

	s, err := BestGuess(set, 100, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, "2+2=4", s.Guess)
	assert.Equal(t, -2.0, s.Information)
	assert.Equal(t, 4, s.Sampled)
	assert.Equal(t, 4, s.Over)
}

func TestBestGuessInformationNonPositive(t *testing.T) {
	set := mustSet(t, "1+1=2", "2+1=3", "1+2=3", "3-1=2", "4-1=3", "9/3=3")

	s, err := BestGuess(set, 3, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.LessOrEqual(t, s.Information, 0.0)
	assert.Contains(t, set.Entries(), s.Guess)
	assert.Equal(t, 3, s.Sampled)
	assert.Equal(t, set.Len(), s.Over)
}

func TestBestGuessDeterministicForFixedSeed(t *testing.T) {
	set := mustSet(t, "1+1=2", "2+1=3", "1+2=3", "3-1=2", "4-1=3", "9/3=3", "8/4=2", "6/2=3")

	a, err := BestGuess(set, 4, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := BestGuess(set, 4, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestInformationGroupsByMask(t *testing.T) {
	// 3+3=6 distinguishes only itself here: the other three all come back
	// BGBGB, so the partition is {1, 3}.
	set := mustSet(t, "1+1=2", "2+2=4", "3+3=6", "4+4=8")

	got := information(set, 2)
	want := 0.25*math.Log2(0.25) + 0.75*math.Log2(0.75)
	assert.InDelta(t, want, got, 1e-12)
}
