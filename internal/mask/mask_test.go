package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBasic(t *testing.T) {
	m, err := Score("abc", "cbd")
	require.NoError(t, err)
	assert.Equal(t, "BGP", m.String())
}

func TestScoreOutsideAlphabet(t *testing.T) {
	// Scoring is defined for arbitrary runes; only input validation cares
	// about the equation alphabet. Presents must still respect multiplicity.
	m, err := Score("aa1", "1aa")
	require.NoError(t, err)
	assert.Equal(t, "PGP", m.String())

	m, err = Score("zzz", "z12")
	require.NoError(t, err)
	assert.Equal(t, "GBB", m.String())
}

func TestScoreAllExactWhenEqual(t *testing.T) {
	m, err := Score("42+9-35=16", "42+9-35=16")
	require.NoError(t, err)
	for i, v := range m {
		assert.Equal(t, MarkExact, v, "position %d", i)
	}
}

func TestScoreSpecScenario(t *testing.T) {
	// Guess 1+1=2 against hidden truth 2+1=3.
	m, err := Score("1+1=2", "2+1=3")
	require.NoError(t, err)
	assert.Equal(t, Mask{MarkAbsent, MarkExact, MarkExact, MarkExact, MarkPresent}, m)
}

func TestScoreDuplicateCharacters(t *testing.T) {
	// truth has two 1s; the guess has three. Exacts claim theirs first and the
	// remaining presents must not exceed truth's multiplicity.
	m, err := Score("11+2=13", "12+1=13")
	require.NoError(t, err)

	// '1' is exact at positions 0 and 5; the non-exact '1' at position 1 can
	// claim the one unmatched '1' in truth (position 3), so it is Present.
	// '2' trades places with a '1', so it is Present too.
	assert.Equal(t, "GPGPGGG", m.String())

	ones := 0
	for i, v := range m {
		if []rune("11+2=13")[i] == '1' && (v == MarkExact || v == MarkPresent) {
			ones++
		}
	}
	assert.LessOrEqual(t, ones, 3, "marks for '1' exceed its multiplicity in truth")
}

func TestScoreSuperscripts(t *testing.T) {
	m, err := Score("3²=9", "9=3²")
	require.NoError(t, err)
	assert.Equal(t, "PPPP", m.String())
}

func TestScoreLengthMismatch(t *testing.T) {
	_, err := Score("1+1=2", "11+2=13")
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestScoreDeterministic(t *testing.T) {
	a, err := Score("8+7=15", "15=8+7")
	require.NoError(t, err)
	b, err := Score("8+7=15", "15=8+7")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestParseAlphabets(t *testing.T) {
	want := Mask{MarkExact, MarkPresent, MarkAbsent, MarkExact, MarkAbsent}

	for _, in := range []string{"GPBGB", "21020", "gpbgb", "CIRGN", "2P G0"} {
		m, err := Parse(in, 5)
		require.NoError(t, err, "input %q", in)
		assert.True(t, want.Equal(m), "input %q parsed to %s", in, m)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse("GPB", 5)
	assert.ErrorIs(t, err, ErrMaskLength)

	_, err = Parse("GPXGB", 5)
	assert.ErrorIs(t, err, ErrMaskChar)
}

func TestNormalizeGuess(t *testing.T) {
	assert.Equal(t, "3²+4=13", NormalizeGuess("3s+4=13"))
	assert.Equal(t, "2³=8", NormalizeGuess("2c=8"))
	assert.Equal(t, "42+9-35=16", NormalizeGuess("42+9-35=16"))
}

func TestValidateGuess(t *testing.T) {
	assert.NoError(t, ValidateGuess("42+9-35=16", 10))
	assert.NoError(t, ValidateGuess("3²=9", 4))

	assert.ErrorIs(t, ValidateGuess("1+1=2", 8), ErrGuessLength)
	assert.ErrorIs(t, ValidateGuess("1+1=2!", 6), ErrGuessChar)
}
