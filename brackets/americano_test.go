package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papaya-padel/tournament-system/models"
)

const (
	pA = 101
	pB = 102
	pC = 103
	pD = 104
)

func TestGenerateAmericano_FourPlayers(t *testing.T) {
	rounds, err := GenerateAmericano([]int{pA, pB, pC, pD})
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	want := []Round{
		{{TeamA: Team{pA, pD}, TeamB: Team{pB, pC}}},
		{{TeamA: Team{pA, pC}, TeamB: Team{pD, pB}}},
		{{TeamA: Team{pA, pB}, TeamB: Team{pC, pD}}},
	}
	assert.Equal(t, want, rounds)
}

func TestGenerateAmericano_ThreePlayersYieldsEmptyRounds(t *testing.T) {
	rounds, err := GenerateAmericano([]int{pA, pB, pC})
	require.NoError(t, err)
	require.Len(t, rounds, 3)
	for i, r := range rounds {
		assert.Empty(t, r, "round %d", i+1)
	}
	assert.Zero(t, CountMatches(rounds))
}

func TestGenerateAmericano_RejectsBadInput(t *testing.T) {
	_, err := GenerateAmericano(nil)
	assert.ErrorIs(t, err, ErrInsufficientPlayers)

	_, err = GenerateAmericano([]int{pA})
	assert.ErrorIs(t, err, ErrInsufficientPlayers)

	_, err = GenerateAmericano([]int{pA, pB, pA})
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestGenerateAmericano_RoundCount(t *testing.T) {
	for n := 2; n <= 17; n++ {
		rounds, err := GenerateAmericano(seq(n))
		require.NoError(t, err)

		even := n
		if even%2 != 0 {
			even++
		}
		assert.Len(t, rounds, even-1, "players=%d", n)
	}
}

func TestGenerateAmericano_NoRepeats(t *testing.T) {
	for n := 2; n <= 17; n++ {
		rounds, err := GenerateAmericano(seq(n))
		require.NoError(t, err)

		partners := make(map[[2]int]int)
		for ri, r := range rounds {
			inRound := make(map[int]bool)
			for _, m := range r {
				for _, team := range []Team{m.TeamA, m.TeamB} {
					for _, p := range team {
						assert.False(t, inRound[p], "players=%d round=%d player %d twice", n, ri+1, p)
						inRound[p] = true
					}
					partners[pairKey(team)]++
				}
			}
		}
		for pair, count := range partners {
			assert.Equal(t, 1, count, "players=%d pair %v repeated", n, pair)
		}
	}
}

func TestGenerateAmericano_Deterministic(t *testing.T) {
	players := []int{7, 3, 11, 42, 5, 9, 21, 8}
	first, err := GenerateAmericano(players)
	require.NoError(t, err)
	second, err := GenerateAmericano(players)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateAmericano_DoesNotMutateInput(t *testing.T) {
	players := []int{1, 2, 3, 4, 5, 6}
	snapshot := append([]int(nil), players...)
	_, err := GenerateAmericano(players)
	require.NoError(t, err)
	assert.Equal(t, snapshot, players)
}

func TestGenerateAmericano_EightPlayersFullRounds(t *testing.T) {
	rounds, err := GenerateAmericano(seq(8))
	require.NoError(t, err)
	for _, r := range rounds {
		assert.Len(t, r, 2)
	}
	assert.Equal(t, 14, CountMatches(rounds))
}

func TestGeneratorFor(t *testing.T) {
	g, err := GeneratorFor(models.FormatAmericano)
	require.NoError(t, err)
	assert.Equal(t, "Americano", g.GetName())

	_, err = GeneratorFor(models.FormatKnockout)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = GeneratorFor("swiss")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func pairKey(t Team) [2]int {
	if t[0] > t[1] {
		return [2]int{t[1], t[0]}
	}
	return [2]int{t[0], t[1]}
}
