package repositories

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papaya-padel/tournament-system/models"
)

func sampleMatches(n int) []*models.Match {
	matches := make([]*models.Match, n)
	for i := range matches {
		matches[i] = &models.Match{
			Round:  i/2 + 1,
			TeamA:  []int64{int64(4*i + 1), int64(4*i + 2)},
			TeamB:  []int64{int64(4*i + 3), int64(4*i + 4)},
			Status: models.MatchStatusScheduled,
		}
	}
	return matches
}

func TestSplitMatchBatches(t *testing.T) {
	matches := sampleMatches(insertBatchSize + 1)

	batches := splitMatchBatches(matches, insertBatchSize)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], insertBatchSize)
	require.Len(t, batches[1], 1)
	assert.Same(t, matches[insertBatchSize], batches[1][0])

	assert.Len(t, splitMatchBatches(sampleMatches(insertBatchSize), insertBatchSize), 1)
	assert.Empty(t, splitMatchBatches(nil, insertBatchSize))
}

func TestBuildMatchInsert(t *testing.T) {
	query, args := buildMatchInsert(42, sampleMatches(2))

	assert.True(t, strings.HasPrefix(query, "INSERT INTO matches (tournament_id, round, team_a, team_b, status) VALUES "))
	assert.Contains(t, query, "($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")
	assert.True(t, strings.HasSuffix(query, " RETURNING id, created_at"))

	require.Len(t, args, 2*matchInsertColumns)
	assert.Equal(t, 42, args[0])
	assert.Equal(t, 1, args[1])
	assert.Equal(t, pq.Array([]int64{1, 2}), args[2])
	assert.Equal(t, pq.Array([]int64{3, 4}), args[3])
	assert.Equal(t, models.MatchStatusScheduled, args[4])
	assert.Equal(t, 42, args[5])
	assert.Equal(t, pq.Array([]int64{5, 6}), args[7])
}

func TestBuildMatchInsert_LastPlaceholderOfFullBatch(t *testing.T) {
	query, args := buildMatchInsert(1, sampleMatches(insertBatchSize))

	last := insertBatchSize * matchInsertColumns
	assert.Len(t, args, last)
	assert.Contains(t, query, fmt.Sprintf("$%d)", last))
	assert.NotContains(t, query, fmt.Sprintf("$%d", last+1))
	assert.Less(t, last, 65535)
}
