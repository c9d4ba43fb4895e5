package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papaya-padel/tournament-system/locks"
	"github.com/papaya-padel/tournament-system/models"
)

type matchServiceFixture struct {
	store    *memStore
	notifier *recordingNotifier
	uploader *memUploader
	svc      MatchService
}

func newMatchServiceFixture() *matchServiceFixture {
	store := newMemStore()
	f := &matchServiceFixture{
		store:    store,
		notifier: &recordingNotifier{},
		uploader: &memUploader{},
	}
	f.svc = NewMatchService(
		memTournamentRepo{store}, memParticipantRepo{store}, memMatchRepo{store},
		locks.NewKeyedMutex(), f.notifier, f.uploader, discardLogger(),
	)
	return f
}

func TestGenerateSchedule_FourPlayers(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3, 4)

	summary, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, &ScheduleSummary{TournamentID: tournament.ID, Rounds: 3, Matches: 3}, summary)

	matches := f.store.matchesOf(tournament.ID)
	require.Len(t, matches, 3)
	for i, m := range matches {
		assert.Equal(t, i+1, m.Round)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
	}
	assert.Equal(t, []int64{1, 4}, matches[0].TeamA)
	assert.Equal(t, []int64{2, 3}, matches[0].TeamB)
}

func TestGenerateSchedule_SinglePlayerWritesNothing(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1)

	_, err := f.svc.GenerateSchedule(context.Background(), superadmin, tournament.ID)
	require.ErrorIs(t, err, ErrInsufficientPlayers)
	assert.Zero(t, f.store.replaceCalls)
	assert.Empty(t, f.store.matchesOf(tournament.ID))
	assert.Empty(t, f.notifier.calls)
}

func TestGenerateSchedule_ThreePlayersStoresNoMatches(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3)

	summary, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Rounds)
	assert.Zero(t, summary.Matches)
	assert.Equal(t, 1, f.store.replaceCalls)
}

func TestGenerateSchedule_RegenerationReplacesPriorSet(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3, 4, 5, 6, 7, 8)

	first, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, first.Rounds)
	assert.Equal(t, 14, first.Matches)
	before := f.store.matchesOf(tournament.ID)

	second, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	after := f.store.matchesOf(tournament.ID)
	require.Len(t, after, len(before))
	for i := range before {
		assert.NotEqual(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Round, after[i].Round)
		assert.Equal(t, before[i].TeamA, after[i].TeamA)
		assert.Equal(t, before[i].TeamB, after[i].TeamB)
	}

	// Новый участник: старое расписание полностью заменяется.
	f.store.addParticipants(tournament.ID, 9)
	third, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, third.Rounds)
	assert.Len(t, f.store.matchesOf(tournament.ID), third.Matches)
}

func TestGenerateSchedule_StoreFailureKeepsPriorSet(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3, 4)

	_, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	before := f.store.matchesOf(tournament.ID)

	f.store.replaceErr = errors.New("connection reset")
	_, err = f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.ErrorIs(t, err, ErrStoreFailure)
	assert.Equal(t, before, f.store.matchesOf(tournament.ID))
	assert.Len(t, f.notifier.calls, 1)
}

func TestGenerateSchedule_Errors(t *testing.T) {
	f := newMatchServiceFixture()
	knockout := f.store.addTournament(models.FormatKnockout, models.StatusPublished)
	f.store.addParticipants(knockout.ID, 1, 2, 3, 4)

	_, err := f.svc.GenerateSchedule(context.Background(), player, knockout.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = f.svc.GenerateSchedule(context.Background(), club, 999)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	_, err = f.svc.GenerateSchedule(context.Background(), club, knockout.ID)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	emptyKnockout := f.store.addTournament(models.FormatKnockout, models.StatusPublished)
	_, err = f.svc.GenerateSchedule(context.Background(), club, emptyKnockout.ID)
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)

	f.store.listErr = errors.New("timeout")
	americano := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	_, err = f.svc.GenerateSchedule(context.Background(), club, americano.ID)
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.Zero(t, f.store.replaceCalls)
}

func TestGenerateSchedule_NotifiesAndExports(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3, 4)

	_, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{tournament.ID}, f.notifier.calls)

	body, ok := f.uploader.objects[scheduleExportKey(tournament.ID)]
	require.True(t, ok)
	var exported scheduleExport
	require.NoError(t, json.Unmarshal(body, &exported))
	assert.Equal(t, tournament.ID, exported.TournamentID)
	assert.Len(t, exported.Rounds, 3)
}

func TestGenerateSchedule_ExportFailureIsNotFatal(t *testing.T) {
	f := newMatchServiceFixture()
	f.uploader.err = errors.New("bucket unavailable")
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3, 4)

	summary, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Matches)
	assert.Len(t, f.store.matchesOf(tournament.ID), 3)
}

func TestGenerateSchedule_ConcurrentRegenerationLeavesOneCoherentSet(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3, 4, 5, 6, 7, 8)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	matches := f.store.matchesOf(tournament.ID)
	require.Len(t, matches, 14)
	perRound := map[int]int{}
	for _, m := range matches {
		perRound[m.Round]++
	}
	for round := 1; round <= 7; round++ {
		assert.Equal(t, 2, perRound[round], "round %d", round)
	}
	assert.Len(t, f.notifier.calls, workers)
}

func TestListMatches(t *testing.T) {
	f := newMatchServiceFixture()
	tournament := f.store.addTournament(models.FormatAmericano, models.StatusPublished)
	f.store.addParticipants(tournament.ID, 1, 2, 3, 4)

	list, err := f.svc.ListMatches(context.Background(), tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.GenerateSchedule(context.Background(), club, tournament.ID)
	require.NoError(t, err)

	list, err = f.svc.ListMatches(context.Background(), tournament.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = f.svc.ListMatches(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
