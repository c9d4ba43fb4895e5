package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papaya-padel/tournament-system/brackets"
	"github.com/papaya-padel/tournament-system/locks"
	"github.com/papaya-padel/tournament-system/models"
	"github.com/papaya-padel/tournament-system/repositories"
	"github.com/papaya-padel/tournament-system/storage"
)

// ScheduleSummary is returned by GenerateSchedule.
type ScheduleSummary struct {
	TournamentID int `json:"tournament_id"`
	Rounds       int `json:"rounds"`
	Matches      int `json:"matches"`
}

// ScheduleNotifier is told about every committed schedule. brackets.Hub implements it.
type ScheduleNotifier interface {
	NotifyScheduleGenerated(tournamentID int, payload interface{})
}

type MatchService interface {
	GenerateSchedule(ctx context.Context, caller models.Caller, tournamentID int) (*ScheduleSummary, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type matchService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	locker          locks.Locker
	notifier        ScheduleNotifier
	uploader        storage.FileUploader
	logger          *slog.Logger
}

// NewMatchService wires the schedule persister. notifier and uploader may be nil.
func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	locker locks.Locker,
	notifier ScheduleNotifier,
	uploader storage.FileUploader,
	logger *slog.Logger,
) MatchService {
	if locker == nil {
		locker = locks.NewKeyedMutex()
	}
	return &matchService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		locker:          locker,
		notifier:        notifier,
		uploader:        uploader,
		logger:          logger,
	}
}

func scheduleLockKey(tournamentID int) string {
	return fmt.Sprintf("tournament:%d", tournamentID)
}

func scheduleExportKey(tournamentID int) string {
	return fmt.Sprintf("schedules/tournament_%d.json", tournamentID)
}

// GenerateSchedule строит americano-расписание по списку участников и
// полностью заменяет им сохранённые матчи турнира.
func (s *matchService) GenerateSchedule(ctx context.Context, caller models.Caller, tournamentID int) (*ScheduleSummary, error) {
	if !caller.Role.CanOrganize() {
		return nil, ErrForbiddenOperation
	}

	unlock, err := s.locker.Lock(ctx, scheduleLockKey(tournamentID))
	if err != nil {
		return nil, storeFailure("acquire schedule lock", err)
	}
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, storeFailure("get tournament", err)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, storeFailure("list participants", err)
	}
	if len(participants) < 2 {
		return nil, ErrInsufficientPlayers
	}

	// Формат проверяется после числа игроков: пустой турнир любого формата дает ErrInsufficientPlayers.
	generator, err := brackets.GeneratorFor(tournament.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, tournament.Format)
	}

	players := make([]int, len(participants))
	for i, p := range participants {
		players[i] = p.UserID
	}

	rounds, err := generator.GenerateSchedule(players)
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrInsufficientPlayers):
			return nil, ErrInsufficientPlayers
		case errors.Is(err, brackets.ErrDuplicatePlayer):
			return nil, validationError("%v", err)
		default:
			return nil, fmt.Errorf("generate %s schedule: %w", generator.GetName(), err)
		}
	}

	matches := matchesFromRounds(tournamentID, rounds)
	if err := s.matchRepo.ReplaceForTournament(ctx, tournamentID, matches); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, storeFailure("replace matches", err)
	}

	summary := &ScheduleSummary{
		TournamentID: tournamentID,
		Rounds:       len(rounds),
		Matches:      len(matches),
	}

	s.logger.InfoContext(ctx, "schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("generator", generator.GetName()),
		slog.Int("players", len(players)),
		slog.Int("rounds", summary.Rounds),
		slog.Int("matches", summary.Matches))

	if s.notifier != nil {
		s.notifier.NotifyScheduleGenerated(tournamentID, summary)
	}
	s.exportSchedule(ctx, tournamentID, rounds)

	return summary, nil
}

func matchesFromRounds(tournamentID int, rounds []brackets.Round) []*models.Match {
	matches := make([]*models.Match, 0, brackets.CountMatches(rounds))
	for i, round := range rounds {
		for _, m := range round {
			matches = append(matches, &models.Match{
				TournamentID: tournamentID,
				Round:        i + 1,
				TeamA:        []int64{int64(m.TeamA[0]), int64(m.TeamA[1])},
				TeamB:        []int64{int64(m.TeamB[0]), int64(m.TeamB[1])},
				Status:       models.MatchStatusScheduled,
			})
		}
	}
	return matches
}

type scheduleExport struct {
	TournamentID int              `json:"tournament_id"`
	Rounds       []brackets.Round `json:"rounds"`
}

// exportSchedule выгружает расписание в R2. Ошибки только логируются.
func (s *matchService) exportSchedule(ctx context.Context, tournamentID int, rounds []brackets.Round) {
	if s.uploader == nil {
		return
	}

	body, err := json.Marshal(scheduleExport{TournamentID: tournamentID, Rounds: rounds})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode schedule export", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	result, err := s.uploader.Upload(ctx, scheduleExportKey(tournamentID), "application/json", bytes.NewReader(body))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to export schedule", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	s.logger.DebugContext(ctx, "schedule exported", slog.Int("tournament_id", tournamentID), slog.String("location", result.Location))
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, storeFailure("get tournament", err)
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, storeFailure("list matches", err)
	}
	return matches, nil
}
