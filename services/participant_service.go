package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/papaya-padel/tournament-system/models"
	"github.com/papaya-padel/tournament-system/repositories"
)

type ParticipantService interface {
	RegisterParticipant(ctx context.Context, caller models.Caller, tournamentID int) (*models.Participant, error)
	ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error)
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	logger          *slog.Logger
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		logger:          logger,
	}
}

// RegisterParticipant записывает вызывающего пользователя в americano-турнир.
// Проверка существующей записи только предварительная: гонку решает
// уникальный индекс (tournament_id, user_id).
func (s *participantService) RegisterParticipant(ctx context.Context, caller models.Caller, tournamentID int) (*models.Participant, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, storeFailure("get tournament", err)
	}
	if tournament.Format != models.FormatAmericano {
		return nil, ErrUnsupportedFormat
	}

	existing, err := s.participantRepo.FindByUserAndTournament(ctx, caller.UserID, tournamentID)
	switch {
	case err == nil && existing != nil:
		return nil, ErrAlreadyRegistered
	case err != nil && !errors.Is(err, repositories.ErrParticipantNotFound):
		return nil, storeFailure("find participant", err)
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		UserID:       caller.UserID,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repositories.ErrParticipantTournamentInvalid):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrParticipantUserInvalid):
			return nil, ErrUserNotFound
		default:
			return nil, storeFailure("create participant", err)
		}
	}

	s.logger.InfoContext(ctx, "participant registered",
		slog.Int("tournament_id", tournamentID), slog.Int("user_id", caller.UserID), slog.Int("participant_id", participant.ID))
	return participant, nil
}

func (s *participantService) ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, storeFailure("get tournament", err)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, storeFailure("list participants", err)
	}
	return participants, nil
}
