package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/papaya-padel/tournament-system/models"
	"github.com/papaya-padel/tournament-system/repositories"
)

type TournamentService interface {
	CreateTournament(ctx context.Context, caller models.Caller, input CreateTournamentInput) (*models.Tournament, error)
	ApproveTournament(ctx context.Context, caller models.Caller, tournamentID int) (*models.Tournament, error)
	ListPublishedTournaments(ctx context.Context) ([]models.Tournament, error)
	GetTournament(ctx context.Context, tournamentID int) (*models.TournamentDetails, error)
	SeedDemoTournaments(ctx context.Context, caller models.Caller) ([]*models.Tournament, error)
}

// CreateTournamentInput has no status or club fields: both are always set by the service.
type CreateTournamentInput struct {
	Name      string                  `json:"name"`
	Format    models.TournamentFormat `json:"format"`
	StartDate *time.Time              `json:"start_date"`
	Capacity  int                     `json:"capacity"`
	Settings  json.RawMessage         `json:"settings,omitempty"`
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	now             func() time.Time
	logger          *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		now:             time.Now,
		logger:          logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, caller models.Caller, input CreateTournamentInput) (*models.Tournament, error) {
	if !caller.Role.CanOrganize() {
		return nil, ErrForbiddenOperation
	}
	if err := validateCreateTournament(input); err != nil {
		return nil, err
	}

	clubID := caller.UserID
	t := &models.Tournament{
		Name:      strings.TrimSpace(input.Name),
		ClubID:    &clubID,
		Format:    input.Format,
		StartDate: input.StartDate.UTC(),
		Capacity:  input.Capacity,
		Status:    models.StatusPendingApproval,
		Settings:  input.Settings,
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentInvalid) {
			return nil, validationError("%v", err)
		}
		return nil, storeFailure("create tournament", err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", t.ID), slog.Int("club_id", clubID), slog.String("format", string(t.Format)))
	return t, nil
}

func validateCreateTournament(input CreateTournamentInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return validationError("name is required")
	case input.Format == "":
		return validationError("format is required")
	case !input.Format.Valid():
		return validationError("unknown format %q", input.Format)
	case input.StartDate == nil || input.StartDate.IsZero():
		return validationError("start_date is required")
	case input.Capacity < 0:
		return validationError("capacity must not be negative")
	}
	if len(input.Settings) > 0 && !json.Valid(input.Settings) {
		return validationError("settings must be valid JSON")
	}
	return nil
}

func (s *tournamentService) ApproveTournament(ctx context.Context, caller models.Caller, tournamentID int) (*models.Tournament, error) {
	switch caller.Role {
	case models.RoleSuperadmin:
	case models.RolePlayer, models.RoleClub:
		return nil, ErrForbiddenOperation
	default:
		return nil, ErrForbiddenOperation
	}

	t, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status == models.StatusPublished {
		return t, nil
	}

	updated, err := s.tournamentRepo.UpdateStatus(ctx, tournamentID, models.StatusPublished)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, storeFailure("publish tournament", err)
	}

	s.logger.InfoContext(ctx, "tournament published", slog.Int("tournament_id", tournamentID), slog.Int("approved_by", caller.UserID))
	return updated, nil
}

func (s *tournamentService) ListPublishedTournaments(ctx context.Context) ([]models.Tournament, error) {
	list, err := s.tournamentRepo.ListByStatus(ctx, models.StatusPublished)
	if err != nil {
		return nil, storeFailure("list published tournaments", err)
	}
	return list, nil
}

// GetTournament loads the tournament, its participants and its matches concurrently.
func (s *tournamentService) GetTournament(ctx context.Context, tournamentID int) (*models.TournamentDetails, error) {
	details := &models.TournamentDetails{}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.getTournament(gCtx, tournamentID)
		if err != nil {
			return err
		}
		details.Tournament = t
		return nil
	})
	g.Go(func() error {
		participants, err := s.participantRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return storeFailure("list participants", err)
		}
		details.Participants = participants
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return storeFailure("list matches", err)
		}
		details.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// SeedDemoTournaments wipes all tournaments and inserts the three published samples.
func (s *tournamentService) SeedDemoTournaments(ctx context.Context, caller models.Caller) ([]*models.Tournament, error) {
	if caller.Role != models.RoleSuperadmin {
		return nil, ErrForbiddenOperation
	}

	now := s.now().UTC()
	sample := []*models.Tournament{
		{Name: "Papaya - Grupos", Format: models.FormatGroupsKnockout, StartDate: now, Capacity: 16, Status: models.StatusPublished},
		{Name: "Papaya - Knockout", Format: models.FormatKnockout, StartDate: now, Capacity: 8, Status: models.StatusPublished},
		{Name: "Papaya - Americano", Format: models.FormatAmericano, StartDate: now, Capacity: 12, Status: models.StatusPublished},
	}

	if err := s.tournamentRepo.DeleteAll(ctx); err != nil {
		return nil, storeFailure("delete tournaments", err)
	}
	if err := s.tournamentRepo.CreateMany(ctx, sample); err != nil {
		return nil, storeFailure("insert sample tournaments", err)
	}

	s.logger.WarnContext(ctx, "demo tournaments seeded", slog.Int("count", len(sample)), slog.Int("seeded_by", caller.UserID))
	return sample, nil
}

func (s *tournamentService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, storeFailure("get tournament", err)
	}
	return t, nil
}
