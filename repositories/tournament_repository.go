package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/papaya-padel/tournament-system/models"
)

var (
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTournamentInvalidOrg = errors.New("invalid club reference")
	ErrTournamentInvalid    = errors.New("tournament violates a table constraint")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	CreateMany(ctx context.Context, tournaments []*models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	DeleteAll(ctx context.Context) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, club_id, format, start_date, capacity, status, settings, created_at, updated_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	return r.insert(ctx, r.db, t)
}

// CreateMany inserts all tournaments in one transaction.
func (r *postgresTournamentRepository) CreateMany(ctx context.Context, tournaments []*models.Tournament) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, t := range tournaments {
			if err := r.insert(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresTournamentRepository) insert(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, club_id, format, start_date, capacity, status, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := exec.QueryRowContext(ctx, query,
		t.Name, t.ClubID, t.Format, t.StartDate, t.Capacity, t.Status, nullableJSON(t.Settings),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE status = $1 ORDER BY start_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments by status %s: %w", status, err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	query := `UPDATE tournaments SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + tournamentColumns
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, r.handleTournamentError(err)
	}
	return t, nil
}

// DeleteAll removes every tournament; participants and matches cascade.
func (r *postgresTournamentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tournaments`); err != nil {
		return fmt.Errorf("failed to delete tournaments: %w", err)
	}
	return nil
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var settings []byte
	err := row.Scan(
		&t.ID, &t.Name, &t.ClubID, &t.Format, &t.StartDate, &t.Capacity, &t.Status, &settings, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		t.Settings = settings
	}
	return t, nil
}

// nullableJSON maps an empty document to SQL NULL.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := pqError(err); ok {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			if pqErr.Constraint == "tournaments_club_id_fkey" {
				return ErrTournamentInvalidOrg
			}
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrTournamentInvalid, pqErr.Constraint)
		}
	}
	return err
}
