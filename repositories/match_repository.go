package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/papaya-padel/tournament-system/models"
)

var ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")

// insertBatchSize keeps a single INSERT well under the 65535 bind parameter limit.
const insertBatchSize = 1000

type MatchRepository interface {
	// ReplaceForTournament deletes every match of the tournament and inserts matches
	// in a single transaction. Either the whole new set is stored or nothing changes.
	ReplaceForTournament(ctx context.Context, tournamentID int, matches []*models.Match) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) ReplaceForTournament(ctx context.Context, tournamentID int, matches []*models.Match) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		// Блокируем строку турнира: параллельные перегенерации ждут друг друга.
		var lockedID int
		err := tx.QueryRowContext(ctx, `SELECT id FROM tournaments WHERE id = $1 FOR UPDATE`, tournamentID).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID); err != nil {
			return fmt.Errorf("failed to delete matches of tournament %d: %w", tournamentID, err)
		}

		for _, batch := range splitMatchBatches(matches, insertBatchSize) {
			if err := r.insertBatch(ctx, tx, tournamentID, batch); err != nil {
				return err
			}
		}
		return nil
	})
}

func splitMatchBatches(matches []*models.Match, size int) [][]*models.Match {
	batches := make([][]*models.Match, 0, (len(matches)+size-1)/size)
	for start := 0; start < len(matches); start += size {
		end := min(start+size, len(matches))
		batches = append(batches, matches[start:end])
	}
	return batches
}

const matchInsertColumns = 5

// buildMatchInsert returns a multi-row INSERT for matches with placeholders numbered from $1.
func buildMatchInsert(tournamentID int, matches []*models.Match) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO matches (tournament_id, round, team_a, team_b, status) VALUES `)
	args := make([]interface{}, 0, len(matches)*matchInsertColumns)
	for i, m := range matches {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * matchInsertColumns
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, tournamentID, m.Round, pq.Array(m.TeamA), pq.Array(m.TeamB), m.Status)
	}
	sb.WriteString(` RETURNING id, created_at`)
	return sb.String(), args
}

func (r *postgresMatchRepository) insertBatch(ctx context.Context, exec SQLExecutor, tournamentID int, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	query, args := buildMatchInsert(tournamentID, matches)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := pqError(err); ok && pqErr.Code == pqForeignKeyViolation {
			return ErrMatchTournamentInvalid
		}
		return fmt.Errorf("failed to insert matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	// Postgres формально не гарантирует порядок строк RETURNING; для одного
	// INSERT ... VALUES на практике он совпадает с порядком VALUES.
	i := 0
	for rows.Next() {
		if i >= len(matches) {
			return fmt.Errorf("insert returned more rows than matches for tournament %d", tournamentID)
		}
		if err := rows.Scan(&matches[i].ID, &matches[i].CreatedAt); err != nil {
			return fmt.Errorf("failed to scan inserted match: %w", err)
		}
		matches[i].TournamentID = tournamentID
		i++
	}
	return rows.Err()
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, round, team_a, team_b, status, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.TournamentID, &m.Round, pq.Array(&m.TeamA), pq.Array(&m.TeamB), &m.Status, &m.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}
