// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/verte-zerg/touchline/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// timeLayout keeps stored timestamps lexically sortable.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a club or match-day does not exist.
var ErrNotFound = errors.New("not found")

// ErrStaleClub is returned when a match-day was played from a club snapshot
// that another match-day has already advanced.
var ErrStaleClub = errors.New("club changed since the match-day was played")

// Store wraps SQLite access for clubs and match-days.
type Store struct {
	db *sql.DB
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}
	return nil
}

// SaveClub inserts or replaces a club snapshot.
func (s *Store) SaveClub(ctx context.Context, club model.Club) error {
	return saveClub(ctx, s.db, club, time.Now())
}

func saveClub(ctx context.Context, db execer, club model.Club, now time.Time) error {
	if club.ID == "" {
		return fmt.Errorf("club has no id")
	}
	data, err := json.Marshal(club)
	if err != nil {
		return fmt.Errorf("failed to encode club: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO clubs (id, name, match_day, data, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			match_day = excluded.match_day,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		club.ID,
		club.Name,
		club.MatchDay,
		string(data),
		now.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save club: %w", err)
	}
	return nil
}

// LoadClub returns the latest snapshot of a club.
func (s *Store) LoadClub(ctx context.Context, id string) (model.Club, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM clubs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Club{}, fmt.Errorf("club %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Club{}, fmt.Errorf("failed to load club: %w", err)
	}
	var club model.Club
	if err := json.Unmarshal([]byte(data), &club); err != nil {
		return model.Club{}, fmt.Errorf("failed to decode club: %w", err)
	}
	return club, nil
}

// ListClubs returns stored clubs, most recently updated first.
func (s *Store) ListClubs(ctx context.Context) ([]model.ClubSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, match_day, updated_at FROM clubs ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var clubs []model.ClubSummary
	for rows.Next() {
		var c model.ClubSummary
		var updatedAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.MatchDay, &updatedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, updatedAt)
		if err != nil {
			return nil, err
		}
		c.UpdatedAt = parsed
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clubs, nil
}

// InsertMatchDay stores a played match-day, its per-player lines and the
// updated club in one transaction. The stored club must still be at the
// match-day before report.MatchDay, otherwise ErrStaleClub is returned and
// nothing is written. A club without a stored row counts as match-day 0.
func (s *Store) InsertMatchDay(ctx context.Context, report model.MatchDayReport, playedAt time.Time) (err error) {
	if report.ID == "" {
		return fmt.Errorf("match-day report has no id")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var stored int
	err = tx.QueryRowContext(ctx, `SELECT match_day FROM clubs WHERE id = ?`, report.Club.ID).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	case err != nil:
		return fmt.Errorf("failed to read club match-day: %w", err)
	}
	if stored != report.MatchDay-1 {
		err = fmt.Errorf("club %q is at match-day %d, report is for %d: %w",
			report.Club.ID, stored, report.MatchDay, ErrStaleClub)
		return err
	}

	res := report.Result
	_, err = tx.ExecContext(ctx,
		`INSERT INTO matchdays (id, club_id, match_day, played_at, opponent, home, goals_for, goals_against,
			possession_for, xg_for, xg_against, mvp, seed, finance_net, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Club.ID,
		report.MatchDay,
		playedAt.UTC().Format(timeLayout),
		res.Opponent,
		res.Home,
		res.GoalsFor,
		res.GoalsAgainst,
		res.Statistics.Possession.For,
		res.Statistics.ExpectedGoals.For,
		res.Statistics.ExpectedGoals.Against,
		res.MVP,
		res.Seed,
		report.Finance.Net.String(),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match-day: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matchday_players (matchday_id, player_id, name, position, minutes, goals, assists, rating, mvp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, c := range res.Contributions {
		if c.Minutes == 0 {
			continue
		}
		if _, err = stmt.ExecContext(ctx, report.ID, c.PlayerID, c.Name, string(c.Position),
			c.Minutes, c.Goals, c.Assists, c.Rating, c.PlayerID == res.MVP); err != nil {
			return fmt.Errorf("failed to insert player line: %w", err)
		}
	}

	if err = saveClub(ctx, tx, report.Club, playedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// ListMatchDays returns stored match-days in play order, filtered by the query.
func (s *Store) ListMatchDays(ctx context.Context, q model.SeasonQuery) ([]model.MatchDaySummary, error) {
	where, args := seasonFilter(q)
	query := fmt.Sprintf(`SELECT id, club_id, match_day, played_at, opponent, home, goals_for, goals_against,
			possession_for, xg_for, xg_against, mvp, seed, finance_net
		FROM matchdays
		WHERE %s
		ORDER BY played_at DESC, match_day DESC
		LIMIT ?`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list match-days: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var days []model.MatchDaySummary
	for rows.Next() {
		var d model.MatchDaySummary
		var playedAt string
		if err := rows.Scan(&d.ID, &d.ClubID, &d.MatchDay, &playedAt, &d.Opponent, &d.Home, &d.GoalsFor,
			&d.GoalsAgainst, &d.PossessionFor, &d.XGFor, &d.XGAgainst, &d.MVP, &d.Seed, &d.FinanceNet); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, playedAt)
		if err != nil {
			return nil, err
		}
		d.PlayedAt = parsed
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days, nil
}

// GetMatchDay returns a full stored report.
func (s *Store) GetMatchDay(ctx context.Context, id string) (model.MatchDayReport, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM matchdays WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MatchDayReport{}, fmt.Errorf("match-day %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.MatchDayReport{}, fmt.Errorf("failed to load match-day: %w", err)
	}
	var report model.MatchDayReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return model.MatchDayReport{}, fmt.Errorf("failed to decode match-day: %w", err)
	}
	return report, nil
}

// PlayerTotals sums per-player lines over the match-days selected by the query.
func (s *Store) PlayerTotals(ctx context.Context, q model.SeasonQuery) ([]model.PlayerAggregate, error) {
	where, args := seasonFilter(q)
	query := fmt.Sprintf(`WITH selected AS (
		SELECT id FROM matchdays
		WHERE %s
		ORDER BY played_at DESC, match_day DESC
		LIMIT ?
	)
	SELECT mp.player_id, MAX(mp.name), MAX(mp.position), COUNT(*), SUM(mp.minutes), SUM(mp.goals),
		SUM(mp.assists), SUM(mp.rating), SUM(mp.mvp)
	FROM matchday_players mp
	JOIN selected s ON s.id = mp.matchday_id
	GROUP BY mp.player_id
	ORDER BY SUM(mp.goals) DESC, SUM(mp.assists) DESC, mp.player_id ASC`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate players: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.PlayerAggregate
	for rows.Next() {
		var agg model.PlayerAggregate
		if err := rows.Scan(&agg.PlayerID, &agg.Name, &agg.Position, &agg.Apps, &agg.Minutes, &agg.Goals,
			&agg.Assists, &agg.RatingSum, &agg.MVPs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// seasonFilter builds the WHERE clause and args for a query; the last arg is
// always the row limit (-1 means no limit).
func seasonFilter(q model.SeasonQuery) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if q.ClubID != "" {
		clauses = append(clauses, "club_id = ?")
		args = append(args, q.ClubID)
	}
	if q.Since != nil {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, q.Since.UTC().Format(timeLayout))
	}
	limit := -1
	if q.Last > 0 {
		limit = q.Last
	}
	args = append(args, limit)
	return strings.Join(clauses, " AND "), args
}
