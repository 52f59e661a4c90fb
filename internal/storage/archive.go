package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/arc-scorecard/internal/report"
	"github.com/vovakirdan/arc-scorecard/internal/session"
)

// ClosedRecord is one archived scorecard.
type ClosedRecord struct {
	ID                         int64
	CardID                     string
	Reason                     string
	SourceURL                  string
	Score                      float64
	TotalActions               int
	TotalLevelsCompleted       int
	TotalEnvironments          int
	TotalEnvironmentsCompleted int
	SessionCount               int
	ClosedAt                   time.Time

	// Report is only populated by ClosedByID.
	Report *report.Report
}

// SaveClosed archives a closed scorecard and one row per play.
// Returns the ID of the inserted scorecard record.
func (s *Store) SaveClosed(c session.Closed) (int64, error) {
	data, err := json.Marshal(c.Report)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode report: %w", err)
	}
	closedAt := formatTime(s.now())
	r := c.Report

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(s.dialect.rebind(
		`INSERT INTO closed_scorecards
		 (card_id, reason, source_url, score, total_actions, total_levels_completed,
		  total_environments, total_environments_completed, session_count, report_json, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`),
		r.CardID, c.Reason, r.SourceURL, r.Score, r.TotalActions, r.TotalLevelsCompleted,
		r.TotalEnvironments, r.TotalEnvironmentsCompleted, len(c.SessionIDs), string(data), closedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save scorecard %s: %w", r.CardID, err)
	}

	insertPlay := s.dialect.rebind(
		`INSERT INTO closed_plays
		 (card_id, game_id, session_id, score, levels_completed, actions, won, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, game := range r.Environments {
		for _, run := range game.Runs {
			won := 0
			if run.Completed != nil && *run.Completed {
				won = 1
			}
			if _, err := tx.Exec(insertPlay,
				r.CardID, game.ID, run.GUID, run.Score, run.LevelsCompleted, run.Actions, won, closedAt,
			); err != nil {
				return 0, fmt.Errorf("storage: cannot save play %s.%s: %w", run.GUID, game.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return id, nil
}

// HandleClosed implements session.ClosedHandler.
func (s *Store) HandleClosed(c session.Closed) error {
	_, err := s.SaveClosed(c)
	return err
}

// Ensure Store implements ClosedHandler
var _ session.ClosedHandler = (*Store)(nil)

const closedColumns = `id, card_id, reason, source_url, score, total_actions, total_levels_completed,
	total_environments, total_environments_completed, session_count, closed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanClosed(row scanner, extra ...any) (ClosedRecord, error) {
	var rec ClosedRecord
	var closedAt string
	dest := []any{
		&rec.ID, &rec.CardID, &rec.Reason, &rec.SourceURL, &rec.Score,
		&rec.TotalActions, &rec.TotalLevelsCompleted, &rec.TotalEnvironments,
		&rec.TotalEnvironmentsCompleted, &rec.SessionCount, &closedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return rec, err
	}
	rec.ClosedAt = parseTime(closedAt)
	return rec, nil
}

// ClosedByID retrieves an archived scorecard with its full report.
// Returns nil if the card was never archived.
func (s *Store) ClosedByID(cardID string) (*ClosedRecord, error) {
	var reportJSON string
	row := s.db.QueryRow(s.dialect.rebind(
		`SELECT `+closedColumns+`, report_json FROM closed_scorecards WHERE card_id = ?`), cardID)

	rec, err := scanClosed(row, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scorecard: %w", err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(reportJSON), &r); err != nil {
		return nil, fmt.Errorf("storage: cannot decode report for %s: %w", cardID, err)
	}
	rec.Report = &r
	return &rec, nil
}

// RecentClosed retrieves the most recently archived scorecards.
func (s *Store) RecentClosed(limit int) ([]ClosedRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(s.dialect.rebind(
		`SELECT `+closedColumns+`
		 FROM closed_scorecards
		 ORDER BY closed_at DESC, id DESC
		 LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scorecards: %w", err)
	}
	defer rows.Close()

	var records []ClosedRecord
	for rows.Next() {
		rec, err := scanClosed(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// GameStats contains aggregated statistics for a game across archived plays.
type GameStats struct {
	GameID     string
	Plays      int
	Wins       int
	BestScore  float64
	AvgScore   float64
	Actions    int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
// A game with no archived plays yields zero stats.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var lastPlayed sql.NullString

	err := s.db.QueryRow(s.dialect.rebind(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(actions), 0), MAX(closed_at)
		 FROM closed_plays WHERE game_id = ?`), gameID,
	).Scan(&stats.Plays, &stats.Wins, &stats.BestScore, &stats.AvgScore, &stats.Actions, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}
	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games with archived plays.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), SUM(won), MAX(score), AVG(score), SUM(actions), MAX(closed_at)
		 FROM closed_plays
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed string
		if err := rows.Scan(&gs.GameID, &gs.Plays, &gs.Wins, &gs.BestScore, &gs.AvgScore, &gs.Actions, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
