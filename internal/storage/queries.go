package storage

import (
	"database/sql"
	"fmt"

	"github.com/tapeball/cricmetrics/internal/model"
)

// DatasetExists returns true if a dataset with the given hash is already stored.
func (db *DB) DatasetExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM datasets WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertDataset inserts a dataset record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertDataset(s model.DatasetSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO datasets(hash, source, loaded_at, deliveries, matches, season_min, season_max, skipped_rows, fault_rows)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Hash, s.Source, s.LoadedAt, s.Deliveries, s.Matches,
		nullSeason(s.SeasonMin), nullSeason(s.SeasonMax), s.SkippedRows, s.FaultRows,
	)
	return err
}

// InsertDeliveries bulk-inserts a dataset's deliveries in a transaction.
// Seq preserves source row order; reading back ordered by seq restores
// ball order exactly.
func (db *DB) InsertDeliveries(hash string, rows []model.Delivery) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO deliveries(
			dataset_hash, seq, match_id, inning, over_num,
			batter, bowler, batting_team, bowling_team,
			batsman_runs, total_runs, is_wicket, phase, season
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range rows {
		_, err = stmt.Exec(
			hash, d.Seq, d.MatchID, d.Inning, d.Over,
			d.Batter, d.Bowler, d.BattingTeam, d.BowlingTeam,
			d.BatsmanRuns, d.TotalRuns, boolInt(d.IsWicket), int(d.Phase),
			nullSeason(d.Season),
		)
		if err != nil {
			return fmt.Errorf("insert delivery %d: %w", d.Seq, err)
		}
	}
	return tx.Commit()
}

// LoadDeliveries returns a dataset's deliveries in ball order. A non-zero
// season restricts the result to that season's matches.
func (db *DB) LoadDeliveries(hash string, season int) ([]model.Delivery, error) {
	query := `
		SELECT seq, match_id, inning, over_num,
		       batter, bowler, batting_team, bowling_team,
		       batsman_runs, total_runs, is_wicket, phase, season
		FROM deliveries WHERE dataset_hash = ?`
	args := []any{hash}
	if season != 0 {
		query += " AND season = ?"
		args = append(args, season)
	}
	query += " ORDER BY seq"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Delivery
	for rows.Next() {
		var d model.Delivery
		var wicketInt, phaseInt int
		var seasonVal sql.NullInt64
		if err := rows.Scan(
			&d.Seq, &d.MatchID, &d.Inning, &d.Over,
			&d.Batter, &d.Bowler, &d.BattingTeam, &d.BowlingTeam,
			&d.BatsmanRuns, &d.TotalRuns, &wicketInt, &phaseInt, &seasonVal,
		); err != nil {
			return nil, err
		}
		d.IsWicket = wicketInt != 0
		d.Phase = model.Phase(phaseInt)
		if seasonVal.Valid {
			d.Season = int(seasonVal.Int64)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListDatasets returns all stored datasets ordered by load time desc.
func (db *DB) ListDatasets() ([]model.DatasetSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source, loaded_at, deliveries, matches, season_min, season_max, skipped_rows, fault_rows
		FROM datasets ORDER BY loaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DatasetSummary
	for rows.Next() {
		s, err := scanDataset(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetDatasetByPrefix finds the first dataset whose hash starts with the given prefix.
func (db *DB) GetDatasetByPrefix(prefix string) (*model.DatasetSummary, error) {
	s, err := scanDataset(db.conn.QueryRow(`
		SELECT hash, source, loaded_at, deliveries, matches, season_min, season_max, skipped_rows, fault_rows
		FROM datasets WHERE hash LIKE ? LIMIT 1`, prefix+"%").Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LatestDataset returns the most recently loaded dataset, or nil when the
// store is empty.
func (db *DB) LatestDataset() (*model.DatasetSummary, error) {
	s, err := scanDataset(db.conn.QueryRow(`
		SELECT hash, source, loaded_at, deliveries, matches, season_min, season_max, skipped_rows, fault_rows
		FROM datasets ORDER BY loaded_at DESC LIMIT 1`).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Seasons returns the distinct seasons present in a dataset, ascending.
// Rows without a derivable season are not represented.
func (db *DB) Seasons(hash string) ([]int, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT season FROM deliveries
		WHERE dataset_hash = ? AND season IS NOT NULL ORDER BY season`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns column names plus rows
// rendered as strings. NULLs come back as empty strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				rec[i] = ""
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func scanDataset(scan func(...any) error) (model.DatasetSummary, error) {
	var s model.DatasetSummary
	var min, max sql.NullInt64
	err := scan(&s.Hash, &s.Source, &s.LoadedAt, &s.Deliveries, &s.Matches,
		&min, &max, &s.SkippedRows, &s.FaultRows)
	if err != nil {
		return s, err
	}
	if min.Valid {
		s.SeasonMin = int(min.Int64)
	}
	if max.Valid {
		s.SeasonMax = int(max.Int64)
	}
	return s, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullSeason maps the 0 "no season" sentinel to SQL NULL.
func nullSeason(season int) any {
	if season == 0 {
		return nil
	}
	return season
}
