// Package storage persists the QSO log in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/db2zw/x6100-gui/pkg/logging"
)

// WorkedStatus reports whether a remote station was contacted before.
type WorkedStatus int

const (
	WorkedNo WorkedStatus = iota
	WorkedYes
	WorkedSameMode
)

// Record is one logged contact. LocalCall, RemoteCall, Mode and Band are
// required; the rest may be empty.
type Record struct {
	ID         int64     `json:"id"`
	Time       time.Time `json:"time"`
	FreqMHz    float64   `json:"freq_mhz"`
	Band       string    `json:"band"`
	Mode       string    `json:"mode"`
	LocalCall  string    `json:"local_call"`
	RemoteCall string    `json:"remote_call"`
	RSTS       int       `json:"rsts"`
	RSTR       int       `json:"rstr"`
	LocalGrid  string    `json:"local_grid,omitempty"`
	RemoteGrid string    `json:"remote_grid,omitempty"`
	OpName     string    `json:"op_name,omitempty"`
}

// QSOStore is the SQLite-backed contact log.
type QSOStore struct {
	db *sql.DB
	wg sync.WaitGroup
}

// NewQSOStore opens or creates the log database at dbPath.
func NewQSOStore(dbPath string) (*QSOStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &QSOStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

// Close waits for any background import to finish, then closes the
// database connection.
func (s *QSOStore) Close() error {
	s.wg.Wait()
	return s.db.Close()
}

func (s *QSOStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS qso_log (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		ts              TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		freq            REAL CHECK ( freq > 0 ),
		band            TEXT NOT NULL,
		mode            TEXT CHECK ( mode IN ('SSB', 'CW', 'FT8', 'FT4', 'AM', 'FM', 'MFSK')),
		local_callsign  TEXT NOT NULL,
		remote_callsign TEXT NOT NULL,
		canonized_remote_callsign TEXT NOT NULL,
		rsts            INTEGER NOT NULL,
		rstr            INTEGER NOT NULL,
		local_grid      TEXT,
		remote_grid     TEXT,
		op_name         TEXT
	);
	CREATE INDEX IF NOT EXISTS qso_log_idx_canonized_remote_callsign
		ON qso_log(canonized_remote_callsign COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS qso_log_idx_mode ON qso_log(mode);
	CREATE INDEX IF NOT EXISTS qso_log_idx_ts ON qso_log(ts);
	CREATE UNIQUE INDEX IF NOT EXISTS qso_log_idx_ts_call
		ON qso_log(ts, remote_callsign);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRecord inserts one contact. Re-imported duplicates (same timestamp
// and remote callsign) are ignored silently.
func (s *QSOStore) SaveRecord(rec Record) error {
	if rec.LocalCall == "" {
		return fmt.Errorf("local callsign is required")
	}
	if rec.RemoteCall == "" {
		return fmt.Errorf("remote callsign is required")
	}
	if rec.Mode == "" {
		return fmt.Errorf("mode is required")
	}
	if rec.Band == "" {
		return fmt.Errorf("band is required")
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO qso_log (
			ts, freq, band, mode, local_callsign, remote_callsign,
			canonized_remote_callsign, rsts, rstr, local_grid, remote_grid, op_name
		) VALUES (datetime(?, 'unixepoch'), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Time.Unix(), rec.FreqMHz, rec.Band, rec.Mode,
		rec.LocalCall, rec.RemoteCall, CanonizeCallsign(rec.RemoteCall),
		rec.RSTS, rec.RSTR,
		nullable(rec.LocalGrid), nullable(rec.RemoteGrid), nullable(rec.OpName))
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Recent returns the newest contacts, most recent first.
func (s *QSOStore) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, strftime('%s', ts), freq, band, mode,
		       local_callsign, remote_callsign, rsts, rstr,
		       COALESCE(local_grid, ''), COALESCE(remote_grid, ''), COALESCE(op_name, '')
		FROM qso_log ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var unix int64
		err := rows.Scan(&rec.ID, &unix, &rec.FreqMHz, &rec.Band, &rec.Mode,
			&rec.LocalCall, &rec.RemoteCall, &rec.RSTS, &rec.RSTR,
			&rec.LocalGrid, &rec.RemoteGrid, &rec.OpName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Time = time.Unix(unix, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SearchWorked checks the log for earlier contacts with callsign. It
// reports WorkedSameMode when one exists on the same band and mode.
func (s *QSOStore) SearchWorked(callsign, mode, band string) (WorkedStatus, error) {
	rows, err := s.db.Query(
		"SELECT DISTINCT band, mode FROM qso_log WHERE canonized_remote_callsign LIKE ?",
		CanonizeCallsign(callsign))
	if err != nil {
		return WorkedNo, fmt.Errorf("failed to search log: %w", err)
	}
	defer rows.Close()

	worked := WorkedNo
	for rows.Next() {
		var b, m string
		if err := rows.Scan(&b, &m); err != nil {
			return WorkedNo, fmt.Errorf("failed to scan record: %w", err)
		}
		worked = WorkedYes
		if b == band && m == mode {
			return WorkedSameMode, nil
		}
	}
	return worked, rows.Err()
}

// ImportADIF imports contacts from an ADIF file in the background and
// renames the file to .bak when done. Missing file is not an error.
func (s *QSOStore) ImportADIF(path string, localCall string) {
	if _, err := os.Stat(path); err != nil {
		logging.Debug("storage", "No ADI file to import")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		records, err := ReadADIF(path)
		if err != nil {
			logging.Errorf("storage", "ADIF import failed: %v", err)
			return
		}

		imported := 0
		for _, rec := range records {
			if rec.LocalCall == "" {
				rec.LocalCall = localCall
			}
			if err := s.SaveRecord(rec); err != nil {
				logging.Warnf("storage", "Skipping ADIF record for %s: %v", rec.RemoteCall, err)
				continue
			}
			imported++
		}

		if err := os.Rename(path, path+".bak"); err != nil {
			logging.Errorf("storage", "Failed to rename imported file: %v", err)
		}
		logging.Infof("storage", "Imported %d QSOs from %d", imported, len(records))
	}()
}

// CanonizeCallsign strips portable prefixes and suffixes like EA8/ or /P
// so all variants of a callsign collapse to one log identity.
func CanonizeCallsign(callsign string) string {
	call := strings.ToUpper(strings.TrimSpace(callsign))
	if call == "" {
		return call
	}

	best := ""
	for _, part := range strings.Split(call, "/") {
		// The home call is the longest segment carrying a digit
		if strings.ContainsAny(part, "0123456789") && len(part) > len(best) {
			best = part
		}
	}
	if best == "" {
		return call
	}
	return best
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
