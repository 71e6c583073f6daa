// Package store provides a SQLite-backed forecast cache and payoff run history.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps the budgetcast SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached forecast for accountID under key.
func (s *Store) Get(accountID, key string) (*domain.AccountForecast, bool, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM forecast_cache WHERE account_id = ? AND cache_key = ?",
		accountID, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var f domain.AccountForecast
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return nil, false, fmt.Errorf("decoding cached forecast: %w", err)
	}
	return &f, true, nil
}

// Put stores forecast under (accountID, key), replacing any previous entry.
func (s *Store) Put(accountID, key string, forecast *domain.AccountForecast) error {
	payload, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("encoding forecast: %w", err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO forecast_cache
		(account_id, cache_key, scenario_id, window_start, window_end,
		 ending_balance, lowest_balance, payload, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, key, forecast.ScenarioID,
		dateutil.FormatDate(forecast.Window.Start), dateutil.FormatDate(forecast.Window.End),
		int64(forecast.EndingBalance), int64(forecast.LowestBalance),
		string(payload), s.now().UTC().Format(time.RFC3339),
	)
	return err
}

// Invalidate drops every cached forecast of accountID.
func (s *Store) Invalidate(accountID string) error {
	_, err := s.db.Exec("DELETE FROM forecast_cache WHERE account_id = ?", accountID)
	return err
}

// Clear drops every cached forecast.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM forecast_cache")
	return err
}

// CachedCount returns the number of cached forecasts.
func (s *Store) CachedCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM forecast_cache").Scan(&count)
	return count, err
}
