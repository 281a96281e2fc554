package db

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists prediction history in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the prediction database at path, creating the schema if
// needed.
func Open(path string) (*Store, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id TEXT PRIMARY KEY,
        orbital_period REAL NOT NULL,
        transit_duration REAL NOT NULL,
        planetary_radius REAL NOT NULL,
        raw_label TEXT,
        category TEXT NOT NULL,
        confidence REAL DEFAULT 0,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `

	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}
	return &Store{db: database}, nil
}

// PredictionRecord is one stored classification.
type PredictionRecord struct {
	ID              string    `json:"id"`
	OrbitalPeriod   float64   `json:"orbital_period"`
	TransitDuration float64   `json:"transit_duration"`
	PlanetaryRadius float64   `json:"planetary_radius"`
	RawLabel        string    `json:"raw_label,omitempty"`
	Category        string    `json:"category"`
	Confidence      float64   `json:"confidence"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *Store) SavePrediction(rec PredictionRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	_, err := s.db.Exec(`
        INSERT INTO predictions (
            id, orbital_period, transit_duration, planetary_radius,
            raw_label, category, confidence, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OrbitalPeriod, rec.TransitDuration, rec.PlanetaryRadius,
		rec.RawLabel, rec.Category, rec.Confidence, rec.CreatedAt)
	return err
}

// RecentPredictions returns stored predictions, newest first. The limit
// defaults to 50 and is capped at 500.
func (s *Store) RecentPredictions(limit int) ([]PredictionRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	rows, err := s.db.Query(`
        SELECT id, orbital_period, transit_duration, planetary_radius,
               raw_label, category, confidence, created_at
        FROM predictions
        ORDER BY created_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0)
	for rows.Next() {
		var rec PredictionRecord
		var rawLabel sql.NullString
		if err := rows.Scan(&rec.ID, &rec.OrbitalPeriod, &rec.TransitDuration, &rec.PlanetaryRadius,
			&rawLabel, &rec.Category, &rec.Confidence, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if rawLabel.Valid {
			rec.RawLabel = rawLabel.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
