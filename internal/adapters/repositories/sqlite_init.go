package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAttractionsQuery := `
	CREATE TABLE IF NOT EXISTS attractions (
		attraction_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		isolated_day INTEGER NOT NULL DEFAULT 0,
		preferred_day INTEGER NOT NULL DEFAULT 0
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        name TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`

	statements := []string{
		createAttractionsQuery,
		createGeocodeCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AttractionSeed struct {
	AttractionID int    `json:"attraction_id"`
	Name         string `json:"name"`
	IsolatedDay  int    `json:"isolated_day"`
	PreferredDay int    `json:"preferred_day"`
}

// Populate the database with attraction data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed attractions: read %q: %w", jsonPath, err)
	}

	var data []AttractionSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed attractions: parse json: %w", err)
	}

	rows := make([]AttractionSeed, 0, len(data))
	for i, item := range data {
		attractionID := item.AttractionID
		if attractionID <= 0 {
			return fmt.Errorf("seed attractions: invalid attractionID at index %d: %d", i+1, attractionID)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed attractions: item at index %d: name cannot be empty", i+1)
		}
		if item.IsolatedDay < 0 || item.PreferredDay < 0 {
			return fmt.Errorf("seed attractions: item at index %d: day constraints cannot be negative", i+1)
		}
		if item.IsolatedDay > 0 && item.PreferredDay > 0 {
			return fmt.Errorf("seed attractions: item at index %d: %q is both isolated and preferred", i+1, name)
		}
		rows = append(rows, AttractionSeed{
			AttractionID: attractionID,
			Name:         name,
			IsolatedDay:  item.IsolatedDay,
			PreferredDay: item.PreferredDay,
		})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed attractions: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO attractions (
		attraction_id,
		name,
		isolated_day,
		preferred_day
	)
	VALUES (?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed attractions: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range rows {
		if _, err := stmt.Exec(a.AttractionID, a.Name, a.IsolatedDay, a.PreferredDay); err != nil {
			return fmt.Errorf("seed attractions: insert attraction_id=%d: %w", a.AttractionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed attractions: commit tx: %w", err)
	}

	return nil
}
