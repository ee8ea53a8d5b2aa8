package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// SQLite-backed implementation of the AttractionRepository port.
type SqliteAttractionRepository struct{ DB *sql.DB }

func NewSqliteAttractionRepository(db *sql.DB) *SqliteAttractionRepository {
	return &SqliteAttractionRepository{DB: db}
}

// Return all attractions stored in the database.
func (s *SqliteAttractionRepository) ListAttractions(ctx context.Context) ([]*domain.Attraction, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite attraction repository: DB is nil")
	}

	query := `
	SELECT
		attraction_id,
		name,
		isolated_day,
		preferred_day
	FROM attractions
	ORDER BY attraction_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attractions: query attractions table: %w", err)
	}
	defer rows.Close()

	attractions := make([]*domain.Attraction, 0, 64)
	for rows.Next() {
		var a domain.Attraction
		err := rows.Scan(&a.AttractionID, &a.Name, &a.IsolatedDay, &a.PreferredDay)
		if err != nil {
			return nil, fmt.Errorf("list attractions: scan row: %w", err)
		}
		attractions = append(attractions, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attractions: row iteration: %w", err)
	}

	return attractions, nil
}
