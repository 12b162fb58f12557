package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"adboard/internal/domain"
	"adboard/internal/repository"
)

const createLocationsTable = `
CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	lat REAL NULL,
	lng REAL NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_locations_user_id ON locations(user_id);
`

type LocationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLocationsTable); err != nil {
		return fmt.Errorf("create locations table: %w", err)
	}
	return nil
}

func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO locations (user_id, name, lat, lng)
VALUES (?, ?, ?, ?)`,
		location.UserID,
		location.Name,
		nullFloat(location.Lat),
		nullFloat(location.Lng),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.NotFound("user", location.UserID)
		}
		return 0, fmt.Errorf("insert location: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("location last insert id: %w", err)
	}
	location.ID = id
	return id, nil
}

func (r *LocationRepository) Update(ctx context.Context, location *domain.Location) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE locations
SET user_id=?, name=?, lat=?, lng=?
WHERE id=?`,
		location.UserID,
		location.Name,
		nullFloat(location.Lat),
		nullFloat(location.Lng),
		location.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("user", location.UserID)
		}
		return fmt.Errorf("update location: %w", err)
	}
	return requireAffected(res, domain.NotFound("location", location.ID))
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return requireAffected(res, domain.NotFound("location", id))
}

func (r *LocationRepository) Get(ctx context.Context, id int64) (*domain.Location, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, lat, lng
FROM locations
WHERE id=?`, id)
	location, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("location", id)
	}
	return location, err
}

func (r *LocationRepository) List(ctx context.Context) ([]domain.Location, error) {
	return r.query(ctx, `
SELECT id, user_id, name, lat, lng
FROM locations
ORDER BY id ASC`)
}

func (r *LocationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Location, error) {
	return r.query(ctx, `
SELECT id, user_id, name, lat, lng
FROM locations
WHERE user_id=?
ORDER BY id ASC`, userID)
}

// ReplaceForUser swaps the user's location set for one location per distinct non-blank name.
func (r *LocationRepository) ReplaceForUser(ctx context.Context, userID int64, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if err := replaceLocations(ctx, tx, userID, names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func replaceLocations(ctx context.Context, db execer, userID int64, names []string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM locations WHERE user_id=?`, userID); err != nil {
		return fmt.Errorf("delete locations: %w", err)
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if _, err := db.ExecContext(ctx, `
INSERT INTO locations (user_id, name)
VALUES (?, ?)`,
			userID,
			name,
		); err != nil {
			if isForeignKeyViolation(err) {
				return domain.NotFound("user", userID)
			}
			return fmt.Errorf("insert location: %w", err)
		}
	}
	return nil
}

func (r *LocationRepository) query(ctx context.Context, query string, args ...any) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	locations := []domain.Location{}
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *location)
	}
	return locations, rows.Err()
}

func scanLocation(row rowScanner) (*domain.Location, error) {
	var (
		location domain.Location
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&location.ID, &location.UserID, &location.Name, &lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan location: %w", err)
	}
	if lat.Valid {
		location.Lat = &lat.Float64
	}
	if lng.Valid {
		location.Lng = &lng.Float64
	}
	return &location, nil
}
