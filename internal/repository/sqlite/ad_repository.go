package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"adboard/internal/domain"
	"adboard/internal/repository"
)

const createAdsTable = `
CREATE TABLE IF NOT EXISTS ads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	author_id INTEGER NOT NULL,
	price INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	is_published BOOLEAN NOT NULL DEFAULT 0,
	image TEXT NULL,
	category_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(category_id) REFERENCES categories(id)
);
CREATE INDEX IF NOT EXISTS idx_ads_price ON ads(price);
CREATE INDEX IF NOT EXISTS idx_ads_category_id ON ads(category_id);
CREATE INDEX IF NOT EXISTS idx_ads_author_id ON ads(author_id);
`

const selectAdColumns = `
SELECT a.id, a.name, a.author_id, u.first_name, a.price, a.description, a.is_published,
	a.image, a.category_id, c.name, a.created_at, a.updated_at
FROM ads a
JOIN users u ON u.id = a.author_id
JOIN categories c ON c.id = a.category_id`

type AdRepository struct {
	db *sql.DB
}

func NewAdRepository(db *sql.DB) repository.AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAdsTable); err != nil {
		return fmt.Errorf("create ads table: %w", err)
	}
	return nil
}

func (r *AdRepository) Create(ctx context.Context, ad *domain.Ad) (int64, error) {
	now := time.Now().UTC()
	ad.CreatedAt = now
	ad.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO ads (name, author_id, price, description, is_published, image, category_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ad.Name,
		ad.AuthorID,
		ad.Price,
		ad.Description,
		ad.IsPublished,
		nullString(ad.Image),
		ad.CategoryID,
		ad.CreatedAt,
		ad.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.Invalid("author", "author or category does not exist")
		}
		return 0, fmt.Errorf("insert ad: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ad last insert id: %w", err)
	}
	ad.ID = id
	return id, nil
}

// Update writes every mutable column except the image in one statement.
func (r *AdRepository) Update(ctx context.Context, ad *domain.Ad) error {
	ad.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE ads
SET name=?, author_id=?, price=?, description=?, is_published=?, category_id=?, updated_at=?
WHERE id=?`,
		ad.Name,
		ad.AuthorID,
		ad.Price,
		ad.Description,
		ad.IsPublished,
		ad.CategoryID,
		ad.UpdatedAt,
		ad.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid("author", "author or category does not exist")
		}
		return fmt.Errorf("update ad: %w", err)
	}
	return requireAffected(res, domain.NotFound("ad", ad.ID))
}

func (r *AdRepository) UpdateImage(ctx context.Context, id int64, image *string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE ads
SET image=?, updated_at=?
WHERE id=?`,
		nullString(image),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update ad image: %w", err)
	}
	return requireAffected(res, domain.NotFound("ad", id))
}

func (r *AdRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ads WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	return requireAffected(res, domain.NotFound("ad", id))
}

func (r *AdRepository) Get(ctx context.Context, id int64) (*domain.Ad, error) {
	row := r.db.QueryRowContext(ctx, selectAdColumns+`
WHERE a.id = ?`, id)
	ad, err := scanAd(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("ad", id)
	}
	return ad, err
}

func (r *AdRepository) Count(ctx context.Context, filter domain.AdFilter) (int, error) {
	where, args := whereClause(adPredicate(filter))

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ads a`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count ads: %w", err)
	}
	return total, nil
}

// List returns one page of matching ads, most expensive first.
func (r *AdRepository) List(ctx context.Context, filter domain.AdFilter, limit, offset int) ([]domain.Ad, error) {
	where, args := whereClause(adPredicate(filter))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, selectAdColumns+where+`
ORDER BY a.price DESC, a.id ASC
LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("query ads: %w", err)
	}
	defer rows.Close()

	ads := []domain.Ad{}
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, *ad)
	}
	return ads, rows.Err()
}

func scanAd(row rowScanner) (*domain.Ad, error) {
	var (
		ad    domain.Ad
		image sql.NullString
	)
	if err := row.Scan(
		&ad.ID,
		&ad.Name,
		&ad.AuthorID,
		&ad.AuthorFirstName,
		&ad.Price,
		&ad.Description,
		&ad.IsPublished,
		&image,
		&ad.CategoryID,
		&ad.CategoryName,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan ad: %w", err)
	}
	if image.Valid && image.String != "" {
		ad.Image = &image.String
	}
	return &ad, nil
}
