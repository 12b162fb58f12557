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

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'member',
	age INTEGER NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// total_ads is computed on read; the ads table may be empty but must exist.
const selectUserColumns = `
SELECT u.id, u.username, u.password_hash, u.first_name, u.last_name, u.role, u.age,
	(SELECT COUNT(*) FROM ads a WHERE a.author_id = u.id),
	u.created_at, u.updated_at
FROM users u`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, password_hash, first_name, last_name, role, age, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		string(user.Role),
		nullInt(user.Age),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.Conflict("user", fmt.Sprintf("username %q is already taken", user.Username))
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return updateUser(ctx, r.db, user)
}

// UpdateWithLocations writes the profile and replaces the user's location set
// in one transaction; a failure leaves both untouched.
func (r *UserRepository) UpdateWithLocations(ctx context.Context, user *domain.User, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if err := updateUser(ctx, tx, user); err != nil {
		return err
	}
	if err := replaceLocations(ctx, tx, user.ID, names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func updateUser(ctx context.Context, db execer, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx, `
UPDATE users
SET password_hash=?, first_name=?, last_name=?, role=?, age=?, updated_at=?
WHERE id=?`,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		string(user.Role),
		nullInt(user.Age),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res, domain.NotFound("user", user.ID))
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, domain.NotFound("user", id))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+`
WHERE u.id = ?`,
		id,
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user", id)
	}
	return user, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+`
WHERE u.username = ?`,
		username,
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.Error{
			Kind:     domain.ErrNotFound,
			Resource: "user",
			Message:  fmt.Sprintf("user %q not found", username),
		}
	}
	return user, err
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserColumns+`
ORDER BY u.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// scanUser returns sql.ErrNoRows unwrapped so callers can name the missing key.
func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user domain.User
		role string
		age  sql.NullInt64
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&role,
		&age,
		&user.TotalAds,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Role = domain.UserRole(role)
	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	return &user, nil
}

func requireAffected(res sql.Result, missing error) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if aff == 0 {
		return missing
	}
	return nil
}
