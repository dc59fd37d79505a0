package profilestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"github.com/djelite/matchengine/internal/domain/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements Store against the profiles schema. Genre and
// skill sets are stored as text[] columns; mutual matches live in a
// two-column relationship table.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to Postgres, verifies the connection, and runs
// pending schema migrations.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("profilestore: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("profilestore: ping: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing database handle without migrating.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tooling (seeding, ad-hoc queries).
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("profilestore: migration source: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("profilestore: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("profilestore: migrate init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("profilestore: migrate up: %w", err)
	}
	return nil
}

// GetProfile returns a profile by id, or ErrNotFound.
func (s *PostgresStore) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	const query = `
		SELECT id, display_name, genres, skills, experience, location, last_active_at, created_at
		FROM dj_profiles
		WHERE id = $1`

	var (
		p          model.Profile
		location   sql.NullString
		lastActive sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.DisplayName,
		pq.Array(&p.Genres),
		pq.Array(&p.Skills),
		&p.Experience,
		&location,
		&lastActive,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("profilestore: get profile: %w", err)
	}
	p.Location = location.String
	if lastActive.Valid {
		t := lastActive.Time
		p.LastActive = &t
	}
	return p, nil
}

// ListCandidates returns up to limit profiles excluding excludeID. Genre
// filtering uses array overlap; experience filtering uses ANY. Ordering is
// by id so repeated queries over unchanged data return identical pages.
func (s *PostgresStore) ListCandidates(ctx context.Context, excludeID string, filters Filters, limit int) ([]model.Profile, error) {
	query := `
		SELECT id, display_name, genres, skills, experience, location, last_active_at, created_at
		FROM dj_profiles
		WHERE id <> $1`
	args := []any{excludeID}

	if len(filters.Genres) > 0 {
		args = append(args, pq.Array(lowered(filters.Genres)))
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM unnest(genres) g WHERE lower(g) = ANY($%d))", len(args))
	}
	if len(filters.ExperienceLevels) > 0 {
		levels := make([]string, len(filters.ExperienceLevels))
		for i, l := range filters.ExperienceLevels {
			levels[i] = string(l)
		}
		args = append(args, pq.Array(levels))
		query += fmt.Sprintf(" AND experience = ANY($%d)", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args))

	return s.queryProfiles(ctx, query, args...)
}

// CountMutualConnections counts mutual-match rows involving profileID,
// scanning at most limit rows.
func (s *PostgresStore) CountMutualConnections(ctx context.Context, profileID string, limit int) (int, error) {
	const query = `
		SELECT COUNT(*) FROM (
			SELECT 1 FROM mutual_matches
			WHERE profile_a = $1 OR profile_b = $1
			LIMIT $2
		) bounded`

	var count int
	if err := s.db.QueryRowContext(ctx, query, profileID, limit).Scan(&count); err != nil {
		return 0, fmt.Errorf("profilestore: count mutuals: %w", err)
	}
	return count, nil
}

// ListRecent returns up to limit profiles by creation time descending.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]model.Profile, error) {
	const query = `
		SELECT id, display_name, genres, skills, experience, location, last_active_at, created_at
		FROM dj_profiles
		ORDER BY created_at DESC, id
		LIMIT $1`

	return s.queryProfiles(ctx, query, limit)
}

func (s *PostgresStore) queryProfiles(ctx context.Context, query string, args ...any) ([]model.Profile, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("profilestore: query profiles: %w", err)
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		var (
			p          model.Profile
			location   sql.NullString
			lastActive sql.NullTime
		)
		if err := rows.Scan(
			&p.ID,
			&p.DisplayName,
			pq.Array(&p.Genres),
			pq.Array(&p.Skills),
			&p.Experience,
			&location,
			&lastActive,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("profilestore: scan profile: %w", err)
		}
		p.Location = location.String
		if lastActive.Valid {
			t := lastActive.Time
			p.LastActive = &t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profilestore: iterate profiles: %w", err)
	}
	return out, nil
}

func lowered(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = strings.ToLower(it)
	}
	return out
}
