package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository создаёт PostgreSQL-реализацию ProfileRepository.
func NewProfileRepository(store *Store) domain.ProfileRepository {
	return &profileRepository{db: store.DB()}
}

func (r *profileRepository) Create(profile domain.Profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, role, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		profile.ID, strings.ToLower(strings.TrimSpace(profile.Email)),
		profile.FullName, string(profile.Role), profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

func (r *profileRepository) Get(id string) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.queryOne(ctx, `
		SELECT id, email, full_name, role, created_at
		FROM profiles
		WHERE id = $1
	`, id)
}

func (r *profileRepository) GetByEmail(email string) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.queryOne(ctx, `
		SELECT id, email, full_name, role, created_at
		FROM profiles
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *profileRepository) List() ([]domain.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, full_name, role, created_at
		FROM profiles
		ORDER BY created_at ASC, email ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]domain.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile rows: %w", err)
	}

	return profiles, nil
}

func (r *profileRepository) queryOne(ctx context.Context, query string, arg any) (domain.Profile, error) {
	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	return profile, nil
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var profile domain.Profile
	var role string

	err := row.Scan(&profile.ID, &profile.Email, &profile.FullName, &role, &profile.CreatedAt)
	if err != nil {
		return domain.Profile{}, err
	}
	profile.Role = domain.Role(role)
	return profile, nil
}

var _ domain.ProfileRepository = (*profileRepository)(nil)
