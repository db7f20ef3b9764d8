package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `
	id, name, email, role, employee_code, department, position, phone, address, join_date, created_at, updated_at
`

type profileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepository{db: db}
}

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var (
		p    profile.Profile
		role string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &role, &p.EmployeeCode,
		&p.Department, &p.Position, &p.Phone, &p.Address, &p.JoinDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return profile.Profile{}, err
	}
	p.Role = user.ParseRole(role)
	return p, nil
}

// GetByID implements profile.ProfileRepository.
func (r *profileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// CreateIfAbsent implements profile.ProfileRepository.
func (r *profileRepository) CreateIfAbsent(ctx context.Context, p profile.Profile) (profile.Profile, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (
			id, name, email, role, employee_code, department, position, phone, address, join_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + profileColumns

	created, err := scanProfile(q.QueryRow(ctx, query,
		p.ID, p.Name, p.Email, string(p.Role), p.EmployeeCode,
		p.Department, p.Position, p.Phone, p.Address, p.JoinDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, getErr := r.GetByID(ctx, p.ID)
			if getErr != nil {
				return profile.Profile{}, false, getErr
			}
			if existing == nil {
				return profile.Profile{}, false, fmt.Errorf("profile %s conflicted but was not found", p.ID)
			}
			return *existing, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, true, nil
}

// Update implements profile.ProfileRepository.
func (r *profileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET name = $2,
			department = $3,
			position = $4,
			phone = $5,
			address = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	updated, err := scanProfile(q.QueryRow(ctx, query,
		p.ID, p.Name, p.Department, p.Position, p.Phone, p.Address,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// List implements profile.ProfileRepository.
func (r *profileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	result := []profile.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return result, nil
}
