package grouprepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chiro-horizon/registration-api/internal/adapters/postgres"
	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/ports/out/grouprepo"
)

// Repo is a Postgres implementation of grouprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, g domain.Group) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(g.ID))
	if err != nil {
		return fmt.Errorf("invalid group id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO groups (
			external_id,
			work_year_id,
			name,
			gender,
			min_age_days,
			max_age_days,
			is_active,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		id,
		string(g.WorkYearID),
		g.Name,
		string(g.Gender),
		g.MinimumAgeDays,
		g.MaximumAgeDays,
		g.IsActive,
		g.CreatedAt.UTC(),
		g.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "groups_external_id_unique":
				return grouprepo.ErrAlreadyExists
			case "groups_work_year_name_unique":
				return grouprepo.ErrNameAlreadyUsed
			default:
				return err
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, g domain.Group) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(g.ID))
	if err != nil {
		return fmt.Errorf("invalid group id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE groups
		SET name = $2,
		    gender = $3,
		    min_age_days = $4,
		    max_age_days = $5,
		    is_active = $6,
		    updated_at = $7
		WHERE external_id = $1
	`,
		id,
		g.Name,
		string(g.Gender),
		g.MinimumAgeDays,
		g.MaximumAgeDays,
		g.IsActive,
		g.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "groups_work_year_name_unique" {
			return grouprepo.ErrNameAlreadyUsed
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return grouprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.GroupID) (domain.Group, error) {
	if r.pool == nil {
		return domain.Group{}, errors.New("nil postgres pool")
	}
	gid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Group{}, fmt.Errorf("invalid group id: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT external_id, work_year_id, name, gender, min_age_days, max_age_days, is_active, created_at, updated_at
		FROM groups
		WHERE external_id = $1
	`, gid)
	g, err := scanGroup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Group{}, grouprepo.ErrNotFound
	}
	return g, err
}

func (r *Repo) ListByWorkYear(ctx context.Context, workYearID domain.WorkYearID, includeInactive bool) ([]domain.Group, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT external_id, work_year_id, name, gender, min_age_days, max_age_days, is_active, created_at, updated_at
		FROM groups
		WHERE work_year_id = $1
		  AND ($2 OR is_active)
		ORDER BY min_age_days ASC, name ASC, external_id ASC
	`, string(workYearID), includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGroup(row pgx.Row) (domain.Group, error) {
	var (
		g          domain.Group
		externalID uuid.UUID
		workYearID string
		gender     string
	)
	if err := row.Scan(
		&externalID,
		&workYearID,
		&g.Name,
		&gender,
		&g.MinimumAgeDays,
		&g.MaximumAgeDays,
		&g.IsActive,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return domain.Group{}, err
	}
	g.ID = domain.GroupID(externalID.String())
	g.WorkYearID = domain.WorkYearID(workYearID)
	g.Gender = domain.GroupGender(gender)
	return g, nil
}
