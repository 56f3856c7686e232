package workyearrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chiro-horizon/registration-api/internal/adapters/postgres"
	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/ports/out/workyearrepo"
)

// Repo is a Postgres implementation of workyearrepo.Repository. A partial
// unique index on (end_date IS NULL) guarantees at most one open work year.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, wy domain.WorkYear) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(wy.ID))
	if err != nil {
		return fmt.Errorf("invalid work year id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO work_years (external_id, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		id,
		wy.StartDate.UTC(),
		nullableTime(wy.EndDate),
		wy.CreatedAt.UTC(),
		wy.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "work_years_external_id_unique":
				return workyearrepo.ErrAlreadyExists
			case "work_years_single_current":
				return workyearrepo.ErrCurrentExists
			default:
				return err
			}
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, wy domain.WorkYear) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(wy.ID))
	if err != nil {
		return fmt.Errorf("invalid work year id: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE work_years
		SET start_date = $2,
		    end_date = $3,
		    updated_at = $4
		WHERE external_id = $1
	`,
		id,
		wy.StartDate.UTC(),
		nullableTime(wy.EndDate),
		wy.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "work_years_single_current" {
			return workyearrepo.ErrCurrentExists
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return workyearrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.WorkYearID) (domain.WorkYear, error) {
	if r.pool == nil {
		return domain.WorkYear{}, errors.New("nil postgres pool")
	}
	wid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.WorkYear{}, fmt.Errorf("invalid work year id: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT external_id, start_date, end_date, created_at, updated_at
		FROM work_years
		WHERE external_id = $1
	`, wid)
	wy, err := scanWorkYear(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.WorkYear{}, workyearrepo.ErrNotFound
	}
	return wy, err
}

func (r *Repo) Current(ctx context.Context) (domain.WorkYear, error) {
	if r.pool == nil {
		return domain.WorkYear{}, errors.New("nil postgres pool")
	}

	row := r.pool.QueryRow(ctx, `
		SELECT external_id, start_date, end_date, created_at, updated_at
		FROM work_years
		WHERE end_date IS NULL
	`)
	wy, err := scanWorkYear(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.WorkYear{}, workyearrepo.ErrNoCurrent
	}
	return wy, err
}

func (r *Repo) List(ctx context.Context) ([]domain.WorkYear, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT external_id, start_date, end_date, created_at, updated_at
		FROM work_years
		ORDER BY start_date DESC, external_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.WorkYear, 0)
	for rows.Next() {
		wy, err := scanWorkYear(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wy)
	}
	return out, rows.Err()
}

func scanWorkYear(row pgx.Row) (domain.WorkYear, error) {
	var (
		wy         domain.WorkYear
		externalID uuid.UUID
	)
	if err := row.Scan(&externalID, &wy.StartDate, &wy.EndDate, &wy.CreatedAt, &wy.UpdatedAt); err != nil {
		return domain.WorkYear{}, err
	}
	wy.ID = domain.WorkYearID(externalID.String())
	return wy, nil
}

func nullableTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
