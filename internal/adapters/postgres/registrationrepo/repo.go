package registrationrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chiro-horizon/registration-api/internal/adapters/postgres"
	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/ports/out/registrationrepo"
)

// Repo is a Postgres implementation of registrationrepo.Repository. The
// member's identifying fields are relational columns; the nested sections
// (parents, medical sheet, conditions) are stored as JSONB documents since
// staff screens always read a registration whole.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// sections is the JSONB document holding everything but the member columns.
type sections struct {
	Parents          []domain.Parent         `json:"parents"`
	EmergencyContact domain.EmergencyContact `json:"emergencyContact"`
	Medical          domain.MedicalHistory   `json:"medical"`
	Conditions       []domain.Condition      `json:"conditions"`
	Doctor           domain.Doctor           `json:"doctor"`
	Payment          domain.Payment          `json:"payment"`
}

func (r *Repo) Create(ctx context.Context, reg domain.Registration) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(reg.ID))
	if err != nil {
		return fmt.Errorf("invalid registration id: %w", err)
	}
	doc, err := marshalSections(reg)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO registrations (
			external_id,
			work_year_id,
			group_id,
			first_name,
			last_name,
			gender,
			date_of_birth,
			email,
			phone,
			photo_consent,
			sections,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		id,
		string(reg.WorkYearID),
		groupIDValue(reg.GroupID),
		reg.Member.FirstName,
		reg.Member.LastName,
		string(reg.Member.Gender),
		reg.Member.DateOfBirth.UTC(),
		reg.Member.Email,
		reg.Member.Phone,
		reg.Member.PhotoConsent,
		doc,
		reg.CreatedAt.UTC(),
		reg.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode && pe.ConstraintName == "registrations_external_id_unique" {
			return registrationrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, reg domain.Registration) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(reg.ID))
	if err != nil {
		return fmt.Errorf("invalid registration id: %w", err)
	}
	doc, err := marshalSections(reg)
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE registrations
		SET group_id = $2,
		    first_name = $3,
		    last_name = $4,
		    gender = $5,
		    date_of_birth = $6,
		    email = $7,
		    phone = $8,
		    photo_consent = $9,
		    sections = $10,
		    updated_at = $11
		WHERE external_id = $1
	`,
		id,
		groupIDValue(reg.GroupID),
		reg.Member.FirstName,
		reg.Member.LastName,
		string(reg.Member.Gender),
		reg.Member.DateOfBirth.UTC(),
		reg.Member.Email,
		reg.Member.Phone,
		reg.Member.PhotoConsent,
		doc,
		reg.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return registrationrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RegistrationID) (domain.Registration, error) {
	if r.pool == nil {
		return domain.Registration{}, errors.New("nil postgres pool")
	}
	rid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Registration{}, fmt.Errorf("invalid registration id: %w", err)
	}

	row := r.pool.QueryRow(ctx, selectColumns+` WHERE external_id = $1`, rid)
	reg, err := scanRegistration(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Registration{}, registrationrepo.ErrNotFound
	}
	return reg, err
}

func (r *Repo) ListByWorkYear(ctx context.Context, workYearID domain.WorkYearID) ([]domain.Registration, error) {
	return r.list(ctx, selectColumns+` WHERE work_year_id = $1`+orderClause, string(workYearID))
}

func (r *Repo) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]domain.Registration, error) {
	return r.list(ctx, selectColumns+` WHERE group_id = $1`+orderClause, string(groupID))
}

const selectColumns = `
	SELECT external_id, work_year_id, group_id, first_name, last_name, gender,
	       date_of_birth, email, phone, photo_consent, sections, created_at, updated_at
	FROM registrations`

const orderClause = ` ORDER BY lower(last_name) ASC, lower(first_name) ASC, external_id ASC`

func (r *Repo) list(ctx context.Context, query string, arg any) ([]domain.Registration, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func scanRegistration(row pgx.Row) (domain.Registration, error) {
	var (
		reg        domain.Registration
		externalID uuid.UUID
		workYearID string
		groupID    *string
		gender     string
		doc        []byte
	)
	if err := row.Scan(
		&externalID,
		&workYearID,
		&groupID,
		&reg.Member.FirstName,
		&reg.Member.LastName,
		&gender,
		&reg.Member.DateOfBirth,
		&reg.Member.Email,
		&reg.Member.Phone,
		&reg.Member.PhotoConsent,
		&doc,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		return domain.Registration{}, err
	}
	reg.ID = domain.RegistrationID(externalID.String())
	reg.WorkYearID = domain.WorkYearID(workYearID)
	if groupID != nil {
		gid := domain.GroupID(*groupID)
		reg.GroupID = &gid
	}
	reg.Member.Gender = domain.Gender(gender)

	var s sections
	if err := json.Unmarshal(doc, &s); err != nil {
		return domain.Registration{}, fmt.Errorf("decode registration sections: %w", err)
	}
	reg.Parents = s.Parents
	reg.EmergencyContact = s.EmergencyContact
	reg.Medical = s.Medical
	reg.Conditions = s.Conditions
	reg.Doctor = s.Doctor
	reg.Payment = s.Payment
	return reg, nil
}

func marshalSections(reg domain.Registration) ([]byte, error) {
	doc, err := json.Marshal(sections{
		Parents:          reg.Parents,
		EmergencyContact: reg.EmergencyContact,
		Medical:          reg.Medical,
		Conditions:       reg.Conditions,
		Doctor:           reg.Doctor,
		Payment:          reg.Payment,
	})
	if err != nil {
		return nil, fmt.Errorf("encode registration sections: %w", err)
	}
	return doc, nil
}

func groupIDValue(id *domain.GroupID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}
