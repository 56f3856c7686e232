package registrationrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/ports/out/registrationrepo"
)

// Repo is an in-memory implementation of registrationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.RegistrationID]domain.Registration
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.RegistrationID]domain.Registration)}
}

func (r *Repo) Create(ctx context.Context, reg domain.Registration) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[reg.ID]; ok {
		return registrationrepo.ErrAlreadyExists
	}
	r.byID[reg.ID] = cloneRegistration(reg)
	return nil
}

func (r *Repo) Update(ctx context.Context, reg domain.Registration) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[reg.ID]; !ok {
		return registrationrepo.ErrNotFound
	}
	r.byID[reg.ID] = cloneRegistration(reg)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RegistrationID) (domain.Registration, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byID[id]
	if !ok {
		return domain.Registration{}, registrationrepo.ErrNotFound
	}
	return cloneRegistration(reg), nil
}

func (r *Repo) ListByWorkYear(ctx context.Context, workYearID domain.WorkYearID) ([]domain.Registration, error) {
	_ = ctx
	return r.list(func(reg domain.Registration) bool { return reg.WorkYearID == workYearID }), nil
}

func (r *Repo) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]domain.Registration, error) {
	_ = ctx
	return r.list(func(reg domain.Registration) bool {
		return reg.GroupID != nil && *reg.GroupID == groupID
	}), nil
}

func (r *Repo) list(match func(domain.Registration) bool) []domain.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Registration, 0)
	for _, reg := range r.byID {
		if match(reg) {
			out = append(out, cloneRegistration(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].Member.LastName), strings.ToLower(out[j].Member.LastName)
		if li != lj {
			return li < lj
		}
		fi, fj := strings.ToLower(out[i].Member.FirstName), strings.ToLower(out[j].Member.FirstName)
		if fi != fj {
			return fi < fj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneRegistration(reg domain.Registration) domain.Registration {
	out := reg
	if reg.GroupID != nil {
		v := *reg.GroupID
		out.GroupID = &v
	}
	out.Member.Email = cloneStringPtr(reg.Member.Email)
	out.Member.Phone = cloneStringPtr(reg.Member.Phone)
	out.Parents = make([]domain.Parent, len(reg.Parents))
	for i, p := range reg.Parents {
		cp := p
		cp.Address.Box = cloneStringPtr(p.Address.Box)
		out.Parents[i] = cp
	}
	out.Conditions = append([]domain.Condition(nil), reg.Conditions...)
	if reg.Medical.TetanusVaccineYear != nil {
		v := *reg.Medical.TetanusVaccineYear
		out.Medical.TetanusVaccineYear = &v
	}
	if reg.Payment.Method != nil {
		v := *reg.Payment.Method
		out.Payment.Method = &v
	}
	if reg.Payment.Date != nil {
		v := *reg.Payment.Date
		out.Payment.Date = &v
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
