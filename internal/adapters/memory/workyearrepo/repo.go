package workyearrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/ports/out/workyearrepo"
)

// Repo is an in-memory implementation of workyearrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.WorkYearID]domain.WorkYear
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.WorkYearID]domain.WorkYear)}
}

func (r *Repo) Create(ctx context.Context, wy domain.WorkYear) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[wy.ID]; ok {
		return workyearrepo.ErrAlreadyExists
	}
	if wy.EndDate == nil {
		for _, existing := range r.byID {
			if existing.EndDate == nil {
				return workyearrepo.ErrCurrentExists
			}
		}
	}
	r.byID[wy.ID] = cloneWorkYear(wy)
	return nil
}

func (r *Repo) Update(ctx context.Context, wy domain.WorkYear) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[wy.ID]; !ok {
		return workyearrepo.ErrNotFound
	}
	if wy.EndDate == nil {
		for id, existing := range r.byID {
			if id != wy.ID && existing.EndDate == nil {
				return workyearrepo.ErrCurrentExists
			}
		}
	}
	r.byID[wy.ID] = cloneWorkYear(wy)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.WorkYearID) (domain.WorkYear, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	wy, ok := r.byID[id]
	if !ok {
		return domain.WorkYear{}, workyearrepo.ErrNotFound
	}
	return cloneWorkYear(wy), nil
}

func (r *Repo) Current(ctx context.Context) (domain.WorkYear, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, wy := range r.byID {
		if wy.EndDate == nil {
			return cloneWorkYear(wy), nil
		}
	}
	return domain.WorkYear{}, workyearrepo.ErrNoCurrent
}

func (r *Repo) List(ctx context.Context) ([]domain.WorkYear, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.WorkYear, 0, len(r.byID))
	for _, wy := range r.byID {
		out = append(out, cloneWorkYear(wy))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneWorkYear(wy domain.WorkYear) domain.WorkYear {
	out := wy
	if wy.EndDate != nil {
		v := *wy.EndDate
		out.EndDate = &v
	}
	return out
}
