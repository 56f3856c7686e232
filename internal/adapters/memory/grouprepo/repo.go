package grouprepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/ports/out/grouprepo"
)

// Repo is an in-memory implementation of grouprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.GroupID]domain.Group
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.GroupID]domain.Group)}
}

func (r *Repo) Create(ctx context.Context, g domain.Group) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[g.ID]; ok {
		return grouprepo.ErrAlreadyExists
	}
	for _, existing := range r.byID {
		if existing.WorkYearID == g.WorkYearID && strings.EqualFold(existing.Name, g.Name) {
			return grouprepo.ErrNameAlreadyUsed
		}
	}
	r.byID[g.ID] = cloneGroup(g)
	return nil
}

func (r *Repo) Update(ctx context.Context, g domain.Group) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[g.ID]; !ok {
		return grouprepo.ErrNotFound
	}
	for _, existing := range r.byID {
		if existing.ID != g.ID && existing.WorkYearID == g.WorkYearID && strings.EqualFold(existing.Name, g.Name) {
			return grouprepo.ErrNameAlreadyUsed
		}
	}
	r.byID[g.ID] = cloneGroup(g)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.GroupID) (domain.Group, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[id]
	if !ok {
		return domain.Group{}, grouprepo.ErrNotFound
	}
	return cloneGroup(g), nil
}

func (r *Repo) ListByWorkYear(ctx context.Context, workYearID domain.WorkYearID, includeInactive bool) ([]domain.Group, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Group, 0)
	for _, g := range r.byID {
		if g.WorkYearID != workYearID {
			continue
		}
		if !includeInactive && !g.IsActive {
			continue
		}
		out = append(out, cloneGroup(g))
	}
	sortGroups(out)
	return out, nil
}

func sortGroups(gs []domain.Group) {
	sort.Slice(gs, func(i, j int) bool {
		if gs[i].MinimumAgeDays != gs[j].MinimumAgeDays {
			return gs[i].MinimumAgeDays < gs[j].MinimumAgeDays
		}
		if gs[i].Name != gs[j].Name {
			return gs[i].Name < gs[j].Name
		}
		return gs[i].ID < gs[j].ID
	})
}

func cloneGroup(g domain.Group) domain.Group {
	out := g
	if g.MaximumAgeDays != nil {
		v := *g.MaximumAgeDays
		out.MaximumAgeDays = &v
	}
	return out
}
