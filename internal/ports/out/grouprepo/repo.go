package grouprepo

import (
	"context"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// Repository provides access to the group catalog.
//
// Result ordering expectations:
// - ListByWorkYear returns groups ordered by MinimumAgeDays ascending (name,
//   then ID as tie-breaks) so eligibility results are deterministic.
type Repository interface {
	Create(ctx context.Context, g domain.Group) error
	Update(ctx context.Context, g domain.Group) error

	GetByID(ctx context.Context, id domain.GroupID) (domain.Group, error)

	ListByWorkYear(ctx context.Context, workYearID domain.WorkYearID, includeInactive bool) ([]domain.Group, error)
}
