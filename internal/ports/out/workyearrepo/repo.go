package workyearrepo

import (
	"context"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// Repository provides access to work-year records. At most one work year is
// current (has no end date) at any time; adapters enforce that on Create.
type Repository interface {
	Create(ctx context.Context, wy domain.WorkYear) error
	Update(ctx context.Context, wy domain.WorkYear) error

	GetByID(ctx context.Context, id domain.WorkYearID) (domain.WorkYear, error)

	// Current returns the open work year, or ErrNoCurrent when every year is
	// closed.
	Current(ctx context.Context) (domain.WorkYear, error)

	// List returns all work years ordered by StartDate descending.
	List(ctx context.Context) ([]domain.WorkYear, error)
}
