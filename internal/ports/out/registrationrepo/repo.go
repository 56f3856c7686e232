package registrationrepo

import (
	"context"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// Repository persists submitted registrations.
//
// Result ordering expectations:
// - List methods return registrations ordered by the member's last name, then
//   first name, then ID, to keep staff listings deterministic.
type Repository interface {
	Create(ctx context.Context, r domain.Registration) error
	Update(ctx context.Context, r domain.Registration) error

	GetByID(ctx context.Context, id domain.RegistrationID) (domain.Registration, error)

	ListByWorkYear(ctx context.Context, workYearID domain.WorkYearID) ([]domain.Registration, error)
	ListByGroup(ctx context.Context, groupID domain.GroupID) ([]domain.Registration, error)
}
