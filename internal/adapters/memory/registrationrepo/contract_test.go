package registrationrepo

import (
	"testing"

	"github.com/chiro-horizon/registration-api/internal/adapters/contracttest"
	"github.com/chiro-horizon/registration-api/internal/domain"
	registrationrepoport "github.com/chiro-horizon/registration-api/internal/ports/out/registrationrepo"
)

func TestContract_RegistrationRepo(t *testing.T) {
	contracttest.RunRegistrationRepo(t, func(t *testing.T) (registrationrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	}, domain.WorkYearID("wy-1"), domain.GroupID("g-1"))
}
