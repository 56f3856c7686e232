package workyearrepo

import (
	"testing"

	"github.com/chiro-horizon/registration-api/internal/adapters/contracttest"
	"github.com/chiro-horizon/registration-api/internal/adapters/postgres/testutil"
	workyearrepoport "github.com/chiro-horizon/registration-api/internal/ports/out/workyearrepo"
)

func TestContract_PostgresWorkYearRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunWorkYearRepo(t, func(t *testing.T) (workyearrepoport.Repository, func()) {
		t.Helper()
		testutil.ResetTables(t, pool)
		return NewRepo(pool), nil
	})
}
