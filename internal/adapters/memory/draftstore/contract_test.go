package draftstore

import (
	"testing"

	"github.com/chiro-horizon/registration-api/internal/adapters/contracttest"
	draftstoreport "github.com/chiro-horizon/registration-api/internal/ports/out/draftstore"
)

func TestContract_DraftStore(t *testing.T) {
	contracttest.RunDraftStore(t, func(t *testing.T) (draftstoreport.Store, func()) {
		t.Helper()
		return NewStore(), nil
	})
}
