package eligibility

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// ErrMalformedCatalog indicates a group catalog with an impossible age range.
// That is a configuration bug, not a registrant problem, so it surfaces as an
// error rather than an empty match list.
var ErrMalformedCatalog = errors.New("malformed group catalog")

// FindEligibleGroups resolves which groups a registrant born on birth with
// the given gender qualifies for, as of asOf. A group matches iff it is
// active, its gender constraint admits the registrant, and the age in days
// falls in [MinimumAgeDays, MaximumAgeDays) with a nil maximum unbounded.
//
// Zero matches and multiple matches are both valid results: the caller
// decides whether to auto-select, prompt, or report "no group". Matches are
// ordered by ascending minimum age, with name and ID as tie-breaks so the
// ordering is stable for identical inputs.
func FindEligibleGroups(birth time.Time, gender domain.Gender, groups []domain.Group, asOf time.Time) ([]domain.Group, error) {
	days, err := AgeInDays(birth, asOf)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Group, 0, len(groups))
	for _, g := range groups {
		if g.MinimumAgeDays < 0 {
			return nil, fmt.Errorf("%w: group %q has negative minimum age", ErrMalformedCatalog, g.Name)
		}
		if g.MaximumAgeDays != nil && *g.MaximumAgeDays <= g.MinimumAgeDays {
			return nil, fmt.Errorf("%w: group %q has maximum age at or below minimum", ErrMalformedCatalog, g.Name)
		}
		if !g.IsActive {
			continue
		}
		if !g.Gender.Admits(gender) {
			continue
		}
		if days < g.MinimumAgeDays {
			continue
		}
		if g.MaximumAgeDays != nil && days >= *g.MaximumAgeDays {
			continue
		}
		matches = append(matches, g)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MinimumAgeDays != matches[j].MinimumAgeDays {
			return matches[i].MinimumAgeDays < matches[j].MinimumAgeDays
		}
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}
