package matching

import (
	"context"
	"fmt"
	"sort"

	"tenantdesk/internal/domain"
)

// Bonus points added to a tenant's match score for each predicate it meets.
const (
	locationBonus  = 30
	budgetBonus    = 25
	bedroomBonus   = 15
	bathroomBonus  = 10
	parkingBonus   = 10
	petBonus       = 10
	minimumResults = 3
)

type ScoredTenant struct {
	domain.Tenant
	Score   int      `json:"score"`
	Exact   bool     `json:"exact"`
	Matched []string `json:"matched"`
}

func scoreTenant(t domain.Tenant, offer domain.PropertyOffer) ScoredTenant {
	checks := checkTenant(t, offer)
	scored := ScoredTenant{Tenant: t, Score: t.MatchScore, Exact: checks.all(), Matched: []string{}}

	add := func(ok bool, name string, bonus int) {
		if ok {
			scored.Score += bonus
			scored.Matched = append(scored.Matched, name)
		}
	}
	add(checks.Location, "location", locationBonus)
	add(checks.Budget, "budget", budgetBonus)
	add(checks.Bedrooms, "bedrooms", bedroomBonus)
	add(checks.Bathrooms, "bathrooms", bathroomBonus)
	add(checks.Parking, "parking", parkingBonus)
	add(checks.Pets, "pets", petBonus)
	return scored
}

// ClosestTenants always shows something: exact matches first, topped up with
// the best partial matches until there are at least three results, or every
// tenant re-scored when nothing matches exactly.
func (s *Searcher) ClosestTenants(ctx context.Context, offer domain.PropertyOffer) ([]ScoredTenant, error) {
	tenants, err := s.tenants.Tenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}

	exact := make([]ScoredTenant, 0, len(tenants))
	partial := make([]ScoredTenant, 0, len(tenants))
	for _, t := range tenants {
		scored := scoreTenant(t, offer)
		if scored.Exact {
			exact = append(exact, scored)
		} else {
			partial = append(partial, scored)
		}
	}
	byScore(exact)
	byScore(partial)

	if len(exact) == 0 {
		return partial, nil
	}

	results := exact
	for _, p := range partial {
		if len(results) >= minimumResults {
			break
		}
		results = append(results, p)
	}
	return results, nil
}

func byScore(items []ScoredTenant) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}
