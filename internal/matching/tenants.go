// Package matching implements the landlord and tenant search screens as
// predicate filters over injected catalog sources.
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tenantdesk/internal/catalog"
	"tenantdesk/internal/domain"
)

type Searcher struct {
	tenants  catalog.TenantSource
	listings catalog.ListingSource
}

func NewSearcher(tenants catalog.TenantSource, listings catalog.ListingSource) *Searcher {
	return &Searcher{tenants: tenants, listings: listings}
}

// tenantChecks holds the outcome of each predicate for one tenant.
type tenantChecks struct {
	Location  bool
	Budget    bool
	Bedrooms  bool
	Bathrooms bool
	Parking   bool
	Pets      bool
}

func (c tenantChecks) all() bool {
	return c.Location && c.Budget && c.Bedrooms && c.Bathrooms && c.Parking && c.Pets
}

func checkTenant(t domain.Tenant, offer domain.PropertyOffer) tenantChecks {
	suburb := strings.ToLower(offer.Suburb)
	location := false
	for _, loc := range t.PreferredLocation {
		if strings.Contains(strings.ToLower(loc), suburb) {
			location = true
			break
		}
	}

	return tenantChecks{
		Location:  location,
		Budget:    t.MaxBudget >= offer.PricePerWeek,
		Bedrooms:  t.MinBedrooms <= offer.Bedrooms,
		Bathrooms: t.MinBathrooms <= offer.Bathrooms,
		Parking:   !t.NeedsParking || offer.CarSpaces > 0,
		Pets:      !t.HasPets || offer.PetsAllowed,
	}
}

// MatchTenants returns the tenants satisfying every predicate, best match
// score first.
func (s *Searcher) MatchTenants(ctx context.Context, offer domain.PropertyOffer) ([]domain.Tenant, error) {
	tenants, err := s.tenants.Tenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}

	matched := make([]domain.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if checkTenant(t, offer).all() {
			matched = append(matched, t)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})
	return matched, nil
}
