package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tenantdesk/internal/domain"
)

func listingMatches(l domain.Listing, c domain.PropertyCriteria) bool {
	matchesCountry := c.Country == "" || containsFold(l.Country, c.Country)
	matchesRegion := c.Region == "" || containsFold(l.Region, c.Region)
	matchesType := c.PropertyType == "" || l.PropertyType == c.PropertyType
	matchesPrice := l.PricePerWeek >= c.MinPrice && l.PricePerWeek <= c.MaxPrice
	matchesBedrooms := l.Bedrooms >= c.Bedrooms
	matchesBathrooms := l.Bathrooms >= c.Bathrooms
	matchesCarSpaces := l.CarSpaces >= c.CarSpaces
	matchesPets := !c.PetsAllowed || l.PetsAllowed

	return matchesCountry &&
		matchesRegion &&
		matchesType &&
		matchesPrice &&
		matchesBedrooms &&
		matchesBathrooms &&
		matchesCarSpaces &&
		matchesPets
}

// RecommendProperties returns listings satisfying at least one of the
// requested criteria, highest score first. Priorities are accepted for
// display only and do not affect ordering.
func (s *Searcher) RecommendProperties(ctx context.Context, search domain.RecommendationSearch) ([]domain.Listing, error) {
	listings, err := s.listings.Listings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	results := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		for _, c := range search.Properties {
			if listingMatches(l, c) {
				results = append(results, l)
				break
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
