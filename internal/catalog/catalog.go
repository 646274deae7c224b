// Package catalog serves the sample tenant and listing records the search
// screens run against.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"tenantdesk/internal/domain"
)

//go:embed fixtures/*.json
var fixtures embed.FS

type TenantSource interface {
	Tenants(ctx context.Context) ([]domain.Tenant, error)
}

type ListingSource interface {
	Listings(ctx context.Context) ([]domain.Listing, error)
}

// Memory is a read-only source backed by fixed slices. Every call returns a
// fresh copy so callers may sort or mutate results freely.
type Memory struct {
	tenants  []domain.Tenant
	listings []domain.Listing
}

func NewMemory(tenants []domain.Tenant, listings []domain.Listing) *Memory {
	return &Memory{tenants: tenants, listings: listings}
}

// NewSampleMemory loads the bundled sample records.
func NewSampleMemory() (*Memory, error) {
	tenants, listings, err := SampleRecords()
	if err != nil {
		return nil, err
	}
	return NewMemory(tenants, listings), nil
}

func (m *Memory) Tenants(ctx context.Context) ([]domain.Tenant, error) {
	out := make([]domain.Tenant, len(m.tenants))
	for i, t := range m.tenants {
		t.PreferredLocation = append([]string(nil), t.PreferredLocation...)
		out[i] = t
	}
	return out, nil
}

func (m *Memory) Listings(ctx context.Context) ([]domain.Listing, error) {
	out := make([]domain.Listing, len(m.listings))
	for i, l := range m.listings {
		l.Features = append([]string(nil), l.Features...)
		out[i] = l
	}
	return out, nil
}

// SampleRecords decodes the bundled fixtures.
func SampleRecords() ([]domain.Tenant, []domain.Listing, error) {
	var tenants []domain.Tenant
	if err := decodeFixture("fixtures/tenants.json", &tenants); err != nil {
		return nil, nil, err
	}

	var listings []domain.Listing
	if err := decodeFixture("fixtures/listings.json", &listings); err != nil {
		return nil, nil, err
	}

	return tenants, listings, nil
}

func decodeFixture(name string, out any) error {
	raw, err := fixtures.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}
