package catalog

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSampleRecords(t *testing.T) {
	tenants, listings, err := SampleRecords()
	if err != nil {
		t.Fatalf("sample records: %v", err)
	}
	if len(tenants) != 5 || len(listings) != 5 {
		t.Fatalf("expected 5 tenants and 5 listings, got %d and %d", len(tenants), len(listings))
	}
	if tenants[0].FirstName != "Sarah" || tenants[0].MatchScore != 92 {
		t.Fatalf("unexpected first tenant %+v", tenants[0])
	}
	if listings[0].ApartmentCode != "12A" || listings[1].ApartmentCode != "" {
		t.Fatalf("unexpected apartment codes %q %q", listings[0].ApartmentCode, listings[1].ApartmentCode)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	mem, err := NewSampleMemory()
	if err != nil {
		t.Fatalf("memory: %v", err)
	}

	first, _ := mem.Tenants(context.Background())
	first[0].PreferredLocation[0] = "Mutated"
	first[0].MatchScore = 0

	second, _ := mem.Tenants(context.Background())
	if second[0].PreferredLocation[0] != "Richmond" || second[0].MatchScore != 92 {
		t.Fatalf("memory source leaked caller mutation: %+v", second[0])
	}
}

func TestSQLiteMatchesSampleRecords(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "catalog.db")

	db, err := OpenSQLite(ctx, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	wantTenants, wantListings, err := SampleRecords()
	if err != nil {
		t.Fatalf("sample records: %v", err)
	}

	tenants, err := db.Tenants(ctx)
	if err != nil {
		t.Fatalf("tenants: %v", err)
	}
	if !reflect.DeepEqual(tenants, wantTenants) {
		t.Fatalf("tenants differ from fixtures:\n got %+v\nwant %+v", tenants, wantTenants)
	}

	listings, err := db.Listings(ctx)
	if err != nil {
		t.Fatalf("listings: %v", err)
	}
	if !reflect.DeepEqual(listings, wantListings) {
		t.Fatalf("listings differ from fixtures:\n got %+v\nwant %+v", listings, wantListings)
	}
}

func TestSQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "catalog.db")

	first, err := OpenSQLite(ctx, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := OpenSQLite(ctx, dsn)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer second.Close()

	tenants, err := second.Tenants(ctx)
	if err != nil {
		t.Fatalf("tenants: %v", err)
	}
	if len(tenants) != 5 {
		t.Fatalf("expected seed to run once, got %d tenants", len(tenants))
	}
}
