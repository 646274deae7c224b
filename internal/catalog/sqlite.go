package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"tenantdesk/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id INTEGER PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	age INTEGER NOT NULL,
	occupation TEXT NOT NULL,
	income INTEGER NOT NULL,
	preferred_location TEXT NOT NULL,
	max_budget INTEGER NOT NULL,
	min_bedrooms INTEGER NOT NULL,
	min_bathrooms INTEGER NOT NULL,
	needs_parking INTEGER NOT NULL,
	has_pets INTEGER NOT NULL,
	available_from TEXT NOT NULL,
	tenant_score INTEGER NOT NULL,
	credit_score INTEGER NOT NULL,
	reference_count INTEGER NOT NULL,
	previous_rentals INTEGER NOT NULL,
	smoking_status TEXT NOT NULL,
	employment_status TEXT NOT NULL,
	preferred_lease TEXT NOT NULL,
	notes TEXT NOT NULL,
	match_score INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS listings (
	id INTEGER PRIMARY KEY,
	country TEXT NOT NULL,
	region TEXT NOT NULL,
	district TEXT NOT NULL,
	suburb TEXT NOT NULL,
	address TEXT NOT NULL,
	postcode TEXT NOT NULL,
	apartment_code TEXT NOT NULL DEFAULT '',
	property_type TEXT NOT NULL,
	price_per_week INTEGER NOT NULL,
	bond_amount INTEGER NOT NULL,
	bedrooms INTEGER NOT NULL,
	bathrooms INTEGER NOT NULL,
	car_spaces INTEGER NOT NULL,
	pets_allowed INTEGER NOT NULL,
	available_from TEXT NOT NULL,
	features TEXT NOT NULL,
	score INTEGER NOT NULL
);`

// SQLite serves catalog records from a database, seeded with the sample
// fixtures the first time it is opened.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}

	c := &SQLite{db: db}
	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := c.seed(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLite) Close() error {
	return c.db.Close()
}

func (c *SQLite) migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	return nil
}

func (c *SQLite) seed(ctx context.Context) error {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&count); err != nil {
		return fmt.Errorf("count tenants: %w", err)
	}
	if count > 0 {
		return nil
	}

	tenants, listings, err := SampleRecords()
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tenants {
		if err := insertTenant(ctx, tx, t); err != nil {
			return err
		}
	}
	for _, l := range listings {
		if err := insertListing(ctx, tx, l); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func insertTenant(ctx context.Context, tx *sql.Tx, t domain.Tenant) error {
	locations, err := json.Marshal(t.PreferredLocation)
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO tenants (
		id, first_name, last_name, email, phone, age, occupation, income, preferred_location,
		max_budget, min_bedrooms, min_bathrooms, needs_parking, has_pets, available_from,
		tenant_score, credit_score, reference_count, previous_rentals, smoking_status,
		employment_status, preferred_lease, notes, match_score
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.FirstName, t.LastName, t.Email, t.Phone, t.Age, t.Occupation, t.Income, string(locations),
		t.MaxBudget, t.MinBedrooms, t.MinBathrooms, t.NeedsParking, t.HasPets, t.AvailableFrom,
		t.TenantScore, t.CreditScore, t.References, t.PreviousRentals, t.SmokingStatus,
		t.EmploymentStatus, t.PreferredLease, t.Notes, t.MatchScore,
	)
	if err != nil {
		return fmt.Errorf("insert tenant %d: %w", t.ID, err)
	}
	return nil
}

func insertListing(ctx context.Context, tx *sql.Tx, l domain.Listing) error {
	features, err := json.Marshal(l.Features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO listings (
		id, country, region, district, suburb, address, postcode, apartment_code, property_type,
		price_per_week, bond_amount, bedrooms, bathrooms, car_spaces, pets_allowed,
		available_from, features, score
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Country, l.Region, l.District, l.Suburb, l.Address, l.Postcode, l.ApartmentCode, l.PropertyType,
		l.PricePerWeek, l.BondAmount, l.Bedrooms, l.Bathrooms, l.CarSpaces, l.PetsAllowed,
		l.AvailableFrom, string(features), l.Score,
	)
	if err != nil {
		return fmt.Errorf("insert listing %d: %w", l.ID, err)
	}
	return nil
}

func (c *SQLite) Tenants(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT
		id, first_name, last_name, email, phone, age, occupation, income, preferred_location,
		max_budget, min_bedrooms, min_bathrooms, needs_parking, has_pets, available_from,
		tenant_score, credit_score, reference_count, previous_rentals, smoking_status,
		employment_status, preferred_lease, notes, match_score
	FROM tenants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		var locations string
		if err := rows.Scan(
			&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Age, &t.Occupation, &t.Income, &locations,
			&t.MaxBudget, &t.MinBedrooms, &t.MinBathrooms, &t.NeedsParking, &t.HasPets, &t.AvailableFrom,
			&t.TenantScore, &t.CreditScore, &t.References, &t.PreviousRentals, &t.SmokingStatus,
			&t.EmploymentStatus, &t.PreferredLease, &t.Notes, &t.MatchScore,
		); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		if err := json.Unmarshal([]byte(locations), &t.PreferredLocation); err != nil {
			return nil, fmt.Errorf("decode locations for tenant %d: %w", t.ID, err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return tenants, nil
}

func (c *SQLite) Listings(ctx context.Context) ([]domain.Listing, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT
		id, country, region, district, suburb, address, postcode, apartment_code, property_type,
		price_per_week, bond_amount, bedrooms, bathrooms, car_spaces, pets_allowed,
		available_from, features, score
	FROM listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var features string
		if err := rows.Scan(
			&l.ID, &l.Country, &l.Region, &l.District, &l.Suburb, &l.Address, &l.Postcode, &l.ApartmentCode, &l.PropertyType,
			&l.PricePerWeek, &l.BondAmount, &l.Bedrooms, &l.Bathrooms, &l.CarSpaces, &l.PetsAllowed,
			&l.AvailableFrom, &features, &l.Score,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &l.Features); err != nil {
			return nil, fmt.Errorf("decode features for listing %d: %w", l.ID, err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}
