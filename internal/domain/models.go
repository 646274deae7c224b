package domain

import (
	"fmt"
	"strings"
	"time"
)

type Question struct {
	Question  string `json:"question"`
	TimeLimit int    `json:"timeLimit"`
	Category  string `json:"category"`
	Tips      string `json:"tips,omitempty"`
}

// Interview is the landlord-authored questionnaire a tenant answers on video.
type Interview struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	PropertyAddress string     `json:"propertyAddress"`
	LandlordName    string     `json:"landlordName"`
	LandlordEmail   string     `json:"landlordEmail"`
	ExpiryDate      string     `json:"expiryDate"`
	Questions       []Question `json:"questions"`
}

var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseExpiry accepts the formats a date or datetime-local input produces.
// Values without a zone are read as UTC.
func ParseExpiry(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range expiryLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid expiry date %q", value)
}

var QuestionCategories = []string{
	"General Introduction",
	"Living Habits",
	"Property Care",
	"Communication",
	"Financial Responsibility",
	"Emergency Situations",
	"Lifestyle & Preferences",
	"References & History",
}

// DefaultQuestions seeds a new questionnaire.
func DefaultQuestions() []Question {
	return []Question{
		{
			Question:  "Please introduce yourself and tell us why you're interested in this property.",
			TimeLimit: 120,
			Category:  "General Introduction",
			Tips:      "Be genuine and enthusiastic. Mention specific features of the property you like.",
		},
		{
			Question:  "How do you typically maintain and care for your living space?",
			TimeLimit: 90,
			Category:  "Property Care",
			Tips:      "Discuss your cleaning habits, how you handle maintenance issues, and respect for property.",
		},
		{
			Question:  "Describe your ideal living environment and daily routine.",
			TimeLimit: 90,
			Category:  "Living Habits",
			Tips:      "Talk about noise levels, guests, work schedule, and lifestyle preferences.",
		},
	}
}

type Tenant struct {
	ID                int      `json:"id"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Age               int      `json:"age"`
	Occupation        string   `json:"occupation"`
	Income            int      `json:"income"`
	PreferredLocation []string `json:"preferredLocation"`
	MaxBudget         int      `json:"maxBudget"`
	MinBedrooms       int      `json:"minBedrooms"`
	MinBathrooms      int      `json:"minBathrooms"`
	NeedsParking      bool     `json:"needsParking"`
	HasPets           bool     `json:"hasPets"`
	AvailableFrom     string   `json:"availableFrom"`
	TenantScore       int      `json:"tenantScore"`
	CreditScore       int      `json:"creditScore"`
	References        int      `json:"references"`
	PreviousRentals   int      `json:"previousRentals"`
	SmokingStatus     string   `json:"smokingStatus"`
	EmploymentStatus  string   `json:"employmentStatus"`
	PreferredLease    string   `json:"preferredLease"`
	Notes             string   `json:"notes"`
	MatchScore        int      `json:"matchScore"`
}

type Listing struct {
	ID            int      `json:"id"`
	Country       string   `json:"country"`
	Region        string   `json:"region"`
	District      string   `json:"district"`
	Suburb        string   `json:"suburb"`
	Address       string   `json:"address"`
	Postcode      string   `json:"postcode"`
	ApartmentCode string   `json:"apartmentCode,omitempty"`
	PropertyType  string   `json:"propertyType"`
	PricePerWeek  int      `json:"pricePerWeek"`
	BondAmount    int      `json:"bondAmount"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	CarSpaces     int      `json:"carSpaces"`
	PetsAllowed   bool     `json:"petsAllowed"`
	AvailableFrom string   `json:"availableFrom"`
	Features      []string `json:"features"`
	Score         int      `json:"score"`
}

// PropertyOffer is what a landlord enters to find tenants for a property.
type PropertyOffer struct {
	Country       string `json:"country"`
	Region        string `json:"region"`
	District      string `json:"district"`
	Suburb        string `json:"suburb"`
	Address       string `json:"address"`
	Postcode      string `json:"postcode"`
	ApartmentCode string `json:"apartmentCode,omitempty"`
	PropertyType  string `json:"propertyType"`
	PricePerWeek  int    `json:"pricePerWeek"`
	BondAmount    int    `json:"bondAmount"`
	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	CarSpaces     int    `json:"carSpaces"`
	PetsAllowed   bool   `json:"petsAllowed"`
	AvailableFrom string `json:"availableFrom"`
	Features      string `json:"features,omitempty"`
	Description   string `json:"description,omitempty"`
}

// PropertyCriteria is one wanted-property entry of a recommendation search.
type PropertyCriteria struct {
	Country      string `json:"country"`
	Region       string `json:"region"`
	District     string `json:"district,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	PropertyType string `json:"propertyType"`
	MinPrice     int    `json:"minPrice"`
	MaxPrice     int    `json:"maxPrice"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	CarSpaces    int    `json:"carSpaces"`
	PetsAllowed  bool   `json:"petsAllowed"`
}

type RecommendationSearch struct {
	Properties []PropertyCriteria `json:"properties"`
	Priorities []string           `json:"priorities"`
}

var PriorityOptions = []string{
	"location",
	"price",
	"bedrooms",
	"bathrooms",
	"carSpaces",
	"propertyType",
	"petsAllowed",
}

type PreviousLandlord struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	ResidencyPeriod string `json:"residencyPeriod"`
	AllowContact    bool   `json:"allowContact"`
}

type TenantVerification struct {
	FirstName           string             `json:"firstName"`
	MiddleName          string             `json:"middleName,omitempty"`
	LastName            string             `json:"lastName"`
	PreferredName       string             `json:"preferredName,omitempty"`
	IsOver18            bool               `json:"isOver18"`
	PreviousLandlords   []PreviousLandlord `json:"previousLandlords"`
	AllowCriminalCheck  bool               `json:"allowCriminalCheck"`
	AllowCreditCheck    bool               `json:"allowCreditCheck"`
	AllowIDVerification bool               `json:"allowIdVerification"`
}

// FullName joins the name parts, skipping an empty middle name.
func (v TenantVerification) FullName() string {
	parts := []string{v.FirstName, v.MiddleName, v.LastName}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Report describes a generated verification PDF kept on disk.
type Report struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName"`
	Path      string `json:"-"`
	CreatedAt int64  `json:"createdAt"`
}
