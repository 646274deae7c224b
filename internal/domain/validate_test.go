package domain

import (
	"errors"
	"testing"
	"time"
)

func validInterview() Interview {
	return Interview{
		Title:           "Unit 4 interview",
		Description:     "Short video questionnaire",
		PropertyAddress: "123 Swan Street, Richmond",
		LandlordName:    "Jane Landlord",
		LandlordEmail:   "jane@example.com",
		ExpiryDate:      "2030-01-01",
		Questions:       DefaultQuestions(),
	}
}

func fieldSet(t *testing.T, err error) map[string]string {
	t.Helper()

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}

	out := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestValidateInterviewAcceptsValidForm(t *testing.T) {
	if err := ValidateInterview(validInterview()); err != nil {
		t.Fatalf("expected valid interview, got %v", err)
	}
}

func TestValidateInterviewReportsFieldErrors(t *testing.T) {
	in := validInterview()
	in.Title = ""
	in.LandlordEmail = "not-an-email"
	in.ExpiryDate = "next week"
	in.Questions = []Question{
		{Question: "Why here?", TimeLimit: 20, Category: "Communication"},
		{Question: "", TimeLimit: 600, Category: ""},
	}

	fields := fieldSet(t, ValidateInterview(in))

	expected := map[string]string{
		"title":                 "Title is required",
		"landlordEmail":         "Valid email is required",
		"expiryDate":            "Expiry date is invalid",
		"questions.0.timeLimit": "Minimum 30 seconds",
		"questions.1.question":  "Question is required",
		"questions.1.timeLimit": "Maximum 5 minutes",
		"questions.1.category":  "Category is required",
	}
	for field, msg := range expected {
		if fields[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, fields[field])
		}
	}
	if len(fields) != len(expected) {
		t.Errorf("expected %d field errors, got %v", len(expected), fields)
	}
}

func TestValidateInterviewRequiresQuestions(t *testing.T) {
	in := validInterview()
	in.Questions = nil

	fields := fieldSet(t, ValidateInterview(in))
	if fields["questions"] != "At least one question is required" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestValidateTenantVerification(t *testing.T) {
	v := TenantVerification{
		FirstName: "Sarah",
		LastName:  "Johnson",
		PreviousLandlords: []PreviousLandlord{
			{Name: "Bob", Phone: "0400", Email: "bob@", Address: "1 Road", ResidencyPeriod: "2y"},
		},
	}

	fields := fieldSet(t, ValidateTenantVerification(v))
	if fields["isOver18"] != "Must be over 18 years old" {
		t.Fatalf("expected over-18 error, got %v", fields)
	}
	if fields["previousLandlords.0.email"] != "Valid email is required" {
		t.Fatalf("expected landlord email error, got %v", fields)
	}

	v.IsOver18 = true
	v.PreviousLandlords[0].Email = "bob@example.com"
	if err := ValidateTenantVerification(v); err != nil {
		t.Fatalf("expected valid verification, got %v", err)
	}
}

func TestValidateRecommendationSearchRejectsUnknownPriority(t *testing.T) {
	s := RecommendationSearch{
		Properties: []PropertyCriteria{{Country: "Australia", Region: "Victoria", PropertyType: "apartment", MaxPrice: 600}},
		Priorities: []string{"location", "view"},
	}

	fields := fieldSet(t, ValidateRecommendationSearch(s))
	if fields["priorities.1"] != "Unknown priority" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestParseExpiry(t *testing.T) {
	cases := map[string]time.Time{
		"2024-05-01":                time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"2024-05-01T10:30":          time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		"2024-05-01T10:30:00+02:00": time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}
	for input, want := range cases {
		got, err := ParseExpiry(input)
		if err != nil {
			t.Fatalf("parse %s: %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parse %s: expected %s, got %s", input, want, got)
		}
	}

	if _, err := ParseExpiry("tomorrow"); err == nil {
		t.Fatalf("expected error for free text")
	}
}

func TestFullNameSkipsEmptyMiddle(t *testing.T) {
	v := TenantVerification{FirstName: "Emma", LastName: "Williams"}
	if v.FullName() != "Emma Williams" {
		t.Fatalf("unexpected full name %q", v.FullName())
	}
}
