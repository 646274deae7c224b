package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MinQuestionSeconds = 30
	MaxQuestionSeconds = 300
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed, sorted by field path.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (q Question) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Question, validation.Required.Error("Question is required")),
		validation.Field(&q.TimeLimit,
			validation.Required.Error("Minimum 30 seconds"),
			validation.Min(MinQuestionSeconds).Error("Minimum 30 seconds"),
			validation.Max(MaxQuestionSeconds).Error("Maximum 5 minutes"),
		),
		validation.Field(&q.Category, validation.Required.Error("Category is required")),
	)
}

func (l PreviousLandlord) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Name, validation.Required.Error("Landlord name is required")),
		validation.Field(&l.Phone, validation.Required.Error("Phone number is required")),
		validation.Field(&l.Email, validation.Required.Error("Valid email is required"), is.EmailFormat.Error("Valid email is required")),
		validation.Field(&l.Address, validation.Required.Error("Address is required")),
		validation.Field(&l.ResidencyPeriod, validation.Required.Error("Residency period is required")),
	)
}

func (c PropertyCriteria) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Country, validation.Required.Error("Country is required")),
		validation.Field(&c.Region, validation.Required.Error("Region is required")),
		validation.Field(&c.PropertyType, validation.Required.Error("Property type is required")),
		validation.Field(&c.MinPrice, validation.Min(0).Error("Minimum price must be positive")),
		validation.Field(&c.MaxPrice, validation.Min(0).Error("Maximum price must be positive")),
		validation.Field(&c.Bedrooms, validation.Min(0).Error("Bedrooms must be 0 or more")),
		validation.Field(&c.Bathrooms, validation.Min(0).Error("Bathrooms must be 0 or more")),
		validation.Field(&c.CarSpaces, validation.Min(0).Error("Car spaces must be 0 or more")),
	)
}

// ValidateInterview checks a questionnaire before it is stored.
func ValidateInterview(in Interview) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("Title is required")),
		validation.Field(&in.Description, validation.Required.Error("Description is required")),
		validation.Field(&in.PropertyAddress, validation.Required.Error("Property address is required")),
		validation.Field(&in.LandlordName, validation.Required.Error("Landlord name is required")),
		validation.Field(&in.LandlordEmail, validation.Required.Error("Valid email is required"), is.EmailFormat.Error("Valid email is required")),
		validation.Field(&in.ExpiryDate,
			validation.Required.Error("Expiry date is required"),
			validation.By(func(value interface{}) error {
				if _, err := ParseExpiry(value.(string)); err != nil {
					return errors.New("Expiry date is invalid")
				}
				return nil
			}),
		),
		validation.Field(&in.Questions, validation.Required.Error("At least one question is required")),
	)
	return toValidationError(err)
}

// ValidatePropertyOffer checks the tenant matching form.
func ValidatePropertyOffer(p PropertyOffer) error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Country, validation.Required.Error("Country is required")),
		validation.Field(&p.Region, validation.Required.Error("Region is required")),
		validation.Field(&p.District, validation.Required.Error("District is required")),
		validation.Field(&p.Suburb, validation.Required.Error("Suburb is required")),
		validation.Field(&p.Address, validation.Required.Error("Address is required")),
		validation.Field(&p.Postcode, validation.Required.Error("Postcode is required")),
		validation.Field(&p.PropertyType, validation.Required.Error("Property type is required")),
		validation.Field(&p.PricePerWeek, validation.Required.Error("Price per week is required"), validation.Min(1).Error("Price per week is required")),
		validation.Field(&p.BondAmount, validation.Required.Error("Bond amount is required"), validation.Min(1).Error("Bond amount is required")),
		validation.Field(&p.Bedrooms, validation.Min(0).Error("Bedrooms must be 0 or more")),
		validation.Field(&p.Bathrooms, validation.Min(0).Error("Bathrooms must be 0 or more")),
		validation.Field(&p.CarSpaces, validation.Min(0).Error("Car spaces must be 0 or more")),
		validation.Field(&p.AvailableFrom, validation.Required.Error("Available date is required")),
	)
	return toValidationError(err)
}

// ValidateRecommendationSearch checks the property recommendation form.
func ValidateRecommendationSearch(s RecommendationSearch) error {
	options := make([]interface{}, 0, len(PriorityOptions))
	for _, opt := range PriorityOptions {
		options = append(options, opt)
	}

	err := validation.ValidateStruct(&s,
		validation.Field(&s.Properties, validation.Required.Error("At least one property is required")),
		validation.Field(&s.Priorities, validation.Each(validation.In(options...).Error("Unknown priority"))),
	)
	return toValidationError(err)
}

// ValidateTenantVerification checks the verification form before a report is produced.
func ValidateTenantVerification(v TenantVerification) error {
	err := validation.ValidateStruct(&v,
		validation.Field(&v.FirstName, validation.Required.Error("First name is required")),
		validation.Field(&v.LastName, validation.Required.Error("Last name is required")),
		validation.Field(&v.IsOver18, validation.Required.Error("Must be over 18 years old")),
		validation.Field(&v.PreviousLandlords),
	)
	return toValidationError(err)
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	out := &ValidationError{}
	flatten("", errs, out)
	sort.Slice(out.Fields, func(i, j int) bool { return out.Fields[i].Field < out.Fields[j].Field })
	return out
}

func flatten(prefix string, errs validation.Errors, out *ValidationError) {
	for key, fieldErr := range errs {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			flatten(path, nested, out)
			continue
		}
		out.Fields = append(out.Fields, FieldError{Field: path, Message: fieldErr.Error()})
	}
}
